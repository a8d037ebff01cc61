package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/flemzord/ollagate/internal/config"
)

// initCmd scaffolds a configuration file interactively.
func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create a configuration file interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := "ollagate.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}

			defaults := config.Default()
			bind := defaults.Bind
			baseURL := defaults.Backend.BaseURL
			model := defaults.Backend.DefaultModel
			probeEnabled := true

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Bind address").
						Description("Address the gateway listens on").
						Value(&bind),
					huh.NewInput().
						Title("Ollama base URL").
						Description("Inference server the gateway fronts").
						Value(&baseURL),
					huh.NewInput().
						Title("Default model").
						Description("Used when a request names no model").
						Value(&model),
					huh.NewConfirm().
						Title("Enable periodic backend probe?").
						Value(&probeEnabled),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}

			content := fmt.Sprintf(`bind: %s

backend:
  base_url: %s
  default_model: %s

log:
  level: info
  format: text

probe:
  enabled: %t
  schedule: "* * * * *"
`, bind, baseURL, model, probeEnabled)

			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}
	return cmd
}
