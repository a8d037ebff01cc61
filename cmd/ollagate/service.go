package main

import (
	"fmt"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"

	"github.com/flemzord/ollagate/internal/config"
)

// program adapts the gateway to the system service manager.
type program struct {
	cfg  *config.Config
	done chan error
}

// Start implements service.Interface. Must not block.
func (p *program) Start(service.Service) error {
	p.done = make(chan error, 1)
	go func() {
		p.done <- runServe(p.cfg)
	}()
	return nil
}

// Stop implements service.Interface. runServe exits on SIGTERM, which
// the service manager sends before calling Stop.
func (p *program) Stop(service.Service) error {
	return nil
}

func newService(cfgPath string) (service.Service, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	svcConfig := &service.Config{
		Name:        "ollagate",
		DisplayName: "ollagate chat gateway",
		Description: "Chat gateway for local LLM inference servers",
		Arguments:   []string{"service", "run"},
	}
	if cfgPath != "" {
		svcConfig.Arguments = append(svcConfig.Arguments, "--config", cfgPath)
	}

	return service.New(&program{cfg: cfg}, svcConfig)
}

func serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Run or manage the gateway as a system service",
	}
	cmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file")

	run := &cobra.Command{
		Use:   "run",
		Short: "Run under the service manager",
		RunE: func(c *cobra.Command, _ []string) error {
			cfgPath, _ := c.Flags().GetString("config")
			svc, err := newService(cfgPath)
			if err != nil {
				return err
			}
			return svc.Run()
		},
	}
	cmd.AddCommand(run)

	for _, action := range []string{"install", "uninstall", "start", "stop"} {
		action := action
		cmd.AddCommand(&cobra.Command{
			Use:   action,
			Short: fmt.Sprintf("%s the system service", action),
			RunE: func(c *cobra.Command, _ []string) error {
				cfgPath, _ := c.Flags().GetString("config")
				svc, err := newService(cfgPath)
				if err != nil {
					return err
				}
				if err := service.Control(svc, action); err != nil {
					return fmt.Errorf("service %s: %w", action, err)
				}
				fmt.Printf("Service %s: ok\n", action)
				return nil
			},
		})
	}

	return cmd
}
