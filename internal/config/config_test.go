package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/flemzord/ollagate/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ollagate.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}

	if cfg.Bind != "127.0.0.1:8080" {
		t.Errorf("Bind = %q", cfg.Bind)
	}
	if cfg.Backend.BaseURL != "http://127.0.0.1:11434" {
		t.Errorf("Backend.BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.DefaultModel != "phi4-mini:latest" {
		t.Errorf("Backend.DefaultModel = %q", cfg.Backend.DefaultModel)
	}
	if cfg.Backend.ChatTimeout != 60*time.Second {
		t.Errorf("Backend.ChatTimeout = %v", cfg.Backend.ChatTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate on defaults: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
bind: 0.0.0.0:9090
backend:
  base_url: http://gpu-box:11434/
  default_model: llama3:8b
log:
  level: debug
  format: json
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}

	if cfg.Bind != "0.0.0.0:9090" {
		t.Errorf("Bind = %q", cfg.Bind)
	}
	// Trailing slash is trimmed.
	if cfg.Backend.BaseURL != "http://gpu-box:11434" {
		t.Errorf("Backend.BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_OLLAGATE_MODEL", "mistral:7b")

	path := writeConfig(t, `
backend:
  default_model: ${TEST_OLLAGATE_MODEL}
  base_url: ${TEST_OLLAGATE_URL:-http://fallback:11434}
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if cfg.Backend.DefaultModel != "mistral:7b" {
		t.Errorf("DefaultModel = %q, want expanded env value", cfg.Backend.DefaultModel)
	}
	if cfg.Backend.BaseURL != "http://fallback:11434" {
		t.Errorf("BaseURL = %q, want fallback default", cfg.Backend.BaseURL)
	}
}

func TestLoad_UnresolvedVariable(t *testing.T) {
	path := writeConfig(t, `bind: ${TEST_OLLAGATE_DOES_NOT_EXIST}`)

	_, err := config.Load(path)
	if err == nil {
		t.Fatal("Load: expected error for unresolved variable")
	}
	if !strings.Contains(err.Error(), "TEST_OLLAGATE_DOES_NOT_EXIST") {
		t.Errorf("error %v does not name the unresolved variable", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://env-host:11434/")
	t.Setenv("DEFAULT_MODEL", "env-model:latest")

	path := writeConfig(t, `
backend:
  base_url: http://file-host:11434
  default_model: file-model
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if cfg.Backend.BaseURL != "http://env-host:11434" {
		t.Errorf("BaseURL = %q, want env override", cfg.Backend.BaseURL)
	}
	if cfg.Backend.DefaultModel != "env-model:latest" {
		t.Errorf("DefaultModel = %q, want env override", cfg.Backend.DefaultModel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "bad scheme",
			mutate:  func(c *config.Config) { c.Backend.BaseURL = "ftp://example.com" },
			wantErr: "scheme",
		},
		{
			name:    "missing model",
			mutate:  func(c *config.Config) { c.Backend.DefaultModel = "" },
			wantErr: "default_model",
		},
		{
			name:    "bad log level",
			mutate:  func(c *config.Config) { c.Log.Level = "verbose" },
			wantErr: "log.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *config.Config) { c.Log.Format = "xml" },
			wantErr: "log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate: expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %v does not mention %q", err, tt.wantErr)
			}
		})
	}
}
