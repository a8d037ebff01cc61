// Package config handles YAML configuration loading, environment
// variable expansion, defaults, and validation for ollagate.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config is the top-level configuration structure.
type Config struct {
	// Bind is the address the HTTP gateway listens on.
	Bind string `yaml:"bind"`

	Backend   BackendConfig   `yaml:"backend"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Probe     ProbeConfig     `yaml:"probe"`

	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// BackendConfig points the gateway at the inference server.
type BackendConfig struct {
	// BaseURL of the Ollama-compatible server.
	BaseURL string `yaml:"base_url"`

	// DefaultModel is used when a request names no model.
	DefaultModel string `yaml:"default_model"`

	// HeaderTimeout bounds connection and response initiation.
	HeaderTimeout time.Duration `yaml:"header_timeout"`

	// ProbeTimeout bounds health and model-listing probes.
	ProbeTimeout time.Duration `yaml:"probe_timeout"`

	// ChatTimeout bounds a full streaming chat exchange.
	ChatTimeout time.Duration `yaml:"chat_timeout"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json

	// File enables rotated file logging when set; empty logs to stderr.
	File string `yaml:"file"`
}

// TelemetryConfig controls trace export. Tracing is disabled unless
// an OTLP endpoint is configured.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// ProbeConfig controls the periodic backend reachability probe.
type ProbeConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"` // 5-field cron expression
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.defaults()
	return cfg
}

// defaults fills zero values with documented defaults.
func (c *Config) defaults() {
	if c.Bind == "" {
		c.Bind = "127.0.0.1:8080"
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = "http://127.0.0.1:11434"
	}
	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")
	if c.Backend.DefaultModel == "" {
		c.Backend.DefaultModel = "phi4-mini:latest"
	}
	if c.Backend.HeaderTimeout <= 0 {
		c.Backend.HeaderTimeout = 5 * time.Second
	}
	if c.Backend.ProbeTimeout <= 0 {
		c.Backend.ProbeTimeout = 5 * time.Second
	}
	if c.Backend.ChatTimeout <= 0 {
		c.Backend.ChatTimeout = 60 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Probe.Schedule == "" {
		c.Probe.Schedule = "* * * * *"
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		// POST /chat holds the connection for the whole exchange.
		c.WriteTimeout = 90 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
}

// applyEnv lets the original deployment variables override the file.
func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("OLLAMA_BASE_URL"); ok && v != "" {
		c.Backend.BaseURL = strings.TrimRight(v, "/")
	}
	if v, ok := os.LookupEnv("DEFAULT_MODEL"); ok && v != "" {
		c.Backend.DefaultModel = v
	}
}

// Validate returns an error describing the first invalid field.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("config: backend.base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: backend.base_url scheme must be http or https, got %q", u.Scheme)
	}
	if c.Backend.DefaultModel == "" {
		return fmt.Errorf("config: backend.default_model is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
