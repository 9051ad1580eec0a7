package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sysforge/unitctl/internal/unit"
)

// ToolConfig is the unitctl configuration, populated from an optional
// YAML file and overridden by command-line flags.
type ToolConfig struct {
	// LogLevel is the log level: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// Scope is "system" or "user". Default: "system"
	Scope string `yaml:"scope"`

	// UnitDir overrides the unit file directory for the scope.
	UnitDir string `yaml:"unit_dir"`

	// SystemctlPath is the control binary. Default: "systemctl"
	SystemctlPath string `yaml:"systemctl_path"`

	// TimeoutSeconds bounds each systemctl command. Default: 30
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *ToolConfig) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Scope == "" {
		c.Scope = "system"
	}
	if c.SystemctlPath == "" {
		c.SystemctlPath = "systemctl"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 30
	}
}

// Validate checks that configuration values are acceptable.
func (c *ToolConfig) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unitctl: config: unknown log level %q", c.LogLevel)
	}
	switch c.Scope {
	case "system", "user":
	default:
		return fmt.Errorf("unitctl: config: unknown scope %q", c.Scope)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("unitctl: config: timeout_seconds must not be negative")
	}
	return nil
}

// ParseConfig reads a YAML configuration file. An empty path returns the
// defaults. It applies defaults and validates the configuration.
func ParseConfig(path string) (*ToolConfig, error) {
	var cfg ToolConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unitctl: config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("unitctl: config: parse %s: %w", path, err)
		}
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyFlags folds the global command-line flags over the file config.
func (c *ToolConfig) applyFlags() error {
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if userScope {
		c.Scope = "user"
	}
	if unitDir != "" {
		c.UnitDir = unitDir
	}
	if ctlPath != "" {
		c.SystemctlPath = ctlPath
	}
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("unitctl: invalid --timeout %q: %w", timeout, err)
		}
		c.TimeoutSeconds = int(d / time.Second)
	}
	return c.Validate()
}

// unitScope maps the configured scope string to a unit.Scope.
func (c *ToolConfig) unitScope() unit.Scope {
	if c.Scope == "user" {
		return unit.ScopeUser
	}
	return unit.ScopeSystem
}

// timeoutDuration returns the per-command timeout.
func (c *ToolConfig) timeoutDuration() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
