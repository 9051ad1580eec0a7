package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sysforge/unitctl/internal/unit"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig("")
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.Scope != "system" {
		t.Errorf("Scope = %q, want %q", cfg.Scope, "system")
	}
	if cfg.SystemctlPath != "systemctl" {
		t.Errorf("SystemctlPath = %q", cfg.SystemctlPath)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.TimeoutSeconds)
	}
	if cfg.unitScope() != unit.ScopeSystem {
		t.Errorf("unitScope() = %v", cfg.unitScope())
	}
}

func TestParseConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "log_level: debug\nscope: user\nunit_dir: /tmp/units\ntimeout_seconds: 5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseConfig(path)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.unitScope() != unit.ScopeUser {
		t.Errorf("unitScope() = %v", cfg.unitScope())
	}
	if cfg.UnitDir != "/tmp/units" {
		t.Errorf("UnitDir = %q", cfg.UnitDir)
	}
	if cfg.timeoutDuration() != 5*time.Second {
		t.Errorf("timeoutDuration() = %v", cfg.timeoutDuration())
	}
}

func TestParseConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad level", "log_level: verbose\n", "log level"},
		{"bad scope", "scope: global\n", "scope"},
		{"negative timeout", "timeout_seconds: -1\n", "timeout_seconds"},
		{"malformed yaml", "scope: [\n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := ParseConfig(path)
			if err == nil {
				t.Fatal("ParseConfig() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestParseConfigMissingFile(t *testing.T) {
	if _, err := ParseConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("ParseConfig() succeeded for missing file")
	}
}

func TestParseEnvFlags(t *testing.T) {
	env, err := parseEnvFlags([]string{"HOME=/var/lib/app", "EMPTY=", "PATH=/usr/bin:/bin"})
	if err != nil {
		t.Fatalf("parseEnvFlags() error = %v", err)
	}
	if len(env) != 3 {
		t.Fatalf("got %d vars, want 3", len(env))
	}
	if env[0].Key != "HOME" || env[0].Value != "/var/lib/app" {
		t.Errorf("env[0] = %+v", env[0])
	}
	if env[1].Value != "" {
		t.Errorf("env[1] = %+v", env[1])
	}
	if env[2].Value != "/usr/bin:/bin" {
		t.Errorf("value with '=' separators mangled: %+v", env[2])
	}

	if _, err := parseEnvFlags([]string{"NOEQUALS"}); err == nil {
		t.Error("pair without '=' accepted")
	}
}
