// Package systemctl dispatches unit lifecycle commands to the systemd
// instance manager through its control binary.
//
// Every unit name is validated before dispatch and every command is issued
// as a discrete argument vector. Operational failures (non-zero exits,
// timeouts, missing binary) degrade to false or empty results with a log
// entry; only an invalid unit name returns an error.
package systemctl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sysforge/unitctl/internal/runner"
	"github.com/sysforge/unitctl/internal/unit"
)

// Config configures a Dispatcher.
type Config struct {
	// Scope selects the system-wide manager or the caller's user manager.
	// ScopeUser prepends --user so commands address the user's session
	// bus instead of the system one.
	Scope unit.Scope

	// SystemctlPath is the control binary. Default: "systemctl".
	SystemctlPath string

	// Timeout bounds each dispatched command. Default: 30s.
	Timeout time.Duration
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.SystemctlPath == "" {
		c.SystemctlPath = "systemctl"
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
}

// Dispatcher issues systemctl operations for one scope.
type Dispatcher struct {
	cfg    Config
	run    runner.Runner
	logger *slog.Logger
}

// New creates a Dispatcher with defaults applied.
func New(cfg Config, run runner.Runner, logger *slog.Logger) *Dispatcher {
	cfg.ApplyDefaults()
	return &Dispatcher{
		cfg:    cfg,
		run:    run,
		logger: logger.With("component", "systemctl", "scope", cfg.Scope.String()),
	}
}

// args builds the full argument vector for one operation.
func (d *Dispatcher) args(op ...string) []string {
	argv := make([]string, 0, len(op)+2)
	argv = append(argv, d.cfg.SystemctlPath)
	if d.cfg.Scope == unit.ScopeUser {
		argv = append(argv, "--user")
	}
	return append(argv, op...)
}

func (d *Dispatcher) exec(ctx context.Context, op ...string) runner.Result {
	return d.run.Run(ctx, runner.Spec{Args: d.args(op...), Timeout: d.cfg.Timeout})
}

// command runs one operation and converts the outcome to a boolean,
// logging failures with the unit name and scope.
func (d *Dispatcher) command(ctx context.Context, name string, op ...string) (bool, error) {
	if name != "" {
		if err := unit.CheckUnitName(name); err != nil {
			return false, err
		}
		op = append(op, name)
	}
	res := d.exec(ctx, op...)
	if !res.Success {
		d.logger.Error("systemctl command failed",
			"operation", op[0],
			"unit", name,
			"exit_code", res.ExitCode,
			"timed_out", res.TimedOut,
			"stderr", strings.TrimSpace(res.Stderr),
		)
		return false, nil
	}
	return true, nil
}

// Reload reloads the manager configuration (daemon-reload).
func (d *Dispatcher) Reload(ctx context.Context) bool {
	ok, _ := d.command(ctx, "", "daemon-reload")
	return ok
}

// Enable enables and starts the named unit.
func (d *Dispatcher) Enable(ctx context.Context, name string) (bool, error) {
	return d.command(ctx, name, "enable", "--now")
}

// Disable stops and disables the named unit.
func (d *Dispatcher) Disable(ctx context.Context, name string) (bool, error) {
	return d.command(ctx, name, "disable", "--now")
}

// Start starts the named unit.
func (d *Dispatcher) Start(ctx context.Context, name string) (bool, error) {
	return d.command(ctx, name, "start")
}

// Stop stops the named unit.
func (d *Dispatcher) Stop(ctx context.Context, name string) (bool, error) {
	return d.command(ctx, name, "stop")
}

// Restart restarts the named unit.
func (d *Dispatcher) Restart(ctx context.Context, name string) (bool, error) {
	return d.command(ctx, name, "restart")
}

// Status returns the unit's activation state ("active", "inactive",
// "failed", ...). is-active exits non-zero for inactive units, so the
// output is returned regardless of the exit status; a command that could
// not run at all yields an empty string.
func (d *Dispatcher) Status(ctx context.Context, name string) (string, error) {
	if err := unit.CheckUnitName(name); err != nil {
		return "", err
	}
	res := d.exec(ctx, "is-active", name)
	state := strings.TrimSpace(res.Stdout)
	if state == "" && !res.Success {
		d.logger.Error("status query failed",
			"unit", name,
			"exit_code", res.ExitCode,
			"stderr", strings.TrimSpace(res.Stderr),
		)
	}
	return state, nil
}

// IsActive reports whether the named unit is currently active.
func (d *Dispatcher) IsActive(ctx context.Context, name string) (bool, error) {
	state, err := d.Status(ctx, name)
	if err != nil {
		return false, err
	}
	return state == "active", nil
}

// IsEnabled reports whether the named unit starts on boot.
func (d *Dispatcher) IsEnabled(ctx context.Context, name string) (bool, error) {
	if err := unit.CheckUnitName(name); err != nil {
		return false, err
	}
	res := d.exec(ctx, "is-enabled", name)
	return strings.TrimSpace(res.Stdout) == "enabled", nil
}
