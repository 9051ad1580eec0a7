package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/sysforge/unitctl/internal/manager"
	"github.com/sysforge/unitctl/internal/runner"
	"github.com/sysforge/unitctl/internal/systemctl"
	"github.com/sysforge/unitctl/internal/unitfile"
)

// errOperationFailed is returned when a lifecycle operation reports
// failure. The cause has already been logged.
var errOperationFailed = errors.New("operation failed")

// app wires the managers behind one CLI invocation.
type app struct {
	cfg      *ToolConfig
	logger   *slog.Logger
	services *manager.ServiceManager
	timers   *manager.TimerManager
	mounts   *manager.MountManager
	tasks    *manager.TaskInstaller
}

// newApp parses the configuration, applies flag overrides and builds the
// manager stack for the selected scope.
func newApp() (*app, error) {
	cfg, err := ParseConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyFlags(); err != nil {
		return nil, err
	}

	logger := setupLogger(cfg.LogLevel)
	run := runner.New(runner.Config{
		DefaultTimeout: cfg.timeoutDuration(),
		DryRun:         dryRun,
	}, logger)
	ctl := systemctl.New(systemctl.Config{
		Scope:         cfg.unitScope(),
		SystemctlPath: cfg.SystemctlPath,
		Timeout:       cfg.timeoutDuration(),
	}, run, logger)

	mgrCfg := manager.Config{Scope: cfg.unitScope(), UnitDir: cfg.UnitDir}
	files := unitfile.NewWriter()
	services := manager.NewServiceManager(mgrCfg, ctl, files, logger)
	timers := manager.NewTimerManager(mgrCfg, ctl, files, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		services: services,
		timers:   timers,
		mounts:   manager.NewMountManager(mgrCfg, ctl, files, logger),
		tasks:    manager.NewTaskInstaller(services, timers, logger),
	}, nil
}

// commandContext returns a context cancelled by SIGTERM or SIGINT.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

// reportOutcome converts a boolean operation result into the command
// exit status.
func reportOutcome(ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return errOperationFailed
	}
	return nil
}
