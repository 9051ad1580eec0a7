package manager

import (
	"context"
	"log/slog"

	"github.com/sysforge/unitctl/internal/unit"
)

// TaskInstaller sets up a scheduled task: a service unit paired with a
// timer that activates it.
type TaskInstaller struct {
	services *ServiceManager
	timers   *TimerManager
	logger   *slog.Logger
}

// NewTaskInstaller creates a TaskInstaller over the given managers.
func NewTaskInstaller(services *ServiceManager, timers *TimerManager, logger *slog.Logger) *TaskInstaller {
	return &TaskInstaller{
		services: services,
		timers:   timers,
		logger:   logger.With("component", "task-installer"),
	}
}

// Install writes the service and its timer and enables the timer, so the
// service runs on the schedule rather than immediately. The timer's
// target is forced to <name>.service regardless of what the timer
// definition carries. Installation stops at the first failure; a service
// that could not be installed leaves no timer behind, but a timer
// failure does not roll the service back.
func (t *TaskInstaller) Install(ctx context.Context, name string, svc unit.Service, tmr unit.Timer) (bool, error) {
	if err := unit.CheckServiceName(name); err != nil {
		return false, err
	}

	ok, err := t.services.Install(ctx, name, svc)
	if err != nil {
		return false, err
	}
	if !ok {
		t.logger.Error("service installation failed, skipping timer", "name", name)
		return false, nil
	}

	tmr.Unit = name + ".service"
	ok, err = t.timers.Install(ctx, tmr)
	if err != nil {
		return false, err
	}
	if !ok {
		t.logger.Error("timer installation failed, service left installed", "name", name)
		return false, nil
	}

	return t.timers.Enable(ctx, name)
}

// Remove tears the task down: timer first so no further activations
// fire, then the service. The result is true only when both unit files
// are gone.
func (t *TaskInstaller) Remove(ctx context.Context, name string) (bool, error) {
	if err := unit.CheckServiceName(name); err != nil {
		return false, err
	}
	timerOK, err := t.timers.Remove(ctx, name)
	if err != nil {
		return false, err
	}
	serviceOK, err := t.services.Remove(ctx, name)
	if err != nil {
		return false, err
	}
	return timerOK && serviceOK, nil
}
