package manager

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sysforge/unitctl/internal/unit"
)

// TimerManager installs and manages .timer units.
type TimerManager struct {
	base
}

// NewTimerManager creates a TimerManager with defaults applied.
func NewTimerManager(cfg Config, ctl Controller, files FileWriter, logger *slog.Logger) *TimerManager {
	return &TimerManager{base: newBase(cfg, ctl, files, logger, "timer-manager")}
}

// TimerStatus is one scheduled timer for the manager's scope.
type TimerStatus struct {
	Unit      string
	Activates string
	NextRun   string
}

// Install validates the definition, writes the timer unit file named
// after the target service and reloads the manager. The timer is not
// enabled; scheduling begins only after Enable.
func (m *TimerManager) Install(ctx context.Context, def unit.Timer) (bool, error) {
	if def.Unit != "" {
		if err := unit.CheckUnitName(def.Unit); err != nil {
			return false, err
		}
	}
	if err := def.Validate(); err != nil {
		m.logger.Error("invalid timer definition", "unit", def.Unit, "error", err)
		return false, nil
	}
	if !m.ensureUnitDir() {
		return false, nil
	}
	if !m.writeUnit(def.TimerName()+".timer", def.UnitFile()) {
		return false, nil
	}
	return m.ctl.Reload(ctx), nil
}

// Enable reloads the manager and enables and starts the named timer,
// which begins the schedule.
func (m *TimerManager) Enable(ctx context.Context, name string) (bool, error) {
	if err := unit.CheckUnitName(name); err != nil {
		return false, err
	}
	m.ctl.Reload(ctx)
	return m.ctl.Enable(ctx, timerUnit(name))
}

// Disable stops and disables the named timer, ending the schedule. The
// activated service unit is left alone.
func (m *TimerManager) Disable(ctx context.Context, name string) (bool, error) {
	if err := unit.CheckUnitName(name); err != nil {
		return false, err
	}
	return m.ctl.Disable(ctx, timerUnit(name))
}

// Remove disables the named timer, deletes its unit file and reloads the
// manager. The result reflects the file deletion alone.
func (m *TimerManager) Remove(ctx context.Context, name string) (bool, error) {
	if err := unit.CheckUnitName(name); err != nil {
		return false, err
	}
	if ok, _ := m.ctl.Disable(ctx, timerUnit(name)); !ok {
		m.logger.Warn("disable failed before removal, removing unit file anyway", "name", name)
	}
	removed := m.removeUnitFile(timerUnit(name))
	m.ctl.Reload(ctx)
	return removed, nil
}

// Status returns the timer's activation state.
func (m *TimerManager) Status(ctx context.Context, name string) (string, error) {
	if err := unit.CheckUnitName(name); err != nil {
		return "", err
	}
	return m.ctl.Status(ctx, timerUnit(name))
}

// IsEnabled reports whether the timer starts on boot.
func (m *TimerManager) IsEnabled(ctx context.Context, name string) (bool, error) {
	if err := unit.CheckUnitName(name); err != nil {
		return false, err
	}
	return m.ctl.IsEnabled(ctx, timerUnit(name))
}

// IsActive reports whether the timer is currently scheduling runs.
func (m *TimerManager) IsActive(ctx context.Context, name string) (bool, error) {
	if err := unit.CheckUnitName(name); err != nil {
		return false, err
	}
	return m.ctl.IsActive(ctx, timerUnit(name))
}

// List returns the scheduled timers visible to the manager's scope. It
// never fails; an unreadable listing yields an empty slice.
func (m *TimerManager) List(ctx context.Context) []TimerStatus {
	entries := m.ctl.ListTimers(ctx)
	out := make([]TimerStatus, 0, len(entries))
	for _, e := range entries {
		out = append(out, TimerStatus{
			Unit:      e.Unit,
			Activates: e.Activates,
			NextRun:   e.NextRun,
		})
	}
	return out
}

// timerUnit appends the .timer suffix unless the name already carries it.
func timerUnit(name string) string {
	if strings.HasSuffix(name, ".timer") {
		return name
	}
	return name + ".timer"
}
