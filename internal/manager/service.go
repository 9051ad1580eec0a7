package manager

import (
	"context"
	"log/slog"

	"github.com/sysforge/unitctl/internal/unit"
)

// ServiceManager installs and manages .service units.
type ServiceManager struct {
	base
}

// NewServiceManager creates a ServiceManager with defaults applied.
func NewServiceManager(cfg Config, ctl Controller, files FileWriter, logger *slog.Logger) *ServiceManager {
	return &ServiceManager{base: newBase(cfg, ctl, files, logger, "service-manager")}
}

// Install validates the definition, writes <name>.service into the unit
// directory and reloads the manager so the new unit is visible. It does
// not enable or start anything. The error is non-nil only for an invalid
// name; a definition that fails validation is logged and yields false
// without touching the filesystem.
func (m *ServiceManager) Install(ctx context.Context, name string, def unit.Service) (bool, error) {
	if err := unit.CheckServiceName(name); err != nil {
		return false, err
	}
	if m.userScoped() {
		// The user instance runs everything as the calling user; a
		// User= or Group= directive would make the unit fail to start.
		def.User = ""
		def.Group = ""
		if def.WantedBy == "" {
			def.WantedBy = unit.DefaultUserWantedBy
		}
	}
	if err := def.Validate(); err != nil {
		m.logger.Error("invalid service definition", "name", name, "error", err)
		return false, nil
	}
	if !m.ensureUnitDir() {
		return false, nil
	}
	if !m.writeUnit(name+".service", def.UnitFile()) {
		return false, nil
	}
	return m.ctl.Reload(ctx), nil
}

// Enable reloads the manager and enables and starts the named service.
func (m *ServiceManager) Enable(ctx context.Context, name string) (bool, error) {
	if err := unit.CheckServiceName(name); err != nil {
		return false, err
	}
	m.ctl.Reload(ctx)
	return m.ctl.Enable(ctx, name+".service")
}

// Disable stops and disables the named service.
func (m *ServiceManager) Disable(ctx context.Context, name string) (bool, error) {
	if err := unit.CheckServiceName(name); err != nil {
		return false, err
	}
	return m.ctl.Disable(ctx, name+".service")
}

// Remove disables the named service, deletes its unit file and reloads
// the manager. A failed disable is logged and does not block the file
// deletion; the result reflects the deletion alone, so a unit whose file
// is gone but whose disable failed still reports true.
func (m *ServiceManager) Remove(ctx context.Context, name string) (bool, error) {
	if err := unit.CheckServiceName(name); err != nil {
		return false, err
	}
	if ok, _ := m.ctl.Disable(ctx, name+".service"); !ok {
		m.logger.Warn("disable failed before removal, removing unit file anyway", "name", name)
	}
	removed := m.removeUnitFile(name + ".service")
	m.ctl.Reload(ctx)
	return removed, nil
}

// Start starts the named service.
func (m *ServiceManager) Start(ctx context.Context, name string) (bool, error) {
	if err := unit.CheckServiceName(name); err != nil {
		return false, err
	}
	return m.ctl.Start(ctx, name+".service")
}

// Stop stops the named service.
func (m *ServiceManager) Stop(ctx context.Context, name string) (bool, error) {
	if err := unit.CheckServiceName(name); err != nil {
		return false, err
	}
	return m.ctl.Stop(ctx, name+".service")
}

// Restart restarts the named service.
func (m *ServiceManager) Restart(ctx context.Context, name string) (bool, error) {
	if err := unit.CheckServiceName(name); err != nil {
		return false, err
	}
	return m.ctl.Restart(ctx, name+".service")
}

// Status returns the service's activation state.
func (m *ServiceManager) Status(ctx context.Context, name string) (string, error) {
	if err := unit.CheckServiceName(name); err != nil {
		return "", err
	}
	return m.ctl.Status(ctx, name+".service")
}

// IsEnabled reports whether the service starts on boot.
func (m *ServiceManager) IsEnabled(ctx context.Context, name string) (bool, error) {
	if err := unit.CheckServiceName(name); err != nil {
		return false, err
	}
	return m.ctl.IsEnabled(ctx, name+".service")
}

// IsActive reports whether the service is currently running.
func (m *ServiceManager) IsActive(ctx context.Context, name string) (bool, error) {
	if err := unit.CheckServiceName(name); err != nil {
		return false, err
	}
	return m.ctl.IsActive(ctx, name+".service")
}
