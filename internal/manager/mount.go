package manager

import (
	"context"
	"log/slog"
	"os"

	"github.com/sysforge/unitctl/internal/unit"
)

// MountManager installs and manages .mount units, optionally paired with
// an .automount unit for on-demand mounting. Units are addressed by the
// mount point path; the unit name is derived from it, so "/media/nas"
// always maps to media-nas.mount.
type MountManager struct {
	base
}

// NewMountManager creates a MountManager with defaults applied.
func NewMountManager(cfg Config, ctl Controller, files FileWriter, logger *slog.Logger) *MountManager {
	return &MountManager{base: newBase(cfg, ctl, files, logger, "mount-manager")}
}

// unitName derives and validates the unit base name for a mount path.
func (m *MountManager) unitName(where string) (string, error) {
	name := unit.PathToUnitName(where)
	if err := unit.CheckUnitName(name); err != nil {
		return "", err
	}
	return name, nil
}

// Install validates the definition, creates the mount point directory,
// writes the .mount unit file (plus an .automount companion when
// requested) and reloads the manager.
func (m *MountManager) Install(ctx context.Context, def unit.Mount) (bool, error) {
	name, err := m.unitName(def.Where)
	if err != nil {
		return false, err
	}
	if err := def.Validate(); err != nil {
		m.logger.Error("invalid mount definition", "where", def.Where, "error", err)
		return false, nil
	}
	if err := os.MkdirAll(def.Where, 0o755); err != nil {
		m.logger.Error("cannot create mount point", "where", def.Where, "error", err)
		return false, nil
	}
	if !m.ensureUnitDir() {
		return false, nil
	}
	if !m.writeUnit(name+".mount", def.UnitFile()) {
		return false, nil
	}
	if def.Automount {
		if !m.writeUnit(name+".automount", def.AutomountUnitFile()) {
			return false, nil
		}
	}
	return m.ctl.Reload(ctx), nil
}

// Enable reloads the manager and enables and starts the unit for the
// given mount path. When an .automount companion is installed the
// automount unit is enabled instead; starting the mount unit directly
// would defeat the on-demand behavior.
func (m *MountManager) Enable(ctx context.Context, where string) (bool, error) {
	name, err := m.unitName(where)
	if err != nil {
		return false, err
	}
	m.ctl.Reload(ctx)
	if m.unitFileExists(name + ".automount") {
		return m.ctl.Enable(ctx, name+".automount")
	}
	return m.ctl.Enable(ctx, name+".mount")
}

// Disable stops and disables the units for the given mount path. The
// automount companion, when present, is taken down first so it cannot
// re-trigger the mount.
func (m *MountManager) Disable(ctx context.Context, where string) (bool, error) {
	name, err := m.unitName(where)
	if err != nil {
		return false, err
	}
	if m.unitFileExists(name + ".automount") {
		if ok, _ := m.ctl.Disable(ctx, name+".automount"); !ok {
			m.logger.Warn("automount disable failed", "where", where)
		}
	}
	return m.ctl.Disable(ctx, name+".mount")
}

// Remove disables the units for the given mount path, deletes the unit
// files and reloads the manager. The mount point directory is left in
// place. The result reflects the file deletions alone.
func (m *MountManager) Remove(ctx context.Context, where string) (bool, error) {
	name, err := m.unitName(where)
	if err != nil {
		return false, err
	}
	if ok, _ := m.Disable(ctx, where); !ok {
		m.logger.Warn("disable failed before removal, removing unit files anyway", "where", where)
	}
	removed := true
	if m.unitFileExists(name + ".automount") {
		removed = m.removeUnitFile(name+".automount") && removed
	}
	removed = m.removeUnitFile(name+".mount") && removed
	m.ctl.Reload(ctx)
	return removed, nil
}

// Status returns the mount unit's activation state.
func (m *MountManager) Status(ctx context.Context, where string) (string, error) {
	name, err := m.unitName(where)
	if err != nil {
		return "", err
	}
	return m.ctl.Status(ctx, name+".mount")
}

// IsEnabled reports whether the mount comes up on boot. With an
// .automount companion installed, its enablement is what matters.
func (m *MountManager) IsEnabled(ctx context.Context, where string) (bool, error) {
	name, err := m.unitName(where)
	if err != nil {
		return false, err
	}
	if m.unitFileExists(name + ".automount") {
		return m.ctl.IsEnabled(ctx, name+".automount")
	}
	return m.ctl.IsEnabled(ctx, name+".mount")
}

// IsActive reports whether the mount unit is active, which for a mount
// means the filesystem is currently mounted.
func (m *MountManager) IsActive(ctx context.Context, where string) (bool, error) {
	name, err := m.unitName(where)
	if err != nil {
		return false, err
	}
	return m.ctl.IsActive(ctx, name+".mount")
}

// IsMounted reports whether the filesystem is currently mounted.
func (m *MountManager) IsMounted(ctx context.Context, where string) (bool, error) {
	return m.IsActive(ctx, where)
}
