package manager

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sysforge/unitctl/internal/unit"
)

// base carries the collaborators shared by the per-kind managers.
type base struct {
	cfg    Config
	ctl    Controller
	files  FileWriter
	logger *slog.Logger
}

func newBase(cfg Config, ctl Controller, files FileWriter, logger *slog.Logger, component string) base {
	cfg.ApplyDefaults()
	return base{
		cfg:    cfg,
		ctl:    ctl,
		files:  files,
		logger: logger.With("component", component, "scope", cfg.Scope.String()),
	}
}

func (b *base) unitPath(fileName string) string {
	return filepath.Join(b.cfg.UnitDir, fileName)
}

// ensureUnitDir creates the unit directory if missing. The user directory
// does not exist on a fresh account; the system directory is expected to
// be present already, but creating it is harmless.
func (b *base) ensureUnitDir() bool {
	if err := os.MkdirAll(b.cfg.UnitDir, 0o755); err != nil {
		b.logger.Error("cannot create unit directory", "dir", b.cfg.UnitDir, "error", err)
		return false
	}
	return true
}

// writeUnit writes one unit file, reporting success.
func (b *base) writeUnit(fileName, content string) bool {
	path := b.unitPath(fileName)
	if err := b.files.Write(path, []byte(content)); err != nil {
		b.logger.Error("cannot write unit file", "path", path, "error", err)
		return false
	}
	b.logger.Info("unit file written", "path", path)
	return true
}

// removeUnitFile deletes one unit file, reporting success. A file that
// does not exist counts as removed.
func (b *base) removeUnitFile(fileName string) bool {
	path := b.unitPath(fileName)
	if err := b.files.Remove(path); err != nil {
		b.logger.Error("cannot remove unit file", "path", path, "error", err)
		return false
	}
	b.logger.Info("unit file removed", "path", path)
	return true
}

// unitFileExists reports whether the named unit file is present in the
// manager's unit directory.
func (b *base) unitFileExists(fileName string) bool {
	_, err := os.Stat(b.unitPath(fileName))
	return err == nil
}

// userScoped reports whether the manager addresses the per-user instance.
func (b *base) userScoped() bool {
	return b.cfg.Scope == unit.ScopeUser
}
