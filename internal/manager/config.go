package manager

import "github.com/sysforge/unitctl/internal/unit"

// Config configures a unit manager.
type Config struct {
	// Scope selects system-wide or per-user management. It fixes both
	// the unit file directory and the systemd instance addressed.
	Scope unit.Scope

	// UnitDir overrides the unit file directory. Default: the scope's
	// standard directory.
	UnitDir string
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.UnitDir == "" {
		c.UnitDir = c.Scope.UnitDir()
	}
}
