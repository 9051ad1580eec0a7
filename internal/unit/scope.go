package unit

import (
	"os"
	"path/filepath"
)

// SystemUnitDir is the directory for system-scope unit files.
const SystemUnitDir = "/etc/systemd/system"

// Scope selects whether units are managed system-wide or for the calling
// user's session. A manager's scope is fixed at construction; nothing in
// this module inspects the effective UID at call sites.
type Scope int

const (
	// ScopeSystem manages privileged system-wide units under /etc/systemd/system.
	ScopeSystem Scope = iota
	// ScopeUser manages unprivileged per-user units under the user's
	// systemd configuration directory, created on demand.
	ScopeUser
)

// String returns "system" or "user".
func (s Scope) String() string {
	if s == ScopeUser {
		return "user"
	}
	return "system"
}

// UnitDir returns the default unit file directory for the scope. For
// ScopeUser it follows XDG_CONFIG_HOME, falling back to ~/.config.
func (s Scope) UnitDir() string {
	if s == ScopeSystem {
		return SystemUnitDir
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "systemd", "user")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/root"
	}
	return filepath.Join(home, ".config", "systemd", "user")
}
