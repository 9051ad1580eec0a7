// Package manager installs, enables and removes systemd units. Each unit
// kind has its own manager; all of them share the same contract: a unit
// name that fails validation is the only error, every operational failure
// (unwritable directory, failed systemctl call) degrades to a false result
// with a log entry.
package manager

import (
	"context"

	"github.com/sysforge/unitctl/internal/systemctl"
)

// Controller is the systemctl surface the managers depend on.
type Controller interface {
	Reload(ctx context.Context) bool
	Enable(ctx context.Context, name string) (bool, error)
	Disable(ctx context.Context, name string) (bool, error)
	Start(ctx context.Context, name string) (bool, error)
	Stop(ctx context.Context, name string) (bool, error)
	Restart(ctx context.Context, name string) (bool, error)
	Status(ctx context.Context, name string) (string, error)
	IsActive(ctx context.Context, name string) (bool, error)
	IsEnabled(ctx context.Context, name string) (bool, error)
	ListTimers(ctx context.Context) []systemctl.TimerEntry
}

// FileWriter writes and removes unit files.
type FileWriter interface {
	Write(path string, content []byte) error
	Remove(path string) error
}

// Lifecycle is the capability shared by every unit manager: bring a unit
// under management, take it out, and tear its file down.
type Lifecycle interface {
	Enable(ctx context.Context, name string) (bool, error)
	Disable(ctx context.Context, name string) (bool, error)
	Remove(ctx context.Context, name string) (bool, error)
}

// Querier reports a managed unit's state.
type Querier interface {
	Status(ctx context.Context, name string) (string, error)
	IsEnabled(ctx context.Context, name string) (bool, error)
	IsActive(ctx context.Context, name string) (bool, error)
}
