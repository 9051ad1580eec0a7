package unit

import (
	"strings"

	sdunit "github.com/coreos/go-systemd/v22/unit"
)

// DefaultTimerWantedBy is the install target for timer units.
const DefaultTimerWantedBy = "timers.target"

// Timer describes a .timer unit scheduling an existing service unit.
type Timer struct {
	Description string
	// Unit is the target unit the timer activates, e.g. "backup.service".
	Unit string
	// OnCalendar is a systemd calendar expression, e.g. "daily" or
	// "*-*-* 06:00:00".
	OnCalendar string
	// OnBootSec schedules a run relative to boot, e.g. "15min".
	OnBootSec string
	// Persistent makes the timer catch up runs missed while powered off.
	Persistent bool
	// RandomizedDelaySec spreads activations by a random delay, e.g. "5min".
	RandomizedDelaySec string
	WantedBy           string
}

// TimerName returns the timer's base name, derived from the target unit
// with the .service suffix stripped.
func (t *Timer) TimerName() string {
	return strings.TrimSuffix(t.Unit, ".service")
}

// Validate checks the target unit and field grammar before any I/O.
func (t *Timer) Validate() error {
	if t.Unit == "" {
		return &DefinitionError{Field: "Unit", Reason: "required"}
	}
	if err := CheckUnitName(t.Unit); err != nil {
		return &DefinitionError{Field: "Unit", Reason: err.Error()}
	}
	for _, f := range []struct{ name, value string }{
		{"Description", t.Description},
		{"OnCalendar", t.OnCalendar},
		{"OnBootSec", t.OnBootSec},
		{"RandomizedDelaySec", t.RandomizedDelaySec},
		{"WantedBy", t.WantedBy},
	} {
		if strings.ContainsRune(f.value, '\n') {
			return &DefinitionError{Field: f.name, Reason: "contains newline"}
		}
	}
	return nil
}

// UnitFile renders the .timer unit file text.
func (t *Timer) UnitFile() string {
	wantedBy := t.WantedBy
	if wantedBy == "" {
		wantedBy = DefaultTimerWantedBy
	}

	opts := []*sdunit.UnitOption{
		option("Unit", "Description", t.Description),
		option("Timer", "Unit", t.Unit),
	}
	if t.OnCalendar != "" {
		opts = append(opts, option("Timer", "OnCalendar", t.OnCalendar))
	}
	if t.OnBootSec != "" {
		opts = append(opts, option("Timer", "OnBootSec", t.OnBootSec))
	}
	if t.Persistent {
		opts = append(opts, option("Timer", "Persistent", "true"))
	}
	if t.RandomizedDelaySec != "" {
		opts = append(opts, option("Timer", "RandomizedDelaySec", t.RandomizedDelaySec))
	}
	opts = append(opts, option("Install", "WantedBy", wantedBy))
	return render(opts)
}
