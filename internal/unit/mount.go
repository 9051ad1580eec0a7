package unit

import (
	"strconv"
	"strings"

	sdunit "github.com/coreos/go-systemd/v22/unit"
)

// Mount describes a .mount unit, optionally paired with a .automount
// companion that defers attaching the filesystem until first access.
type Mount struct {
	Description string
	// What is the device, network share or image to mount,
	// e.g. "192.168.1.10:/share".
	What string
	// Where is the absolute mount point. Its unit base name is derived
	// with PathToUnitName.
	Where string
	// FSType is the filesystem type, e.g. "nfs" or "cifs".
	FSType string
	// Options are mount options, rendered comma-joined; omitted when empty.
	Options []string
	// Automount requests a companion .automount unit.
	Automount bool
	// AutomountTimeoutIdleSec unmounts after this many idle seconds;
	// 0 disables the idle timeout.
	AutomountTimeoutIdleSec int
	WantedBy                string
}

// Validate checks the mount definition before any I/O. The mount point must
// be absolute so the derived unit name can never escape the unit directory.
func (m *Mount) Validate() error {
	if m.What == "" {
		return &DefinitionError{Field: "What", Reason: "required"}
	}
	if m.Where == "" {
		return &DefinitionError{Field: "Where", Reason: "required"}
	}
	if !strings.HasPrefix(m.Where, "/") {
		return &DefinitionError{Field: "Where", Reason: "mount point must be absolute"}
	}
	if m.FSType == "" {
		return &DefinitionError{Field: "FSType", Reason: "required"}
	}
	if m.AutomountTimeoutIdleSec < 0 {
		return &DefinitionError{Field: "AutomountTimeoutIdleSec", Reason: "negative"}
	}
	for _, f := range []struct{ name, value string }{
		{"Description", m.Description},
		{"What", m.What},
		{"Where", m.Where},
		{"FSType", m.FSType},
		{"WantedBy", m.WantedBy},
	} {
		if strings.ContainsRune(f.value, '\n') {
			return &DefinitionError{Field: f.name, Reason: "contains newline"}
		}
	}
	for _, opt := range m.Options {
		if strings.ContainsAny(opt, ",\n") {
			return &DefinitionError{Field: "Options", Reason: "option " + strconv.Quote(opt) + " contains ',' or newline"}
		}
	}
	return nil
}

// UnitName returns the unit base name derived from the mount point.
func (m *Mount) UnitName() string {
	return PathToUnitName(m.Where)
}

// UnitFile renders the .mount unit file text.
func (m *Mount) UnitFile() string {
	wantedBy := m.WantedBy
	if wantedBy == "" {
		wantedBy = DefaultWantedBy
	}

	opts := []*sdunit.UnitOption{
		option("Unit", "Description", m.Description),
		option("Mount", "What", m.What),
		option("Mount", "Where", m.Where),
		option("Mount", "Type", m.FSType),
	}
	if len(m.Options) > 0 {
		opts = append(opts, option("Mount", "Options", strings.Join(m.Options, ",")))
	}
	opts = append(opts, option("Install", "WantedBy", wantedBy))
	return render(opts)
}

// AutomountUnitFile renders the companion .automount unit file text.
func (m *Mount) AutomountUnitFile() string {
	wantedBy := m.WantedBy
	if wantedBy == "" {
		wantedBy = DefaultWantedBy
	}

	opts := []*sdunit.UnitOption{
		option("Unit", "Description", m.Description),
		option("Automount", "Where", m.Where),
	}
	if m.AutomountTimeoutIdleSec > 0 {
		opts = append(opts, option("Automount", "TimeoutIdleSec", strconv.Itoa(m.AutomountTimeoutIdleSec)))
	}
	opts = append(opts, option("Install", "WantedBy", wantedBy))
	return render(opts)
}
