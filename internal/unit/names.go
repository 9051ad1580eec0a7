// Package unit defines systemd unit definitions, unit-name validation, and
// unit file rendering.
//
// Name validation is the single defense against path traversal and argument
// injection: every caller-supplied name passes through CheckUnitName or
// CheckServiceName before it is used in a filesystem path or handed to the
// systemctl dispatcher.
package unit

import (
	"fmt"
	"regexp"
	"strings"
)

// maxNameLen is systemd's limit on unit name length.
const maxNameLen = 255

var (
	unitNameRE    = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9:._-]*$`)
	serviceNameRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)
)

// NameError reports a unit or service name that violates the naming grammar.
// It is the only error kind the unit managers propagate to callers; every
// operational failure degrades to a boolean result instead.
type NameError struct {
	Name   string
	Reason string
}

// Error returns the formatted error string.
func (e *NameError) Error() string {
	return fmt.Sprintf("unit: invalid name %q: %s", e.Name, e.Reason)
}

// CheckUnitName validates a full systemd unit name. Letters, digits, colons,
// dots, underscores and dashes are accepted; the first character must be
// alphanumeric. Empty names, overlong names, path separators and ".."
// sequences are rejected.
func CheckUnitName(name string) error {
	if name == "" {
		return &NameError{Name: name, Reason: "name is empty"}
	}
	if len(name) > maxNameLen {
		return &NameError{Name: name, Reason: fmt.Sprintf("longer than %d characters", maxNameLen)}
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return &NameError{Name: name, Reason: "traversal sequence"}
	}
	if !unitNameRE.MatchString(name) {
		return &NameError{Name: name, Reason: "must match [A-Za-z0-9][A-Za-z0-9:._-]*"}
	}
	return nil
}

// CheckServiceName validates a service base name before a unit suffix is
// appended. Stricter than CheckUnitName: dots and colons are rejected so
// the suffix boundary stays unambiguous.
func CheckServiceName(name string) error {
	if name == "" {
		return &NameError{Name: name, Reason: "name is empty"}
	}
	if len(name) > maxNameLen {
		return &NameError{Name: name, Reason: fmt.Sprintf("longer than %d characters", maxNameLen)}
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return &NameError{Name: name, Reason: "traversal sequence"}
	}
	if !serviceNameRE.MatchString(name) {
		return &NameError{Name: name, Reason: "must match [A-Za-z0-9][A-Za-z0-9_-]*"}
	}
	return nil
}

// DeriveServiceName derives a service base name from the first word of an
// ExecStart command line: the executable's base name with dots replaced by
// dashes. The result still has to pass CheckServiceName before use.
func DeriveServiceName(execStart string) string {
	fields := strings.Fields(execStart)
	if len(fields) == 0 {
		return ""
	}
	bin := fields[0]
	if i := strings.LastIndex(bin, "/"); i >= 0 {
		bin = bin[i+1:]
	}
	return strings.ReplaceAll(bin, ".", "-")
}

// PathToUnitName maps a mount point to its systemd unit base name: the
// leading and trailing separators are stripped and the remaining ones
// replaced with dashes. The mapping is stable; "/media/nas" always yields
// "media-nas".
func PathToUnitName(path string) string {
	return strings.ReplaceAll(strings.Trim(path, "/"), "/", "-")
}
