package unit

import (
	"fmt"
	"io"

	sdunit "github.com/coreos/go-systemd/v22/unit"
)

// DefinitionError reports a unit definition that failed validation. It is
// raised before any filesystem write or systemctl call; the managers catch
// it at the install boundary and report a false result.
type DefinitionError struct {
	Field  string
	Reason string
}

// Error returns the formatted error string.
func (e *DefinitionError) Error() string {
	return fmt.Sprintf("unit: invalid definition: %s: %s", e.Field, e.Reason)
}

// render serializes options into unit file text. Options are emitted in
// slice order, so every definition renders with a deterministic key order.
func render(opts []*sdunit.UnitOption) string {
	b, err := io.ReadAll(sdunit.Serialize(opts))
	if err != nil {
		// Serialize reads from an in-memory buffer; it cannot fail.
		return ""
	}
	return string(b)
}

func option(section, name, value string) *sdunit.UnitOption {
	return &sdunit.UnitOption{Section: section, Name: name, Value: value}
}
