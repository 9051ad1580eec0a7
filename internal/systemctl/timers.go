package systemctl

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// TimerEntry is one scheduled timer as reported by list-timers.
type TimerEntry struct {
	Unit      string
	Activates string
	NextRun   string
	Left      string
	LastRun   string
	Passed    string
}

// ListTimers queries the scheduled timers for the dispatcher's scope. It
// prefers the JSON output format and falls back to plain-text parsing when
// the installed systemctl predates --output=json or emits something the
// decoder cannot read. The fallback never fails: the worst case is an
// empty slice and a logged warning.
func (d *Dispatcher) ListTimers(ctx context.Context) []TimerEntry {
	res := d.exec(ctx, "list-timers", "--all", "--no-pager", "--output=json")
	if !res.Success {
		stderr := strings.ToLower(res.Stderr)
		if strings.Contains(stderr, "unknown option") || strings.Contains(stderr, "invalid option") || res.ExitCode < 0 {
			return d.listTimersPlain(ctx)
		}
		d.logger.Warn("list-timers failed",
			"exit_code", res.ExitCode,
			"stderr", strings.TrimSpace(res.Stderr),
		)
		return nil
	}

	// Field types vary across systemd versions (strings vs. usec
	// integers), so decode loosely and stringify.
	var rows []map[string]any
	if err := json.Unmarshal([]byte(res.Stdout), &rows); err != nil {
		d.logger.Warn("list-timers JSON parse failed, falling back to plain output", "error", err)
		return d.listTimersPlain(ctx)
	}

	entries := make([]TimerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, TimerEntry{
			Unit:      jsonField(row, "unit"),
			Activates: jsonField(row, "activates"),
			NextRun:   jsonField(row, "next"),
			Left:      jsonField(row, "left"),
			LastRun:   jsonField(row, "last"),
			Passed:    jsonField(row, "passed"),
		})
	}
	return entries
}

// listTimersPlain parses the line-oriented list-timers output. Rows carry
// the unit and activated service in the last two columns; the timestamp
// columns are locale-formatted and are not recovered here.
func (d *Dispatcher) listTimersPlain(ctx context.Context) []TimerEntry {
	res := d.exec(ctx, "list-timers", "--all", "--no-pager", "--plain")
	if !res.Success {
		d.logger.Warn("list-timers plain fallback failed",
			"exit_code", res.ExitCode,
			"stderr", strings.TrimSpace(res.Stderr),
		)
		return nil
	}

	var entries []TimerEntry
	lines := strings.Split(strings.TrimSpace(res.Stdout), "\n")
	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			// Header row, footer separator.
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		unitName := fields[len(fields)-2]
		if !strings.HasSuffix(unitName, ".timer") {
			// Footer line ("3 timers listed.") or malformed row.
			continue
		}
		entries = append(entries, TimerEntry{
			Unit:      unitName,
			Activates: fields[len(fields)-1],
		})
	}
	return entries
}

func jsonField(row map[string]any, key string) string {
	v, ok := row[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
