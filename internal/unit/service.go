package unit

import (
	"strconv"
	"strings"

	sdunit "github.com/coreos/go-systemd/v22/unit"
)

// DefaultWantedBy is the install target for system-scope services.
const DefaultWantedBy = "multi-user.target"

// DefaultUserWantedBy is the install target for user-scope services.
const DefaultUserWantedBy = "default.target"

// serviceTypes are the execution types systemd accepts for Type=.
var serviceTypes = map[string]bool{
	"simple":  true,
	"exec":    true,
	"forking": true,
	"oneshot": true,
	"dbus":    true,
	"notify":  true,
	"idle":    true,
}

// restartPolicies are the values systemd accepts for Restart=.
var restartPolicies = map[string]bool{
	"no":          true,
	"always":      true,
	"on-success":  true,
	"on-failure":  true,
	"on-abnormal": true,
	"on-abort":    true,
	"on-watchdog": true,
}

// EnvVar is a single Environment= entry. Entries render in slice order.
type EnvVar struct {
	Key   string
	Value string
}

// Service describes a .service unit. Zero values for Type, Restart and
// WantedBy render as "simple", "no" (omitted) and "multi-user.target".
type Service struct {
	Description      string
	ExecStart        string
	Type             string
	User             string
	Group            string
	WorkingDirectory string
	Environment      []EnvVar
	Restart          string
	RestartSec       int
	WantedBy         string
}

// Validate checks enum membership and field grammar. It runs before any
// filesystem write or systemctl call; nothing about a definition touches
// the OS until it has passed.
func (s *Service) Validate() error {
	if s.ExecStart == "" {
		return &DefinitionError{Field: "ExecStart", Reason: "required"}
	}
	if s.Type != "" && !serviceTypes[s.Type] {
		return &DefinitionError{Field: "Type", Reason: "unknown execution type " + strconv.Quote(s.Type)}
	}
	if s.Restart != "" && !restartPolicies[s.Restart] {
		return &DefinitionError{Field: "Restart", Reason: "unknown restart policy " + strconv.Quote(s.Restart)}
	}
	if s.RestartSec < 0 {
		return &DefinitionError{Field: "RestartSec", Reason: "negative"}
	}
	for _, f := range []struct{ name, value string }{
		{"Description", s.Description},
		{"ExecStart", s.ExecStart},
		{"User", s.User},
		{"Group", s.Group},
		{"WorkingDirectory", s.WorkingDirectory},
		{"WantedBy", s.WantedBy},
	} {
		if strings.ContainsRune(f.value, '\n') {
			return &DefinitionError{Field: f.name, Reason: "contains newline"}
		}
	}
	for _, ev := range s.Environment {
		if ev.Key == "" {
			return &DefinitionError{Field: "Environment", Reason: "empty key"}
		}
		if strings.ContainsAny(ev.Key, "=\n") {
			return &DefinitionError{Field: "Environment", Reason: "key " + strconv.Quote(ev.Key) + " contains '=' or newline"}
		}
		if strings.ContainsRune(ev.Value, '\n') {
			return &DefinitionError{Field: "Environment", Reason: "value for " + strconv.Quote(ev.Key) + " contains newline"}
		}
	}
	return nil
}

// UnitFile renders the .service unit file text: [Unit], [Service], then
// [Install], one Key=Value per line, keys in a fixed order.
func (s *Service) UnitFile() string {
	typ := s.Type
	if typ == "" {
		typ = "simple"
	}
	wantedBy := s.WantedBy
	if wantedBy == "" {
		wantedBy = DefaultWantedBy
	}

	opts := []*sdunit.UnitOption{
		option("Unit", "Description", s.Description),
		option("Service", "Type", typ),
		option("Service", "ExecStart", s.ExecStart),
	}
	if s.User != "" {
		opts = append(opts, option("Service", "User", s.User))
	}
	if s.Group != "" {
		opts = append(opts, option("Service", "Group", s.Group))
	}
	if s.WorkingDirectory != "" {
		opts = append(opts, option("Service", "WorkingDirectory", s.WorkingDirectory))
	}
	for _, ev := range s.Environment {
		opts = append(opts, option("Service", "Environment", ev.Key+"="+ev.Value))
	}
	if s.Restart != "" && s.Restart != "no" {
		opts = append(opts, option("Service", "Restart", s.Restart))
		if s.RestartSec > 0 {
			opts = append(opts, option("Service", "RestartSec", strconv.Itoa(s.RestartSec)))
		}
	}
	opts = append(opts, option("Install", "WantedBy", wantedBy))
	return render(opts)
}
