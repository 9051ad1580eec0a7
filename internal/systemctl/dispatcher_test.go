package systemctl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/sysforge/unitctl/internal/runner"
	"github.com/sysforge/unitctl/internal/unit"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDispatcher(t *testing.T, scope unit.Scope) (*Dispatcher, *mockRunner) {
	t.Helper()
	run := newMockRunner()
	d := New(Config{Scope: scope}, run, discardLogger())
	return d, run
}

func TestEnableSystemScope(t *testing.T) {
	d, run := newTestDispatcher(t, unit.ScopeSystem)

	ok, err := d.Enable(context.Background(), "backup.timer")
	if err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if !ok {
		t.Fatal("Enable() = false, want true")
	}
	want := []string{"systemctl", "enable", "--now", "backup.timer"}
	if got := run.lastArgs(); !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v, want %v", got, want)
	}
}

func TestEnableUserScope(t *testing.T) {
	d, run := newTestDispatcher(t, unit.ScopeUser)

	if _, err := d.Enable(context.Background(), "sync.service"); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	want := []string{"systemctl", "--user", "enable", "--now", "sync.service"}
	if got := run.lastArgs(); !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v, want %v", got, want)
	}
}

func TestInvalidNameRejectedBeforeDispatch(t *testing.T) {
	d, run := newTestDispatcher(t, unit.ScopeSystem)

	ops := []func(context.Context, string) (bool, error){
		d.Enable, d.Disable, d.Start, d.Stop, d.Restart, d.IsActive, d.IsEnabled,
	}
	for _, op := range ops {
		ok, err := op(context.Background(), "../evil.service")
		if ok {
			t.Error("operation with invalid name returned true")
		}
		var nameErr *unit.NameError
		if !errors.As(err, &nameErr) {
			t.Errorf("error = %v, want *unit.NameError", err)
		}
	}
	if len(run.calls) != 0 {
		t.Errorf("dispatched %d commands for invalid names, want 0", len(run.calls))
	}
}

func TestCommandFailureDegradesToFalse(t *testing.T) {
	d, run := newTestDispatcher(t, unit.ScopeSystem)
	run.scriptResult("start", runner.Result{ExitCode: 5, Stderr: "Unit missing.service not found."})

	ok, err := d.Start(context.Background(), "missing.service")
	if err != nil {
		t.Fatalf("Start() error = %v, want nil", err)
	}
	if ok {
		t.Fatal("Start() = true for failed command, want false")
	}
}

func TestReload(t *testing.T) {
	d, run := newTestDispatcher(t, unit.ScopeSystem)

	if !d.Reload(context.Background()) {
		t.Fatal("Reload() = false, want true")
	}
	want := []string{"systemctl", "daemon-reload"}
	if got := run.lastArgs(); !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v, want %v", got, want)
	}

	run.scriptResult("daemon-reload", runner.Result{ExitCode: 1, Stderr: "Access denied"})
	if d.Reload(context.Background()) {
		t.Error("Reload() = true for failed command, want false")
	}
}

func TestStatusReturnsStateDespiteExitCode(t *testing.T) {
	d, run := newTestDispatcher(t, unit.ScopeSystem)
	run.scriptResult("is-active", runner.Result{ExitCode: 3, Stdout: "inactive\n"})

	state, err := d.Status(context.Background(), "backup.service")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if state != "inactive" {
		t.Errorf("Status() = %q, want %q", state, "inactive")
	}
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		name   string
		result runner.Result
		want   bool
	}{
		{"active", runner.Result{Stdout: "active\n", Success: true}, true},
		{"inactive", runner.Result{ExitCode: 3, Stdout: "inactive\n"}, false},
		{"failed", runner.Result{ExitCode: 3, Stdout: "failed\n"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, run := newTestDispatcher(t, unit.ScopeSystem)
			run.scriptResult("is-active", tt.result)
			got, err := d.IsActive(context.Background(), "web.service")
			if err != nil {
				t.Fatalf("IsActive() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsEnabled(t *testing.T) {
	tests := []struct {
		name   string
		result runner.Result
		want   bool
	}{
		{"enabled", runner.Result{Stdout: "enabled\n", Success: true}, true},
		{"disabled", runner.Result{ExitCode: 1, Stdout: "disabled\n"}, false},
		{"static", runner.Result{Stdout: "static\n", Success: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, run := newTestDispatcher(t, unit.ScopeSystem)
			run.scriptResult("is-enabled", tt.result)
			got, err := d.IsEnabled(context.Background(), "web.service")
			if err != nil {
				t.Fatalf("IsEnabled() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}
