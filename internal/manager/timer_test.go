package manager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sysforge/unitctl/internal/systemctl"
	"github.com/sysforge/unitctl/internal/unit"
)

func newTestTimerManager(t *testing.T) (*TimerManager, *mockController, *mockFileWriter, string) {
	t.Helper()
	dir := t.TempDir()
	ctl := newMockController()
	files := &mockFileWriter{}
	m := NewTimerManager(Config{UnitDir: dir}, ctl, files, discardLogger())
	return m, ctl, files, dir
}

func TestTimerInstall(t *testing.T) {
	m, ctl, files, dir := newTestTimerManager(t)

	ok, err := m.Install(context.Background(), unit.Timer{
		Description: "Nightly backup schedule",
		Unit:        "backup.service",
		OnCalendar:  "daily",
		Persistent:  true,
	})
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if !ok {
		t.Fatal("Install() = false, want true")
	}
	want := filepath.Join(dir, "backup.timer")
	if len(files.written) != 1 || files.written[0] != want {
		t.Errorf("written files = %v, want [%s]", files.written, want)
	}
	content, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range []string{"Unit=backup.service", "OnCalendar=daily", "Persistent=true", "WantedBy=timers.target"} {
		if !strings.Contains(string(content), line) {
			t.Errorf("timer file missing %q:\n%s", line, content)
		}
	}
	if ctl.calledWith("enable backup.timer") {
		t.Error("install must not enable the timer")
	}
}

func TestTimerInstallInvalidTarget(t *testing.T) {
	m, _, files, _ := newTestTimerManager(t)

	ok, err := m.Install(context.Background(), unit.Timer{Unit: "../etc/passwd"})
	if ok {
		t.Fatal("Install() = true for traversal target")
	}
	var nameErr *unit.NameError
	if !errors.As(err, &nameErr) {
		t.Fatalf("error = %v, want *unit.NameError", err)
	}
	if len(files.written) != 0 {
		t.Errorf("wrote %v", files.written)
	}
}

func TestTimerEnableAppendsSuffix(t *testing.T) {
	m, ctl, _, _ := newTestTimerManager(t)

	if _, err := m.Enable(context.Background(), "backup"); err != nil {
		t.Fatal(err)
	}
	if !ctl.calledWith("enable backup.timer") {
		t.Errorf("calls = %v", ctl.calls)
	}

	if _, err := m.Enable(context.Background(), "backup.timer"); err != nil {
		t.Fatal(err)
	}
	if ctl.calledWith("enable backup.timer.timer") {
		t.Errorf("suffix doubled: %v", ctl.calls)
	}
}

func TestTimerRemove(t *testing.T) {
	m, ctl, files, _ := newTestTimerManager(t)
	if _, err := m.Install(context.Background(), unit.Timer{Unit: "backup.service", OnCalendar: "daily"}); err != nil {
		t.Fatal(err)
	}

	ok, err := m.Remove(context.Background(), "backup")
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if !ok {
		t.Fatal("Remove() = false, want true")
	}
	if !ctl.calledWith("disable backup.timer") {
		t.Errorf("calls = %v", ctl.calls)
	}
	if len(files.removed) != 1 || !strings.HasSuffix(files.removed[0], "backup.timer") {
		t.Errorf("removed = %v", files.removed)
	}
}

func TestTimerList(t *testing.T) {
	m, ctl, _, _ := newTestTimerManager(t)
	ctl.timers = []systemctl.TimerEntry{
		{Unit: "backup.timer", Activates: "backup.service", NextRun: "Sun 2025-03-02 00:00:00 UTC"},
		{Unit: "cleanup.timer", Activates: "cleanup.service"},
	}

	got := m.List(context.Background())
	if len(got) != 2 {
		t.Fatalf("got %d timers, want 2", len(got))
	}
	if got[0].Unit != "backup.timer" || got[0].Activates != "backup.service" || got[0].NextRun == "" {
		t.Errorf("entry 0 = %+v", got[0])
	}
}
