package manager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sysforge/unitctl/internal/unit"
)

func newTestMountManager(t *testing.T) (*MountManager, *mockController, *mockFileWriter, string) {
	t.Helper()
	dir := t.TempDir()
	ctl := newMockController()
	files := &mockFileWriter{}
	m := NewMountManager(Config{UnitDir: dir}, ctl, files, discardLogger())
	return m, ctl, files, dir
}

func nasMount(t *testing.T, automount bool) unit.Mount {
	t.Helper()
	return unit.Mount{
		Description: "NAS share",
		What:        "nas.local:/export/share",
		Where:       filepath.Join(t.TempDir(), "media", "nas"),
		FSType:      "nfs",
		Options:     []string{"ro", "noatime"},
		Automount:   automount,
	}
}

func TestMountInstall(t *testing.T) {
	m, ctl, files, dir := newTestMountManager(t)
	def := nasMount(t, false)

	ok, err := m.Install(context.Background(), def)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if !ok {
		t.Fatal("Install() = false, want true")
	}
	if fi, err := os.Stat(def.Where); err != nil || !fi.IsDir() {
		t.Errorf("mount point not created: %v", err)
	}
	name := unit.PathToUnitName(def.Where)
	if len(files.written) != 1 || files.written[0] != filepath.Join(dir, name+".mount") {
		t.Errorf("written = %v", files.written)
	}
	content, err := os.ReadFile(files.written[0])
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range []string{"What=nas.local:/export/share", "Where=" + def.Where, "Type=nfs", "Options=ro,noatime"} {
		if !strings.Contains(string(content), line) {
			t.Errorf("mount file missing %q:\n%s", line, content)
		}
	}
	if !ctl.calledWith("reload") {
		t.Error("install did not reload the manager")
	}
}

func TestMountInstallWithAutomount(t *testing.T) {
	m, _, files, dir := newTestMountManager(t)
	def := nasMount(t, true)
	def.AutomountTimeoutIdleSec = 600

	ok, err := m.Install(context.Background(), def)
	if err != nil || !ok {
		t.Fatalf("Install() = %v, %v", ok, err)
	}
	name := unit.PathToUnitName(def.Where)
	if len(files.written) != 2 {
		t.Fatalf("written = %v, want mount and automount", files.written)
	}
	content, err := os.ReadFile(filepath.Join(dir, name + ".automount"))
	if err != nil {
		t.Fatal(err)
	}
	text := string(content)
	if !strings.Contains(text, "[Automount]") || !strings.Contains(text, "TimeoutIdleSec=600") {
		t.Errorf("automount file:\n%s", text)
	}
	if strings.Contains(text, "What=") {
		t.Errorf("automount file carries What directive:\n%s", text)
	}
}

func TestMountInstallInvalidDefinition(t *testing.T) {
	m, ctl, files, _ := newTestMountManager(t)

	defs := []unit.Mount{
		{What: "dev", Where: "relative/path", FSType: "ext4"},
		{What: "dev", Where: "/mnt/x"},
		{What: "dev", Where: "/mnt/x", FSType: "ext4", Options: []string{"rw,exec"}},
	}
	for i, def := range defs {
		ok, err := m.Install(context.Background(), def)
		if err != nil {
			t.Errorf("def %d: error = %v, want nil", i, err)
		}
		if ok {
			t.Errorf("def %d: Install() = true, want false", i)
		}
	}
	if len(files.written) != 0 {
		t.Errorf("wrote %v", files.written)
	}
	if len(ctl.calls) != 0 {
		t.Errorf("dispatched %v", ctl.calls)
	}
}

func TestMountInstallEmptyPath(t *testing.T) {
	m, _, _, _ := newTestMountManager(t)

	ok, err := m.Install(context.Background(), unit.Mount{What: "dev", Where: "", FSType: "ext4"})
	if ok {
		t.Fatal("Install() = true for empty mount path")
	}
	var nameErr *unit.NameError
	if !errors.As(err, &nameErr) {
		t.Fatalf("error = %v, want *unit.NameError", err)
	}
}

func TestMountEnablePrefersAutomount(t *testing.T) {
	m, ctl, _, _ := newTestMountManager(t)
	def := nasMount(t, true)
	if _, err := m.Install(context.Background(), def); err != nil {
		t.Fatal(err)
	}
	name := unit.PathToUnitName(def.Where)

	ok, err := m.Enable(context.Background(), def.Where)
	if err != nil || !ok {
		t.Fatalf("Enable() = %v, %v", ok, err)
	}
	if !ctl.calledWith("enable " + name + ".automount") {
		t.Errorf("calls = %v", ctl.calls)
	}
	if ctl.calledWith("enable " + name + ".mount") {
		t.Error("automount present but mount unit enabled directly")
	}
}

func TestMountEnableWithoutAutomount(t *testing.T) {
	m, ctl, _, _ := newTestMountManager(t)
	def := nasMount(t, false)
	if _, err := m.Install(context.Background(), def); err != nil {
		t.Fatal(err)
	}
	name := unit.PathToUnitName(def.Where)

	if _, err := m.Enable(context.Background(), def.Where); err != nil {
		t.Fatal(err)
	}
	if !ctl.calledWith("enable " + name + ".mount") {
		t.Errorf("calls = %v", ctl.calls)
	}
}

func TestMountRemoveDeletesBothUnits(t *testing.T) {
	m, _, files, _ := newTestMountManager(t)
	def := nasMount(t, true)
	if _, err := m.Install(context.Background(), def); err != nil {
		t.Fatal(err)
	}

	ok, err := m.Remove(context.Background(), def.Where)
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if !ok {
		t.Fatal("Remove() = false, want true")
	}
	if len(files.removed) != 2 {
		t.Errorf("removed = %v, want automount and mount", files.removed)
	}
	if _, err := os.Stat(def.Where); err != nil {
		t.Error("mount point directory must survive Remove")
	}
}

func TestMountIsMounted(t *testing.T) {
	m, ctl, _, _ := newTestMountManager(t)
	def := nasMount(t, false)
	name := unit.PathToUnitName(def.Where)
	ctl.states[name+".mount"] = "active"

	mounted, err := m.IsMounted(context.Background(), def.Where)
	if err != nil {
		t.Fatalf("IsMounted() error = %v", err)
	}
	if !mounted {
		t.Error("IsMounted() = false, want true")
	}
}
