package manager

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/sysforge/unitctl/internal/systemctl"
)

// mockController records every systemctl call and replays scripted
// outcomes. Operations succeed unless listed in fail.
type mockController struct {
	mu     sync.Mutex
	calls  []string
	fail   map[string]bool
	states map[string]string
	timers []systemctl.TimerEntry
}

func newMockController() *mockController {
	return &mockController{
		fail:   make(map[string]bool),
		states: make(map[string]string),
	}
}

func (c *mockController) record(call string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
	return !c.fail[call]
}

func (c *mockController) calledWith(call string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, got := range c.calls {
		if got == call {
			return true
		}
	}
	return false
}

func (c *mockController) Reload(context.Context) bool { return c.record("reload") }

func (c *mockController) Enable(_ context.Context, name string) (bool, error) {
	return c.record("enable " + name), nil
}

func (c *mockController) Disable(_ context.Context, name string) (bool, error) {
	return c.record("disable " + name), nil
}

func (c *mockController) Start(_ context.Context, name string) (bool, error) {
	return c.record("start " + name), nil
}

func (c *mockController) Stop(_ context.Context, name string) (bool, error) {
	return c.record("stop " + name), nil
}

func (c *mockController) Restart(_ context.Context, name string) (bool, error) {
	return c.record("restart " + name), nil
}

func (c *mockController) Status(_ context.Context, name string) (string, error) {
	c.record("status " + name)
	return c.states[name], nil
}

func (c *mockController) IsActive(ctx context.Context, name string) (bool, error) {
	state, _ := c.Status(ctx, name)
	return state == "active", nil
}

func (c *mockController) IsEnabled(_ context.Context, name string) (bool, error) {
	return c.record("is-enabled " + name), nil
}

func (c *mockController) ListTimers(context.Context) []systemctl.TimerEntry {
	c.record("list-timers")
	return c.timers
}

// mockFileWriter writes real files under a test directory so existence
// checks observe them, and records each path touched.
type mockFileWriter struct {
	mu      sync.Mutex
	written []string
	removed []string
	failAll bool
}

func (w *mockFileWriter) Write(path string, content []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failAll {
		return os.ErrPermission
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return err
	}
	w.written = append(w.written, path)
	return nil
}

func (w *mockFileWriter) Remove(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failAll {
		return os.ErrPermission
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	w.removed = append(w.removed, path)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
