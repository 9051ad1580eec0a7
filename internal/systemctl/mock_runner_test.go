package systemctl

import (
	"context"
	"strings"

	"github.com/sysforge/unitctl/internal/runner"
)

// mockRunner records dispatched specs and replays scripted results keyed by
// a substring of the joined argument vector. Unmatched commands succeed.
type mockRunner struct {
	calls   []runner.Spec
	results map[string]runner.Result
}

func newMockRunner() *mockRunner {
	return &mockRunner{results: make(map[string]runner.Result)}
}

func (m *mockRunner) scriptResult(argsSubstring string, res runner.Result) {
	m.results[argsSubstring] = res
}

func (m *mockRunner) Run(_ context.Context, spec runner.Spec) runner.Result {
	m.calls = append(m.calls, spec)
	joined := strings.Join(spec.Args, " ")
	for substr, res := range m.results {
		if strings.Contains(joined, substr) {
			return res
		}
	}
	return runner.Result{Args: spec.Args, Success: true}
}

func (m *mockRunner) RunStreaming(ctx context.Context, spec runner.Spec) runner.Result {
	return m.Run(ctx, spec)
}

func (m *mockRunner) lastArgs() []string {
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1].Args
}
