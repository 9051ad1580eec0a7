// Package runner executes external commands as discrete argument vectors.
// Arguments are never interpreted through a shell. Failures, non-zero exits
// and timeouts are all reported through the Result value; Run itself never
// returns an error.
package runner

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// waitDelayAfterKill is the grace period for a child to exit after its
// context is cancelled before it is forcibly killed. This gives the child
// time to handle SIGTERM and flush buffers.
const waitDelayAfterKill = 500 * time.Millisecond

// truncationSuffix is appended to captured output that exceeded MaxOutputBytes.
const truncationSuffix = "\n...[truncated]"

// DefaultTimeout bounds command execution when a Spec carries no timeout.
const DefaultTimeout = 30 * time.Second

// DefaultMaxOutputBytes caps captured stdout/stderr per stream.
const DefaultMaxOutputBytes = 1 << 20

// Config holds runner settings.
type Config struct {
	// DefaultTimeout bounds execution for specs without their own timeout.
	// Default: 30s.
	DefaultTimeout time.Duration

	// MaxOutputBytes caps the captured bytes per output stream. Default: 1MiB.
	MaxOutputBytes int64

	// DefaultEnv entries are appended to the process environment for every
	// command. Per-spec entries take precedence by coming later.
	DefaultEnv []string

	// DryRun logs each argument vector instead of executing it; results
	// report success with empty output.
	DryRun bool
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.DefaultTimeout == 0 {
		c.DefaultTimeout = DefaultTimeout
	}
	if c.MaxOutputBytes == 0 {
		c.MaxOutputBytes = DefaultMaxOutputBytes
	}
}

// Spec describes a single command invocation.
type Spec struct {
	// Args is the argument vector; Args[0] is the executable.
	Args []string

	// Dir is the working directory; empty means the caller's.
	Dir string

	// Env entries are appended to the inherited environment.
	Env []string

	// Timeout overrides the runner's default timeout when non-zero.
	Timeout time.Duration
}

// Result is the outcome of one command.
type Result struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Success  bool
	TimedOut bool
	Duration time.Duration
}

// Runner executes commands.
type Runner interface {
	// Run executes the spec, buffering output.
	Run(ctx context.Context, spec Spec) Result
	// RunStreaming executes the spec, forwarding output line by line to
	// the logger instead of buffering it.
	RunStreaming(ctx context.Context, spec Spec) Result
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an ExecRunner with defaults applied.
func New(cfg Config, logger *slog.Logger) *ExecRunner {
	cfg.ApplyDefaults()
	return &ExecRunner{
		cfg:    cfg,
		logger: logger.With("component", "runner"),
	}
}

// Run executes the spec and returns its buffered outcome. A timeout yields
// Success=false and TimedOut=true; a spawn failure yields Success=false
// with the failure message in Stderr. Once dispatched, a command cannot be
// aborted except through its timeout.
func (r *ExecRunner) Run(ctx context.Context, spec Spec) Result {
	if len(spec.Args) == 0 {
		return Result{ExitCode: -1, Stderr: "runner: empty argument vector"}
	}
	if r.cfg.DryRun {
		r.logger.Info("dry-run", "args", strings.Join(spec.Args, " "))
		return Result{Args: spec.Args, Success: true}
	}

	runCtx, cancel := r.commandContext(ctx, spec)
	defer cancel()

	cmd := r.command(runCtx, spec)
	stdout := newLimitedWriter(r.cfg.MaxOutputBytes)
	stderr := newLimitedWriter(r.cfg.MaxOutputBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	runErr := cmd.Run()

	res := Result{
		Args:     spec.Args,
		Stdout:   stdout.collect(),
		Stderr:   stderr.collect(),
		Duration: time.Since(start),
	}
	r.finish(&res, runCtx, runErr)
	return res
}

// RunStreaming executes the spec, forwarding each output line to the
// logger at info (stdout) or warn (stderr) level. The Result carries no
// buffered output.
func (r *ExecRunner) RunStreaming(ctx context.Context, spec Spec) Result {
	if len(spec.Args) == 0 {
		return Result{ExitCode: -1, Stderr: "runner: empty argument vector"}
	}
	if r.cfg.DryRun {
		r.logger.Info("dry-run", "args", strings.Join(spec.Args, " "))
		return Result{Args: spec.Args, Success: true}
	}

	runCtx, cancel := r.commandContext(ctx, spec)
	defer cancel()

	cmd := r.command(runCtx, spec)
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return Result{Args: spec.Args, ExitCode: -1, Stderr: err.Error()}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return Result{Args: spec.Args, ExitCode: -1, Stderr: err.Error()}
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{Args: spec.Args, ExitCode: -1, Stderr: err.Error()}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdoutPipe)
		for scanner.Scan() {
			r.logger.Info("command output", "line", scanner.Text())
		}
	}()
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderrPipe)
		for scanner.Scan() {
			r.logger.Warn("command output", "line", scanner.Text())
		}
	}()

	wg.Wait()
	runErr := cmd.Wait()

	res := Result{
		Args:     spec.Args,
		Duration: time.Since(start),
	}
	r.finish(&res, runCtx, runErr)
	return res
}

func (r *ExecRunner) commandContext(ctx context.Context, spec Spec) (context.Context, context.CancelFunc) {
	timeout := spec.Timeout
	if timeout == 0 {
		timeout = r.cfg.DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *ExecRunner) command(ctx context.Context, spec Spec) *exec.Cmd {
	cmd := exec.CommandContext(ctx, spec.Args[0], spec.Args[1:]...)
	cmd.WaitDelay = waitDelayAfterKill
	cmd.Dir = spec.Dir
	cmd.Env = r.buildEnv(spec.Env)
	return cmd
}

// buildEnv merges the process environment with the runner's defaults and
// the per-spec entries. nil keeps the inherited environment untouched.
func (r *ExecRunner) buildEnv(extra []string) []string {
	if len(r.cfg.DefaultEnv) == 0 && len(extra) == 0 {
		return nil
	}
	env := os.Environ()
	env = append(env, r.cfg.DefaultEnv...)
	env = append(env, extra...)
	return env
}

// finish maps the run error onto the result fields.
func (r *ExecRunner) finish(res *Result, runCtx context.Context, runErr error) {
	switch {
	case runErr == nil:
		res.Success = true
	case runCtx.Err() == context.DeadlineExceeded:
		res.TimedOut = true
		res.ExitCode = -1
		r.logger.Warn("command timed out", "args", strings.Join(res.Args, " "), "duration", res.Duration)
	default:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
			if res.Stderr == "" {
				res.Stderr = runErr.Error()
			}
		}
	}
}
