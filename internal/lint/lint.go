// Package lint shells out to an external Python style checker and
// folds its findings into analysis reports. The checker is optional
// tooling: every failure mode (missing binary, timeout, crash)
// degrades to an empty issue list rather than an error.
package lint

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const (
	// DefaultCommand is the flake8-compatible checker invoked per file.
	DefaultCommand = "flake8"
	// DefaultMaxLineLength mirrors the common relaxed flake8 setting.
	DefaultMaxLineLength = 120
	// DefaultTimeout bounds a single checker run.
	DefaultTimeout = 30 * time.Second
)

// Runner invokes the style checker on individual files.
type Runner struct {
	command       string
	maxLineLength int
	timeout       time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithCommand overrides the checker binary.
func WithCommand(cmd string) Option {
	return func(r *Runner) { r.command = cmd }
}

// WithMaxLineLength sets the line length passed to the checker.
func WithMaxLineLength(n int) Option {
	return func(r *Runner) { r.maxLineLength = n }
}

// WithTimeout bounds each checker invocation.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// New creates a runner with flake8 defaults.
func New(opts ...Option) *Runner {
	r := &Runner{
		command:       DefaultCommand,
		maxLineLength: DefaultMaxLineLength,
		timeout:       DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Check runs the style checker against a file and returns one issue
// per output line. The checker exiting non-zero is expected when
// issues are found; its stdout is still consumed. A run that exceeds
// the timeout yields an empty list, discarding any partial output,
// and any other failure yields an empty list too.
func (r *Runner) Check(ctx context.Context, path string) []string {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.command, fmt.Sprintf("--max-line-length=%d", r.maxLineLength), path)
	// Without a wait delay, a child process inheriting stdout keeps
	// Output blocked past the kill.
	cmd.WaitDelay = time.Second
	out, err := cmd.Output()
	if ctx.Err() != nil {
		return []string{}
	}
	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return []string{}
		}
	}

	issues := []string{}
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			issues = append(issues, line)
		}
	}
	return issues
}
