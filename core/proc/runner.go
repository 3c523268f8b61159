// Package proc runs the external programs the pipeline depends on.
package proc

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single external process.
const DefaultTimeout = 5 * time.Minute

// maxOutput is how much of a failed process's output ends up in the error.
const maxOutput = 2048

// waitDelay caps how long output copying may outlive a killed process.
const waitDelay = 10 * time.Second

// ExecRunner starts programs with os/exec, one at a time.
type ExecRunner struct {
	Timeout time.Duration
	Logger  *slog.Logger
}

// New creates an ExecRunner with the given per-process timeout.
// A zero timeout means DefaultTimeout.
func New(timeout time.Duration, logger *slog.Logger) *ExecRunner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecRunner{Timeout: timeout, Logger: logger}
}

// Run executes name with args and waits for it to exit. A non-zero exit
// status, a failure to start, or hitting the timeout is an error that
// carries the tail of the combined output.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.WaitDelay = waitDelay

	r.Logger.Debug("running", "cmd", name, "args", args)
	start := time.Now()
	err := cmd.Run()
	r.Logger.Debug("finished", "cmd", name, "duration", time.Since(start), "error", err)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("running %s: %w", name, ctx.Err())
		}
		return fmt.Errorf("running %s: %w%s", name, err, tail(out.String()))
	}
	return nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(s) > maxOutput {
		s = "..." + s[len(s)-maxOutput:]
	}
	return ": " + s
}
