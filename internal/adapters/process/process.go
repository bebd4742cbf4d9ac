// Package process implements ports.ProcessRunner using os/exec, streaming
// each child process's stdout/stderr line-by-line into the driver's logger
// (spec.md §6, grounded on the line-buffered logWriter idiom the teacher
// uses for its shell executor).
package process

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// Runner is the concrete ports.ProcessRunner.
type Runner struct {
	logger ports.Logger
}

// New creates a Runner that streams output through logger at Loud level.
func New(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

var _ ports.ProcessRunner = (*Runner)(nil)

// Run implements ports.ProcessRunner.
func (r *Runner) Run(ctx context.Context, exe string, args []string, opts domain.ProcessOptions) (int, error) {
	cmd := exec.CommandContext(ctx, exe, args...) //nolint:gosec // caller-controlled recipe command

	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if opts.Env != nil {
		cmd.Env = opts.Env
	} else {
		cmd.Env = os.Environ()
	}

	stdout := &logWriter{logger: r.logger, prefix: opts.LogPrefix}
	stderr := &logWriter{logger: r.logger, prefix: opts.LogPrefix}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	runErr := cmd.Run()
	stdout.flush()
	stderr.flush()

	exitCode := 0
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if runErr != nil {
		exitCode = -1
	}
	return exitCode, runErr
}

// logWriter buffers partial lines and logs each complete line at Loud
// level as it arrives, tagged with prefix.
type logWriter struct {
	logger ports.Logger
	prefix string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *logWriter) flush() {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
}

func (w *logWriter) logLine(line []byte) {
	w.logger.Log(domain.Loud, w.prefix, string(line))
}
