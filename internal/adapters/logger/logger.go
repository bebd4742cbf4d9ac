// Package logger implements ports.Logger as a multi-sink, leveled writer
// (spec.md §6, C5): a console sink and an optional file sink, each
// filtering independently by its own configured domain.LogLevel, tagged
// with a per-run correlation id so interleaved recipe output from the
// worker pool can be untangled afterwards.
package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

type sink struct {
	logger *slog.Logger
	level  domain.LogLevel
	closer io.Closer
}

// Logger is the concrete ports.Logger.
type Logger struct {
	runID string

	mu    sync.Mutex
	sinks []*sink
}

var _ ports.Logger = (*Logger)(nil)

// New creates a Logger with a single console sink writing to os.Stderr at
// consoleLevel. Pass jsonMode=true for machine-readable output instead of
// the colored pretty format.
func New(consoleLevel domain.LogLevel, jsonMode bool) *Logger {
	return NewWithWriter(os.Stderr, consoleLevel, jsonMode)
}

// NewWithWriter is New with an explicit console writer, so callers (and
// tests) can capture console output without touching os.Stderr.
func NewWithWriter(w io.Writer, consoleLevel domain.LogLevel, jsonMode bool) *Logger {
	return &Logger{
		runID: uuid.NewString(),
		sinks: []*sink{consoleSink(w, consoleLevel, jsonMode)},
	}
}

func consoleSink(w io.Writer, level domain.LogLevel, jsonMode bool) *sink {
	var handler slog.Handler
	if jsonMode {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = NewPrettyHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return &sink{logger: slog.New(handler), level: level}
}

// AddFileSink opens (creating or appending to) path and attaches it as an
// additional sink filtering at level, always in JSON form regardless of
// the console sink's mode.
func (l *Logger) AddFileSink(path string, level domain.LogLevel) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return err
	}
	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})

	l.mu.Lock()
	l.sinks = append(l.sinks, &sink{logger: slog.New(handler), level: level, closer: f})
	l.mu.Unlock()
	return nil
}

// Log implements ports.Logger.
func (l *Logger) Log(level domain.LogLevel, target, message string) {
	l.mu.Lock()
	sinks := l.sinks
	l.mu.Unlock()

	for _, s := range sinks {
		if level > s.level {
			continue
		}
		attrs := []slog.Attr{slog.String("run", l.runID)}
		if target != "" {
			attrs = append(attrs, slog.String("target", target))
		}
		s.logger.LogAttrs(context.Background(), slogLevelFor(level), message, attrs...)
	}
}

// Close implements ports.Logger, closing every sink that owns a resource.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	for _, s := range l.sinks {
		if s.closer != nil {
			if err := s.closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// slogLevelFor buckets a domain.LogLevel into the nearest slog.Level so the
// PrettyHandler can still color warnings and errors distinctly; callers
// that want a warning/error rendered distinctly log at Quiet, since a
// Quiet-configured sink still needs to see them.
func slogLevelFor(level domain.LogLevel) slog.Level {
	switch {
	case level <= domain.Silent:
		return slog.LevelError
	case level <= domain.Quiet:
		return slog.LevelWarn
	case level <= domain.Loud:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
