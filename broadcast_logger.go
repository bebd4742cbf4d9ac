package forge

import (
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// broadcastLogger fans every call out to a fixed set of underlying loggers,
// letting a caller-supplied RunOptions.CustomLogger observe the same stream
// as the built-in console/file sinks without replacing them.
type broadcastLogger struct {
	sinks []ports.Logger
}

func newBroadcastLogger(sinks ...ports.Logger) *broadcastLogger {
	return &broadcastLogger{sinks: sinks}
}

func (b *broadcastLogger) Log(level domain.LogLevel, target, message string) {
	for _, sink := range b.sinks {
		sink.Log(level, target, message)
	}
}

func (b *broadcastLogger) Close() error {
	var err error
	for _, sink := range b.sinks {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

var _ ports.Logger = (*broadcastLogger)(nil)
