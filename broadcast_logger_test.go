package forge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/forge/internal/core/domain"
)

type recordingLogger struct {
	lines  []string
	closed bool
}

func (r *recordingLogger) Log(_ domain.LogLevel, _ string, message string) {
	r.lines = append(r.lines, message)
}

func (r *recordingLogger) Close() error {
	r.closed = true
	return nil
}

func TestBroadcastLogger_Log_ReachesAllSinks(t *testing.T) {
	a, b := &recordingLogger{}, &recordingLogger{}
	bl := newBroadcastLogger(a, b)

	bl.Log(domain.Normal, "build", "compiling")

	assert.Equal(t, []string{"compiling"}, a.lines)
	assert.Equal(t, []string{"compiling"}, b.lines)
}

func TestBroadcastLogger_Close_ClosesAllSinks(t *testing.T) {
	a, b := &recordingLogger{}, &recordingLogger{}
	bl := newBroadcastLogger(a, b)

	require.NoError(t, bl.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}
