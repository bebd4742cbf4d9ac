package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/logger"
	"go.trai.ch/forge/internal/core/domain"
)

func TestLogger_Log_FiltersByLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	lg := logger.NewWithWriter(buf, domain.Normal, true)

	lg.Log(domain.Diag, "build", "very chatty detail")
	assert.Empty(t, buf.String(), "Diag message should be suppressed at Normal")

	lg.Log(domain.Quiet, "build", "a warning worth seeing")
	assert.Contains(t, buf.String(), "a warning worth seeing")
}

func TestLogger_Log_TargetTag(t *testing.T) {
	buf := &bytes.Buffer{}
	lg := logger.NewWithWriter(buf, domain.Diag, true)

	lg.Log(domain.Normal, "//app:build", "compiling")
	assert.Contains(t, buf.String(), "//app:build")
	assert.Contains(t, buf.String(), "compiling")
}

func TestLogger_AddFileSink(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forge.log")

	lg := logger.New(domain.Silent, true)
	require.NoError(t, lg.AddFileSink(path, domain.Diag))

	lg.Log(domain.Diag, "app:build", "wrote a dependency record")
	require.NoError(t, lg.Close())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "wrote a dependency record")
}

func TestLogger_IndependentSinkLevels(t *testing.T) {
	console := &bytes.Buffer{}
	lg := logger.NewWithWriter(console, domain.Quiet, true)

	dir := t.TempDir()
	path := filepath.Join(dir, "forge.log")
	require.NoError(t, lg.AddFileSink(path, domain.Diag))

	lg.Log(domain.Diag, "app:build", "diagnostic detail")
	require.NoError(t, lg.Close())

	assert.Empty(t, console.String(), "console at Quiet should not see Diag lines")

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "diagnostic detail", "file sink at Diag should see it")
}
