package db_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/forge/internal/adapters/db"
	"go.trai.ch/forge/internal/core/domain"
)

func TestDatabase_PutThenGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.xake")
	database, err := db.Open(path, nil)
	require.NoError(t, err)
	defer database.CloseAndFlush()

	target := domain.NewPhonyTarget("build")
	result := domain.BuildResult{
		Target:       target,
		Dependencies: []domain.Dependency{domain.EnvVarDep("X", "1", true)},
		BuiltAt:      time.Now().Truncate(time.Second),
	}
	require.NoError(t, database.Put(result))

	got, ok := database.Get(target)
	require.True(t, ok)
	assert.Equal(t, result.Target, got.Target)
	assert.Equal(t, result.Dependencies, got.Dependencies)
}

func TestDatabase_Get_MissingReturnsNotOK(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.xake")
	database, err := db.Open(path, nil)
	require.NoError(t, err)
	defer database.CloseAndFlush()

	_, ok := database.Get(domain.NewPhonyTarget("nothing"))
	assert.False(t, ok)
}

func TestDatabase_SurvivesReopenAfterCleanClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.xake")
	target := domain.NewFileTarget("/proj/out.bin")

	database, err := db.Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, database.Put(domain.BuildResult{
		Target:       target,
		Dependencies: []domain.Dependency{domain.FileSnapshot("/proj/in.c", time.Now().Truncate(time.Second))},
	}))
	require.NoError(t, database.CloseAndFlush())

	reopened, err := db.Open(path, nil)
	require.NoError(t, err)
	defer reopened.CloseAndFlush()

	got, ok := reopened.Get(target)
	require.True(t, ok)
	assert.Equal(t, target, got.Target)
}

func TestDatabase_CloseAndFlush_CompactsToOneRecordPerTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.xake")
	target := domain.NewFileTarget("/proj/out.bin")

	database, err := db.Open(path, nil)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, database.Put(domain.BuildResult{
			Target:       target,
			Dependencies: []domain.Dependency{domain.EnvVarDep("REV", string(rune('a'+i)), true)},
		}))
	}
	require.NoError(t, database.CloseAndFlush())

	reopened, err := db.Open(path, nil)
	require.NoError(t, err)
	defer reopened.CloseAndFlush()

	got, ok := reopened.Get(target)
	require.True(t, ok)
	require.Len(t, got.Dependencies, 1)
	assert.Equal(t, "c", got.Dependencies[0].VarValue, "latest write must win after compaction")
}

func TestDatabase_Open_TruncatesCorruptTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.xake")
	target := domain.NewFileTarget("/proj/out.bin")

	database, err := db.Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, database.Put(domain.BuildResult{Target: target}))
	require.NoError(t, database.CloseAndFlush())

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, domain.FilePerm)
	require.NoError(t, err)
	_, err = f.Write([]byte("garbage-tail-not-a-valid-record"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	var reason string
	reopened, err := db.Open(path, func(r string) { reason = r })
	require.NoError(t, err)
	defer reopened.CloseAndFlush()

	got, ok := reopened.Get(target)
	require.True(t, ok, "the valid record before the corrupt tail must still be readable")
	assert.Equal(t, target, got.Target)
	assert.NotEmpty(t, reason, "Open must report the truncation via logFn")
}
