package executor_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/forge/internal/adapters/fileset"
	"go.trai.ch/forge/internal/adapters/logger"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.trai.ch/forge/internal/engine/executor"
)

func TestExecutor_RunRule_PropagatesDatabasePutFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := mocks.NewMockBuildDatabase(ctrl)
	wantErr := errors.New("disk full")
	mockDB.EXPECT().Get(gomock.Any()).Return(domain.BuildResult{}, false)
	mockDB.EXPECT().Put(gomock.Any()).Return(wantErr)

	rules := domain.NewRuleSet(fileset.New())
	rules.Add(domain.NewPhonyRule("build", func(ctx domain.RecipeContext) error { return nil }))

	dir := filepath.Join(t.TempDir())
	log := logger.New(domain.Silent, false)
	defer log.Close()
	exec := executor.New(rules, mockDB, log, fileset.New(), dir, nil, 2, 100*time.Millisecond)

	_, err := exec.ExecOne(context.Background(), exec.ResolveName("build"))
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}
