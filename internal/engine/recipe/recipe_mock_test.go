package recipe_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/forge/internal/adapters/fileset"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.trai.ch/forge/internal/engine/recipe"
)

func TestContext_WriteLog_RoutesThroughLoggerTaggedWithTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Log(domain.Loud, "build", "linking binary")

	sched := &fakeScheduler{projectDir: "/proj"}
	target := domain.NewPhonyTarget("build")
	result := domain.NewBuildResult(target)
	ctx := recipe.NewContext(context.Background(), target, result, sched, fileset.New(), "/proj", nil, mockLogger, nil)

	ctx.WriteLog(domain.Loud, "linking binary")
}

func TestContext_Run_ForwardsToProcessRunner(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockProc := mocks.NewMockProcessRunner(ctrl)
	mockProc.EXPECT().
		Run(context.Background(), "cc", []string{"-c", "main.c"}, domain.ProcessOptions{LogPrefix: "[compile] "}).
		Return(0, nil)

	sched := &fakeScheduler{projectDir: "/proj"}
	target := domain.NewPhonyTarget("compile")
	result := domain.NewBuildResult(target)
	ctx := recipe.NewContext(context.Background(), target, result, sched, fileset.New(), "/proj", nil, mocks.NewMockLogger(ctrl), mockProc)

	exitCode, err := ctx.Run("cc", []string{"-c", "main.c"}, domain.ProcessOptions{LogPrefix: "[compile] "})
	require.NoError(t, err)
	require.Equal(t, 0, exitCode)
}
