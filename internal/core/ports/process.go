package ports

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
)

// ProcessRunner is the process-runner collaborator (spec.md §6): recipe
// helper tasks (a compiler wrapper, an rm task, …) use it to run external
// commands with streamed, prefixed output. It is invisible to the core
// engine, which never shells out on its own behalf; recipe bodies reach it
// through domain.RecipeContext.Run.
//
//go:generate mockgen -source=process.go -destination=mocks/mock_process.go -package=mocks
type ProcessRunner interface {
	// Run executes exe with args and waits for completion, streaming
	// stdout/stderr lines to the runner's configured sink. It returns the
	// process exit code and a non-nil error if the process could not be
	// started or exited non-zero.
	Run(ctx context.Context, exe string, args []string, opts domain.ProcessOptions) (exitCode int, err error)
}
