// Package pool implements the bounded-parallel, per-target memoised
// worker pool (spec.md §4.3, C6).
package pool

import (
	"context"
	"sync"

	"go.trai.ch/forge/internal/core/domain"
)

// ExecStatus is the outcome of one exec_one call (spec.md §4.6).
type ExecStatus string

const (
	// Succeeded indicates the recipe ran and completed without error.
	Succeeded ExecStatus = "Succeeded"
	// Skipped indicates the change detector found the target clean.
	Skipped ExecStatus = "Skipped"
	// JustFile indicates the target had no matching rule but already
	// existed on disk, so it was treated as a pre-existing input.
	JustFile ExecStatus = "JustFile"
)

// Result is what a submitted body resolves to.
type Result struct {
	Status ExecStatus
	Dep    domain.Dependency
}

// Body is the work a Submit call runs for a not-yet-seen target. It runs
// while holding one permit from the pool; it must call Pool.Release/Acquire
// around any suspension point that waits on other targets (spec.md §5).
type Body func(ctx context.Context) (Result, error)

type future struct {
	done   chan struct{}
	result Result
	err    error
}

// Pool bounds the number of recipe bodies executing concurrently to
// threads, and ensures each target's body runs at most once per build
// invocation: concurrent Submit calls for the same target share one
// future and observe the same Result.
type Pool struct {
	sem chan struct{}

	mu      sync.Mutex
	futures map[domain.Target]*future
}

// New creates a Pool with the given concurrency cap. threads < 1 is
// clamped to 1.
func New(threads int) *Pool {
	if threads < 1 {
		threads = 1
	}
	return &Pool{
		sem:     make(chan struct{}, threads),
		futures: make(map[domain.Target]*future),
	}
}

// Acquire blocks until a permit is available or ctx is cancelled.
func (p *Pool) Acquire(ctx context.Context) error {
	select {
	case p.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a held permit to the pool.
func (p *Pool) Release() {
	select {
	case <-p.sem:
	default:
	}
}

// Submit runs body for target, admitting it under the concurrency cap, and
// blocks the caller until it completes. A second concurrent Submit for the
// same target does not re-run body; it waits for and returns the same
// Result.
func (p *Pool) Submit(ctx context.Context, target domain.Target, body Body) (Result, error) {
	p.mu.Lock()
	if f, ok := p.futures[target]; ok {
		p.mu.Unlock()
		return wait(ctx, f)
	}

	f := &future{done: make(chan struct{})}
	p.futures[target] = f
	p.mu.Unlock()

	if err := p.Acquire(ctx); err != nil {
		f.err = err
		close(f.done)
		return Result{}, err
	}

	res, err := body(ctx)
	p.Release()

	f.result, f.err = res, err
	close(f.done)
	return res, err
}

func wait(ctx context.Context, f *future) (Result, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
