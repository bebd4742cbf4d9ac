package pool_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/engine/pool"
)

func TestPool_Submit_RunsBodyOnce(t *testing.T) {
	p := pool.New(4)
	target := domain.NewFileTarget("/proj/out.bin")

	var calls atomic.Int32
	body := func(ctx context.Context) (pool.Result, error) {
		calls.Add(1)
		return pool.Result{Status: pool.Succeeded}, nil
	}

	ctx := context.Background()
	res, err := p.Submit(ctx, target, body)
	require.NoError(t, err)
	assert.Equal(t, pool.Succeeded, res.Status)
	assert.Equal(t, int32(1), calls.Load())

	res2, err2 := p.Submit(ctx, target, body)
	require.NoError(t, err2)
	assert.Equal(t, pool.Succeeded, res2.Status)
	assert.Equal(t, int32(1), calls.Load(), "second Submit for the same target must not re-run body")
}

func TestPool_Submit_ConcurrentCallsShareOneFuture(t *testing.T) {
	p := pool.New(4)
	target := domain.NewPhonyTarget("build")

	var calls atomic.Int32
	release := make(chan struct{})
	body := func(ctx context.Context) (pool.Result, error) {
		calls.Add(1)
		<-release
		return pool.Result{Status: pool.Succeeded}, nil
	}

	ctx := context.Background()
	results := make(chan pool.Result, 2)
	for i := 0; i < 2; i++ {
		go func() {
			res, err := p.Submit(ctx, target, body)
			require.NoError(t, err)
			results <- res
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)

	r1 := <-results
	r2 := <-results
	assert.Equal(t, pool.Succeeded, r1.Status)
	assert.Equal(t, pool.Succeeded, r2.Status)
	assert.Equal(t, int32(1), calls.Load(), "only one goroutine should run body for the same target")
}

func TestPool_RespectsConcurrencyCap(t *testing.T) {
	p := pool.New(1)

	var running atomic.Int32
	var maxRunning atomic.Int32
	release := make(chan struct{})

	body := func(ctx context.Context) (pool.Result, error) {
		n := running.Add(1)
		for {
			old := maxRunning.Load()
			if n <= old || maxRunning.CompareAndSwap(old, n) {
				break
			}
		}
		<-release
		running.Add(-1)
		return pool.Result{Status: pool.Succeeded}, nil
	}

	ctx := context.Background()
	done := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		target := domain.NewFileTarget(string(rune('a' + i)))
		go func() {
			_, _ = p.Submit(ctx, target, body)
			done <- struct{}{}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), maxRunning.Load(), "cap=1 pool must never run two bodies concurrently")

	close(release)
	<-done
	<-done
}

func TestPool_Acquire_RespectsContextCancellation(t *testing.T) {
	p := pool.New(1)
	ctx := context.Background()
	require.NoError(t, p.Acquire(ctx))

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Acquire(cancelCtx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPool_ReleaseThenAcquire_NoDeadlockAtCapOne(t *testing.T) {
	// Models the executor's RunNeeded protocol directly: a body running
	// under the single permit releases it before waiting on a nested
	// target, then reacquires it, without ever deadlocking (spec.md §5).
	p := pool.New(1)
	inner := domain.NewFileTarget("/proj/inner")
	outer := domain.NewFileTarget("/proj/outer")

	ctx := context.Background()
	var order []string

	innerBody := func(ctx context.Context) (pool.Result, error) {
		order = append(order, "inner")
		return pool.Result{Status: pool.Succeeded}, nil
	}

	outerBody := func(ctx context.Context) (pool.Result, error) {
		order = append(order, "outer-start")
		p.Release()
		_, err := p.Submit(ctx, inner, innerBody)
		require.NoError(t, err)
		require.NoError(t, p.Acquire(ctx))
		order = append(order, "outer-end")
		return pool.Result{Status: pool.Succeeded}, nil
	}

	done := make(chan struct{})
	go func() {
		_, err := p.Submit(ctx, outer, outerBody)
		require.NoError(t, err)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("deadlocked waiting for outer body to complete")
	}

	assert.Equal(t, []string{"outer-start", "inner", "outer-end"}, order)
}
