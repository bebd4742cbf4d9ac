// Package executor implements exec_one / exec_many / exec_need (spec.md
// §4.6, C9): the glue between the rule matcher, the worker pool, the
// change detector, and the recipe runtime.
package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/forge/internal/adapters/process"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/detector"
	"go.trai.ch/forge/internal/engine/pool"
	"go.trai.ch/forge/internal/engine/recipe"
)

// Executor resolves targets against a RuleSet and drives their execution
// through the worker pool, consulting the change detector before running
// any recipe and persisting a fresh BuildResult after a successful one.
type Executor struct {
	rules       *domain.RuleSet
	pool        *pool.Pool
	db          ports.BuildDatabase
	detector    *detector.Detector
	logger      ports.Logger
	matcher     domain.GlobMatcher
	proc        ports.ProcessRunner
	projectRoot string
	vars        map[string]string
	now         func() time.Time
	force       bool

	memo *detector.Memo
}

// ForceRebuild toggles whether the change detector is consulted at all: when
// true, every demanded target reruns its recipe regardless of its stored
// dependency history (the --no-cache escape hatch, spec.md §6).
func (e *Executor) ForceRebuild(force bool) {
	e.force = force
}

// New builds an Executor for one build invocation. threads bounds recipe
// concurrency; tolerance is the change detector's mtime slack.
func New(
	rules *domain.RuleSet,
	db ports.BuildDatabase,
	logger ports.Logger,
	matcher domain.GlobMatcher,
	projectRoot string,
	vars map[string]string,
	threads int,
	tolerance time.Duration,
) *Executor {
	return &Executor{
		rules:       rules,
		pool:        pool.New(threads),
		db:          db,
		detector:    detector.New(db, matcher, projectRoot, vars, tolerance),
		logger:      logger,
		matcher:     matcher,
		proc:        process.New(logger),
		projectRoot: projectRoot,
		vars:        vars,
		now:         time.Now,
		memo:        detector.NewMemo(),
	}
}

var _ recipe.Scheduler = (*Executor)(nil)

// ResolveName implements recipe.Scheduler: a Phony rule of the same name
// shadows a File target (spec.md §3).
func (e *Executor) ResolveName(name string) domain.Target {
	if e.rules.HasPhony(name) {
		return domain.NewPhonyTarget(name)
	}
	return e.ResolveFileTarget(name)
}

// ResolveFileTarget implements recipe.Scheduler.
func (e *Executor) ResolveFileTarget(path string) domain.Target {
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.projectRoot, path)
	}
	return domain.NewFileTarget(path)
}

// RunNeeded implements recipe.Scheduler: it releases the calling recipe's
// pool permit while targets run concurrently, then reacquires it before
// returning control (spec.md §5 "no-deadlock property").
func (e *Executor) RunNeeded(ctx context.Context, targets []domain.Target) error {
	e.pool.Release()
	e.logger.Log(domain.Diag, "", "released permit to await dependencies")

	_, err := e.ExecMany(ctx, targets)

	if acquireErr := e.pool.Acquire(ctx); acquireErr != nil {
		if err == nil {
			err = acquireErr
		}
	} else {
		e.logger.Log(domain.Diag, "", "reacquired permit, resuming")
	}
	return err
}

// ExecOne runs or skips a single target, memoised for the lifetime of this
// Executor's build invocation (spec.md §4.6 exec_one).
func (e *Executor) ExecOne(ctx context.Context, target domain.Target) (pool.Result, error) {
	rule, ok := e.rules.Locate(target, e.projectRoot)
	if !ok {
		return e.pool.Submit(ctx, target, func(_ context.Context) (pool.Result, error) {
			return e.execUnmatched(target)
		})
	}

	return e.pool.Submit(ctx, target, func(ctx context.Context) (pool.Result, error) {
		return e.runRule(ctx, target, rule)
	})
}

// execUnmatched handles a target with no matching rule: a pre-existing
// file is treated as a leaf input. It is still persisted as a trivial
// BuildResult recording its own mtime, so that a dependent reached via
// Need/NeedFiles can be compared against a recorded history instead of
// being deemed dirty forever for lack of one (spec.md §4.5). It runs
// through the pool like runRule, so two concurrent needs of the same
// rule-less file de-duplicate instead of stat-ing and persisting twice
// (spec.md §4.3).
func (e *Executor) execUnmatched(target domain.Target) (pool.Result, error) {
	if target.IsFile() {
		if info, err := os.Stat(target.Path()); err == nil {
			dep := domain.FileSnapshot(target.Path(), info.ModTime())
			if putErr := e.db.Put(domain.BuildResult{
				Target:       target,
				Dependencies: []domain.Dependency{dep},
				BuiltAt:      info.ModTime(),
			}); putErr != nil {
				return pool.Result{}, putErr
			}
			return pool.Result{Status: pool.JustFile, Dep: dep}, nil
		}
	}
	return pool.Result{}, fmt.Errorf("%w: %s", domain.ErrNoRule, target.Name())
}

func (e *Executor) runRule(ctx context.Context, target domain.Target, rule domain.Rule) (pool.Result, error) {
	if e.force {
		e.logger.Log(domain.Chatty, target.Name(), "rebuild forced, skipping change detection")
	} else {
		verdict := e.detector.IsDirty(target, e.memo)
		if verdict.Reason != "" {
			level := domain.Chatty
			if !verdict.Dirty {
				level = domain.Diag
			}
			e.logger.Log(level, target.Name(), verdict.Reason)
		}
		if !verdict.Dirty {
			e.logger.Log(domain.Loud, target.Name(), "skipped")
			return pool.Result{Status: pool.Skipped, Dep: domain.ArtifactDep(target)}, nil
		}
	}

	result := domain.NewBuildResult(target)
	rc := recipe.NewContext(ctx, target, result, e, e.matcher, e.projectRoot, e.vars, e.logger, e.proc)

	if err := rule.Recipe(rc); err != nil {
		return pool.Result{}, fmt.Errorf("%w: %s: %w", domain.ErrRecipeFailed, target.Name(), err)
	}

	result.BuiltAt = e.now()
	if err := e.db.Put(*result); err != nil {
		return pool.Result{}, err
	}

	e.logger.Log(domain.Loud, target.Name(), "succeeded")
	return pool.Result{Status: pool.Succeeded, Dep: domain.ArtifactDep(target)}, nil
}

// ExecMany runs every target concurrently (bounded by the pool's cap) and
// returns as soon as all have finished, aggregating every failure instead
// of stopping at the first (spec.md §4 "exec_many error aggregation").
func (e *Executor) ExecMany(ctx context.Context, targets []domain.Target) ([]pool.Result, error) {
	results := make([]pool.Result, len(targets))
	errs := make([]error, len(targets))

	var wg sync.WaitGroup
	wg.Add(len(targets))
	for i, target := range targets {
		i, target := i, target
		go func() {
			defer wg.Done()
			res, err := e.ExecOne(ctx, target)
			results[i] = res
			errs[i] = err
		}()
	}
	wg.Wait()

	return results, errors.Join(errs...)
}

// CloseAndFlush finalises the underlying build database, compacting it to
// one record per target.
func (e *Executor) CloseAndFlush() error {
	return e.db.CloseAndFlush()
}
