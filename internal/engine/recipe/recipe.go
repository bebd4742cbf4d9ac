// Package recipe implements domain.RecipeContext: the handle a running
// recipe uses to declare the dependencies it discovers as it runs
// (spec.md §4.4, C7).
package recipe

import (
	"context"
	"os"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// Scheduler is the slice of the engine a Context needs to resolve and
// await other targets. executor.Executor satisfies it; recipe never
// imports executor to avoid a cycle.
type Scheduler interface {
	// ResolveName turns a bare name from Need into a Target, preferring a
	// matching Phony rule over a File target of the same name (§3).
	ResolveName(name string) domain.Target
	// ResolveFileTarget turns a path from NeedFiles into a File target,
	// ignoring any Phony rule of the same name.
	ResolveFileTarget(path string) domain.Target
	// RunNeeded executes or skips every target, releasing the calling
	// recipe's pool permit for the duration and reacquiring it before
	// returning (spec.md §5). It returns every failure encountered, joined.
	RunNeeded(ctx context.Context, targets []domain.Target) error
}

// Context is the concrete domain.RecipeContext implementation. A single
// recipe invocation owns one Context and one *domain.BuildResult; both are
// only ever touched by the goroutine running that recipe, so no locking is
// needed here.
type Context struct {
	ctx         context.Context
	target      domain.Target
	result      *domain.BuildResult
	scheduler   Scheduler
	matcher     domain.GlobMatcher
	projectRoot string
	vars        map[string]string
	logger      ports.Logger
	proc        ports.ProcessRunner
}

// NewContext builds a Context for one recipe execution against target.
func NewContext(
	ctx context.Context,
	target domain.Target,
	result *domain.BuildResult,
	scheduler Scheduler,
	matcher domain.GlobMatcher,
	projectRoot string,
	vars map[string]string,
	logger ports.Logger,
	proc ports.ProcessRunner,
) *Context {
	return &Context{
		ctx:         ctx,
		target:      target,
		result:      result,
		scheduler:   scheduler,
		matcher:     matcher,
		projectRoot: projectRoot,
		vars:        vars,
		logger:      logger,
		proc:        proc,
	}
}

var _ domain.RecipeContext = (*Context)(nil)

// Need resolves names and awaits them, recording an ArtifactDep for each in
// declaration order regardless of whether the dependency ran, was skipped,
// or was a bare file.
func (c *Context) Need(names ...string) error {
	targets := make([]domain.Target, len(names))
	for i, name := range names {
		targets[i] = c.scheduler.ResolveName(name)
	}
	return c.need(targets)
}

// NeedFiles is Need's file-only counterpart: it never resolves a name to a
// Phony target even if a Phony rule of the same name exists.
func (c *Context) NeedFiles(paths ...string) error {
	targets := make([]domain.Target, len(paths))
	for i, path := range paths {
		targets[i] = c.scheduler.ResolveFileTarget(path)
	}
	return c.need(targets)
}

func (c *Context) need(targets []domain.Target) error {
	if err := c.scheduler.RunNeeded(c.ctx, targets); err != nil {
		return err
	}
	for _, t := range targets {
		c.result.Dependencies = append(c.result.Dependencies, domain.ArtifactDep(t))
	}
	return nil
}

// GetEnv reads an environment variable and records its name, value, and
// presence so a later run can detect a change (§4.4).
func (c *Context) GetEnv(name string) (string, bool) {
	value, ok := os.LookupEnv(name)
	c.result.Dependencies = append(c.result.Dependencies, domain.EnvVarDep(name, value, ok))
	return value, ok
}

// GetVar reads a script-level variable, recording it the same way as GetEnv.
func (c *Context) GetVar(name string) (string, bool) {
	value, ok := c.vars[name]
	c.result.Dependencies = append(c.result.Dependencies, domain.ScriptVarDep(name, value, ok))
	return value, ok
}

// GetFiles expands fileset against the project root and records the
// pattern alongside the resolved set, so a later run can tell whether the
// set of matching files itself changed.
func (c *Context) GetFiles(fileset string) ([]string, error) {
	resolved, err := c.matcher.Expand(fileset, c.projectRoot)
	if err != nil {
		return nil, err
	}
	c.result.Dependencies = append(c.result.Dependencies, domain.FilelistDep(fileset, resolved))
	return resolved, nil
}

// AlwaysRerun marks the target as never eligible for skipping.
func (c *Context) AlwaysRerun() {
	c.result.Dependencies = append(c.result.Dependencies, domain.AlwaysRerunDep())
}

// WriteLog routes a recipe's own log line through the driver's logger,
// tagged with the target it belongs to.
func (c *Context) WriteLog(level domain.LogLevel, message string) {
	c.logger.Log(level, c.target.Name(), message)
}

// Run executes exe as a subprocess, delegating to the driver's process
// runner. It does not itself record a dependency: recipes that shell out to
// read or write files should still declare them via Need/NeedFiles/GetFiles.
func (c *Context) Run(exe string, args []string, opts domain.ProcessOptions) (int, error) {
	return c.proc.Run(c.ctx, exe, args, opts)
}
