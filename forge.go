// Package forge is the library surface a build script imports: construct a
// Script by registering rules against it, then Run it against a list of
// wanted targets (spec.md §1–§6). It plays the role the teacher's
// internal/app.App plays for its CLI, but as a library entrypoint — the
// script DSL and argument parsing are out-of-scope collaborators (§6) left
// to the caller.
package forge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"go.trai.ch/forge/internal/adapters/buildfile"
	"go.trai.ch/forge/internal/adapters/db"
	"go.trai.ch/forge/internal/adapters/fileset"
	"go.trai.ch/forge/internal/adapters/logger"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/executor"
	"go.trai.ch/zerr"
)

// DefaultTolerance is the mtime-comparison slack used when RunOptions
// leaves Tolerance unset.
const DefaultTolerance = 100 * time.Millisecond

// Script accumulates rules and runs a build against them.
type Script struct {
	rules       *domain.RuleSet
	projectRoot string
	vars        map[string]string
}

// NewScript creates an empty Script rooted at projectRoot.
func NewScript(projectRoot string) *Script {
	return &Script{
		rules:       domain.NewRuleSet(fileset.New()),
		projectRoot: projectRoot,
		vars:        make(map[string]string),
	}
}

// Phony registers a Phony rule.
func (s *Script) Phony(name string, recipe domain.Recipe) *Script {
	s.rules.Add(domain.NewPhonyRule(name, recipe))
	return s
}

// Pattern registers a rule matching File targets by glob, relative to the
// project root.
func (s *Script) Pattern(glob string, recipe domain.Recipe) *Script {
	s.rules.Add(domain.NewFilePatternRule(glob, recipe))
	return s
}

// Predicate registers a rule matching File targets via an arbitrary
// predicate over the absolute path.
func (s *Script) Predicate(pred domain.FilePredicateFunc, recipe domain.Recipe) *Script {
	s.rules.Add(domain.NewFilePredicateRule(pred, recipe))
	return s
}

// Demands registers the `name ⇐ [targets...]` shorthand rule (spec.md §6).
func (s *Script) Demands(name string, targets ...string) *Script {
	s.rules.Add(domain.Demands(name, targets...))
	return s
}

// SetVar sets a script-level variable visible to recipes via GetVar.
func (s *Script) SetVar(name, value string) *Script {
	s.vars[name] = value
	return s
}

// RunOptions configures one Run invocation.
type RunOptions struct {
	// Threads bounds recipe concurrency; <1 falls back to forge.yaml's
	// threads, then the FORGE_THREADS environment variable, then
	// runtime.NumCPU.
	Threads int
	// NoCache forces every demanded target to rebuild regardless of the
	// change detector's verdict.
	NoCache bool
	// Tolerance overrides DefaultTolerance for mtime comparisons.
	Tolerance time.Duration
	// DatabasePath overrides domain.DefaultDatabasePath(projectRoot).
	DatabasePath string
	// Logger overrides the default console logger entirely, when set.
	Logger ports.Logger
	// ConsoleLevel configures the default console logger's verbosity; ignored
	// if Logger is set.
	ConsoleLevel domain.LogLevel
	// JSONLogs switches the default console logger to JSON; ignored if
	// Logger is set.
	JSONLogs bool
	// FileLogPath, if set, adds a file sink to the default console logger at
	// FileLogLevel; ignored if Logger is set.
	FileLogPath  string
	FileLogLevel domain.LogLevel
	// CustomLogger, if set, receives every log line alongside the built-in
	// sink(s) — spec.md §6 "custom_logger composed with the built-ins".
	CustomLogger ports.Logger
	// Quiet suppresses Run's returned error after logging it, instead of
	// propagating it to the caller (spec.md §6 "fail_on_error").
	Quiet bool
}

func (o RunOptions) threads(fallback int) int {
	if o.Threads > 0 {
		return o.Threads
	}
	return fallback
}

func (o RunOptions) tolerance() time.Duration {
	if o.Tolerance > 0 {
		return o.Tolerance
	}
	return DefaultTolerance
}

func (o RunOptions) databasePath(projectRoot string) string {
	if o.DatabasePath != "" {
		return o.DatabasePath
	}
	return domain.DefaultDatabasePath(projectRoot)
}

// Run builds every target in want (phony names or file paths), returning
// domain.ErrBuildFailed joined with every recipe failure encountered
// (spec.md §4 exec_many aggregation). Any vars/want/threads/log-level left
// at their Go zero value, both here and in opts, fall back to the optional
// forge.yaml in the project root (spec.md §6) before the hardcoded default.
func (s *Script) Run(ctx context.Context, want []string, opts RunOptions) error {
	cfg, err := buildfile.New(buildfile.NewOSFS()).Load(s.projectRoot)
	if err != nil {
		return zerr.Wrap(err, "failed to load forge.yaml")
	}

	if len(want) == 0 {
		want = cfg.Want
	}
	if len(want) == 0 {
		want = []string{"main"}
	}

	vars := mergeVars(cfg.Vars, s.vars)

	log := opts.Logger
	if log == nil {
		consoleLevel := opts.ConsoleLevel
		if consoleLevel == domain.Silent {
			consoleLevel = cfg.ResolveConsoleLevel()
		}
		concreteLogger := logger.New(consoleLevel, opts.JSONLogs)

		fileLogPath := opts.FileLogPath
		if fileLogPath == "" {
			fileLogPath = cfg.FileLog
		}
		if fileLogPath != "" {
			fileLogLevel := opts.FileLogLevel
			if fileLogLevel == domain.Silent {
				fileLogLevel = cfg.ResolveFileLevel()
			}
			if err := concreteLogger.AddFileSink(fileLogPath, fileLogLevel); err != nil {
				return zerr.Wrap(err, "failed to open log file")
			}
		}
		log = concreteLogger
	}
	if opts.CustomLogger != nil {
		log = newBroadcastLogger(log, opts.CustomLogger)
	}
	defer func() { _ = log.Close() }()

	dbPath := opts.databasePath(s.projectRoot)
	database, err := db.Open(dbPath, func(reason string) { log.Log(domain.Quiet, "", reason) })
	if err != nil {
		return zerr.Wrap(err, "failed to open build database")
	}

	matcher := fileset.New()
	threads := opts.threads(cfg.ResolveThreads(defaultThreads()))
	exec := executor.New(s.rules, database, log, matcher, s.projectRoot, vars, threads, opts.tolerance())
	if opts.NoCache {
		exec.ForceRebuild(true)
	}

	targets := make([]domain.Target, len(want))
	for i, name := range want {
		targets[i] = exec.ResolveName(name)
	}

	_, buildErr := exec.ExecMany(ctx, targets)

	flushErr := exec.CloseAndFlush()

	if buildErr == nil && flushErr == nil {
		return nil
	}

	combined := errors.Join(domain.ErrBuildFailed, buildErr, flushErr)
	if opts.Quiet {
		log.Log(domain.Quiet, "", logger.FormatError(combined))
		return nil
	}
	return combined
}

// CleanOptions configures Clean.
type CleanOptions struct {
	// Database removes the persistent build database.
	Database bool
}

// Clean removes build-time state without running any recipe.
func (s *Script) Clean(_ context.Context, opts CleanOptions) error {
	if !opts.Database {
		return nil
	}
	path := domain.DefaultDatabasePath(s.projectRoot)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing build database: %w", err)
	}
	return nil
}

// mergeVars layers scriptVars (set via Script.SetVar) over cfgVars (loaded
// from forge.yaml), so a script's own SetVar call always wins over the
// convenience config file.
func mergeVars(cfgVars, scriptVars map[string]string) map[string]string {
	merged := make(map[string]string, len(cfgVars)+len(scriptVars))
	for k, v := range cfgVars {
		merged[k] = v
	}
	for k, v := range scriptVars {
		merged[k] = v
	}
	return merged
}

func defaultThreads() int {
	if n := os.Getenv("FORGE_THREADS"); n != "" {
		if parsed, err := strconv.Atoi(n); err == nil && parsed > 0 {
			return parsed
		}
	}
	return runtime.NumCPU()
}
