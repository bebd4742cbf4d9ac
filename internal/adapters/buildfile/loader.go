// Package buildfile loads the optional forge.yaml driver config (spec.md
// §6): script-level variable defaults, the default want list, worker pool
// size, and logging levels. It is strictly a convenience layer over the
// Go script DSL, never the DSL itself.
package buildfile

import (
	"os"

	"gopkg.in/yaml.v3"

	"go.trai.ch/forge/internal/core/domain"
)

// FileName is the conventional name Load looks for in the project root.
const FileName = "forge.yaml"

// Loader reads and parses forge.yaml.
type Loader struct {
	fs FileSystem
}

// New creates a Loader using fs for file access.
func New(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Load reads forge.yaml from projectRoot. A missing file is not an error:
// Load returns a zero-value Config so callers can fall back to built-in
// defaults.
func (l *Loader) Load(projectRoot string) (Config, error) {
	path := projectRoot + string(os.PathSeparator) + FileName

	if _, err := l.fs.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}

	raw, err := l.fs.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ResolveConsoleLevel parses cfg's console level, falling back to
// domain.Normal when unset or unrecognized.
func (cfg Config) ResolveConsoleLevel() domain.LogLevel {
	if cfg.ConsoleLevel == "" {
		return domain.Normal
	}
	level, ok := domain.ParseLogLevel(cfg.ConsoleLevel)
	if !ok {
		return domain.Normal
	}
	return level
}

// ResolveFileLevel parses cfg's file-sink level, falling back to
// domain.Diag so a configured file sink captures everything by default.
func (cfg Config) ResolveFileLevel() domain.LogLevel {
	if cfg.FileLevel == "" {
		return domain.Diag
	}
	level, ok := domain.ParseLogLevel(cfg.FileLevel)
	if !ok {
		return domain.Diag
	}
	return level
}

// ResolveThreads returns cfg.Threads, falling back to fallback when unset
// or non-positive.
func (cfg Config) ResolveThreads(fallback int) int {
	if cfg.Threads > 0 {
		return cfg.Threads
	}
	return fallback
}
