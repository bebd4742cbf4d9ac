// Package detector implements the change detector (spec.md §4.5, C8): it
// decides, purely from a target's last stored BuildResult, whether that
// target's recipe must rerun.
package detector

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// Verdict is the outcome of one dirtiness check, carrying a human-readable
// reason so the driver can log why a target rebuilt (spec.md §4 "why-dirty"
// logging).
type Verdict struct {
	Dirty  bool
	Reason string
}

// Memo caches Verdicts for the lifetime of one build invocation so that a
// target shared by many dependents is evaluated once (spec.md §8
// "memoisation"), and guards against a cycle in recorded history degrading
// into infinite recursion.
type Memo struct {
	mu       sync.Mutex
	results  map[domain.Target]Verdict
	visiting map[domain.Target]bool
}

// NewMemo creates an empty per-run memo.
func NewMemo() *Memo {
	return &Memo{
		results:  make(map[domain.Target]Verdict),
		visiting: make(map[domain.Target]bool),
	}
}

// Detector evaluates Verdicts against a BuildDatabase's stored history.
type Detector struct {
	db          ports.BuildDatabase
	matcher     domain.GlobMatcher
	projectRoot string
	vars        map[string]string
	tolerance   time.Duration
	statFunc    func(path string) (os.FileInfo, error)
}

// New creates a Detector. tolerance is the mtime comparison slack (§2,
// default 100ms). vars supplies current script-variable values for
// DepScriptVar comparisons.
func New(db ports.BuildDatabase, matcher domain.GlobMatcher, projectRoot string, vars map[string]string, tolerance time.Duration) *Detector {
	return &Detector{
		db:          db,
		matcher:     matcher,
		projectRoot: projectRoot,
		vars:        vars,
		tolerance:   tolerance,
		statFunc:    os.Stat,
	}
}

// IsDirty evaluates target under m, memoising the result.
func (d *Detector) IsDirty(target domain.Target, m *Memo) Verdict {
	m.mu.Lock()
	if v, ok := m.results[target]; ok {
		m.mu.Unlock()
		return v
	}
	if m.visiting[target] {
		m.mu.Unlock()
		return Verdict{Dirty: true, Reason: "cycle detected in recorded dependency history"}
	}
	m.visiting[target] = true
	m.mu.Unlock()

	v := d.evaluate(target, m)

	m.mu.Lock()
	delete(m.visiting, target)
	m.results[target] = v
	m.mu.Unlock()
	return v
}

func (d *Detector) evaluate(target domain.Target, m *Memo) Verdict {
	prev, ok := d.db.Get(target)
	if !ok {
		return Verdict{Dirty: true, Reason: "no recorded build"}
	}
	if len(prev.Dependencies) == 0 {
		return Verdict{Dirty: true, Reason: "recorded build has no dependencies"}
	}
	if target.IsFile() {
		if _, err := d.statFunc(target.Path()); err != nil {
			return Verdict{Dirty: true, Reason: fmt.Sprintf("target file %s is missing", target.Path())}
		}
	}

	for _, dep := range prev.Dependencies {
		if v := d.checkDependency(dep, m); v.Dirty {
			return v
		}
	}
	return Verdict{Dirty: false, Reason: "unchanged"}
}

func (d *Detector) checkDependency(dep domain.Dependency, m *Memo) Verdict {
	switch dep.Kind {
	case domain.DepFileSnapshot:
		info, err := d.statFunc(dep.Path)
		if err != nil {
			return Verdict{Dirty: true, Reason: fmt.Sprintf("file %s no longer exists", dep.Path)}
		}
		if absDuration(info.ModTime().Sub(dep.Mtime)) > d.tolerance {
			return Verdict{Dirty: true, Reason: fmt.Sprintf("file %s was modified", dep.Path)}
		}
		return Verdict{Dirty: false}

	case domain.DepArtifact:
		t := dep.Target
		if t.IsFile() {
			if _, err := d.statFunc(t.Path()); err != nil {
				return Verdict{Dirty: true, Reason: fmt.Sprintf("dependency %s no longer exists", t.Name())}
			}
		}
		if v := d.IsDirty(t, m); v.Dirty {
			return Verdict{Dirty: true, Reason: fmt.Sprintf("dependency %s is dirty: %s", t.Name(), v.Reason)}
		}
		return Verdict{Dirty: false}

	case domain.DepEnvVar:
		value, set := os.LookupEnv(dep.VarName)
		if set != dep.VarSet || value != dep.VarValue {
			return Verdict{Dirty: true, Reason: fmt.Sprintf("environment variable %s changed", dep.VarName)}
		}
		return Verdict{Dirty: false}

	case domain.DepScriptVar:
		value, set := d.vars[dep.VarName]
		if set != dep.VarSet || value != dep.VarValue {
			return Verdict{Dirty: true, Reason: fmt.Sprintf("script variable %s changed", dep.VarName)}
		}
		return Verdict{Dirty: false}

	case domain.DepFilelist:
		resolved, err := d.matcher.Expand(dep.FilesetSpec, d.projectRoot)
		if err != nil {
			return Verdict{Dirty: true, Reason: fmt.Sprintf("fileset %s failed to expand: %v", dep.FilesetSpec, err)}
		}
		if !sameList(resolved, dep.Resolved) {
			return Verdict{Dirty: true, Reason: fmt.Sprintf("fileset %s membership changed", dep.FilesetSpec)}
		}
		return Verdict{Dirty: false}

	case domain.DepAlwaysRerun:
		return Verdict{Dirty: true, Reason: "target is marked always-rerun"}

	default:
		return Verdict{Dirty: true, Reason: "unrecognized dependency record"}
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// sameList compares two filelist expansions as ordered lists, matching
// spec.md §4.5's definition of a dirty DepFilelist: "current expansion of
// fs differs from prev." GlobMatcher.Expand always returns its results
// sorted, so a reordering without any membership change never trips this,
// but a genuine membership change at any position does.
func sameList(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
