// Package fileset implements domain.GlobMatcher: the glob/fileset
// collaborator from spec.md §6, with '*' scoped to one path segment and
// '**' spanning any number of them.
package fileset

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
)

// Matcher is a deterministic glob matcher over the real filesystem.
type Matcher struct{}

// New creates a Matcher.
func New() *Matcher {
	return &Matcher{}
}

var _ domain.GlobMatcher = (*Matcher)(nil)

// Matches reports whether path (relative to root, using forward slashes)
// matches pattern.
func (m *Matcher) Matches(pattern, root, path string) bool {
	patternSegs := strings.Split(filepath.ToSlash(pattern), "/")
	pathSegs := strings.Split(filepath.ToSlash(path), "/")
	return matchSegments(patternSegs, pathSegs)
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}
	head := pattern[0]

	if head == "**" {
		if len(pattern) == 1 {
			return true
		}
		for i := 0; i <= len(path); i++ {
			if matchSegments(pattern[1:], path[i:]) {
				return true
			}
		}
		return false
	}

	if len(path) == 0 {
		return false
	}
	ok, err := filepath.Match(head, path[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pattern[1:], path[1:])
}

// Expand walks root and returns the sorted, deduplicated set of paths
// (relative to root, using forward slashes) matching fileset.
func (m *Matcher) Expand(fileset, root string) ([]string, error) {
	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if m.Matches(fileset, root, rel) {
			matches = append(matches, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
