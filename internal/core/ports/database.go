package ports

import "go.trai.ch/forge/internal/core/domain"

// BuildDatabase is the persistent store of target -> BuildResult
// (spec.md §4.2, C4). Implementations serialise all writes through a
// single-writer mailbox that keeps an in-memory view consistent with what
// is durably on disk. Reads do not pass through the mailbox: Get consults
// that in-memory view directly, and observes every Put that has returned.
//
//go:generate mockgen -source=database.go -destination=mocks/mock_database.go -package=mocks
type BuildDatabase interface {
	// Get returns the last-persisted BuildResult for target, or ok=false
	// if none is recorded.
	Get(target domain.Target) (result domain.BuildResult, ok bool)

	// Put persists result, overwriting any previous record for its target.
	Put(result domain.BuildResult) error

	// CloseAndFlush flushes pending writes, compacts the log to one record
	// per target, and releases the underlying file handle.
	CloseAndFlush() error
}
