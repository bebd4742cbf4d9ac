package domain

import "path/filepath"

const (
	// DatabaseFileName is the name of the persistent build database file,
	// rooted at the project root.
	DatabaseFileName = ".xake"

	// DirPerm is the default permission for directories created by forge.
	DirPerm = 0o750

	// FilePerm is the default permission for files written by forge.
	FilePerm = 0o644
)

// DefaultDatabasePath returns the default path of the build database for
// the given project root.
func DefaultDatabasePath(projectRoot string) string {
	return filepath.Join(projectRoot, DatabaseFileName)
}
