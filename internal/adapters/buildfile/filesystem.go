package buildfile

import "os"

// FileSystem abstracts the filesystem access Load needs, for testability.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (os.FileInfo, error)
}

// OSFS implements FileSystem using the standard library.
type OSFS struct{}

// NewOSFS creates an OSFS.
func NewOSFS() *OSFS { return &OSFS{} }

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path) //nolint:gosec // path supplied by caller-controlled config discovery
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}
