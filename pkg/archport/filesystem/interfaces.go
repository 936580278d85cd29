package filesystem

import (
	"io"
	"io/fs"
)

// WriteFS defines the interface for write operations on a file system.
type WriteFS interface {
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Remove(name string) error
	// Create opens name for writing, truncating any existing file.
	Create(name string) (io.WriteCloser, error)
}

// FileSystem combines read and write operations.
type FileSystem interface {
	fs.FS
	WriteFS
}

// FullFileSystem provides the complete filesystem interface including Stat
type FullFileSystem interface {
	FileSystem
	Stat(name string) (fs.FileInfo, error)
}

// HostFS is the view of the host file system used to check and write
// destinations given as plain OS paths.
type HostFS interface {
	Stat(path string) (fs.FileInfo, error)
	MkdirAll(path string, perm fs.FileMode) error
	// Writable reports whether the current user may write to path.
	Writable(path string) bool
	Create(path string) (io.WriteCloser, error)
	Remove(path string) error
}
