package filesystem

import (
	"io"
	"io/fs"
	"os"
)

// HostFileSystem implements HostFS over absolute or working-directory
// relative OS paths.
type HostFileSystem struct{}

// NewHostFileSystem returns the host file system view.
func NewHostFileSystem() *HostFileSystem {
	return &HostFileSystem{}
}

func (HostFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (HostFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (HostFileSystem) Create(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func (HostFileSystem) Remove(path string) error {
	return os.Remove(path)
}

// Writable reports whether path may be written by the current process.
func (HostFileSystem) Writable(path string) bool {
	return writable(path)
}
