// Package filesystem provides the file system views used by transfers: a
// rooted io/fs style file system for import targets and a host view for
// destination checks and archive output.
package filesystem

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// OSFileSystem implements FullFileSystem using the OS filesystem rooted at a
// directory. Names are io/fs paths and cannot escape the root.
type OSFileSystem struct {
	root string
}

// NewOSFileSystem creates a new OS-based filesystem rooted at the given path
func NewOSFileSystem(root string) *OSFileSystem {
	return &OSFileSystem{root: root}
}

// Root returns the directory the file system is rooted at.
func (osfs *OSFileSystem) Root() string {
	return osfs.root
}

func (osfs *OSFileSystem) full(op, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	return filepath.Join(osfs.root, filepath.FromSlash(name)), nil
}

// Open implements fs.FS
func (osfs *OSFileSystem) Open(name string) (fs.File, error) {
	fullPath, err := osfs.full("open", name)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

// ReadDir implements fs.ReadDirFS so directory listings stay one level deep.
func (osfs *OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	fullPath, err := osfs.full("readdir", name)
	if err != nil {
		return nil, err
	}
	return os.ReadDir(fullPath)
}

// Stat implements fs.StatFS
func (osfs *OSFileSystem) Stat(name string) (fs.FileInfo, error) {
	fullPath, err := osfs.full("stat", name)
	if err != nil {
		return nil, err
	}
	return os.Stat(fullPath)
}

// WriteFile implements WriteFS
func (osfs *OSFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	fullPath, err := osfs.full("writefile", name)
	if err != nil {
		return err
	}
	return os.WriteFile(fullPath, data, perm)
}

// Create implements WriteFS
func (osfs *OSFileSystem) Create(name string) (io.WriteCloser, error) {
	fullPath, err := osfs.full("create", name)
	if err != nil {
		return nil, err
	}
	return os.Create(fullPath)
}

// MkdirAll implements WriteFS
func (osfs *OSFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	fullPath, err := osfs.full("mkdirall", path)
	if err != nil {
		return err
	}
	return os.MkdirAll(fullPath, perm)
}

// Remove implements WriteFS
func (osfs *OSFileSystem) Remove(name string) error {
	fullPath, err := osfs.full("remove", name)
	if err != nil {
		return err
	}
	return os.Remove(fullPath)
}
