package filesystem

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"path"
	"strings"
	"testing"
	"testing/fstest"
)

// TestFileSystem is an in-memory FullFileSystem over fstest.MapFS, used as an
// import target in tests.
type TestFileSystem struct {
	fstest.MapFS
}

// NewTestFileSystem creates a new test filesystem based on fstest.MapFS
func NewTestFileSystem() *TestFileSystem {
	return &TestFileSystem{
		MapFS: make(fstest.MapFS),
	}
}

// WriteFile implements WriteFS for testing
func (tfs *TestFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "writefile", Path: name, Err: fs.ErrInvalid}
	}
	if f, exists := tfs.MapFS[name]; exists && f.Mode.IsDir() {
		return &fs.PathError{Op: "writefile", Path: name, Err: errors.New("is a directory")}
	}
	tfs.MapFS[name] = &fstest.MapFile{
		Data: data,
		Mode: perm,
	}
	return nil
}

// Create implements WriteFS for testing. Content becomes visible on Close.
func (tfs *TestFileSystem) Create(name string) (io.WriteCloser, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "create", Path: name, Err: fs.ErrInvalid}
	}
	return &pendingFile{fs: tfs, name: name}, nil
}

type pendingFile struct {
	bytes.Buffer
	fs   *TestFileSystem
	name string
}

func (p *pendingFile) Close() error {
	return p.fs.WriteFile(p.name, p.Bytes(), 0644)
}

// MkdirAll implements WriteFS for testing
func (tfs *TestFileSystem) MkdirAll(dir string, perm fs.FileMode) error {
	if !fs.ValidPath(dir) {
		return &fs.PathError{Op: "mkdirall", Path: dir, Err: fs.ErrInvalid}
	}
	if dir == "." {
		return nil
	}
	if f, exists := tfs.MapFS[dir]; exists && !f.Mode.IsDir() {
		return &fs.PathError{Op: "mkdirall", Path: dir, Err: fs.ErrExist}
	}
	tfs.MapFS[dir] = &fstest.MapFile{
		Mode: perm | fs.ModeDir,
	}
	return nil
}

// Remove implements WriteFS for testing
func (tfs *TestFileSystem) Remove(name string) error {
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrInvalid}
	}
	if _, exists := tfs.MapFS[name]; !exists {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	delete(tfs.MapFS, name)
	return nil
}

// Stat implements FullFileSystem for testing
func (tfs *TestFileSystem) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}
	return fs.Stat(tfs.MapFS, name)
}

// TestHostFileSystem implements HostFS over a TestFileSystem. Host paths are
// mapped to map keys by dropping the leading slash.
type TestHostFileSystem struct {
	*TestFileSystem
	// ReadOnly lists host paths reported as not writable.
	ReadOnly map[string]bool
	// MkdirErr, when set, is returned by MkdirAll.
	MkdirErr error
}

// NewTestHostFileSystem returns an empty host view for tests.
func NewTestHostFileSystem() *TestHostFileSystem {
	return &TestHostFileSystem{
		TestFileSystem: NewTestFileSystem(),
		ReadOnly:       make(map[string]bool),
	}
}

func hostKey(p string) string {
	p = path.Clean(strings.TrimPrefix(p, "/"))
	if p == "" {
		return "."
	}
	return p
}

func (h *TestHostFileSystem) Stat(p string) (fs.FileInfo, error) {
	return h.TestFileSystem.Stat(hostKey(p))
}

func (h *TestHostFileSystem) MkdirAll(p string, perm fs.FileMode) error {
	if h.MkdirErr != nil {
		return h.MkdirErr
	}
	return h.TestFileSystem.MkdirAll(hostKey(p), perm)
}

func (h *TestHostFileSystem) Writable(p string) bool {
	return !h.ReadOnly[p]
}

func (h *TestHostFileSystem) Create(p string) (io.WriteCloser, error) {
	return h.TestFileSystem.Create(hostKey(p))
}

func (h *TestHostFileSystem) Remove(p string) error {
	return h.TestFileSystem.Remove(hostKey(p))
}

// TestHelper provides utilities for testing transfers against a fresh
// in-memory filesystem
type TestHelper struct {
	t   *testing.T
	fs  *TestFileSystem
	ctx context.Context
}

// NewTestHelper creates a new test helper with a fresh filesystem
func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{
		t:   t,
		fs:  NewTestFileSystem(),
		ctx: context.Background(),
	}
}

// FileSystem returns the test filesystem
func (th *TestHelper) FileSystem() *TestFileSystem {
	return th.fs
}

// Context returns the test context
func (th *TestHelper) Context() context.Context {
	return th.ctx
}

// WriteFile is a helper that writes a file and fails the test on error
func (th *TestHelper) WriteFile(name string, data []byte) {
	if err := th.fs.WriteFile(name, data, 0644); err != nil {
		th.t.Fatalf("Failed to write file %s: %v", name, err)
	}
}

// ReadFile is a helper that reads a file and fails the test on error
func (th *TestHelper) ReadFile(name string) []byte {
	data, err := fs.ReadFile(th.fs, name)
	if err != nil {
		th.t.Fatalf("Failed to read file %s: %v", name, err)
	}
	return data
}

// FileExists checks if a file exists
func (th *TestHelper) FileExists(name string) bool {
	_, err := th.fs.Stat(name)
	return err == nil
}

// AssertFileContent checks that a file has the expected content
func (th *TestHelper) AssertFileContent(name string, expected []byte) {
	th.t.Helper()
	actual := th.ReadFile(name)
	if string(actual) != string(expected) {
		th.t.Errorf("File %s content mismatch:\nExpected: %q\nActual: %q", name, expected, actual)
	}
}

// AssertFileNotExists checks that a file does not exist
func (th *TestHelper) AssertFileNotExists(name string) {
	th.t.Helper()
	if th.FileExists(name) {
		th.t.Errorf("Expected file %s to not exist, but it does", name)
	}
}
