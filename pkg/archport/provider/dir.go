package provider

import (
	"io"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/arthur-debert/archport/pkg/archport/filesystem"
)

// DirProvider exposes a directory tree. Each Children call lists one level.
type DirProvider struct {
	fsys   *filesystem.OSFileSystem
	label  string
	root   *Entry
	closed bool
}

// NewDirProvider returns a provider rooted at dir.
func NewDirProvider(dir string) *DirProvider {
	return &DirProvider{
		fsys:  filesystem.NewOSFileSystem(dir),
		label: filepath.Base(dir),
		root:  &Entry{Dir: true, Mode: fs.ModeDir | 0755},
	}
}

func (p *DirProvider) Root() *Entry {
	return p.root
}

func fsName(e *Entry) string {
	if e.Name == "" {
		return "."
	}
	return e.Name
}

func (p *DirProvider) Children(e *Entry) ([]*Entry, error) {
	if p.closed {
		return nil, fs.ErrClosed
	}
	if !e.Dir {
		return nil, nil
	}

	dirEntries, err := p.fsys.ReadDir(fsName(e))
	if err != nil {
		return nil, err
	}

	children := make([]*Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		info, err := de.Info()
		if err != nil {
			return nil, err
		}
		if !info.IsDir() && !info.Mode().IsRegular() {
			continue
		}
		children = append(children, &Entry{
			Name:    path.Join(e.Name, de.Name()),
			Dir:     info.IsDir(),
			Size:    info.Size(),
			Mode:    info.Mode(),
			ModTime: info.ModTime(),
		})
	}
	return children, nil
}

func (p *DirProvider) Label(e *Entry) string {
	if e == nil || e.Name == "" {
		return p.label
	}
	return e.Base()
}

func (p *DirProvider) IsContainer(e *Entry) bool {
	return e != nil && e.Dir
}

// Open returns the content of a file below the root.
func (p *DirProvider) Open(e *Entry) (io.ReadCloser, error) {
	if p.closed {
		return nil, fs.ErrClosed
	}
	return p.fsys.Open(fsName(e))
}

// Close marks the provider closed. No OS resources are held between calls.
func (p *DirProvider) Close() error {
	if p.closed {
		return fs.ErrClosed
	}
	p.closed = true
	return nil
}
