package provider

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

// index is the in-memory hierarchy built from the flat entry list of an
// archive. Directories implied by file names are synthesized.
type index struct {
	label    string
	root     *Entry
	entries  map[string]*Entry
	children map[string][]*Entry
	closed   bool
}

func newIndex(archivePath string) *index {
	root := &Entry{Dir: true}
	return &index{
		label:    filepath.Base(archivePath),
		root:     root,
		entries:  map[string]*Entry{"": root},
		children: make(map[string][]*Entry),
	}
}

// cleanName normalizes an archive entry name. It returns "" for names that
// denote the root.
func cleanName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimPrefix(name, "./")
	name = strings.Trim(name, "/")
	if name == "" || name == "." {
		return ""
	}
	return name
}

// add records e under its cleaned name and returns that name. A later entry
// for an already seen name updates it in place so the archive order of first
// appearance is kept.
func (ix *index) add(e *Entry) string {
	e.Name = cleanName(e.Name)
	if e.Name == "" {
		return ""
	}
	if existing, ok := ix.entries[e.Name]; ok {
		if existing.Dir && !e.Dir && len(ix.children[e.Name]) > 0 {
			// A file cannot replace a directory that already has children.
			return ""
		}
		*existing = *e
		return e.Name
	}
	parent := ix.ensureDir(path.Dir(e.Name))
	ix.entries[e.Name] = e
	ix.children[parent] = append(ix.children[parent], e)
	return e.Name
}

func (ix *index) ensureDir(name string) string {
	if name == "." || name == "" {
		return ""
	}
	if existing, ok := ix.entries[name]; ok {
		if !existing.Dir {
			// A file entry named like the parent of a later entry becomes a
			// directory so that its children stay reachable.
			existing.Dir = true
			existing.Size = 0
			existing.Mode = fs.ModeDir | 0755
		}
		return name
	}
	parent := ix.ensureDir(path.Dir(name))
	dir := &Entry{Name: name, Dir: true, Mode: fs.ModeDir | 0755}
	ix.entries[name] = dir
	ix.children[parent] = append(ix.children[parent], dir)
	return name
}

func (ix *index) Root() *Entry {
	return ix.root
}

func (ix *index) Children(e *Entry) ([]*Entry, error) {
	if ix.closed {
		return nil, fs.ErrClosed
	}
	if e == nil {
		return nil, fmt.Errorf("nil entry")
	}
	if !e.Dir {
		return nil, nil
	}
	if _, ok := ix.entries[e.Name]; !ok {
		return nil, fmt.Errorf("unknown entry %q", e.Name)
	}
	children := ix.children[e.Name]
	result := make([]*Entry, len(children))
	copy(result, children)
	return result, nil
}

func (ix *index) Label(e *Entry) string {
	if e == nil || e.Name == "" {
		return ix.label
	}
	return e.Base()
}

func (ix *index) IsContainer(e *Entry) bool {
	return e != nil && e.Dir
}

// Len returns the number of entries, synthesized directories included.
func (ix *index) Len() int {
	return len(ix.entries) - 1
}
