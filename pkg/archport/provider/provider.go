// Package provider exposes archives and directories as lazily browsable
// hierarchies of entries.
package provider

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/arthur-debert/archport/pkg/archport/core"
	"github.com/arthur-debert/archport/pkg/archport/format"
)

// Entry is the opaque handle a provider hands out for one node of its
// hierarchy. Name is the slash separated path inside the source and is empty
// for the root.
type Entry struct {
	Name    string
	Dir     bool
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
}

// Base returns the last element of the entry name.
func (e *Entry) Base() string {
	if e.Name == "" {
		return ""
	}
	return path.Base(e.Name)
}

// StructureProvider answers structural questions about an archive or
// directory. Handles are only meaningful to the provider that produced them.
type StructureProvider interface {
	Root() *Entry
	Children(e *Entry) ([]*Entry, error)
	Label(e *Entry) string
	IsContainer(e *Entry) bool
	// Close releases the underlying source. A second call returns fs.ErrClosed.
	Close() error
}

// ContentProvider is a StructureProvider that can also read entry bytes.
type ContentProvider interface {
	StructureProvider
	Open(e *Entry) (io.ReadCloser, error)
}

// Opener opens the source at path as a provider.
type Opener func(ctx context.Context, path string) (StructureProvider, error)

// IsTarFamily reports whether f is read through a tar stream.
func IsTarFamily(f core.ArchiveFormat) bool {
	return f.IsTar()
}

// Open opens the archive at path using the given format. Errors are wrapped
// in a *core.OpenError.
func Open(path string, f core.ArchiveFormat) (ContentProvider, error) {
	switch {
	case f == core.ArchiveFormatZip:
		p, err := OpenZip(path)
		if err != nil {
			return nil, &core.OpenError{Path: path, Format: f.String(), Err: err}
		}
		return p, nil
	case IsTarFamily(f):
		p, err := OpenTar(path, f)
		if err != nil {
			return nil, &core.OpenError{Path: path, Format: f.String(), Err: err}
		}
		return p, nil
	default:
		return nil, &core.OpenError{Path: path, Err: core.ErrFormatUnrecognized}
	}
}

// OpenArchive resolves the format of the archive at path, by suffix and then
// by content, and opens it.
func OpenArchive(ctx context.Context, path string) (StructureProvider, error) {
	f, err := format.Resolve(ctx, path)
	if err != nil {
		return nil, &core.OpenError{Path: path, Err: err}
	}
	return Open(path, f)
}

// OpenDir opens a directory as a provider. It is the Opener used for export
// sources.
func OpenDir(_ context.Context, path string) (StructureProvider, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &core.OpenError{Path: path, Err: err}
	}
	if !info.IsDir() {
		return nil, &core.OpenError{Path: path, Err: fmt.Errorf("not a directory")}
	}
	return NewDirProvider(path), nil
}
