package provider

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// ZipProvider reads zip archives.
type ZipProvider struct {
	*index
	reader *zip.ReadCloser
	files  map[string]*zip.File
}

// OpenZip opens the zip archive at path and indexes its entries.
func OpenZip(path string) (*ZipProvider, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip directory: %w", err)
	}

	p := &ZipProvider{
		index:  newIndex(path),
		reader: reader,
		files:  make(map[string]*zip.File, len(reader.File)),
	}
	for _, f := range reader.File {
		info := f.FileInfo()
		name := p.add(&Entry{
			Name:    f.Name,
			Dir:     info.IsDir() || strings.HasSuffix(f.Name, "/"),
			Size:    int64(f.UncompressedSize64),
			Mode:    info.Mode(),
			ModTime: f.Modified,
		})
		if name != "" {
			p.files[name] = f
		}
	}
	return p, nil
}

// Open returns the decompressed content of a file entry.
func (p *ZipProvider) Open(e *Entry) (io.ReadCloser, error) {
	if p.closed {
		return nil, fs.ErrClosed
	}
	f, ok := p.files[e.Name]
	if !ok || e.Dir {
		return nil, &fs.PathError{Op: "open", Path: e.Name, Err: fs.ErrNotExist}
	}
	return f.Open()
}

func (p *ZipProvider) Close() error {
	if p.closed {
		return fs.ErrClosed
	}
	p.closed = true
	return p.reader.Close()
}
