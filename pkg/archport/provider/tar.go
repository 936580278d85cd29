package provider

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/mholt/archives"

	"github.com/arthur-debert/archport/pkg/archport/core"
)

// TarProvider reads tar archives, optionally gzip or bzip2 compressed.
// Headers are scanned once at open time. Entry bytes come from a cursor that
// moves forward through the stream and is only restarted for an entry behind
// it, so reading entries in archive order decompresses the archive once.
type TarProvider struct {
	*index
	file     *os.File
	size     int64
	format   core.ArchiveFormat
	ordinals map[string]int
	cursor   *tarCursor
	streams  int
}

// tarCursor is a live position in the decompressed stream. next is the
// ordinal of the header the reader returns next.
type tarCursor struct {
	rc   io.ReadCloser
	tr   *tar.Reader
	next int
	busy bool
}

// OpenTar opens the tar archive at path. The whole header sequence is read,
// so a corrupt stream fails here rather than while browsing.
func OpenTar(path string, f core.ArchiveFormat) (*TarProvider, error) {
	if !f.IsTar() {
		return nil, fmt.Errorf("%s is not a tar format", f)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	p := &TarProvider{
		index:    newIndex(path),
		file:     file,
		size:     info.Size(),
		format:   f,
		ordinals: make(map[string]int),
	}
	if err := p.scan(); err != nil {
		_ = file.Close()
		return nil, err
	}
	return p, nil
}

// stream returns a fresh decompressed view of the archive from its start.
func (p *TarProvider) stream() (io.ReadCloser, error) {
	p.streams++
	section := io.NewSectionReader(p.file, 0, p.size)
	switch p.format {
	case core.ArchiveFormatTarGzip:
		return archives.Gz{}.OpenReader(section)
	case core.ArchiveFormatTarBzip2:
		return archives.Bz2{}.OpenReader(section)
	default:
		return io.NopCloser(section), nil
	}
}

func (p *TarProvider) scan() error {
	rc, err := p.stream()
	if err != nil {
		return fmt.Errorf("failed to open %s stream: %w", p.format, err)
	}
	defer func() {
		_ = rc.Close()
	}()

	tr := tar.NewReader(rc)
	for ordinal := 0; ; ordinal++ {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tar header: %w", err)
		}

		var dir bool
		switch hdr.Typeflag {
		case tar.TypeDir:
			dir = true
		case tar.TypeReg:
		default:
			continue
		}

		name := p.add(&Entry{
			Name:    hdr.Name,
			Dir:     dir,
			Size:    hdr.Size,
			Mode:    hdr.FileInfo().Mode(),
			ModTime: hdr.ModTime,
		})
		if name != "" && !dir {
			p.ordinals[name] = ordinal
		}
	}
}

func (p *TarProvider) newCursor() (*tarCursor, error) {
	rc, err := p.stream()
	if err != nil {
		return nil, err
	}
	return &tarCursor{rc: rc, tr: tar.NewReader(rc)}, nil
}

func (c *tarCursor) seek(ordinal int, name string) error {
	for c.next <= ordinal {
		if _, err := c.tr.Next(); err != nil {
			return fmt.Errorf("failed to seek to %s: %w", name, err)
		}
		c.next++
	}
	return nil
}

func (p *TarProvider) dropCursor() {
	if p.cursor != nil {
		_ = p.cursor.rc.Close()
		p.cursor = nil
	}
}

// Open returns the content of a file entry. While a reader from the shared
// cursor is still open, further entries are served from their own stream.
func (p *TarProvider) Open(e *Entry) (io.ReadCloser, error) {
	if p.closed {
		return nil, fs.ErrClosed
	}
	ordinal, ok := p.ordinals[e.Name]
	if !ok || e.Dir {
		return nil, &fs.PathError{Op: "open", Path: e.Name, Err: fs.ErrNotExist}
	}

	if p.cursor != nil && p.cursor.busy {
		c, err := p.newCursor()
		if err != nil {
			return nil, err
		}
		if err := c.seek(ordinal, e.Name); err != nil {
			_ = c.rc.Close()
			return nil, err
		}
		return &entryReader{r: c.tr, release: c.rc.Close}, nil
	}

	if p.cursor == nil || p.cursor.next > ordinal {
		p.dropCursor()
		c, err := p.newCursor()
		if err != nil {
			return nil, err
		}
		p.cursor = c
	}
	c := p.cursor
	if err := c.seek(ordinal, e.Name); err != nil {
		p.dropCursor()
		return nil, err
	}
	c.busy = true
	return &entryReader{r: c.tr, release: func() error {
		c.busy = false
		return nil
	}}, nil
}

func (p *TarProvider) Close() error {
	if p.closed {
		return fs.ErrClosed
	}
	p.closed = true
	p.dropCursor()
	return p.file.Close()
}

// entryReader reads one tar entry. Once closed it no longer reads, since
// the shared cursor may have moved on.
type entryReader struct {
	r       io.Reader
	release func() error
	closed  bool
}

func (r *entryReader) Read(b []byte) (int, error) {
	if r.closed {
		return 0, fs.ErrClosed
	}
	return r.r.Read(b)
}

func (r *entryReader) Close() error {
	if r.closed {
		return fs.ErrClosed
	}
	r.closed = true
	return r.release()
}
