package operations

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/mholt/archives"

	"github.com/arthur-debert/archport/pkg/archport/core"
)

// archiveWriter appends records to an archive stream.
type archiveWriter interface {
	WriteDir(name string, modTime time.Time) error
	// WriteFile copies exactly size bytes from r into a new file record.
	WriteFile(name string, mode fs.FileMode, modTime time.Time, size int64, r io.Reader) error
	Close() error
}

func newArchiveWriter(w io.Writer, f core.ArchiveFormat, compress bool) (archiveWriter, error) {
	switch f {
	case core.ArchiveFormatZip:
		method := zip.Deflate
		if !compress {
			method = zip.Store
		}
		return &zipArchiveWriter{zw: zip.NewWriter(w), method: method}, nil
	case core.ArchiveFormatTar:
		return &tarArchiveWriter{tw: tar.NewWriter(w)}, nil
	case core.ArchiveFormatTarGzip:
		return newCompressedTarWriter(w, archives.Gz{})
	case core.ArchiveFormatTarBzip2:
		return newCompressedTarWriter(w, archives.Bz2{})
	default:
		return nil, fmt.Errorf("unsupported archive format: %v", f)
	}
}

type zipArchiveWriter struct {
	zw     *zip.Writer
	method uint16
}

func (z *zipArchiveWriter) WriteDir(name string, modTime time.Time) error {
	header := &zip.FileHeader{Name: name + "/", Method: zip.Store, Modified: modTime}
	header.SetMode(fs.ModeDir | core.DefaultDirMode)
	_, err := z.zw.CreateHeader(header)
	return err
}

func (z *zipArchiveWriter) WriteFile(name string, mode fs.FileMode, modTime time.Time, size int64, r io.Reader) error {
	header := &zip.FileHeader{Name: name, Method: z.method, Modified: modTime}
	header.SetMode(mode)
	w, err := z.zw.CreateHeader(header)
	if err != nil {
		return err
	}
	return copyExactly(w, r, size)
}

func (z *zipArchiveWriter) Close() error {
	return z.zw.Close()
}

type tarArchiveWriter struct {
	tw    *tar.Writer
	outer io.Closer
}

func newCompressedTarWriter(w io.Writer, c archives.Compressor) (*tarArchiveWriter, error) {
	cw, err := c.OpenWriter(w)
	if err != nil {
		return nil, fmt.Errorf("failed to open compressor: %w", err)
	}
	return &tarArchiveWriter{tw: tar.NewWriter(cw), outer: cw}, nil
}

func (t *tarArchiveWriter) WriteDir(name string, modTime time.Time) error {
	return t.tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeDir,
		Name:     name + "/",
		Mode:     int64(core.DefaultDirMode),
		ModTime:  modTime,
	})
}

func (t *tarArchiveWriter) WriteFile(name string, mode fs.FileMode, modTime time.Time, size int64, r io.Reader) error {
	if err := t.tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     int64(mode.Perm()),
		Size:     size,
		ModTime:  modTime,
	}); err != nil {
		return err
	}
	return copyExactly(t.tw, r, size)
}

func (t *tarArchiveWriter) Close() error {
	err := t.tw.Close()
	if t.outer != nil {
		if cerr := t.outer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// copyExactly copies size bytes from r to w. A source that is shorter or
// longer than size, such as a file changed since it was listed, is an error.
func copyExactly(w io.Writer, r io.Reader, size int64) error {
	n, err := io.Copy(w, io.LimitReader(r, size))
	if err != nil {
		return err
	}
	if n != size {
		return fmt.Errorf("content is %d bytes, expected %d", n, size)
	}
	var extra [1]byte
	if m, _ := r.Read(extra[:]); m > 0 {
		return fmt.Errorf("content is longer than %d bytes", size)
	}
	return nil
}
