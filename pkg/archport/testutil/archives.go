// Package testutil builds real archives on disk for tests.
package testutil

import (
	"archive/tar"
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mholt/archives"

	"github.com/arthur-debert/archport/pkg/archport/core"
)

// File describes one entry written by BuildArchive. Names ending in "/" are
// written as directory entries.
type File struct {
	Name string
	Body string
}

// Dir returns a directory entry.
func Dir(name string) File {
	return File{Name: strings.TrimSuffix(name, "/") + "/"}
}

// SampleFiles is a small hierarchy with nested folders and root level files.
var SampleFiles = []File{
	Dir("docs"),
	{Name: "docs/readme.txt", Body: "read me"},
	{Name: "docs/guide/intro.md", Body: "# intro"},
	{Name: "main.go", Body: "package main"},
	{Name: "LICENSE", Body: "MIT"},
}

var fixedTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

// BuildArchive writes files into a new archive of the given format at
// dir/name and returns its path.
func BuildArchive(t *testing.T, dir, name string, format core.ArchiveFormat, files []File) string {
	t.Helper()

	path := filepath.Join(dir, name)
	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create archive %s: %v", path, err)
	}
	defer func() {
		_ = out.Close()
	}()

	switch format {
	case core.ArchiveFormatZip:
		writeZip(t, out, files)
	case core.ArchiveFormatTar:
		writeTar(t, out, files)
	case core.ArchiveFormatTarGzip:
		writeCompressedTar(t, out, archives.Gz{}, files)
	case core.ArchiveFormatTarBzip2:
		writeCompressedTar(t, out, archives.Bz2{}, files)
	default:
		t.Fatalf("Unsupported format %v", format)
	}
	return path
}

// WriteGarbage writes bytes that no archive reader accepts.
func WriteGarbage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("this is definitely not an archive, just text"), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func writeZip(t *testing.T, w io.Writer, files []File) {
	t.Helper()
	zw := zip.NewWriter(w)
	for _, f := range files {
		header := &zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: fixedTime}
		if strings.HasSuffix(f.Name, "/") {
			header.Method = zip.Store
			header.SetMode(os.ModeDir | 0755)
		} else {
			header.SetMode(0644)
		}
		entry, err := zw.CreateHeader(header)
		if err != nil {
			t.Fatalf("Failed to add %s to zip: %v", f.Name, err)
		}
		if _, err := io.WriteString(entry, f.Body); err != nil {
			t.Fatalf("Failed to write %s to zip: %v", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
}

func writeTar(t *testing.T, w io.Writer, files []File) {
	t.Helper()
	tw := tar.NewWriter(w)
	for _, f := range files {
		header := &tar.Header{Name: f.Name, ModTime: fixedTime}
		if strings.HasSuffix(f.Name, "/") {
			header.Typeflag = tar.TypeDir
			header.Mode = 0755
		} else {
			header.Typeflag = tar.TypeReg
			header.Mode = 0644
			header.Size = int64(len(f.Body))
		}
		if err := tw.WriteHeader(header); err != nil {
			t.Fatalf("Failed to write tar header for %s: %v", f.Name, err)
		}
		if _, err := io.WriteString(tw, f.Body); err != nil {
			t.Fatalf("Failed to write %s to tar: %v", f.Name, err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Failed to close tar writer: %v", err)
	}
}

func writeCompressedTar(t *testing.T, w io.Writer, compressor archives.Compressor, files []File) {
	t.Helper()
	cw, err := compressor.OpenWriter(w)
	if err != nil {
		t.Fatalf("Failed to open compressor: %v", err)
	}
	writeTar(t, cw, files)
	if err := cw.Close(); err != nil {
		t.Fatalf("Failed to close compressor: %v", err)
	}
}
