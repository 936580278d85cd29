package operations

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/archport/pkg/archport/core"
)

// chunkReader hands out its content a few bytes at a time and counts the
// bytes it has given away.
type chunkReader struct {
	data []byte
	read int
}

func (c *chunkReader) Read(b []byte) (int, error) {
	if c.read == len(c.data) {
		return 0, io.EOF
	}
	n := copy(b[:min(len(b), 7)], c.data[c.read:])
	c.read += n
	return n, nil
}

func readBack(t *testing.T, f core.ArchiveFormat, archive []byte) string {
	t.Helper()
	if f == core.ArchiveFormatZip {
		zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
		if err != nil {
			t.Fatalf("failed to read zip: %v", err)
		}
		rc, err := zr.File[0].Open()
		if err != nil {
			t.Fatalf("failed to open zip entry: %v", err)
		}
		defer rc.Close()
		data, _ := io.ReadAll(rc)
		return string(data)
	}
	tr := tar.NewReader(bytes.NewReader(archive))
	if _, err := tr.Next(); err != nil {
		t.Fatalf("failed to read tar header: %v", err)
	}
	data, _ := io.ReadAll(tr)
	return string(data)
}

func TestArchiveWriterStreamsContent(t *testing.T) {
	content := strings.Repeat("0123456789", 5000)

	for _, f := range []core.ArchiveFormat{core.ArchiveFormatZip, core.ArchiveFormatTar} {
		t.Run(f.String(), func(t *testing.T) {
			var out bytes.Buffer
			aw, err := newArchiveWriter(&out, f, true)
			if err != nil {
				t.Fatalf("newArchiveWriter failed: %v", err)
			}

			src := &chunkReader{data: []byte(content)}
			if err := aw.WriteFile("big.txt", 0644, time.Now(), int64(len(content)), src); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
			if err := aw.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			if src.read != len(content) {
				t.Errorf("Expected %d bytes consumed, got %d", len(content), src.read)
			}
			if got := readBack(t, f, out.Bytes()); got != content {
				t.Errorf("Content mismatch: got %d bytes, expected %d", len(got), len(content))
			}
		})
	}
}

func TestArchiveWriterRejectsSizeMismatch(t *testing.T) {
	testCases := []struct {
		name string
		body string
		size int64
	}{
		{"shorter than listed", "abc", 5},
		{"longer than listed", "abcdef", 3},
	}

	for _, f := range []core.ArchiveFormat{core.ArchiveFormatZip, core.ArchiveFormatTarGzip} {
		for _, tc := range testCases {
			t.Run(f.String()+"/"+tc.name, func(t *testing.T) {
				aw, err := newArchiveWriter(io.Discard, f, false)
				if err != nil {
					t.Fatalf("newArchiveWriter failed: %v", err)
				}
				defer aw.Close()

				err = aw.WriteFile("changed.txt", 0644, time.Now(), tc.size, strings.NewReader(tc.body))
				if err == nil {
					t.Errorf("Expected an error when content does not match size %d", tc.size)
				}
			})
		}
	}
}
