package provider

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/archport/pkg/archport/core"
	"github.com/arthur-debert/archport/pkg/archport/testutil"
)

// leaves lists the file entries below e depth first, the order an import
// reads them in.
func leaves(t *testing.T, p StructureProvider, e *Entry) []*Entry {
	t.Helper()
	if !p.IsContainer(e) {
		return []*Entry{e}
	}
	children, err := p.Children(e)
	require.NoError(t, err)
	var result []*Entry
	for _, c := range children {
		result = append(result, leaves(t, p, c)...)
	}
	return result
}

func readEntry(t *testing.T, p ContentProvider, e *Entry) string {
	t.Helper()
	rc, err := p.Open(e)
	require.NoError(t, err, e.Name)
	data, err := io.ReadAll(rc)
	require.NoError(t, err, e.Name)
	require.NoError(t, rc.Close())
	return string(data)
}

func TestTarProviderStreamsOnceInArchiveOrder(t *testing.T) {
	var files []testutil.File
	for i := 0; i < 40; i++ {
		files = append(files, testutil.File{
			Name: fmt.Sprintf("pkg%d/file%02d.txt", i%4, i),
			Body: fmt.Sprintf("body %d", i),
		})
	}

	for _, f := range []core.ArchiveFormat{core.ArchiveFormatTarGzip, core.ArchiveFormatTarBzip2} {
		t.Run(f.String(), func(t *testing.T) {
			path := testutil.BuildArchive(t, t.TempDir(), fmt.Sprintf("many.%s", f), f, files)
			p, err := OpenTar(path, f)
			require.NoError(t, err)
			defer func() {
				_ = p.Close()
			}()
			require.Equal(t, 1, p.streams, "header scan")

			entries := leaves(t, p, p.Root())
			require.Len(t, entries, len(files))

			// Group directories are listed in first-appearance order, so a
			// depth first walk jumps back and forth in the stream.
			for _, e := range entries {
				assert.Contains(t, readEntry(t, p, e), "body ")
			}
			assert.LessOrEqual(t, p.streams, 1+4, "one pass per directory at most")

			before := p.streams
			for _, file := range files {
				assert.Equal(t, file.Body, readEntry(t, p, &Entry{Name: file.Name}))
			}
			assert.Equal(t, before+1, p.streams, "archive order needs a single pass")
		})
	}
}

func TestTarProviderRewindsForEarlierEntry(t *testing.T) {
	path := testutil.BuildArchive(t, t.TempDir(), "sample.tar.gz", core.ArchiveFormatTarGzip, testutil.SampleFiles)
	p, err := OpenTar(path, core.ArchiveFormatTarGzip)
	require.NoError(t, err)
	defer func() {
		_ = p.Close()
	}()

	assert.Equal(t, "MIT", readEntry(t, p, &Entry{Name: "LICENSE"}))
	assert.Equal(t, "read me", readEntry(t, p, &Entry{Name: "docs/readme.txt"}))
	assert.Equal(t, "read me", readEntry(t, p, &Entry{Name: "docs/readme.txt"}))
	assert.Equal(t, 4, p.streams)
}

func TestTarProviderOverlappingReaders(t *testing.T) {
	path := testutil.BuildArchive(t, t.TempDir(), "sample.tar.bz2", core.ArchiveFormatTarBzip2, testutil.SampleFiles)
	p, err := OpenTar(path, core.ArchiveFormatTarBzip2)
	require.NoError(t, err)
	defer func() {
		_ = p.Close()
	}()

	first, err := p.Open(&Entry{Name: "docs/readme.txt"})
	require.NoError(t, err)
	second, err := p.Open(&Entry{Name: "main.go"})
	require.NoError(t, err)

	got, err := io.ReadAll(second)
	require.NoError(t, err)
	assert.Equal(t, "package main", string(got))
	require.NoError(t, second.Close())

	got, err = io.ReadAll(first)
	require.NoError(t, err)
	assert.Equal(t, "read me", string(got))
	require.NoError(t, first.Close())

	_, err = first.Read(make([]byte, 1))
	assert.Error(t, err)
	assert.Error(t, first.Close())
}
