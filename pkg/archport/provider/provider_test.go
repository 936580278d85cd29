package provider_test

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/archport/pkg/archport/core"
	"github.com/arthur-debert/archport/pkg/archport/format"
	"github.com/arthur-debert/archport/pkg/archport/provider"
	"github.com/arthur-debert/archport/pkg/archport/testutil"
)

var archiveFormats = []core.ArchiveFormat{
	core.ArchiveFormatZip,
	core.ArchiveFormatTar,
	core.ArchiveFormatTarGzip,
	core.ArchiveFormatTarBzip2,
}

func labels(p provider.StructureProvider, entries []*provider.Entry) []string {
	result := make([]string, len(entries))
	for i, e := range entries {
		result[i] = p.Label(e)
	}
	return result
}

func find(t *testing.T, entries []*provider.Entry, name string) *provider.Entry {
	t.Helper()
	for _, e := range entries {
		if e.Name == name {
			return e
		}
	}
	t.Fatalf("entry %q not found", name)
	return nil
}

func TestArchiveProviders(t *testing.T) {
	dir := t.TempDir()

	for _, f := range archiveFormats {
		t.Run(f.String(), func(t *testing.T) {
			name := "sample" + format.CanonicalSuffix(f)
			path := testutil.BuildArchive(t, dir, name, f, testutil.SampleFiles)

			p, err := provider.Open(path, f)
			require.NoError(t, err)

			root := p.Root()
			assert.Equal(t, name, p.Label(root))
			assert.True(t, p.IsContainer(root))

			top, err := p.Children(root)
			require.NoError(t, err)
			assert.Equal(t, []string{"docs", "main.go", "LICENSE"}, labels(p, top))

			docs := find(t, top, "docs")
			assert.True(t, p.IsContainer(docs))

			docChildren, err := p.Children(docs)
			require.NoError(t, err)
			assert.Equal(t, []string{"readme.txt", "guide"}, labels(p, docChildren))

			// guide is only implied by docs/guide/intro.md
			guide := find(t, docChildren, "docs/guide")
			assert.True(t, guide.Dir)

			readme := find(t, docChildren, "docs/readme.txt")
			assert.False(t, p.IsContainer(readme))
			assert.Equal(t, int64(len("read me")), readme.Size)

			leafChildren, err := p.Children(readme)
			require.NoError(t, err)
			assert.Empty(t, leafChildren)

			rc, err := p.Open(readme)
			require.NoError(t, err)
			body, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			assert.Equal(t, "read me", string(body))

			_, err = p.Open(docs)
			assert.ErrorIs(t, err, fs.ErrNotExist)

			require.NoError(t, p.Close())
			assert.ErrorIs(t, p.Close(), fs.ErrClosed)
			_, err = p.Children(root)
			assert.ErrorIs(t, err, fs.ErrClosed)
		})
	}
}

func TestTarProviderReadsEveryEntry(t *testing.T) {
	path := testutil.BuildArchive(t, t.TempDir(), "all.tar.gz", core.ArchiveFormatTarGzip, testutil.SampleFiles)

	p, err := provider.OpenTar(path, core.ArchiveFormatTarGzip)
	require.NoError(t, err)
	defer func() {
		_ = p.Close()
	}()

	expected := map[string]string{
		"docs/readme.txt":     "read me",
		"docs/guide/intro.md": "# intro",
		"main.go":             "package main",
		"LICENSE":             "MIT",
	}
	for name, body := range expected {
		rc, err := p.Open(&provider.Entry{Name: name})
		require.NoError(t, err, name)
		got, err := io.ReadAll(rc)
		require.NoError(t, err, name)
		_ = rc.Close()
		assert.Equal(t, body, string(got), name)
	}
}

func TestFileNamedLikeParentDirectory(t *testing.T) {
	files := []testutil.File{
		{Name: "a", Body: "plain"},
		{Name: "a/b.txt", Body: "child"},
		{Name: "c/d.txt", Body: "kept"},
		{Name: "c", Body: "late file"},
	}

	for _, f := range archiveFormats {
		t.Run(f.String(), func(t *testing.T) {
			path := testutil.BuildArchive(t, t.TempDir(), "clash"+format.CanonicalSuffix(f), f, files)
			p, err := provider.Open(path, f)
			require.NoError(t, err)
			defer func() {
				_ = p.Close()
			}()

			top, err := p.Children(p.Root())
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "c"}, labels(p, top))

			for _, tc := range []struct{ dir, child, body string }{
				{"a", "a/b.txt", "child"},
				{"c", "c/d.txt", "kept"},
			} {
				dir := find(t, top, tc.dir)
				assert.True(t, p.IsContainer(dir), tc.dir)

				children, err := p.Children(dir)
				require.NoError(t, err)
				rc, err := p.Open(find(t, children, tc.child))
				require.NoError(t, err)
				got, err := io.ReadAll(rc)
				require.NoError(t, err)
				_ = rc.Close()
				assert.Equal(t, tc.body, string(got))

				_, err = p.Open(dir)
				assert.ErrorIs(t, err, fs.ErrNotExist)
			}
		})
	}
}

func TestOpenRejectsCorruptArchives(t *testing.T) {
	dir := t.TempDir()

	for _, f := range archiveFormats {
		t.Run(f.String(), func(t *testing.T) {
			path := testutil.WriteGarbage(t, dir, "broken"+format.CanonicalSuffix(f))

			p, err := provider.Open(path, f)
			assert.Nil(t, p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrOpenFailure), "got %v", err)

			var openErr *core.OpenError
			require.True(t, errors.As(err, &openErr))
			assert.Equal(t, path, openErr.Path)
		})
	}
}

func TestOpenArchiveProbesContent(t *testing.T) {
	path := testutil.BuildArchive(t, t.TempDir(), "payload.dat", core.ArchiveFormatZip, testutil.SampleFiles)

	p, err := provider.OpenArchive(context.Background(), path)
	require.NoError(t, err)
	defer func() {
		_ = p.Close()
	}()

	top, err := p.Children(p.Root())
	require.NoError(t, err)
	assert.Len(t, top, 3)
}

func TestOpenArchiveUnrecognized(t *testing.T) {
	path := testutil.WriteGarbage(t, t.TempDir(), "notes.txt")

	_, err := provider.OpenArchive(context.Background(), path)
	assert.True(t, errors.Is(err, core.ErrOpenFailure))
	assert.True(t, errors.Is(err, core.ErrFormatUnrecognized))
}

func TestDirProvider(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "pkg"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "pkg", "a.go"), []byte("package pkg"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("hi"), 0644))

	sp, err := provider.OpenDir(context.Background(), dir)
	require.NoError(t, err)
	p := sp.(provider.ContentProvider)

	assert.Equal(t, filepath.Base(dir), p.Label(p.Root()))

	top, err := p.Children(p.Root())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src", "README"}, labels(p, top))

	src := find(t, top, "src")
	pkgs, err := p.Children(src)
	require.NoError(t, err)
	pkg := find(t, pkgs, "src/pkg")

	files, err := p.Children(pkg)
	require.NoError(t, err)
	a := find(t, files, "src/pkg/a.go")

	rc, err := p.Open(a)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "package pkg", string(body))

	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Close(), fs.ErrClosed)
}

func TestOpenDirRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := provider.OpenDir(context.Background(), file)
	assert.True(t, errors.Is(err, core.ErrOpenFailure))
}
