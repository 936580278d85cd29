package filesystem_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/archport/pkg/archport/filesystem"
)

func TestOSFileSystem(t *testing.T) {
	tempDir := t.TempDir()
	osfs := filesystem.NewOSFileSystem(tempDir)

	t.Run("Create and Stat", func(t *testing.T) {
		w, err := osfs.Create("created.txt")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if _, err := io.WriteString(w, "hello"); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		info, err := osfs.Stat("created.txt")
		if err != nil {
			t.Fatalf("Stat failed: %v", err)
		}
		if info.Size() != 5 {
			t.Errorf("Expected size 5, got %d", info.Size())
		}
	})

	t.Run("MkdirAll and ReadDir", func(t *testing.T) {
		if err := osfs.MkdirAll("nested/deep", 0755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := osfs.WriteFile("nested/file.txt", []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		entries, err := osfs.ReadDir("nested")
		if err != nil {
			t.Fatalf("ReadDir failed: %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("Expected 2 entries, got %d", len(entries))
		}
		if _, err := os.Stat(filepath.Join(tempDir, "nested", "deep")); err != nil {
			t.Errorf("Expected directory on disk: %v", err)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		if err := osfs.WriteFile("gone.txt", []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if err := osfs.Remove("gone.txt"); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if _, err := osfs.Stat("gone.txt"); err == nil {
			t.Errorf("Expected file to be removed")
		}
	})

	t.Run("Invalid paths", func(t *testing.T) {
		invalidPath := "../../../etc/passwd"

		if err := osfs.WriteFile(invalidPath, []byte("test"), 0644); err == nil {
			t.Errorf("Expected WriteFile to fail with invalid path")
		}
		if _, err := osfs.Create(invalidPath); err == nil {
			t.Errorf("Expected Create to fail with invalid path")
		}
		if _, err := osfs.Open(invalidPath); err == nil {
			t.Errorf("Expected Open to fail with invalid path")
		}
		if err := osfs.MkdirAll("/abs", 0755); err == nil {
			t.Errorf("Expected MkdirAll to fail with absolute path")
		}
	})
}

func TestHostFileSystem(t *testing.T) {
	dir := t.TempDir()
	host := filesystem.NewHostFileSystem()

	target := filepath.Join(dir, "out", "archive.zip")
	if err := host.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	w, err := host.Create(target)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if !host.Writable(target) {
		t.Errorf("Expected freshly created file to be writable")
	}
	if host.Writable(filepath.Join(dir, "missing")) {
		t.Errorf("Expected missing path to be reported as not writable")
	}

	if err := host.Remove(target); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := host.Stat(target); !os.IsNotExist(err) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}
