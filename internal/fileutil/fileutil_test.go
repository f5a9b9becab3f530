package fileutil_test

// Notes:
// - WriteAtomic sync/chmod failure branches are not exercised: forcing them
//   is platform-specific. The rename failure is covered by targeting a path
//   that is an existing directory.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/repoglow/go-ogimage/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{"valid extension html", "html", nil},
		{"valid extension png", "png", nil},
		{"empty extension", "", fileutil.ErrExtensionEmpty},
		{"forward slash", "../etc/passwd", fileutil.ErrExtensionPathTraversal},
		{"backslash", "..\\windows", fileutil.ErrExtensionPathTraversal},
		{"null byte", "html\x00exe", fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile - Temp HTML documents
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	content := "<html><body>preview</body></html>"
	path, cleanup, err := fileutil.WriteTempFile(content, "html")
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}

	if !strings.Contains(filepath.Base(path), "ogimage-") || !strings.HasSuffix(path, ".html") {
		t.Errorf("path %q does not match ogimage-*.html", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(data) != content {
		t.Errorf("content = %q, want %q", data, content)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp file still exists after cleanup: %s", path)
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	_, _, err := fileutil.WriteTempFile("x", "../html")
	if !errors.Is(err, fileutil.ErrExtensionPathTraversal) {
		t.Errorf("WriteTempFile() error = %v, want %v", err, fileutil.ErrExtensionPathTraversal)
	}
}

// ---------------------------------------------------------------------------
// TestWriteAtomic - Crash-safe artifact writes
// ---------------------------------------------------------------------------

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directory and writes", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".github", "og-image.png")
		if err := fileutil.WriteAtomic(path, []byte("png"), 0o644); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "png" {
			t.Errorf("content = %q, want %q", got, "png")
		}
	})

	t.Run("replaces existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "og-image.png")
		if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := fileutil.WriteAtomic(path, []byte("new"), 0o644); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}
		got, _ := os.ReadFile(path)
		if string(got) != "new" {
			t.Errorf("content = %q, want %q", got, "new")
		}
	})

	t.Run("rename failure leaves no temp file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		target := filepath.Join(dir, "occupied")
		if err := os.MkdirAll(filepath.Join(target, "child"), 0o750); err != nil {
			t.Fatal(err)
		}

		if err := fileutil.WriteAtomic(target, []byte("x"), 0o644); err == nil {
			t.Fatal("WriteAtomic() expected error when target is a non-empty directory")
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if strings.Contains(e.Name(), ".tmp.") {
				t.Errorf("temp file %q left behind", e.Name())
			}
		}
	})
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.png")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !fileutil.FileExists(file) {
		t.Error("FileExists(file) = false, want true")
	}
	if fileutil.FileExists(dir) {
		t.Error("FileExists(dir) = true, want false")
	}
	if fileutil.FileExists(filepath.Join(dir, "missing")) {
		t.Error("FileExists(missing) = true, want false")
	}
}

func TestFileURL(t *testing.T) {
	t.Parallel()

	if got := fileutil.FileURL("/tmp/ogimage-1.html"); got != "file:///tmp/ogimage-1.html" {
		t.Errorf("FileURL() = %q", got)
	}
}
