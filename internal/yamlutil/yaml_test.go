package yamlutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/repoglow/go-ogimage/internal/yamlutil"
)

type repoSection struct {
	Owner string `yaml:"owner"`
	Name  string `yaml:"name"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Lenient decoding
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
	}{
		{"nil data", nil, &repoSection{}, yamlutil.ErrNilData},
		{"empty data", []byte{}, &repoSection{}, yamlutil.ErrNilData},
		{"nil destination", []byte("owner: octocat"), nil, yamlutil.ErrNilDestination},
		{"unknown key ignored", []byte("owner: octocat\nextra: 1"), &repoSection{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Unmarshal() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() unexpected error: %v", err)
			}
		})
	}
}

func TestUnmarshal_ColorMap(t *testing.T) {
	t.Parallel()

	var colors map[string]string
	data := []byte("Go: \"#00ADD8\"\nJavaScript: \"#f1e05a\"\n")
	if err := yamlutil.Unmarshal(data, &colors); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if colors["Go"] != "#00ADD8" {
		t.Errorf("colors[Go] = %q, want %q", colors["Go"], "#00ADD8")
	}
	if colors["JavaScript"] != "#f1e05a" {
		t.Errorf("colors[JavaScript] = %q, want %q", colors["JavaScript"], "#f1e05a")
	}
}

func TestUnmarshal_TooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("owner: " + strings.Repeat("a", yamlutil.MaxInputSize))
	err := yamlutil.Unmarshal(data, &repoSection{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("Unmarshal() error = %v, want %v", err, yamlutil.ErrInputTooLarge)
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Unknown keys rejected
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	t.Run("known keys decode", func(t *testing.T) {
		t.Parallel()

		var r repoSection
		if err := yamlutil.UnmarshalStrict([]byte("owner: octocat\nname: Hello-World"), &r); err != nil {
			t.Fatalf("UnmarshalStrict() error = %v", err)
		}
		if r.Owner != "octocat" || r.Name != "Hello-World" {
			t.Errorf("got %+v", r)
		}
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		t.Parallel()

		var r repoSection
		err := yamlutil.UnmarshalStrict([]byte("owner: octocat\nowenr: typo"), &r)
		if err == nil {
			t.Fatal("UnmarshalStrict() expected error for unknown key")
		}
		if !strings.Contains(err.Error(), "yamlutil:") {
			t.Errorf("error %q should carry yamlutil prefix", err)
		}
	})
}

func TestReadFileStrict(t *testing.T) {
	t.Parallel()

	t.Run("missing file wraps ErrNotExist", func(t *testing.T) {
		t.Parallel()

		err := yamlutil.ReadFileStrict(filepath.Join(t.TempDir(), "nope.yaml"), &repoSection{})
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("ReadFileStrict() error = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("reads and decodes", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "cfg.yaml")
		if err := os.WriteFile(path, []byte("owner: octocat\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		var r repoSection
		if err := yamlutil.ReadFileStrict(path, &r); err != nil {
			t.Fatalf("ReadFileStrict() error = %v", err)
		}
		if r.Owner != "octocat" {
			t.Errorf("Owner = %q, want %q", r.Owner, "octocat")
		}
	})
}
