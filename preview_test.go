package ogimage

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCollectPreviewData(t *testing.T) {
	t.Parallel()

	src := &mockMetadata{
		info:         RepoInfo{Description: "My first repository", Stars: 42, Forks: 7},
		contributors: 3,
		languages:    map[string]int{"JavaScript": 800, "HTML": 200},
	}
	colors := NewColorTable(map[string]string{"JavaScript": "#f1e05a"})

	got, err := CollectPreviewData(context.Background(), src, "octocat", "Hello-World", colors, nil)
	if err != nil {
		t.Fatalf("CollectPreviewData() error = %v", err)
	}

	if got.Owner != "octocat" || got.RepoName != "Hello-World" {
		t.Errorf("identity = %s/%s", got.Owner, got.RepoName)
	}
	if got.Stars != 42 || got.Forks != 7 || got.Contributors != 3 {
		t.Errorf("counts = %d/%d/%d, want 42/7/3", got.Stars, got.Forks, got.Contributors)
	}
	if got.LanguageNames != "JavaScript, HTML" {
		t.Errorf("LanguageNames = %q", got.LanguageNames)
	}
	if len(got.Languages) != 2 || got.Languages[0].Label != "80.00" || got.Languages[1].Label != "20.00" {
		t.Errorf("Languages = %+v", got.Languages)
	}
	if got.Languages[1].Color != DefaultLanguageColor {
		t.Errorf("HTML color = %q, want %q", got.Languages[1].Color, DefaultLanguageColor)
	}
}

func TestCollectPreviewData_Languages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		languages map[string]int
		langErr   error
		wantLog   string
	}{
		{"no languages", map[string]int{}, nil, "no languages found"},
		{"languages unavailable", nil, errors.New("502 bad gateway"), "could not fetch languages"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))
			src := &mockMetadata{languages: tt.languages, langErr: tt.langErr}

			got, err := CollectPreviewData(context.Background(), src, "o", "r", ColorTable{}, logger)
			if err != nil {
				t.Fatalf("CollectPreviewData() error = %v", err)
			}
			if len(got.Languages) != 0 || got.LanguageNames != "" {
				t.Errorf("Languages = %+v, want empty", got.Languages)
			}
			if !strings.Contains(logs.String(), tt.wantLog) {
				t.Errorf("logs %q missing %q", logs.String(), tt.wantLog)
			}
		})
	}
}

func TestCollectPreviewData_Errors(t *testing.T) {
	t.Parallel()

	upstream := errors.New("boom")
	tests := []struct {
		name string
		src  *mockMetadata
	}{
		{"repository", &mockMetadata{infoErr: upstream}},
		{"contributors", &mockMetadata{contribErr: upstream}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := CollectPreviewData(context.Background(), tt.src, "o", "r", ColorTable{}, nil)
			if !errors.Is(err, ErrMetadataFetch) || !errors.Is(err, upstream) {
				t.Errorf("CollectPreviewData() error = %v, want %v wrapping upstream", err, ErrMetadataFetch)
			}
		})
	}
}
