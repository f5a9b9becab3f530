package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseLevel - Level names
// ---------------------------------------------------------------------------

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   slog.Level
		wantOK bool
	}{
		{"trace", LevelTrace, true},
		{"DEBUG", slog.LevelDebug, true},
		{"", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"fail", LevelFail, true},
		{"loud", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseLevel(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHandler - Line format
// ---------------------------------------------------------------------------

var lineRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z \[(\w+)\] (.*)$`)

func TestHandler_Format(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelDebug)).With("run", "abc")
	log.Warn("background failed to load", "url", "data:image/png")

	line := strings.TrimSuffix(buf.String(), "\n")
	m := lineRE.FindStringSubmatch(line)
	if m == nil {
		t.Fatalf("line %q does not match format", line)
	}
	if m[1] != "WARN" {
		t.Errorf("level = %q, want WARN", m[1])
	}
	if want := "background failed to load | run=abc, url=data:image/png"; m[2] != want {
		t.Errorf("rest = %q, want %q", m[2], want)
	}
}

func TestHandler_LevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelWarn))
	log.Info("hidden")
	Trace(context.Background(), log, "hidden too")
	log.Log(context.Background(), LevelFail, "shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains filtered records: %q", out)
	}
	if !strings.Contains(out, "[FAIL] shown") {
		t.Errorf("output missing FAIL record: %q", out)
	}
}

func TestHandler_Group(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelInfo)).WithGroup("publish")
	log.Info("state", "to", "LoggedIn")

	if !strings.Contains(buf.String(), "publish.to=LoggedIn") {
		t.Errorf("output %q missing grouped key", buf.String())
	}
}

func TestHandler_GroupScope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		build   func(*slog.Logger) *slog.Logger
		want    []string
		notWant []string
	}{
		{
			name: "attrs before group stay unqualified",
			build: func(l *slog.Logger) *slog.Logger {
				return l.With("run", "r1").WithGroup("publish")
			},
			want:    []string{"run=r1", "publish.to=LoggedIn"},
			notWant: []string{"publish.run="},
		},
		{
			name: "attrs after group are qualified",
			build: func(l *slog.Logger) *slog.Logger {
				return l.WithGroup("publish").With("run", "r1")
			},
			want: []string{"publish.run=r1", "publish.to=LoggedIn"},
		},
		{
			name: "nested groups",
			build: func(l *slog.Logger) *slog.Logger {
				return l.WithGroup("a").With("x", 1).WithGroup("b")
			},
			want:    []string{"a.x=1", "a.b.to=LoggedIn"},
			notWant: []string{"a.b.x="},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := tt.build(slog.New(NewHandler(&buf, slog.LevelInfo)))
			log.Info("state", "to", "LoggedIn")

			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q missing %q", out, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output %q contains %q", out, w)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNew - File tee
// ---------------------------------------------------------------------------

func TestNew_WritesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ogimage.log")
	var stderr bytes.Buffer
	log, closer := New(Options{Level: slog.LevelInfo, Stderr: &stderr, File: path})
	log.Info("generated", "bytes", 1234)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "generated | bytes=1234") {
		t.Errorf("log file = %q", data)
	}
	if stderr.String() != string(data) {
		t.Errorf("stderr and file differ: %q vs %q", stderr.String(), data)
	}
}

func TestNew_NoWriters(t *testing.T) {
	t.Parallel()

	log, closer := New(Options{})
	log.Error("dropped")
	if err := closer.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
