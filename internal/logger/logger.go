// Package logger builds the slog.Logger used by the CLI.
//
// Each record is written on one line:
//
//	2006-01-02T15:04:05.000Z [LEVEL] message | key=value, key2=value2
//
// Output goes to stderr and, when a file is configured, is teed into a
// size-rotated log file.
package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Levels outside the standard slog set.
const (
	LevelTrace slog.Level = -8
	LevelFail  slog.Level = 12
)

const timeLayout = "2006-01-02T15:04:05.000Z"

// ParseLevel maps trace, debug, info, warn, error and fail (any case) to a
// level. ok is false for anything else.
func ParseLevel(s string) (level slog.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, true
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	case "fail":
		return LevelFail, true
	default:
		return slog.LevelInfo, false
	}
}

func levelName(l slog.Level) string {
	switch {
	case l <= LevelTrace:
		return "TRACE"
	case l <= slog.LevelDebug:
		return "DEBUG"
	case l <= slog.LevelInfo:
		return "INFO"
	case l <= slog.LevelWarn:
		return "WARN"
	case l <= slog.LevelError:
		return "ERROR"
	default:
		return "FAIL"
	}
}

// ---------------------------------------------------------------------------
// Handler
// ---------------------------------------------------------------------------

// Handler is a slog.Handler producing the single-line format above.
type Handler struct {
	w     io.Writer
	mu    *sync.Mutex
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewHandler returns a Handler writing records at or above level to w.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	return &Handler{w: w, mu: &sync.Mutex{}, level: level}
}

// Enabled reports whether records at level are written.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats r and writes it in a single call.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	b.WriteString(r.Time.UTC().Format(timeLayout))
	b.WriteString(" [")
	b.WriteString(levelName(r.Level))
	b.WriteString("] ")
	b.WriteString(r.Message)

	n := 0
	write := func(a slog.Attr) {
		if a.Equal(slog.Attr{}) {
			return
		}
		if n == 0 {
			b.WriteString(" | ")
		} else {
			b.WriteString(", ")
		}
		n++
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(a.Value.Resolve().String())
	}
	// Handler attrs carry the group that was open when they were added.
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		write(qualify(h.group, a))
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs returns a Handler that prepends attrs to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, a := range attrs {
		merged = append(merged, qualify(h.group, a))
	}
	return &Handler{w: h.w, mu: h.mu, level: h.level, attrs: merged, group: h.group}
}

// WithGroup returns a Handler whose attribute keys are prefixed with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	g := name
	if h.group != "" {
		g = h.group + "." + name
	}
	return &Handler{w: h.w, mu: h.mu, level: h.level, attrs: h.attrs, group: g}
}

func qualify(group string, a slog.Attr) slog.Attr {
	if group == "" || a.Key == "" {
		return a
	}
	a.Key = group + "." + a.Key
	return a
}

// ---------------------------------------------------------------------------
// Constructor
// ---------------------------------------------------------------------------

// Options configures New.
type Options struct {
	Level     slog.Level
	Stderr    io.Writer
	File      string // optional rotating log file
	MaxSizeMB int    // rotation threshold, default 10
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a logger from opts. The returned closer flushes the log file
// and must be called before exit.
func New(opts Options) (*slog.Logger, io.Closer) {
	var w io.Writer = io.Discard
	if opts.Stderr != nil {
		w = opts.Stderr
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		size := opts.MaxSizeMB
		if size <= 0 {
			size = 10
		}
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    size,
			MaxBackups: 3,
			MaxAge:     28,
		}
		w = io.MultiWriter(w, lj)
		closer = lj
	}

	return slog.New(NewHandler(w, opts.Level)), closer
}

// Trace logs msg at LevelTrace.
func Trace(ctx context.Context, l *slog.Logger, msg string, args ...any) {
	l.Log(ctx, LevelTrace, msg, args...)
}
