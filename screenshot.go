package ogimage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/repoglow/go-ogimage/internal/fileutil"
	"github.com/repoglow/go-ogimage/internal/logger"
)

// Capture timing defaults. DefaultSettleDelay is the pause between
// readiness and screenshot so late layout and font swaps finish.
const (
	DefaultLoadTimeout  = 30 * time.Second
	DefaultReadyTimeout = 30 * time.Second
	DefaultSettleDelay  = 3 * time.Second
)

// readinessScript resolves once web fonts are ready and the body background
// image has either loaded or failed. A failed background still resolves.
const readinessScript = `() => new Promise((resolve) => {
	const waitBackground = () => {
		const bg = getComputedStyle(document.body).backgroundImage;
		const m = bg && bg.match(/url\(["']?(.*?)["']?\)/);
		if (!m) {
			resolve({ background: "none" });
			return;
		}
		const img = new Image();
		img.onload = () => resolve({ background: "loaded" });
		img.onerror = () => {
			console.error("background image failed to load");
			resolve({ background: "error" });
		};
		img.src = m[1];
	};
	if (document.fonts && document.fonts.ready) {
		document.fonts.ready.then(waitBackground, waitBackground);
	} else {
		waitBackground();
	}
})`

type readiness struct {
	Background string `json:"background"`
}

// CaptureOptions controls a single capture.
type CaptureOptions struct {
	Headless  bool
	KeepOpen  bool // leave the browser running after capture
	NoSandbox bool
	Bin       string
	Viewport  Viewport
}

// DefaultCaptureOptions returns headless, unsandboxed capture at
// DefaultViewport.
func DefaultCaptureOptions() CaptureOptions {
	return CaptureOptions{Headless: true, NoSandbox: true, Viewport: DefaultViewport}
}

// Capturer loads an HTML document in a browser and screenshots it.
type Capturer struct {
	launcher     Launcher
	loadTimeout  time.Duration
	readyTimeout time.Duration
	settle       time.Duration
	logger       *slog.Logger
}

// CapturerOption configures a Capturer.
type CapturerOption func(*Capturer)

// WithLauncher sets the browser launcher. Defaults to RodLauncher.
func WithLauncher(l Launcher) CapturerOption {
	return func(c *Capturer) {
		c.launcher = l
	}
}

// WithLoadTimeout bounds document navigation.
func WithLoadTimeout(d time.Duration) CapturerOption {
	return func(c *Capturer) {
		c.loadTimeout = d
	}
}

// WithReadyTimeout bounds the font and background readiness wait.
func WithReadyTimeout(d time.Duration) CapturerOption {
	return func(c *Capturer) {
		c.readyTimeout = d
	}
}

// WithSettleDelay sets the pause between readiness and screenshot.
func WithSettleDelay(d time.Duration) CapturerOption {
	return func(c *Capturer) {
		c.settle = d
	}
}

// WithCaptureLogger sets the logger for page console output and warnings.
func WithCaptureLogger(l *slog.Logger) CapturerOption {
	return func(c *Capturer) {
		c.logger = l
	}
}

// NewCapturer creates a Capturer.
func NewCapturer(opts ...CapturerOption) *Capturer {
	c := &Capturer{
		launcher:     RodLauncher{},
		loadTimeout:  DefaultLoadTimeout,
		readyTimeout: DefaultReadyTimeout,
		settle:       DefaultSettleDelay,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Capture renders html at opts.Viewport and returns the raw PNG bytes.
// The browser is closed on every path unless opts.KeepOpen is set.
func (c *Capturer) Capture(ctx context.Context, html string, opts CaptureOptions) ([]byte, error) {
	vp := opts.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = DefaultViewport
	}

	browser, err := c.launcher.Launch(ctx, LaunchOptions{
		Headless:  opts.Headless,
		KeepOpen:  opts.KeepOpen,
		NoSandbox: opts.NoSandbox,
		Bin:       opts.Bin,
		Viewport:  vp,
		OnConsole: c.logConsole,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailure, err)
	}
	if !opts.KeepOpen {
		defer func() { _ = browser.Close() }()
	}

	page, err := browser.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailure, err)
	}
	if !opts.KeepOpen {
		defer func() { _ = page.Close() }()
	}

	path, cleanup, err := fileutil.WriteTempFile(html, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailure, err)
	}
	if !opts.KeepOpen {
		defer cleanup()
	}

	loadCtx, cancelLoad := context.WithTimeout(ctx, c.loadTimeout)
	err = page.Goto(loadCtx, fileutil.FileURL(path))
	cancelLoad()
	if err != nil {
		return nil, c.stepError(ctx, loadCtx, "page load", c.loadTimeout, err)
	}

	readyCtx, cancelReady := context.WithTimeout(ctx, c.readyTimeout)
	var ready readiness
	err = page.Evaluate(readyCtx, readinessScript, &ready)
	cancelReady()
	if err != nil {
		return nil, c.stepError(ctx, readyCtx, "font and background readiness", c.readyTimeout, err)
	}
	if ready.Background == "error" {
		c.logger.Warn("background image failed to load, capturing without it")
	}

	if c.settle > 0 {
		timer := time.NewTimer(c.settle)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %w", ErrRenderFailure, ctx.Err())
		case <-timer.C:
		}
	}

	png, err := page.Screenshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: screenshot: %w", ErrRenderFailure, err)
	}
	if len(png) == 0 {
		return nil, fmt.Errorf("%w: empty screenshot", ErrRenderFailure)
	}
	return png, nil
}

// stepError classifies a failed step. Only the step's own deadline counts as
// a timeout; cancellation of the parent context is a failure.
func (c *Capturer) stepError(parent, step context.Context, what string, limit time.Duration, err error) error {
	if parent.Err() == nil && (errors.Is(step.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded)) {
		return fmt.Errorf("%w: %s exceeded %s", ErrRenderTimeout, what, limit)
	}
	return fmt.Errorf("%w: %s: %w", ErrRenderFailure, what, err)
}

func (c *Capturer) logConsole(m ConsoleMessage) {
	switch m.Level {
	case "error", "exception", "assert":
		c.logger.Warn("page console", "level", m.Level, "text", m.Text)
	case "warning":
		c.logger.Debug("page console", "level", m.Level, "text", m.Text)
	default:
		logger.Trace(context.Background(), c.logger, "page console", "level", m.Level, "text", m.Text)
	}
}
