package ogimage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/repoglow/go-ogimage/internal/process"
)

// LaunchOptions configures a browser session.
type LaunchOptions struct {
	Headless  bool
	KeepOpen  bool   // browser outlives the process; implies no leakless guard
	NoSandbox bool
	Bin       string // empty uses ROD_BROWSER_BIN, then rod's managed browser
	Stealth   bool   // hide automation markers from the page
	Viewport  Viewport

	// OnConsole receives page console output and uncaught exceptions.
	OnConsole func(ConsoleMessage)
}

// ConsoleMessage is one line of page console output.
type ConsoleMessage struct {
	Level string // "log", "warning", "error", "exception", ...
	Text  string
}

// Launcher starts browser sessions.
type Launcher interface {
	Launch(ctx context.Context, opts LaunchOptions) (Browser, error)
}

// Browser is a running browser session.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is the subset of page automation the generator and publisher need.
// Blocking calls honor ctx cancellation and deadline.
type Page interface {
	// Goto navigates and waits for the load event.
	Goto(ctx context.Context, url string) error
	// URL returns the current document URL.
	URL(ctx context.Context) (string, error)
	// WaitFor blocks until an element matches selector.
	WaitFor(ctx context.Context, selector string) error
	// Evaluate runs a JavaScript function expression and decodes its
	// (awaited) result into result, which may be nil.
	Evaluate(ctx context.Context, js string, result any) error
	Click(ctx context.Context, selector string) error
	// Submit clicks selector and waits for the resulting navigation.
	Submit(ctx context.Context, selector string) error
	Type(ctx context.Context, selector, text string) error
	UploadFile(ctx context.Context, selector, path string) error
	// Screenshot captures the viewport as PNG.
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// Compile-time interface checks.
var (
	_ Launcher = RodLauncher{}
	_ Browser  = (*rodBrowser)(nil)
	_ Page     = (*rodPage)(nil)
)

// Chrome flags the card needs to read local files from a file:// document.
var fileAccessFlags = []flags.Flag{
	"allow-file-access-from-files",
	"enable-local-file-accesses",
}

// RodLauncher launches Chrome through go-rod.
type RodLauncher struct{}

// Launch starts Chrome and connects to it.
func (RodLauncher) Launch(ctx context.Context, opts LaunchOptions) (Browser, error) {
	l := launcher.New().
		Context(ctx).
		Headless(opts.Headless).
		Leakless(!opts.KeepOpen)

	bin := opts.Bin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}
	if opts.NoSandbox {
		l = l.NoSandbox(true).Set("disable-setuid-sandbox")
	}
	for _, f := range fileAccessFlags {
		l = l.Set(f)
	}
	if opts.Stealth {
		l = l.Set("disable-blink-features", "AutomationControlled")
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	return &rodBrowser{browser: b, launcher: l, opts: opts}, nil
}

type rodBrowser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	opts     LaunchOptions
	once     sync.Once
}

func (b *rodBrowser) NewPage(ctx context.Context) (Page, error) {
	var (
		page *rod.Page
		err  error
	)
	if b.opts.Stealth {
		page, err = stealth.Page(b.browser)
	} else {
		page, err = b.browser.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	if vp := b.opts.Viewport; vp.Width > 0 && vp.Height > 0 {
		scale := vp.Scale
		if scale <= 0 {
			scale = 1
		}
		if err := page.Context(ctx).SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             vp.Width,
			Height:            vp.Height,
			DeviceScaleFactor: scale,
		}); err != nil {
			_ = page.Close()
			return nil, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
		}
	}

	eventCtx, cancel := context.WithCancel(context.Background())
	p := &rodPage{page: page, cancel: cancel}
	if b.opts.OnConsole != nil {
		go p.forwardConsole(eventCtx, b.opts.OnConsole)
	}
	return p, nil
}

// Close shuts the browser down and reaps its process tree. Safe to call
// more than once.
func (b *rodBrowser) Close() error {
	var err error
	b.once.Do(func() {
		err = b.browser.Close()
		process.KillProcessGroup(b.launcher.PID())
		b.launcher.Kill()
		b.launcher.Cleanup()
	})
	return err
}

type rodPage struct {
	page   *rod.Page
	cancel context.CancelFunc
}

func (p *rodPage) forwardConsole(ctx context.Context, fn func(ConsoleMessage)) {
	p.page.Context(ctx).EachEvent(
		func(e *proto.RuntimeConsoleAPICalled) {
			parts := make([]string, 0, len(e.Args))
			for _, arg := range e.Args {
				if arg.Description != "" {
					parts = append(parts, arg.Description)
				} else {
					parts = append(parts, arg.Value.String())
				}
			}
			fn(ConsoleMessage{Level: string(e.Type), Text: strings.Join(parts, " ")})
		},
		func(e *proto.RuntimeExceptionThrown) {
			text := e.ExceptionDetails.Text
			if ex := e.ExceptionDetails.Exception; ex != nil && ex.Description != "" {
				text = ex.Description
			}
			fn(ConsoleMessage{Level: "exception", Text: text})
		},
	)()
}

func (p *rodPage) Goto(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	wait := page.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := page.Navigate(url); err != nil {
		return err
	}
	wait()
	if err := ctx.Err(); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (p *rodPage) URL(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (p *rodPage) WaitFor(ctx context.Context, selector string) error {
	_, err := p.page.Context(ctx).Element(selector)
	return err
}

func (p *rodPage) Evaluate(ctx context.Context, js string, result any) error {
	res, err := p.page.Context(ctx).Eval(js)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, result)
}

func (p *rodPage) Click(ctx context.Context, selector string) error {
	el, err := p.page.Context(ctx).Element(selector)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (p *rodPage) Submit(ctx context.Context, selector string) error {
	page := p.page.Context(ctx)
	el, err := page.Element(selector)
	if err != nil {
		return err
	}
	wait := page.WaitNavigation(proto.PageLifecycleEventNameLoad)
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}
	wait()
	return ctx.Err()
}

func (p *rodPage) Type(ctx context.Context, selector, text string) error {
	el, err := p.page.Context(ctx).Element(selector)
	if err != nil {
		return err
	}
	return el.Input(text)
}

func (p *rodPage) UploadFile(ctx context.Context, selector, path string) error {
	el, err := p.page.Context(ctx).Element(selector)
	if err != nil {
		return err
	}
	return el.SetFiles([]string{path})
}

func (p *rodPage) Screenshot(ctx context.Context) ([]byte, error) {
	return p.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

func (p *rodPage) Close() error {
	p.cancel()
	return p.page.Close()
}
