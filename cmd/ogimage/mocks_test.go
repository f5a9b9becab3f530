package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/repoglow/go-ogimage"
	"github.com/repoglow/go-ogimage/internal/assets"
	"github.com/repoglow/go-ogimage/internal/github"
)

// ---------------------------------------------------------------------------
// Browser fakes
// ---------------------------------------------------------------------------

// fakePage answers the card readiness check and the settings page checks
// with a page that has every landmark unless listed in missing.
type fakePage struct {
	mu       sync.Mutex
	url      string
	missing  map[string]bool
	shot     []byte
	uploaded string
	typed    []string
	closed   bool
}

var _ ogimage.Page = (*fakePage)(nil)

func newFakePage(t *testing.T) *fakePage {
	t.Helper()
	return &fakePage{missing: map[string]bool{}, shot: testPNG(t)}
}

func (p *fakePage) Goto(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
	return nil
}

func (p *fakePage) URL(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url, nil
}

func (p *fakePage) WaitFor(_ context.Context, selector string) error {
	if p.missing[selector] {
		return errors.New("element not found: " + selector)
	}
	return nil
}

func (p *fakePage) Evaluate(_ context.Context, js string, result any) error {
	var v any
	switch {
	case strings.Contains(js, "fonts"):
		v = map[string]string{"background": "loaded"}
	case strings.Contains(js, "querySelectorAll"):
		v = []string{"General", "  Social preview\n"}
	default:
		v = true
	}
	if result == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, result)
}

func (p *fakePage) Click(_ context.Context, selector string) error {
	if p.missing[selector] {
		return errors.New("element not found: " + selector)
	}
	return nil
}

func (p *fakePage) Submit(ctx context.Context, selector string) error {
	return p.Click(ctx, selector)
}

func (p *fakePage) Type(_ context.Context, selector, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.typed = append(p.typed, selector)
	return nil
}

func (p *fakePage) UploadFile(_ context.Context, _, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.uploaded = path
	return nil
}

func (p *fakePage) Screenshot(context.Context) ([]byte, error) {
	return p.shot, nil
}

func (p *fakePage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

type fakeBrowser struct {
	page   *fakePage
	closed bool
}

func (b *fakeBrowser) NewPage(context.Context) (ogimage.Page, error) {
	return b.page, nil
}

func (b *fakeBrowser) Close() error {
	b.closed = true
	return nil
}

type fakeLauncher struct {
	browser  *fakeBrowser
	err      error
	launches []ogimage.LaunchOptions
}

func newFakeLauncher(page *fakePage) *fakeLauncher {
	return &fakeLauncher{browser: &fakeBrowser{page: page}}
}

func (l *fakeLauncher) Launch(_ context.Context, opts ogimage.LaunchOptions) (ogimage.Browser, error) {
	l.launches = append(l.launches, opts)
	if l.err != nil {
		return nil, l.err
	}
	return l.browser, nil
}

// ---------------------------------------------------------------------------
// Metadata fake
// ---------------------------------------------------------------------------

type fakeMetadata struct {
	info      ogimage.RepoInfo
	infoErr   error
	count     int
	languages map[string]int

	owner, repo string
	opts        github.Options
}

func (m *fakeMetadata) factory(owner, repo string, opts github.Options) (ogimage.MetadataSource, error) {
	m.owner, m.repo, m.opts = owner, repo, opts
	return m, nil
}

func (m *fakeMetadata) FetchRepoData(context.Context) (ogimage.RepoInfo, error) {
	return m.info, m.infoErr
}

func (m *fakeMetadata) FetchContributorsCount(context.Context) (int, error) {
	return m.count, nil
}

func (m *fakeMetadata) FetchLanguages(context.Context) (map[string]int, error) {
	return m.languages, nil
}

func helloWorldMetadata() *fakeMetadata {
	return &fakeMetadata{
		info:      ogimage.RepoInfo{Description: "My first repository", Stars: 1200, Forks: 340},
		count:     7,
		languages: map[string]int{"Go": 600, "Shell": 200, "Makefile": 200},
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// testEnv returns an Environment with buffered output and the given fakes.
func testEnv(l ogimage.Launcher, m *fakeMetadata) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:         func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) },
		Stdout:      &stdout,
		Stderr:      &stderr,
		Launcher:    l,
		SettleDelay: 0,
	}
	if m != nil {
		env.NewMetadata = m.factory
	}
	return env, &stdout, &stderr
}

// testPNG encodes a small opaque image.
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.NRGBA{R: 13, G: 17, B: 23, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// fontDir returns an asset directory holding only a placeholder font, which
// the embedded defaults do not ship.
func fontDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, filepath.FromSlash(assets.DefaultFont))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("wOF2"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// clearEnv unsets every variable the CLI reads so host settings (CI runners
// export GITHUB_REPOSITORY) do not leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for name := range knownEnvVars {
		t.Setenv(name, "")
	}
	for _, name := range []string{
		"GITHUB_REPOSITORY", "GITHUB_TOKEN",
		"BOT_GITHUB_USERNAME", "BOT_GITHUB_PASSWORD",
		"ROD_NO_SANDBOX", "ROD_BROWSER_BIN",
	} {
		t.Setenv(name, "")
	}
}
