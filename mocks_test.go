package ogimage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// ---------------------------------------------------------------------------
// Mock Browser
// ---------------------------------------------------------------------------

type mockLauncher struct {
	browser   *mockBrowser
	err       error
	launched  int
	lastOpts  LaunchOptions
	onConsole []ConsoleMessage // replayed through OnConsole at launch
}

func (m *mockLauncher) Launch(ctx context.Context, opts LaunchOptions) (Browser, error) {
	m.launched++
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if opts.OnConsole != nil {
		for _, msg := range m.onConsole {
			opts.OnConsole(msg)
		}
	}
	return m.browser, nil
}

type mockBrowser struct {
	page    *mockPage
	pageErr error
	closed  int
}

func (m *mockBrowser) NewPage(ctx context.Context) (Page, error) {
	if m.pageErr != nil {
		return nil, m.pageErr
	}
	return m.page, nil
}

func (m *mockBrowser) Close() error {
	m.closed++
	return nil
}

type mockPage struct {
	mu    sync.Mutex
	calls []string

	url        string
	gotoFunc   func(ctx context.Context, url string) error
	waitForErr map[string]error
	evalFunc   func(ctx context.Context, js string) (any, error)
	clickErr   map[string]error
	submitErr  error
	uploadErr  error
	shot       []byte
	shotErr    error

	visited  []string
	typed    map[string]string
	clicked  []string
	uploaded []string
	closed   bool
}

func newMockPage() *mockPage {
	return &mockPage{
		waitForErr: map[string]error{},
		clickErr:   map[string]error{},
		typed:      map[string]string{},
	}
}

func (m *mockPage) record(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, fmt.Sprintf(format, args...))
}

func (m *mockPage) callLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *mockPage) Goto(ctx context.Context, url string) error {
	m.record("goto %s", url)
	m.visited = append(m.visited, url)
	if m.gotoFunc != nil {
		return m.gotoFunc(ctx, url)
	}
	return nil
}

func (m *mockPage) URL(ctx context.Context) (string, error) {
	m.record("url")
	if m.url != "" {
		return m.url, nil
	}
	if len(m.visited) == 0 {
		return "about:blank", nil
	}
	return m.visited[len(m.visited)-1], nil
}

func (m *mockPage) WaitFor(ctx context.Context, selector string) error {
	m.record("wait %s", selector)
	return m.waitForErr[selector]
}

func (m *mockPage) Evaluate(ctx context.Context, js string, result any) error {
	m.record("eval")
	if m.evalFunc == nil {
		return nil
	}
	v, err := m.evalFunc(ctx, js)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, result)
}

func (m *mockPage) Click(ctx context.Context, selector string) error {
	m.record("click %s", selector)
	if err := m.clickErr[selector]; err != nil {
		return err
	}
	m.clicked = append(m.clicked, selector)
	return nil
}

func (m *mockPage) Submit(ctx context.Context, selector string) error {
	m.record("submit %s", selector)
	return m.submitErr
}

func (m *mockPage) Type(ctx context.Context, selector, text string) error {
	m.record("type %s", selector)
	m.typed[selector] = text
	return nil
}

func (m *mockPage) UploadFile(ctx context.Context, selector, path string) error {
	m.record("upload %s", selector)
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.uploaded = append(m.uploaded, path)
	return nil
}

func (m *mockPage) Screenshot(ctx context.Context) ([]byte, error) {
	m.record("screenshot")
	return m.shot, m.shotErr
}

func (m *mockPage) Close() error {
	m.closed = true
	return nil
}

// blockUntilDone waits for ctx and returns its error.
func blockUntilDone(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func newMockBrowser(page *mockPage) (*mockLauncher, *mockBrowser) {
	b := &mockBrowser{page: page}
	return &mockLauncher{browser: b}, b
}

func containsCall(calls []string, prefix string) bool {
	for _, c := range calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Mock Sources
// ---------------------------------------------------------------------------

type mapSource map[string][]byte

func (m mapSource) ReadAsset(name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, name)
	}
	return data, nil
}

type mockMetadata struct {
	info         RepoInfo
	infoErr      error
	contributors int
	contribErr   error
	languages    map[string]int
	langErr      error
}

func (m *mockMetadata) FetchRepoData(ctx context.Context) (RepoInfo, error) {
	return m.info, m.infoErr
}

func (m *mockMetadata) FetchContributorsCount(ctx context.Context) (int, error) {
	return m.contributors, m.contribErr
}

func (m *mockMetadata) FetchLanguages(ctx context.Context) (map[string]int, error) {
	return m.languages, m.langErr
}
