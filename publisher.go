package ogimage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// State is a step of the publishing flow.
type State int

const (
	StateStart State = iota
	StateLoggedOut
	StateLoggingIn
	StateLoggedIn
	StateOnSettingsPage
	StatePreviewSectionConfirmed
	StateEditModeActive
	StateFileSelected
	StateUploaded
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateStart:                   "Start",
	StateLoggedOut:               "LoggedOut",
	StateLoggingIn:               "LoggingIn",
	StateLoggedIn:                "LoggedIn",
	StateOnSettingsPage:          "OnSettingsPage",
	StatePreviewSectionConfirmed: "PreviewSectionConfirmed",
	StateEditModeActive:          "EditModeActive",
	StateFileSelected:            "FileSelected",
	StateUploaded:                "Uploaded",
	StateDone:                    "Done",
	StateFailed:                  "Failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// Publisher timing defaults.
const (
	DefaultLandmarkTimeout   = 10 * time.Second
	DefaultNavigationTimeout = 30 * time.Second
	DefaultWebURL            = "https://github.com"
)

// PublishError reports the state in which publishing stopped.
type PublishError struct {
	State State
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish failed in state %s: %v", e.State, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// Credentials authenticate the browser session.
type Credentials struct {
	Username string
	Password string
}

// PublishRequest names the repository and the artifact to upload.
type PublishRequest struct {
	Owner       string
	Repo        string
	Credentials Credentials
	ImagePath   string
}

// Selectors locate the landmarks and controls of GitHub's login and
// settings pages.
type Selectors struct {
	LoginField    string
	PasswordField string
	LoginSubmit   string

	SectionHeading string // elements scanned for SectionTitle
	SectionTitle   string
	UploadForm     string // soft check; absence only logs
	EditButton     string
	FileLabel      string
	FileInput      string
	SaveButton     string
}

// DefaultSelectors returns selectors matching github.com.
func DefaultSelectors() Selectors {
	return Selectors{
		LoginField:     "#login_field",
		PasswordField:  "#password",
		LoginSubmit:    `[name="commit"]`,
		SectionHeading: "h2",
		SectionTitle:   "Social preview",
		UploadForm:     `form[action$="/settings/open-graph-image"]`,
		EditButton:     "#edit-social-preview-button",
		FileLabel:      `label[for="repo-image-file-input"]`,
		FileInput:      `input[name="repository[social_preview]"]`,
		SaveButton:     `button[name="button"]`,
	}
}

// Session records a publishing run. It is returned on success and failure.
type Session struct {
	state     State
	landmarks []string
	browser   Browser
	page      Page
}

// State returns the last state reached. StateFailed after an error.
func (s *Session) State() State {
	return s.state
}

// Landmarks returns the landmarks confirmed so far, in order.
func (s *Session) Landmarks() []string {
	out := make([]string, len(s.landmarks))
	copy(out, s.landmarks)
	return out
}

// Publisher uploads a social preview image through the repository settings.
type Publisher struct {
	launcher        Launcher
	launch          LaunchOptions
	stealth         bool
	webURL          string
	selectors       Selectors
	landmarkTimeout time.Duration
	navTimeout      time.Duration
	logger          *slog.Logger
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithPublishLauncher sets the browser launcher. Defaults to RodLauncher.
func WithPublishLauncher(l Launcher) PublisherOption {
	return func(p *Publisher) {
		p.launcher = l
	}
}

// WithLaunchOptions sets browser options. The Stealth field is ignored; use
// WithStealth.
func WithLaunchOptions(o LaunchOptions) PublisherOption {
	return func(p *Publisher) {
		p.launch = o
	}
}

// WithStealth toggles automation masking on publisher pages. Enabled by
// default.
func WithStealth(enabled bool) PublisherOption {
	return func(p *Publisher) {
		p.stealth = enabled
	}
}

// WithWebURL sets the GitHub web root, e.g. for GitHub Enterprise.
func WithWebURL(u string) PublisherOption {
	return func(p *Publisher) {
		p.webURL = strings.TrimSuffix(u, "/")
	}
}

// WithSelectors overrides the page selectors.
func WithSelectors(s Selectors) PublisherOption {
	return func(p *Publisher) {
		p.selectors = s
	}
}

// WithLandmarkTimeout bounds each wait for a page element.
func WithLandmarkTimeout(d time.Duration) PublisherOption {
	return func(p *Publisher) {
		p.landmarkTimeout = d
	}
}

// WithNavigationTimeout bounds each page navigation.
func WithNavigationTimeout(d time.Duration) PublisherOption {
	return func(p *Publisher) {
		p.navTimeout = d
	}
}

// WithPublishLogger sets the publisher logger.
func WithPublishLogger(l *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = l
	}
}

// NewPublisher creates a Publisher.
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		launcher:        RodLauncher{},
		launch:          LaunchOptions{Headless: true, NoSandbox: true},
		stealth:         true,
		webURL:          DefaultWebURL,
		selectors:       DefaultSelectors(),
		landmarkTimeout: DefaultLandmarkTimeout,
		navTimeout:      DefaultNavigationTimeout,
		logger:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.launch.Stealth = p.stealth
	return p
}

// SettingsURL returns the settings page address for owner/repo.
func (p *Publisher) SettingsURL(owner, repo string) string {
	return p.webURL + "/" + owner + "/" + repo + "/settings"
}

type publishStep struct {
	next State
	run  func(ctx context.Context, s *Session) error
}

// Publish runs the flow to completion or to the first failing step. Each
// step confirms its landmark before acting; no step runs after a failure.
// The browser is closed on return unless KeepOpen is set.
func (p *Publisher) Publish(ctx context.Context, req PublishRequest) (sess *Session, err error) {
	sess = &Session{state: StateStart}

	defer func() {
		if r := recover(); r != nil {
			err = sess.fail(fmt.Errorf("%w: %v", ErrUnexpectedFailure, r))
		}
		if sess.browser != nil && !p.launch.KeepOpen {
			if cerr := sess.browser.Close(); cerr != nil {
				p.logger.Debug("closing browser", "error", cerr)
			}
		}
	}()

	imagePath, err := p.validate(req)
	if err != nil {
		return sess, sess.fail(err)
	}

	steps := []publishStep{
		{StateLoggedOut, p.openSession},
		{StateLoggingIn, p.openLogin},
		{StateLoggedIn, func(ctx context.Context, s *Session) error {
			return p.logIn(ctx, s, req.Credentials)
		}},
		{StateOnSettingsPage, func(ctx context.Context, s *Session) error {
			return p.openSettings(ctx, s, req.Owner, req.Repo)
		}},
		{StatePreviewSectionConfirmed, p.confirmSection},
		{StateEditModeActive, p.enterEditMode},
		{StateFileSelected, func(ctx context.Context, s *Session) error {
			return p.selectFile(ctx, s, imagePath)
		}},
		{StateUploaded, p.save},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return sess, sess.fail(err)
		}
		if err := step.run(ctx, sess); err != nil {
			p.logger.Error("publish step failed", "state", sess.state.String(), "error", err)
			return sess, sess.fail(err)
		}
		p.logger.Debug("publish state", "from", sess.state.String(), "to", step.next.String())
		sess.state = step.next
	}

	sess.state = StateDone
	p.logger.Info("social preview uploaded", "repo", req.Owner+"/"+req.Repo)
	return sess, nil
}

// fail records the failure and returns a *PublishError for the current state.
func (s *Session) fail(err error) error {
	pe := &PublishError{State: s.state, Err: err}
	s.state = StateFailed
	return pe
}

func (s *Session) confirm(landmark string) {
	s.landmarks = append(s.landmarks, landmark)
}

func (p *Publisher) validate(req PublishRequest) (string, error) {
	var missing []string
	if req.Owner == "" {
		missing = append(missing, "owner")
	}
	if req.Repo == "" {
		missing = append(missing, "repository")
	}
	if req.Credentials.Username == "" {
		missing = append(missing, "username")
	}
	if req.Credentials.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	abs, err := filepath.Abs(req.ImagePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrArtifactNotFound, err)
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrArtifactNotFound, req.ImagePath)
	}
	return abs, nil
}

func (p *Publisher) openSession(ctx context.Context, s *Session) error {
	b, err := p.launcher.Launch(ctx, p.launch)
	if err != nil {
		return err
	}
	s.browser = b
	page, err := b.NewPage(ctx)
	if err != nil {
		return err
	}
	s.page = page
	return nil
}

func (p *Publisher) openLogin(ctx context.Context, s *Session) error {
	if err := p.navigate(ctx, s.page, p.webURL+"/login"); err != nil {
		return fmt.Errorf("opening login page: %w", err)
	}
	if err := p.waitFor(ctx, s.page, p.selectors.LoginField); err != nil {
		return fmt.Errorf("login form not found: %w", err)
	}
	s.confirm("login form")
	return nil
}

func (p *Publisher) logIn(ctx context.Context, s *Session, creds Credentials) error {
	if err := p.waitFor(ctx, s.page, p.selectors.PasswordField); err != nil {
		return fmt.Errorf("password field not found: %w", err)
	}
	if err := s.page.Type(ctx, p.selectors.LoginField, creds.Username); err != nil {
		return fmt.Errorf("entering username: %w", err)
	}
	if err := s.page.Type(ctx, p.selectors.PasswordField, creds.Password); err != nil {
		return fmt.Errorf("entering password: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, p.navTimeout)
	defer cancel()
	if err := s.page.Submit(navCtx, p.selectors.LoginSubmit); err != nil {
		return fmt.Errorf("submitting login: %w", err)
	}
	s.confirm("login submitted")
	return nil
}

func (p *Publisher) openSettings(ctx context.Context, s *Session, owner, repo string) error {
	want := p.SettingsURL(owner, repo)
	if err := p.navigate(ctx, s.page, want); err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}
	got, err := s.page.URL(ctx)
	if err != nil {
		return fmt.Errorf("reading page URL: %w", err)
	}
	if got != want {
		return fmt.Errorf("%w: expected %s, got %s", ErrNavigationMismatch, want, got)
	}
	s.confirm("settings page")
	return nil
}

func (p *Publisher) confirmSection(ctx context.Context, s *Session) error {
	js := "() => Array.from(document.querySelectorAll(" + strconv.Quote(p.selectors.SectionHeading) +
		")).map((e) => e.textContent || \"\")"

	var headings []string
	if err := s.page.Evaluate(ctx, js, &headings); err != nil {
		return fmt.Errorf("%w: reading headings: %w", ErrSectionNotFound, err)
	}
	for _, h := range headings {
		if strings.TrimSpace(h) == p.selectors.SectionTitle {
			s.confirm("social preview section")
			return nil
		}
	}
	return fmt.Errorf("%w: no %s titled %q", ErrSectionNotFound, p.selectors.SectionHeading, p.selectors.SectionTitle)
}

func (p *Publisher) enterEditMode(ctx context.Context, s *Session) error {
	js := "() => document.querySelector(" + strconv.Quote(p.selectors.UploadForm) + ") !== null"
	var hasForm bool
	if err := s.page.Evaluate(ctx, js, &hasForm); err != nil || !hasForm {
		p.logger.Warn("upload form not found, continuing", "selector", p.selectors.UploadForm)
	}

	if err := p.waitFor(ctx, s.page, p.selectors.EditButton); err != nil {
		return fmt.Errorf("%w: %w", ErrEditControlNotFound, err)
	}
	if err := s.page.Click(ctx, p.selectors.EditButton); err != nil {
		return fmt.Errorf("%w: clicking: %w", ErrEditControlNotFound, err)
	}
	s.confirm("edit control")
	return nil
}

func (p *Publisher) selectFile(ctx context.Context, s *Session, imagePath string) error {
	if err := p.waitFor(ctx, s.page, p.selectors.FileLabel); err != nil {
		return fmt.Errorf("%w: upload label: %w", ErrFileInputNotFound, err)
	}
	if err := p.waitFor(ctx, s.page, p.selectors.FileInput); err != nil {
		return fmt.Errorf("%w: %w", ErrFileInputNotFound, err)
	}
	if err := s.page.UploadFile(ctx, p.selectors.FileInput, imagePath); err != nil {
		return fmt.Errorf("%w: attaching file: %w", ErrFileInputNotFound, err)
	}
	s.confirm("file input")
	return nil
}

func (p *Publisher) save(ctx context.Context, s *Session) error {
	if err := p.waitFor(ctx, s.page, p.selectors.SaveButton); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveControlNotFound, err)
	}
	if err := s.page.Click(ctx, p.selectors.SaveButton); err != nil {
		return fmt.Errorf("%w: clicking: %w", ErrSaveControlNotFound, err)
	}
	s.confirm("save control")
	return nil
}

func (p *Publisher) navigate(ctx context.Context, page Page, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, p.navTimeout)
	defer cancel()
	return page.Goto(navCtx, url)
}

func (p *Publisher) waitFor(ctx context.Context, page Page, selector string) error {
	waitCtx, cancel := context.WithTimeout(ctx, p.landmarkTimeout)
	defer cancel()
	err := page.WaitFor(waitCtx, selector)
	if err != nil && ctx.Err() == nil && errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s not visible within %s", selector, p.landmarkTimeout)
	}
	return err
}
