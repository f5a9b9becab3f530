package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/repoglow/go-ogimage"
	"github.com/repoglow/go-ogimage/internal/config"
	"github.com/repoglow/go-ogimage/internal/fileutil"
	"github.com/repoglow/go-ogimage/internal/hints"
)

// Doctor status values.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorReport is everything doctor found, in the shape printed by --json.
type doctorReport struct {
	Status      string          `json:"status"`
	Browser     browserCheck    `json:"chrome"`
	Host        hostCheck       `json:"environment"`
	Assets      assetCheck      `json:"assets"`
	Credentials credentialCheck `json:"credentials"`
	System      systemCheck     `json:"system"`
	Warnings    []string        `json:"warnings,omitempty"`
	Errors      []string        `json:"errors,omitempty"`
}

type browserCheck struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

type hostCheck struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
	Repository    string `json:"github_repository,omitempty"`
}

// assetCheck describes where generate will read templates from.
type assetCheck struct {
	Dir      string `json:"dir,omitempty"`
	Font     string `json:"font"`
	Fallback bool   `json:"font_fallback"`
	DotEnv   string `json:"dotenv,omitempty"`
}

// credentialCheck reports which secrets are set. Values never enter the
// report.
type credentialCheck struct {
	Token    bool `json:"github_token"`
	Username bool `json:"bot_username"`
	Password bool `json:"bot_password"`
}

type systemCheck struct {
	TempWritable bool `json:"temp_writable"`
}

func (r *doctorReport) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *doctorReport) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// runDoctorCmd runs every check and prints the report. It exits 1 only
// when a check failed; warnings still exit 0.
func runDoctorCmd(args []string, env *Environment) int {
	asJSON := false
	for _, arg := range args {
		if arg == "--json" {
			asJSON = true
		}
	}

	report := diagnose()

	if asJSON {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		report.print(env.Stdout)
	}

	if report.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

func diagnose() *doctorReport {
	r := &doctorReport{
		Host: hostCheck{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
			Repository: os.Getenv("GITHUB_REPOSITORY"),
		},
	}

	// .env first so credential presence matches what generate/publish see
	if err := loadDotEnv(); err != nil {
		r.fail("%v", err)
	}

	for _, check := range []func(*doctorReport){
		checkBrowser,
		checkHost,
		checkAssets,
		checkCredentials,
		checkSystem,
	} {
		check(r)
	}

	// Determine final status
	switch {
	case len(r.Errors) > 0:
		r.Status = statusErrors
	case len(r.Warnings) > 0:
		r.Status = statusWarnings
	default:
		r.Status = statusReady
	}
	return r
}

// ---------------------------------------------------------------------------
// Checks
// ---------------------------------------------------------------------------

func checkBrowser(r *doctorReport) {
	bin := r.Host.BrowserBin

	// Use rod's launcher to locate Chrome
	if bin == "" {
		found := false
		if bin, found = launcher.LookPath(); !found {
			r.fail("Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	// Verify it exists
	if _, err := os.Stat(bin); err != nil {
		r.fail("Chrome not found at %s", bin)
		return
	}
	r.Browser.Found = true
	r.Browser.Path = bin

	// Get version by running chrome --version
	out, err := exec.Command(bin, "--version").Output() // #nosec G204 -- path from LookPath or ROD_BROWSER_BIN
	if err != nil {
		r.warn("Could not get Chrome version: %v", err)
	} else {
		r.Browser.Version = strings.TrimSpace(string(out))
	}

	// Unsandboxed unless ROD_NO_SANDBOX=0
	r.Browser.Sandbox = hints.SandboxEnabled()
}

func checkHost(r *doctorReport) {
	r.Host.Container, r.Host.ContainerHint = detectContainer()
	r.Host.CI = hints.InCI()

	// The sandbox needs a non-root user, which containers and CI rarely have
	if (r.Host.Container || r.Host.CI) && hints.SandboxEnabled() {
		r.warn("Container/CI detected with ROD_NO_SANDBOX=0. Chrome may fail to start; unset it to run unsandboxed")
	}
}

// detectContainer returns the first container signal found.
func detectContainer() (bool, string) {
	// Explicit override (highest priority)
	if os.Getenv("OGIMAGE_CONTAINER") == "1" {
		return true, "OGIMAGE_CONTAINER=1"
	}
	// Docker
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	// Kubernetes
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

func checkAssets(r *doctorReport) {
	r.Assets.Dir = assetBasePath(&config.Config{})
	r.Assets.Font = ogimage.DefaultFont

	if r.Assets.Dir == "" || !fileutil.FileExists(filepath.Join(r.Assets.Dir, ogimage.DefaultFont)) {
		r.Assets.Fallback = true
		r.warn("%s not found; images use the bundled Go font", ogimage.DefaultFont)
	}

	if path := dotEnvPath(); fileutil.FileExists(path) {
		r.Assets.DotEnv = path
	}
}

func checkCredentials(r *doctorReport) {
	r.Credentials = credentialCheck{
		Token:    os.Getenv("GITHUB_TOKEN") != "",
		Username: os.Getenv("BOT_GITHUB_USERNAME") != "",
		Password: os.Getenv("BOT_GITHUB_PASSWORD") != "",
	}

	if !r.Credentials.Token {
		r.warn("GITHUB_TOKEN not set. API requests are anonymous and rate limited")
	}
	if !r.Credentials.Username || !r.Credentials.Password {
		r.warn("BOT_GITHUB_USERNAME/BOT_GITHUB_PASSWORD not set. 'publish' will fail")
	}
}

func checkSystem(r *doctorReport) {
	// Check temp directory is writable
	f, err := os.CreateTemp("", "ogimage-doctor-*")
	if err != nil {
		r.fail("Temp directory not writable: %s", os.TempDir())
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	r.System.TempWritable = true
}

// ---------------------------------------------------------------------------
// Output
// ---------------------------------------------------------------------------

func (r *doctorReport) print(w io.Writer) {
	line := func(tag, format string, args ...any) {
		fmt.Fprintf(w, "  [%s] %s\n", tag, fmt.Sprintf(format, args...))
	}
	presence := func(name string, set bool) {
		if set {
			line("OK", "%s: set", name)
		} else {
			line("WARN", "%s: not set", name)
		}
	}

	fmt.Fprintln(w, "ogimage doctor")
	fmt.Fprintln(w)

	// Chrome section
	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Browser.Found {
		line("OK", "Found at %s", r.Browser.Path)
		if r.Browser.Version != "" {
			line("OK", "Version: %s", r.Browser.Version)
		}
		if r.Browser.Sandbox {
			line("OK", "Sandbox: enabled (ROD_NO_SANDBOX=0)")
		} else {
			line("OK", "Sandbox: disabled (default)")
		}
	} else {
		line("ERROR", "Not found")
	}
	fmt.Fprintln(w)

	// Environment section
	fmt.Fprintln(w, "Environment")
	line("OK", "Platform: %s/%s", r.Host.OS, r.Host.Arch)
	if r.Host.Container {
		line("OK", "Container: detected (%s)", r.Host.ContainerHint)
	}
	if r.Host.CI {
		line("OK", "CI: detected")
	}
	if r.Host.Repository != "" {
		line("OK", "Repository: %s", r.Host.Repository)
	}
	if r.Assets.DotEnv != "" {
		line("OK", "Env file: %s", r.Assets.DotEnv)
	}
	fmt.Fprintln(w)

	// Assets section
	fmt.Fprintln(w, "Assets")
	if r.Assets.Dir != "" {
		line("OK", "Templates: %s", r.Assets.Dir)
	} else {
		line("OK", "Templates: built-in")
	}
	if r.Assets.Fallback {
		line("WARN", "Font: bundled fallback (%s missing)", r.Assets.Font)
	} else {
		line("OK", "Font: %s", r.Assets.Font)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Credentials")
	presence("GITHUB_TOKEN", r.Credentials.Token)
	presence("BOT_GITHUB_USERNAME", r.Credentials.Username)
	presence("BOT_GITHUB_PASSWORD", r.Credentials.Password)
	fmt.Fprintln(w)

	// System section
	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		line("OK", "Temp directory: writable")
	} else {
		line("ERROR", "Temp directory: not writable")
	}
	fmt.Fprintln(w)

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, msg := range r.Warnings {
			line("WARN", "%s", msg)
		}
		fmt.Fprintln(w)
	}

	// Errors
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, msg := range r.Errors {
			line("ERROR", "%s", msg)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
