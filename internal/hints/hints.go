// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/repoglow/go-ogimage/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// InCI reports whether a known CI provider variable is set.
func InCI() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// SandboxEnabled reports whether ROD_NO_SANDBOX=0 asks to keep Chrome's
// sandbox. Chrome runs unsandboxed otherwise.
func SandboxEnabled() bool {
	return os.Getenv("ROD_NO_SANDBOX") == "0"
}

// ForBrowserConnect returns hints for browser launch or connection errors.
func ForBrowserConnect() string {
	var hints []string

	if (InCI() || IsInContainer()) && SandboxEnabled() {
		hints = append(hints, "unset ROD_NO_SANDBOX=0 for Docker/CI (sandbox needs a non-root user)")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about raising the page timeout.
func ForTimeout() string {
	return format("slow font or background loading; raise --timeout")
}

// ForAssetNotFound returns hints for a missing template, icon or font.
func ForAssetNotFound(assetPath string) string {
	if assetPath == "" {
		return format("set --asset-path or create .github/templates with the missing file")
	}
	return format("check " + assetPath + " contains the referenced file")
}

// ForMissingCredentials returns hints for publish runs without a bot login.
func ForMissingCredentials() string {
	return format("set BOT_GITHUB_USERNAME and BOT_GITHUB_PASSWORD")
}

// ForNavigationMismatch explains the usual causes of a settings redirect.
func ForNavigationMismatch() string {
	return format("the bot account needs admin access; two-factor prompts also redirect")
}

// ForOutputTooLarge returns a hint for oversized artifacts.
func ForOutputTooLarge() string {
	return format("use a smaller or flatter background image")
}

// ForMetadata returns hints for GitHub API failures.
func ForMetadata() string {
	if os.Getenv("GITHUB_TOKEN") == "" {
		return format("set GITHUB_TOKEN to avoid anonymous rate limits")
	}
	return format("check --owner/--repo and that the token can read the repository")
}

// ForConfigNotFound returns hints for config file not found errors.
func ForConfigNotFound(path string) string {
	return format("use --config /path/to/ogimage.yaml or remove " + path)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
