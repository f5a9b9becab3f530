package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ogimage <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  generate    Render the repository social preview image")
	fmt.Fprintln(w, "  publish     Upload the image through the repository settings page")
	fmt.Fprintln(w, "  doctor      Check the browser and environment")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'ogimage help <command>' for details on a specific command.")
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ogimage generate --owner <s> --repo <s> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Fetch repository metadata and write a 1280x640 PNG preview.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Repository:")
	fmt.Fprintln(w, "      --owner <s>           Repository owner (default: from GITHUB_REPOSITORY)")
	fmt.Fprintln(w, "      --repo <s>            Repository name (default: from GITHUB_REPOSITORY)")
	fmt.Fprintln(w, "      --api-url <url>       GitHub API root for GitHub Enterprise")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Artifact path (default: .github/og-image.png)")
	fmt.Fprintln(w, "      --html <path>         Also write the rendered HTML")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assets:")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory (default: .github/templates if present)")
	fmt.Fprintln(w, "      --template <name>     Template name (default: default.html)")
	fmt.Fprintln(w)
	printBrowserUsage(w)
	printCommonUsage(w)
}

// printPublishUsage prints usage for the publish command.
func printPublishUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ogimage publish --owner <s> --repo <s> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Log in as the bot account and upload the image as the repository's")
	fmt.Fprintln(w, "social preview. Reads BOT_GITHUB_USERNAME and BOT_GITHUB_PASSWORD.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Repository:")
	fmt.Fprintln(w, "      --owner <s>           Repository owner (default: from GITHUB_REPOSITORY)")
	fmt.Fprintln(w, "      --repo <s>            Repository name (default: from GITHUB_REPOSITORY)")
	fmt.Fprintln(w, "      --web-url <url>       GitHub web root (default: https://github.com)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Upload:")
	fmt.Fprintln(w, "  -i, --image <path>        Image to upload (default: output path)")
	fmt.Fprintln(w, "      --no-stealth          Disable automation masking")
	fmt.Fprintln(w)
	printBrowserUsage(w)
	printCommonUsage(w)
}

func printBrowserUsage(w io.Writer) {
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --headless=<bool>     Run without a window (default: true)")
	fmt.Fprintln(w, "      --keep-open           Leave the browser running for inspection")
	fmt.Fprintln(w, "  -t, --timeout <d>         Browser step timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w, "      --log-file <path>     Also write logs to a rotating file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  .env in the working directory is loaded first; set variables win.")
	fmt.Fprintln(w, "  OGIMAGE_ENV_FILE          Read this file instead of .env")
	fmt.Fprintln(w, "  ROD_NO_SANDBOX=0          Keep Chrome's sandbox (off by default)")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN           Chrome/Chromium binary to launch")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "generate":
		printGenerateUsage(env.Stdout)
	case "publish":
		printPublishUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: ogimage doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check the browser, sandbox settings and credentials.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: ogimage version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: ogimage help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
