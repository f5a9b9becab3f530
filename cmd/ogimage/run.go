package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/repoglow/go-ogimage"
	"github.com/repoglow/go-ogimage/internal/config"
	"github.com/repoglow/go-ogimage/internal/hints"
)

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("invalid usage")

// runMain dispatches args[1] to a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case "generate":
		err = runGenerate(ctx, rest, env)
	case "publish":
		err = runPublish(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "ogimage %s\n", Version)
		return ExitSuccess
	case "help", "--help", "-h":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, ogimage.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, ogimage.ErrRenderTimeout):
		return hints.ForTimeout()
	case errors.Is(err, ogimage.ErrAssetNotFound):
		var ae *assetPathError
		if errors.As(err, &ae) {
			return hints.ForAssetNotFound(ae.path)
		}
		return hints.ForAssetNotFound("")
	case errors.Is(err, ogimage.ErrMissingCredentials):
		return hints.ForMissingCredentials()
	case errors.Is(err, ogimage.ErrNavigationMismatch):
		return hints.ForNavigationMismatch()
	case errors.Is(err, ogimage.ErrOutputTooLarge):
		return hints.ForOutputTooLarge()
	case errors.Is(err, ogimage.ErrMetadataFetch):
		return hints.ForMetadata()
	case errors.Is(err, config.ErrConfigNotFound):
		var ce *configPathError
		if errors.As(err, &ce) {
			return hints.ForConfigNotFound(ce.path)
		}
		return ""
	case errors.Is(err, ogimage.ErrWriteArtifact):
		return hints.ForOutputDirectory()
	}
	return ""
}

// assetPathError records the custom asset directory in effect when an
// asset lookup failed.
type assetPathError struct {
	path string
	err  error
}

func (e *assetPathError) Error() string { return e.err.Error() }
func (e *assetPathError) Unwrap() error { return e.err }

// configPathError records the config name that could not be found.
type configPathError struct {
	path string
	err  error
}

func (e *configPathError) Error() string { return e.err.Error() }
func (e *configPathError) Unwrap() error { return e.err }

// usageErrorf returns an error wrapping ErrUsage.
func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUsage}, args...)...)
}

// flagError passes --help through and marks every other parse failure as
// a usage error.
func flagError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUsage, err)
}
