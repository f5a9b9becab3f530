package main

import (
	"errors"
	"os"

	"github.com/repoglow/go-ogimage"
	"github.com/repoglow/go-ogimage/internal/assets"
	"github.com/repoglow/go-ogimage/internal/config"
	"github.com/repoglow/go-ogimage/internal/github"
	"github.com/repoglow/go-ogimage/internal/pipeline"
)

// Exit codes for the ogimage CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Artifact written or uploaded
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or missing inputs
	ExitIO       = 3 // Asset, template, or artifact file errors
	ExitBrowser  = 4 // Browser launch or render errors
	ExitPublish  = 5 // Settings page landmark check failed
	ExitMetadata = 6 // GitHub API errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Landmark failures (exit 5)
	if errors.Is(err, ogimage.ErrNavigationMismatch) ||
		errors.Is(err, ogimage.ErrSectionNotFound) ||
		errors.Is(err, ogimage.ErrEditControlNotFound) ||
		errors.Is(err, ogimage.ErrFileInputNotFound) ||
		errors.Is(err, ogimage.ErrSaveControlNotFound) {
		return ExitPublish
	}

	// Browser errors (exit 4)
	if errors.Is(err, ogimage.ErrBrowserConnect) ||
		errors.Is(err, ogimage.ErrPageCreate) ||
		errors.Is(err, ogimage.ErrRenderTimeout) ||
		errors.Is(err, ogimage.ErrRenderFailure) {
		return ExitBrowser
	}

	// Metadata errors (exit 6)
	if errors.Is(err, ogimage.ErrMetadataFetch) ||
		errors.Is(err, github.ErrRateLimited) ||
		errors.Is(err, github.ErrRepositoryNotFound) {
		return ExitMetadata
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ogimage.ErrMissingCredentials) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrPathTraversal) ||
		errors.Is(err, pipeline.ErrInvalidTemplateName) ||
		errors.Is(err, pipeline.ErrTemplateInvalid) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ogimage.ErrAssetNotFound) ||
		errors.Is(err, ogimage.ErrTemplateNotFound) ||
		errors.Is(err, assets.ErrAssetRead) ||
		errors.Is(err, ogimage.ErrArtifactNotFound) ||
		errors.Is(err, ogimage.ErrWriteArtifact) ||
		errors.Is(err, ogimage.ErrCompression) ||
		errors.Is(err, ogimage.ErrOutputTooLarge) {
		return ExitIO
	}

	return ExitGeneral
}
