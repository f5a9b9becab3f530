package ogimage

import (
	"errors"

	"github.com/repoglow/go-ogimage/internal/assets"
	"github.com/repoglow/go-ogimage/internal/pipeline"
)

// Rendering errors.
var (
	ErrAssetNotFound    = assets.ErrAssetNotFound
	ErrTemplateNotFound = pipeline.ErrTemplateNotFound
	ErrRenderTimeout    = errors.New("render timed out")
	ErrRenderFailure    = errors.New("render failed")
	ErrBrowserConnect   = errors.New("failed to connect to browser")
	ErrPageCreate       = errors.New("failed to create browser page")
	ErrCompression      = errors.New("image compression failed")
	ErrOutputTooLarge   = errors.New("compressed image exceeds maximum size")
	ErrWriteArtifact    = errors.New("failed to write artifact")
	ErrMetadataFetch    = errors.New("failed to fetch repository metadata")
)

// Publishing errors.
var (
	ErrMissingCredentials  = errors.New("missing repository or credentials")
	ErrArtifactNotFound    = errors.New("image artifact not found")
	ErrNavigationMismatch  = errors.New("settings page URL mismatch")
	ErrSectionNotFound     = errors.New("social preview section not found")
	ErrEditControlNotFound = errors.New("social preview edit control not found")
	ErrFileInputNotFound   = errors.New("social preview file input not found")
	ErrSaveControlNotFound = errors.New("social preview save control not found")
)

// ErrUnexpectedFailure wraps panics and conditions no other error covers.
var ErrUnexpectedFailure = errors.New("unexpected failure")
