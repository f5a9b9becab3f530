package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"golang.org/x/image/font/gofont/goregular"
)

//go:embed defaults
var defaults embed.FS

// EmbeddedSource reads the defaults compiled into the binary.
type EmbeddedSource struct{}

// NewEmbeddedSource creates an EmbeddedSource.
func NewEmbeddedSource() *EmbeddedSource {
	return &EmbeddedSource{}
}

// ReadAsset reads defaults/{name}. FallbackFont is served from the Go font
// package; Mona Sans is not redistributed with the binary.
func (e *EmbeddedSource) ReadAsset(name string) ([]byte, error) {
	if err := ValidateAssetPath(name); err != nil {
		return nil, err
	}
	if name == FallbackFont {
		return goregular.TTF, nil
	}

	data, err := defaults.ReadFile("defaults/" + name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrAssetNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return data, nil
}

// Compile-time interface check.
var _ Source = (*EmbeddedSource)(nil)
