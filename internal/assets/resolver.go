package assets

import "errors"

// Resolver layers a custom directory over the embedded defaults. Only
// not-found errors fall through to the defaults; validation and I/O errors
// from the custom directory are returned as is.
type Resolver struct {
	custom   Source // nil if no custom path configured
	embedded Source
}

// NewResolver creates a Resolver. An empty customBasePath uses the embedded
// defaults only.
func NewResolver(customBasePath string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedSource()}

	if customBasePath != "" {
		fsSource, err := NewFilesystemSource(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsSource
	}

	return r, nil
}

// ReadAsset reads name from the custom directory, then the defaults.
func (r *Resolver) ReadAsset(name string) ([]byte, error) {
	if r.custom == nil {
		return r.embedded.ReadAsset(name)
	}

	data, err := r.custom.ReadAsset(name)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrAssetNotFound) {
		return nil, err
	}
	return r.embedded.ReadAsset(name)
}

// Compile-time interface check.
var _ Source = (*Resolver)(nil)
