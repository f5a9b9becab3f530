package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrAssetNotFound indicates the requested file exists in no source.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrInvalidAssetName indicates the name is empty, absolute, or contains
	// traversal sequences.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath indicates the configured base path is not a readable directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead indicates an I/O error other than not-found.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal indicates an attempt to access files outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")
)
