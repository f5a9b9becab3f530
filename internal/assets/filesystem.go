package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemSource reads assets from a directory on disk.
type FilesystemSource struct {
	basePath string
}

// NewFilesystemSource creates a FilesystemSource rooted at basePath.
// Returns ErrInvalidBasePath if the path is not a readable directory.
func NewFilesystemSource(basePath string) (*FilesystemSource, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	// Resolve symlinks so containment checks compare real paths.
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}
	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemSource{basePath: absPath}, nil
}

// BasePath returns the resolved absolute base directory.
func (f *FilesystemSource) BasePath() string {
	return f.basePath
}

// ReadAsset reads {basePath}/{name}.
func (f *FilesystemSource) ReadAsset(name string) ([]byte, error) {
	if err := ValidateAssetPath(name); err != nil {
		return nil, err
	}

	filePath := filepath.Join(f.basePath, filepath.FromSlash(name))
	if err := f.verifyPathContainment(filePath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- path validated above
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrAssetNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return data, nil
}

// verifyPathContainment resolves symlinks and checks the result is still
// under basePath.
func (f *FilesystemSource) verifyPathContainment(filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	// A missing file keeps its unresolved path; the read fails later.
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	if !strings.HasPrefix(absFilePath, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}
	return nil
}

// Compile-time interface check.
var _ Source = (*FilesystemSource)(nil)
