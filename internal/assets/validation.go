package assets

import (
	"fmt"
	"path"
	"strings"
)

// ValidateAssetName checks a bare name such as an icon name. Separators and
// dots are rejected so the name cannot change directory or extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// ValidateAssetPath checks a relative slash path such as
// "assets/icons/star.svg". Absolute paths, backslashes and ".." segments
// are rejected.
func ValidateAssetPath(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "\\\x00") || strings.HasPrefix(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return fmt.Errorf("%w: %q", ErrPathTraversal, name)
		}
	}
	if path.Clean(name) != name {
		return fmt.Errorf("%w: %q is not clean", ErrInvalidAssetName, name)
	}
	return nil
}
