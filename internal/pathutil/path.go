// Package pathutil converts between host paths and the root-relative names
// used while walking a bundle root.
package pathutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Rel returns target relative to base, or "" when target equals base.
// It returns an error wrapping fs.ErrInvalid when target lies outside base.
func Rel(base, target string) (string, error) {
	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(target))
	if err != nil {
		return "", fmt.Errorf("%w: %s is not under %s", fs.ErrInvalid, target, base)
	}
	if rel == "." {
		return "", nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s is not under %s", fs.ErrInvalid, target, base)
	}
	return rel, nil
}

// FSName converts a root-relative host path to an fs.FS name.
// The root itself ("") becomes ".".
func FSName(rel string) string {
	if rel == "" {
		return "."
	}
	return filepath.ToSlash(rel)
}

// OSName converts a root-relative host path to a name accepted by os.Root.
func OSName(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
