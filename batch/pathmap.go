package batch

import (
	"fmt"
	"path/filepath"
	"strings"
)

// WebPExt is the canonical destination extension, always emitted lowercase
// regardless of how the source extension was cased.
const WebPExt = ".webp"

// MapPath computes the destination path for sourceFile: its path relative
// to sourceRoot, re-rooted under destRoot, with the final extension replaced
// by WebPExt. Pure function, no file-system access. Returns ErrInvalidPath
// when sourceFile is not a descendant of sourceRoot (including the
// different-drive case on Windows, where filepath.Rel cannot produce a
// relative path).
func MapPath(sourceRoot, destRoot, sourceFile string) (string, error) {
	rel, err := filepath.Rel(sourceRoot, sourceFile)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, sourceFile)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == "." {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, sourceFile)
	}

	// Only the final extension is replaced; earlier dots in the name stay.
	ext := filepath.Ext(rel)
	rel = strings.TrimSuffix(rel, ext) + WebPExt

	return filepath.Join(destRoot, rel), nil
}
