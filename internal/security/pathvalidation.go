// Package security provides path validation for user-supplied file
// paths (detection logs, report output locations).
package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidatePathWithinDirectory checks that a file path resolves inside
// the given safe directory, rejecting traversal via ".." components or
// absolute paths that escape it.
func ValidatePathWithinDirectory(filePath, safeDir string) error {
	absPath, err := filepath.Abs(filepath.Clean(filePath))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	absSafeDir, err := filepath.Abs(safeDir)
	if err != nil {
		return fmt.Errorf("failed to resolve safe directory path: %w", err)
	}

	rel, err := filepath.Rel(absSafeDir, absPath)
	if err != nil {
		return fmt.Errorf("failed to compute relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path %q escapes directory %q", filePath, safeDir)
	}
	return nil
}

// ValidateFileExtension checks that the path has one of the allowed
// extensions (including the dot, e.g. ".jsonl").
func ValidateFileExtension(path string, allowed ...string) error {
	ext := filepath.Ext(path)
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return fmt.Errorf("file %q has unsupported extension %q (allowed: %s)", path, ext, strings.Join(allowed, ", "))
}
