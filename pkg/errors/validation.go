package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateSize checks that a layout box side length is a positive finite number.
func ValidateSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) {
		return New(ErrCodeInvalidParams, "size must be a finite number, got %v", size)
	}
	if size <= 0 {
		return New(ErrCodeInvalidParams, "size must be positive, got %v", size)
	}
	return nil
}

// ValidateCount checks that a named count is non-negative.
func ValidateCount(name string, n int) error {
	if n < 0 {
		return New(ErrCodeInvalidParams, "%s must be non-negative, got %d", name, n)
	}
	return nil
}

// ValidateOutputPath validates a user-supplied output file path.
//
// Validation rules:
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Not a directory-like path ending in a separator
//
// An empty path is valid and means standard output.
func ValidateOutputPath(path string) error {
	if path == "" {
		return nil
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "path %q names a directory, not a file", path)
	}

	return nil
}
