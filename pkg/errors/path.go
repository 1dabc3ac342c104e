package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateOutputPath validates a file path the CLI is asked to write.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Extension must be one of exts when exts is non-empty
func ValidateOutputPath(path string, exts ...string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	if len(exts) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range exts {
		if ext == want {
			return nil
		}
	}
	return New(ErrCodeInvalidPath, "unsupported extension %q (want one of: %s)", ext, strings.Join(exts, ", "))
}
