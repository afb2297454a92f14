package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateDirection checks that a layout direction is "ltr" or "rtl".
// The empty string is accepted and means "use the default".
func ValidateDirection(dir string) error {
	switch dir {
	case "", "ltr", "rtl":
		return nil
	}
	return New(ErrCodeInvalidDirection, "invalid direction: %q (must be 'ltr' or 'rtl')", dir)
}

// ValidateFormat checks that format is one of the allowed output formats.
func ValidateFormat(format string, allowed map[string]bool) error {
	if !allowed[format] {
		return New(ErrCodeInvalidFormat, "invalid format: %q", format)
	}
	return nil
}

// ValidateSelector rejects selectors that can never match an element.
//
// Validation rules:
//   - Selector cannot be empty or whitespace only
//   - No control characters
//   - Maximum length of 256 characters
func ValidateSelector(sel string) error {
	if strings.TrimSpace(sel) == "" {
		return New(ErrCodeInvalidTarget, "selector cannot be empty")
	}
	if len(sel) > 256 {
		return New(ErrCodeInvalidTarget, "selector too long (max 256 characters)")
	}
	for _, r := range sel {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTarget, "selector contains invalid control characters")
		}
	}
	return nil
}

// sceneExtensions lists the file extensions a scene can be loaded from.
var sceneExtensions = map[string]bool{
	".toml": true,
	".yaml": true,
	".yml":  true,
	".json": true,
}

// ValidateScenePath validates a scene file path before it is opened.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Extension must be .toml, .yaml, .yml or .json
func ValidateScenePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidScene, "scene path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidScene, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidScene, "path contains invalid characters")
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !sceneExtensions[ext] {
		return New(ErrCodeInvalidScene, "unsupported scene file extension %q (want .toml, .yaml, .yml or .json)", ext)
	}
	return nil
}
