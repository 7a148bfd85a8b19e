package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateDiagramName validates a diagram name for safety and correctness.
// Diagram names become image file basenames, so anything that could escape
// the output directory is rejected.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - No leading dot (hidden files)
//   - Maximum length of 256 characters
func ValidateDiagramName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "diagram name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidName, "diagram name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "diagram name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidName, "diagram name cannot contain path separators")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "diagram name cannot contain traversal sequences (..)")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidName, "diagram name cannot be a hidden file")
	}

	return nil
}

// ValidateImageDir validates the directory prefix used when referencing
// generated images from markup. It prevents path traversal and ensures the
// prefix stays relative to the document root.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateImageDir(dir string) error {
	if dir == "" {
		return New(ErrCodeInvalidPath, "image directory cannot be empty")
	}

	const maxPathLength = 500
	if len(dir) > maxPathLength {
		return New(ErrCodeInvalidPath, "image directory too long (max %d characters)", maxPathLength)
	}

	for _, r := range dir {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "image directory contains invalid characters")
		}
	}

	if strings.HasPrefix(dir, "/") {
		return New(ErrCodeInvalidPath, "image directory must be relative (cannot start with /)")
	}

	if strings.Contains(dir, "..") {
		return New(ErrCodeInvalidPath, "image directory cannot contain traversal sequences (..)")
	}

	if strings.Contains(dir, "\\") {
		return New(ErrCodeInvalidPath, "image directory cannot contain backslashes")
	}

	return nil
}

// skinNameRegex matches valid WaveDrom skin names.
var skinNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ValidateSkin validates a WaveDrom skin name. The empty string is valid
// and means no skin is injected into rendered documents.
func ValidateSkin(skin string) error {
	if skin == "" {
		return nil
	}

	if !skinNameRegex.MatchString(skin) {
		return New(ErrCodeInvalidConfig, "invalid skin name: %q", skin)
	}

	return nil
}
