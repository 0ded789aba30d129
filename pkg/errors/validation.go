package errors

import (
	"strings"
	"unicode"
)

// ValidateOutputPath validates an output file path for safety.
// It prevents path traversal and rejects unreasonable paths.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No parent-directory traversal sequences
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	if len(path) > 500 {
		return New(ErrCodeInvalidPath, "output path too long (max 500 characters)")
	}

	for _, r := range path {
		if r == 0 || (unicode.IsControl(r) && r != '\t') {
			return New(ErrCodeInvalidPath, "output path contains invalid control characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "output path cannot contain parent-directory references")
	}

	return nil
}

// ValidateElementID validates an element identifier.
// IDs are opaque but must be printable and bounded so they can be used in
// log output, cache keys, and SVG attribute values.
func ValidateElementID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidDocument, "element id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidDocument, "element id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDocument, "element id contains invalid control characters")
		}
	}

	return nil
}

// ValidateOpacity checks that an element opacity is within the 0-100 range.
func ValidateOpacity(opacity float64) error {
	if opacity < 0 || opacity > 100 {
		return New(ErrCodeInvalidDocument, "opacity must be in [0, 100], got %g", opacity)
	}
	return nil
}

// ValidateDimensions checks that element dimensions are non-negative and finite.
func ValidateDimensions(width, height float64) error {
	if width != width || height != height { // NaN check
		return New(ErrCodeInvalidDocument, "element dimensions cannot be NaN")
	}
	if width < 0 || height < 0 {
		return New(ErrCodeInvalidDocument, "element dimensions must be non-negative, got %gx%g", width, height)
	}
	return nil
}
