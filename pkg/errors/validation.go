package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateRatio checks that r is a finite number in the closed interval [0,1].
// The name is used in the error message to identify the offending field.
func ValidateRatio(name string, r float64) error {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number, got %v", name, r)
	}
	if r < 0 || r > 1 {
		return New(ErrCodeInvalidConfig, "%s must be within [0,1], got %v", name, r)
	}
	return nil
}

// ValidateDimensions checks an ordered dimension list.
//
// Validation rules:
//   - No empty names (the empty key is reserved for default configuration)
//   - No control characters
//   - No duplicates
//
// An empty list is valid and produces an empty model.
func ValidateDimensions(dimensions []string) error {
	seen := make(map[string]bool, len(dimensions))
	for i, d := range dimensions {
		if d == "" {
			return New(ErrCodeInvalidInput, "dimension %d has an empty name", i)
		}
		for _, r := range d {
			if unicode.IsControl(r) {
				return New(ErrCodeInvalidInput, "dimension %q contains control characters", d)
			}
		}
		if seen[d] {
			return New(ErrCodeInvalidInput, "dimension %q listed more than once", d)
		}
		seen[d] = true
	}
	return nil
}

// ValidatePath validates a dataset or config file path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
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
	return nil
}

// ValidateURI checks that a connection string uses one of the allowed schemes.
func ValidateURI(uri string, schemes ...string) error {
	if uri == "" {
		return New(ErrCodeInvalidInput, "URI cannot be empty")
	}
	for _, s := range schemes {
		if strings.HasPrefix(uri, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URI must use one of the schemes: %s", strings.Join(schemes, ", "))
}
