package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateUnit validates that a named parameter lies in [0, 1].
func ValidateUnit(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidParams, "%s must be in [0, 1], got %v", name, v)
	}
	return nil
}

// ValidatePositive validates that a named parameter is finite and > 0.
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(ErrCodeInvalidParams, "%s must be positive, got %v", name, v)
	}
	return nil
}

// ValidateNonNegative validates that a named parameter is finite and >= 0.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return New(ErrCodeInvalidParams, "%s must not be negative, got %v", name, v)
	}
	return nil
}

// ValidateRange validates that lo <= hi for a named closed interval.
func ValidateRange(name string, lo, hi float64) error {
	if math.IsNaN(lo) || math.IsNaN(hi) || lo > hi {
		return New(ErrCodeInvalidParams, "%s range [%v, %v] is empty", name, lo, hi)
	}
	return nil
}

// ValidateShape validates a circle's center and radius.
// Radii must be strictly positive and all coordinates finite.
func ValidateShape(id uint32, x, y, radius float64) error {
	for _, v := range []float64{x, y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidShape, "shape %d has a non-finite center", id)
		}
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return New(ErrCodeInvalidShape, "shape %d radius must be positive, got %v", id, radius)
	}
	return nil
}

// ValidatePath validates a scene file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
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

// ValidateFormat validates a scene or output format name against the allowed set.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if strings.EqualFold(format, a) {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}
