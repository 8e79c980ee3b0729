package errors

import (
	"slices"
	"strings"
	"unicode"
)

// MaxBlueprintSize is the largest blueprint input accepted, in bytes.
const MaxBlueprintSize = 8 << 20

// MaxInserterCapacityBonus is the highest inserter capacity research level.
const MaxInserterCapacityBonus = 7

// SupportedFormats lists the artifact formats the pipeline can produce.
var SupportedFormats = []string{"json", "dot", "svg"}

// ValidateFormat checks that format is one of [SupportedFormats].
func ValidateFormat(format string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(SupportedFormats, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)",
			format, strings.Join(SupportedFormats, ", "))
	}
	return nil
}

// ValidateBlueprintInput performs cheap sanity checks on a raw blueprint
// before it is decoded.
//
// Validation rules:
//   - Input cannot be empty or whitespace only
//   - Maximum size of [MaxBlueprintSize] bytes
//   - No null bytes or non-whitespace control characters
func ValidateBlueprintInput(s string) error {
	if strings.TrimSpace(s) == "" {
		return New(ErrCodeInvalidBlueprint, "blueprint cannot be empty")
	}

	if len(s) > MaxBlueprintSize {
		return New(ErrCodeInvalidBlueprint, "blueprint too large (max %d bytes)", MaxBlueprintSize)
	}

	for _, r := range s {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return New(ErrCodeInvalidBlueprint, "blueprint contains invalid control characters")
		}
	}

	return nil
}

// ValidateCapacityBonus checks an inserter capacity bonus research level.
func ValidateCapacityBonus(n int) error {
	if n < 0 || n > MaxInserterCapacityBonus {
		return New(ErrCodeInvalidConfig,
			"inserter capacity bonus must be between 0 and %d, got %d", MaxInserterCapacityBonus, n)
	}
	return nil
}
