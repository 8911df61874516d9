package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"implantstock/internal/models"
)

const (
	maxSizeLength  = 50
	maxBrandLength = 100
)

// ParseCount parses a non-negative whole number submitted for field.
func ParseCount(field, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", field)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative", field)
	}
	if n > models.MaxStock {
		return 0, fmt.Errorf("%s must not exceed %d", field, models.MaxStock)
	}
	return n, nil
}

// ParseQuantity parses a strictly positive whole number submitted for field.
func ParseQuantity(field, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", field)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than zero", field)
	}
	if n > models.MaxStock {
		return 0, fmt.Errorf("%s must not exceed %d", field, models.MaxStock)
	}
	return n, nil
}

// ValidateSize checks an already-trimmed implant size label.
func ValidateSize(size string) error {
	if size == "" {
		return fmt.Errorf("size is required")
	}
	if utf8.RuneCountInString(size) > maxSizeLength {
		return fmt.Errorf("size must not exceed %d characters", maxSizeLength)
	}
	return nil
}

// ValidateBrand checks an already-trimmed brand name.
func ValidateBrand(brand string) error {
	if brand == "" {
		return fmt.Errorf("brand is required")
	}
	if utf8.RuneCountInString(brand) > maxBrandLength {
		return fmt.Errorf("brand must not exceed %d characters", maxBrandLength)
	}
	return nil
}
