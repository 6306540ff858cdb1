package validation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrLocationEmpty is returned when location is empty or whitespace-only after trim.
var ErrLocationEmpty = errors.New("location is required")

// ErrLocationTooLong is returned when location length exceeds the maximum.
var ErrLocationTooLong = errors.New("location too long")

// ValidateLocation trims the input and enforces the non-empty and maxLen (in runes) bounds.
// Content is not checked: whatever the model extracted is passed to the provider as-is,
// and the provider decides whether it names a place. maxLen <= 0 disables the upper bound.
func ValidateLocation(input string, maxLen int) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrLocationEmpty
	}
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		return "", ErrLocationTooLong
	}
	return s, nil
}
