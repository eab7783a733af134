package utils

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates an email address.
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// NormalizeEmail trims surrounding whitespace. Emails are stored
// case-sensitively, so no case folding happens here.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
