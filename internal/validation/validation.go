package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance for request struct tags.
var Validate = validator.New(validator.WithRequiredStructEnabled())

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TrimAndLimit trims whitespace and truncates to at most max bytes
// (0 = no limit), backing off to a rune boundary so the result stays
// valid UTF-8.
func TrimAndLimit(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
