package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// Password min length
	PasswordMinLength = 8

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// IsValidEmail reports whether value is a syntactically valid email address.
func IsValidEmail(value string) bool {
	return CompiledPatterns.Email.MatchString(strings.TrimSpace(value))
}

// IsBlank reports whether value is empty after trimming whitespace.
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// IsValidName reports whether value is a plausible person name part.
func IsValidName(value string) bool {
	trimmed := strings.TrimSpace(value)
	return len(trimmed) >= NameMinLength && len(trimmed) <= NameMaxLength
}

// IsValidPassword reports whether value meets the minimum password policy.
func IsValidPassword(value string) bool {
	return len(value) >= PasswordMinLength
}
