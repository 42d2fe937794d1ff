package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyCode indicates the redemption code is empty
	ErrEmptyCode = errors.New("redemption code cannot be empty")

	// ErrInvalidCodeLength indicates the redemption code is not 4 digits
	ErrInvalidCodeLength = errors.New("redemption code must be exactly 4 digits")

	// ErrInvalidCodeFormat indicates the redemption code contains non-digit characters
	ErrInvalidCodeFormat = errors.New("redemption code can only contain digits")
)

// codeRegex matches digits only
var codeRegex = regexp.MustCompile(`^\d+$`)

// CodeValidator handles redemption code validation
type CodeValidator struct{}

// NewCodeValidator creates a new redemption code validator instance
func NewCodeValidator() *CodeValidator {
	return &CodeValidator{}
}

// Validate validates a 4-digit redemption code.
// Accepts surrounding whitespace and internal spaces or dashes, e.g.
// "0427", " 0427 ", "04-27". Returns the sanitized code (digits only)
// and an error if invalid.
func (v *CodeValidator) Validate(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", ErrEmptyCode
	}

	sanitized := v.Sanitize(code)

	if !codeRegex.MatchString(sanitized) {
		return "", ErrInvalidCodeFormat
	}

	if len(sanitized) != 4 {
		return "", ErrInvalidCodeLength
	}

	return sanitized, nil
}

// Sanitize removes whitespace and common separators from a code.
func (v *CodeValidator) Sanitize(code string) string {
	code = strings.TrimSpace(code)
	code = strings.ReplaceAll(code, " ", "")
	code = strings.ReplaceAll(code, "-", "")
	return code
}
