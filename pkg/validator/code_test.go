package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeValidator(t *testing.T) {
	validator := NewCodeValidator()
	assert.NotNil(t, validator)
}

func TestValidateCode_Valid(t *testing.T) {
	validator := NewCodeValidator()

	validCodes := []struct {
		input    string
		expected string
		name     string
	}{
		{"0427", "0427", "Standard format"},
		{" 0427 ", "0427", "Surrounding whitespace"},
		{"04-27", "0427", "With dash"},
		{"04 27", "0427", "With space"},
		{"0000", "0000", "All zeros"},
		{"9999", "9999", "All nines"},
	}

	for _, tc := range validCodes {
		t.Run(tc.name, func(t *testing.T) {
			sanitized, err := validator.Validate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, sanitized)
		})
	}
}

func TestValidateCode_Invalid(t *testing.T) {
	validator := NewCodeValidator()

	invalidCodes := []struct {
		input       string
		expectedErr error
		name        string
	}{
		{"", ErrEmptyCode, "Empty string"},
		{"   ", ErrEmptyCode, "Whitespace only"},
		{"123", ErrInvalidCodeLength, "Too short"},
		{"12345", ErrInvalidCodeLength, "Too long"},
		{"12a4", ErrInvalidCodeFormat, "Contains letters"},
		{"12.4", ErrInvalidCodeFormat, "Contains punctuation"},
	}

	for _, tc := range invalidCodes {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validator.Validate(tc.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}
