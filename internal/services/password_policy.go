package services

import (
	"errors"
	"unicode"
)

var ErrWeakPassword = errors.New("weak password")

// bcrypt ignores everything past 72 bytes.
const maxPasswordBytes = 72

func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < 8 || len(password) > maxPasswordBytes {
		return ErrWeakPassword
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}

	if hasUpper && hasLower && hasDigit {
		return nil
	}
	return ErrWeakPassword
}
