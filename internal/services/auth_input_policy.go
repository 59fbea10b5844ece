package services

import (
	"errors"
	"net/mail"
	"strings"
)

var ErrAuthCredentialsInvalid = errors.New("auth credentials invalid")

const maxFullNameRunes = 120

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

func NormalizeCredentialsInput(emailRaw string, passwordRaw string) (string, string, error) {
	email := NormalizeAuthEmail(emailRaw)
	password := strings.TrimSpace(passwordRaw)
	if email == "" || password == "" {
		return "", "", ErrAuthCredentialsInvalid
	}
	return email, password, nil
}

// NormalizeFullName collapses inner whitespace and caps the length.
func NormalizeFullName(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")
	runes := []rune(name)
	if len(runes) > maxFullNameRunes {
		name = strings.TrimSpace(string(runes[:maxFullNameRunes]))
	}
	return name
}
