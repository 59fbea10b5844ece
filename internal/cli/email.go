package cli

import (
	"errors"
	"fmt"
	"net/mail"

	"github.com/terraincognita07/landtrust/internal/services"
)

func normalizeCommandEmail(raw string) (string, error) {
	email := services.NormalizeAuthEmail(raw)
	if email == "" {
		return "", errors.New("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("invalid email address: %w", err)
	}
	return email, nil
}
