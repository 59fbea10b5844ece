package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/terraincognita07/landtrust/internal/db"
	"github.com/terraincognita07/landtrust/internal/security"
	"github.com/terraincognita07/landtrust/internal/services"
	"golang.org/x/crypto/bcrypt"
)

const temporaryPasswordDraws = 64

// RunResetPasswordCommand replaces the account password with a random temporary one
// and forces a change on next login.
func RunResetPasswordCommand(ctx context.Context, repos *db.Repositories, emailRaw string, stdout io.Writer) error {
	email, err := normalizeCommandEmail(emailRaw)
	if err != nil {
		return err
	}

	user, err := repos.Users.FindByNormalizedEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("user %s not found", email)
		}
		return fmt.Errorf("load user: %w", err)
	}

	temporaryPassword, err := generateTemporaryPassword(12)
	if err != nil {
		return fmt.Errorf("generate temporary password: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(temporaryPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash temporary password: %w", err)
	}

	if err := repos.Users.UpdatePassword(ctx, user.ID, string(passwordHash), true); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Fprintf(stdout, "Password reset for %s\n", email)
	fmt.Fprintf(stdout, "Temporary password: %s\n", temporaryPassword)
	fmt.Fprintln(stdout, "User must change password on next login.")
	return nil
}

// generateTemporaryPassword only returns values that pass the password policy,
// so the user can log in and replace it through the normal change flow.
func generateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}
	return security.RandomStringMatching(length, security.ReadableAlphabet, temporaryPasswordDraws, func(candidate string) bool {
		return services.ValidatePasswordStrength(candidate) == nil
	})
}
