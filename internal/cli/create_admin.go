package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/landtrust/internal/db"
	"github.com/terraincognita07/landtrust/internal/models"
	"github.com/terraincognita07/landtrust/internal/services"
)

var errPasswordMismatch = errors.New("passwords do not match")

// RunCreateAdminCommand registers a staff account with a password typed on the terminal.
func RunCreateAdminCommand(ctx context.Context, repos *db.Repositories, emailRaw string, fullName string, stdin *os.File, stdout io.Writer) error {
	if _, err := normalizeCommandEmail(emailRaw); err != nil {
		return err
	}

	password, err := promptNewPassword(stdin, stdout)
	if err != nil {
		return err
	}
	return createAdmin(ctx, repos, emailRaw, fullName, password, stdout)
}

func promptNewPassword(stdin *os.File, stdout io.Writer) (string, error) {
	fmt.Fprint(stdout, "Password: ")
	password, err := readPasswordNoEcho(stdin)
	fmt.Fprintln(stdout)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(stdout, "Repeat password: ")
	confirmation, err := readPasswordNoEcho(stdin)
	fmt.Fprintln(stdout)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	if password != confirmation {
		return "", errPasswordMismatch
	}
	return password, nil
}

func createAdmin(ctx context.Context, repos *db.Repositories, emailRaw string, fullName string, password string, stdout io.Writer) error {
	authService := services.NewAuthService(repos.Users, repos.Roles)
	user, err := authService.Register(ctx, emailRaw, password, fullName, models.RoleAdmin)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWeakPassword):
			return errors.New("password must be at least 8 characters and include upper, lower case letters and a digit")
		case errors.Is(err, services.ErrEmailTaken):
			return fmt.Errorf("%s is already registered, use grant-role instead", services.NormalizeAuthEmail(emailRaw))
		default:
			return fmt.Errorf("register admin: %w", err)
		}
	}

	fmt.Fprintf(stdout, "Created admin %s\n", user.Email)
	return nil
}
