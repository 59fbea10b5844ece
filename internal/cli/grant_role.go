package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/terraincognita07/landtrust/internal/db"
	"github.com/terraincognita07/landtrust/internal/models"
)

// RunGrantRoleCommand gives an existing account a role. Granting a role the user
// already holds is reported but not treated as a failure.
func RunGrantRoleCommand(ctx context.Context, repos *db.Repositories, emailRaw string, roleRaw string, stdout io.Writer) error {
	email, err := normalizeCommandEmail(emailRaw)
	if err != nil {
		return err
	}
	role := strings.ToLower(strings.TrimSpace(roleRaw))
	if !models.IsKnownRole(role) {
		return fmt.Errorf("unknown role %q (want admin, applicant or homeowner)", roleRaw)
	}

	user, err := repos.Users.FindByNormalizedEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("user %s not found", email)
		}
		return fmt.Errorf("load user: %w", err)
	}

	alreadyGranted, err := repos.Roles.HasRole(ctx, user.ID, role)
	if err != nil {
		return fmt.Errorf("check role: %w", err)
	}
	if err := repos.Roles.Grant(ctx, user.ID, role); err != nil {
		return fmt.Errorf("grant role: %w", err)
	}

	if alreadyGranted {
		fmt.Fprintf(stdout, "%s already has role %s\n", email, role)
		return nil
	}
	fmt.Fprintf(stdout, "Granted role %s to %s\n", role, email)
	return nil
}
