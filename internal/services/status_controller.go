package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/landtrust/internal/models"
	"go.uber.org/zap"
)

const (
	defaultRoleGrantAttempts = 3
	defaultRoleGrantBackoff  = 200 * time.Millisecond
)

type StatusGateway interface {
	FindApplication(ctx context.Context, actor models.Identity, applicationID string) (models.Application, error)
	ListApplications(ctx context.Context, actor models.Identity, status string) ([]models.ApplicationSummary, error)
	UpdateApplicationStatus(ctx context.Context, actor models.Identity, applicationID string, status string, adminNotes *string) error
	GrantRole(ctx context.Context, actor models.Identity, userID string, role string) error
}

// StatusController moves applications through the lifecycle on behalf of staff.
// Authorization is left to the gateway; a denial comes back as an ordinary error.
type StatusController struct {
	gateway       StatusGateway
	logger        *zap.Logger
	grantAttempts int
	grantBackoff  time.Duration
	wait          func(ctx context.Context, delay time.Duration) error
}

func NewStatusController(gateway StatusGateway, logger *zap.Logger, grantAttempts int) *StatusController {
	if logger == nil {
		logger = zap.NewNop()
	}
	if grantAttempts < 1 {
		grantAttempts = defaultRoleGrantAttempts
	}
	return &StatusController{
		gateway:       gateway,
		logger:        logger,
		grantAttempts: grantAttempts,
		grantBackoff:  defaultRoleGrantBackoff,
		wait:          waitWithContext,
	}
}

func (controller *StatusController) List(ctx context.Context, actor models.Identity, status string) ([]models.ApplicationSummary, error) {
	status = strings.TrimSpace(status)
	if status != "" && !models.IsKnownStatus(status) {
		return nil, ErrUnknownStatus
	}
	return controller.gateway.ListApplications(ctx, actor, status)
}

func (controller *StatusController) Get(ctx context.Context, actor models.Identity, applicationID string) (models.Application, error) {
	return controller.gateway.FindApplication(ctx, actor, applicationID)
}

// Transition writes the new status and notes. Approval also grants the owner the homeowner role;
// if that grant keeps failing the status stays written and a *RoleGrantPendingError is returned.
func (controller *StatusController) Transition(ctx context.Context, actor models.Identity, applicationID string, newStatus string, notes *string) (models.Application, error) {
	newStatus = strings.TrimSpace(newStatus)
	if !models.IsKnownStatus(newStatus) {
		return models.Application{}, ErrUnknownStatus
	}

	application, err := controller.gateway.FindApplication(ctx, actor, applicationID)
	if err != nil {
		return models.Application{}, fmt.Errorf("load application: %w", err)
	}
	if !CanTransition(application.Status, newStatus) {
		return models.Application{}, &InvalidTransitionError{From: application.Status, To: newStatus}
	}

	adminNotes := normalizeAdminNotes(notes)
	if err := controller.gateway.UpdateApplicationStatus(ctx, actor, application.ID, newStatus, adminNotes); err != nil {
		return models.Application{}, fmt.Errorf("update application status: %w", err)
	}

	previous := application.Status
	application.Status = newStatus
	application.AdminNotes = adminNotes
	controller.logger.Info("application status changed",
		zap.String("application_id", application.ID),
		zap.String("from", previous),
		zap.String("to", newStatus),
		zap.String("actor_id", actor.UserID),
	)

	if newStatus == models.StatusApproved {
		if err := controller.grantHomeowner(ctx, actor, application); err != nil {
			return application, err
		}
	}
	return application, nil
}

func (controller *StatusController) grantHomeowner(ctx context.Context, actor models.Identity, application models.Application) error {
	var lastErr error
	attempt := 0
	for attempt < controller.grantAttempts {
		attempt++
		lastErr = controller.gateway.GrantRole(ctx, actor, application.UserID, models.RoleHomeowner)
		if lastErr == nil {
			return nil
		}

		controller.logger.Warn("homeowner role grant failed",
			zap.String("application_id", application.ID),
			zap.String("user_id", application.UserID),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)
		if isTerminalGrantError(lastErr) || attempt == controller.grantAttempts {
			break
		}
		if err := controller.wait(ctx, controller.grantBackoff*time.Duration(attempt)); err != nil {
			lastErr = err
			break
		}
	}

	return &RoleGrantPendingError{
		ApplicationID: application.ID,
		UserID:        application.UserID,
		Attempts:      attempt,
		Err:           lastErr,
	}
}

func isTerminalGrantError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || isForbidden(err)
}

func normalizeAdminNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func waitWithContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
