package db

import (
	"context"
	"fmt"
	"slices"

	"github.com/terraincognita07/landtrust/internal/models"
)

// Gateway applies the row-level access rules in front of the repositories.
// Every check that involves roles goes through HasRole against user_roles,
// so a stale token cannot widen what a caller may touch.
type Gateway struct {
	repos *Repositories
}

func NewGateway(repos *Repositories) *Gateway {
	return &Gateway{repos: repos}
}

func (gateway *Gateway) requireRole(ctx context.Context, actor models.Identity, role string) error {
	if actor.IsZero() {
		return ErrForbidden
	}
	granted, err := gateway.repos.Roles.HasRole(ctx, actor.UserID, role)
	if err != nil {
		return fmt.Errorf("check role %s: %w", role, err)
	}
	if !granted {
		return ErrForbidden
	}
	return nil
}

func (gateway *Gateway) requireOwnerOrAdmin(ctx context.Context, actor models.Identity, ownerID string) error {
	if actor.IsZero() {
		return ErrForbidden
	}
	if actor.UserID == ownerID {
		return nil
	}
	return gateway.requireRole(ctx, actor, models.RoleAdmin)
}

// Applicants may only write their own row, only while it is open for edits,
// and only into the statuses the wizard produces.
func applicantEditableStatus(status string) bool {
	return slices.Contains(applicantEditableStatuses, status)
}

func applicantWritableStatus(status string) bool {
	return applicantEditableStatus(status) || status == models.StatusSubmitted
}

func (gateway *Gateway) HasRole(ctx context.Context, userID string, role string) (bool, error) {
	return gateway.repos.Roles.HasRole(ctx, userID, role)
}

func (gateway *Gateway) FindOwnApplication(ctx context.Context, actor models.Identity) (models.Application, bool, error) {
	if actor.IsZero() {
		return models.Application{}, false, ErrForbidden
	}
	return gateway.repos.Applications.FindByUserID(ctx, actor.UserID)
}

// UpsertOwnApplication inserts the caller's application when none exists, otherwise updates it by id.
func (gateway *Gateway) UpsertOwnApplication(ctx context.Context, actor models.Identity, application *models.Application) error {
	if actor.IsZero() {
		return ErrForbidden
	}
	if application.UserID == "" {
		application.UserID = actor.UserID
	}
	if application.UserID != actor.UserID {
		return ErrForbidden
	}
	if !applicantWritableStatus(application.Status) {
		return ErrForbidden
	}

	existing, found, err := gateway.repos.Applications.FindByUserID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if !found {
		application.ID = ""
		return gateway.repos.Applications.Create(ctx, application)
	}

	if !applicantEditableStatus(existing.Status) {
		return ErrForbidden
	}
	application.ID = existing.ID
	application.CreatedAt = existing.CreatedAt
	application.AdminNotes = existing.AdminNotes
	return gateway.repos.Applications.SaveApplicantFields(ctx, application)
}

func (gateway *Gateway) FindApplication(ctx context.Context, actor models.Identity, applicationID string) (models.Application, error) {
	application, err := gateway.repos.Applications.FindByID(ctx, applicationID)
	if err != nil {
		return models.Application{}, err
	}
	if err := gateway.requireOwnerOrAdmin(ctx, actor, application.UserID); err != nil {
		return models.Application{}, err
	}
	return application, nil
}

func (gateway *Gateway) ListApplications(ctx context.Context, actor models.Identity, status string) ([]models.ApplicationSummary, error) {
	if err := gateway.requireRole(ctx, actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	applications, err := gateway.repos.Applications.List(ctx, status)
	if err != nil {
		return nil, err
	}

	ownerIDs := make([]string, 0, len(applications))
	for _, application := range applications {
		ownerIDs = append(ownerIDs, application.UserID)
	}
	profiles, err := gateway.repos.Users.FindProfiles(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ApplicationSummary, 0, len(applications))
	for _, application := range applications {
		profile := profiles[application.UserID]
		summaries = append(summaries, models.ApplicationSummary{
			Application:   application,
			OwnerEmail:    profile.Email,
			OwnerFullName: profile.FullName,
		})
	}
	return summaries, nil
}

func (gateway *Gateway) UpdateApplicationStatus(ctx context.Context, actor models.Identity, applicationID string, status string, adminNotes *string) error {
	if err := gateway.requireRole(ctx, actor, models.RoleAdmin); err != nil {
		return err
	}
	return gateway.repos.Applications.UpdateStatus(ctx, applicationID, status, adminNotes)
}

func (gateway *Gateway) GrantRole(ctx context.Context, actor models.Identity, userID string, role string) error {
	if err := gateway.requireRole(ctx, actor, models.RoleAdmin); err != nil {
		return err
	}
	return gateway.repos.Roles.Grant(ctx, userID, role)
}

func (gateway *Gateway) InsertMessage(ctx context.Context, actor models.Identity, message *models.Message) error {
	application, err := gateway.FindApplication(ctx, actor, message.ApplicationID)
	if err != nil {
		return err
	}
	isAdmin, err := gateway.repos.Roles.HasRole(ctx, actor.UserID, models.RoleAdmin)
	if err != nil {
		return err
	}
	message.ApplicationID = application.ID
	message.SenderID = actor.UserID
	message.IsAdmin = isAdmin
	return gateway.repos.Messages.Create(ctx, message)
}

func (gateway *Gateway) ListMessages(ctx context.Context, actor models.Identity, applicationID string) ([]models.Message, error) {
	if _, err := gateway.FindApplication(ctx, actor, applicationID); err != nil {
		return nil, err
	}
	return gateway.repos.Messages.ListByApplication(ctx, applicationID)
}

func (gateway *Gateway) ListProperties(ctx context.Context) ([]models.Property, error) {
	return gateway.repos.Properties.ListAvailable(ctx)
}

func (gateway *Gateway) CountProperties(ctx context.Context, propertyIDs []string) (int64, error) {
	return gateway.repos.Properties.CountByIDs(ctx, propertyIDs)
}
