package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/terraincognita07/landtrust/internal/models"
)

type gatewayFixture struct {
	repos   *Repositories
	gateway *Gateway
}

func newGatewayFixture(t *testing.T) gatewayFixture {
	t.Helper()

	database := openSQLiteForTest(t, filepath.Join(t.TempDir(), "landtrust-gateway.db"))
	repos := NewRepositories(database)
	return gatewayFixture{repos: repos, gateway: NewGateway(repos)}
}

func (fixture gatewayFixture) createUser(t *testing.T, email string, fullName string, roles ...string) models.Identity {
	t.Helper()

	ctx := context.Background()
	user := models.User{Email: email, PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	if err := fixture.repos.Users.CreateWithProfile(ctx, &user, fullName); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	for _, role := range roles {
		if err := fixture.repos.Roles.Grant(ctx, user.ID, role); err != nil {
			t.Fatalf("grant %s to %s: %v", role, email, err)
		}
	}

	granted, err := fixture.repos.Roles.ListRoles(ctx, user.ID)
	if err != nil {
		t.Fatalf("list roles for %s: %v", email, err)
	}
	return models.Identity{UserID: user.ID, Email: user.Email, Roles: granted}
}

func (fixture gatewayFixture) createApplication(t *testing.T, owner models.Identity, firstName string) models.Application {
	t.Helper()

	application := models.Application{Status: models.StatusDraft, FirstName: firstName}
	if err := fixture.gateway.UpsertOwnApplication(context.Background(), owner, &application); err != nil {
		t.Fatalf("upsert application for %s: %v", owner.Email, err)
	}
	return application
}

func TestCreateWithProfileGrantsApplicantRole(t *testing.T) {
	fixture := newGatewayFixture(t)
	applicant := fixture.createUser(t, "applicant@example.com", "Ada Applicant")

	if !applicant.HasRole(models.RoleApplicant) {
		t.Fatalf("expected applicant role after registration, got %v", applicant.Roles)
	}

	profiles, err := fixture.repos.Users.FindProfiles(context.Background(), []string{applicant.UserID})
	if err != nil {
		t.Fatalf("FindProfiles() unexpected error: %v", err)
	}
	profile, ok := profiles[applicant.UserID]
	if !ok {
		t.Fatal("expected profile row for new user")
	}
	if profile.FullName != "Ada Applicant" || profile.Email != "applicant@example.com" {
		t.Fatalf("unexpected profile: %#v", profile)
	}
}

func TestRoleGrantIsIdempotent(t *testing.T) {
	fixture := newGatewayFixture(t)
	applicant := fixture.createUser(t, "owner@example.com", "Owner")
	ctx := context.Background()

	for attempt := 0; attempt < 2; attempt++ {
		if err := fixture.repos.Roles.Grant(ctx, applicant.UserID, models.RoleHomeowner); err != nil {
			t.Fatalf("Grant() attempt %d unexpected error: %v", attempt+1, err)
		}
	}

	count, err := fixture.repos.Roles.CountGrants(ctx, applicant.UserID, models.RoleHomeowner)
	if err != nil {
		t.Fatalf("CountGrants() unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one homeowner grant, got %d", count)
	}
}

func TestUpsertOwnApplicationInsertsThenUpdatesSameRow(t *testing.T) {
	fixture := newGatewayFixture(t)
	applicant := fixture.createUser(t, "applicant@example.com", "Applicant")
	admin := fixture.createUser(t, "admin@example.com", "Admin", models.RoleAdmin)
	ctx := context.Background()

	created := fixture.createApplication(t, applicant, "Ada")
	if created.ID == "" {
		t.Fatal("expected generated application id")
	}

	notes := "call back monday"
	if err := fixture.gateway.UpdateApplicationStatus(ctx, admin, created.ID, models.StatusPendingInfo, &notes); err != nil {
		t.Fatalf("UpdateApplicationStatus() unexpected error: %v", err)
	}

	update := models.Application{Status: models.StatusPendingInfo, FirstName: "Grace", SelectedHouses: []string{"2"}}
	if err := fixture.gateway.UpsertOwnApplication(ctx, applicant, &update); err != nil {
		t.Fatalf("second UpsertOwnApplication() unexpected error: %v", err)
	}
	if update.ID != created.ID {
		t.Fatalf("expected upsert to reuse id %q, got %q", created.ID, update.ID)
	}

	stored, found, err := fixture.gateway.FindOwnApplication(ctx, applicant)
	if err != nil || !found {
		t.Fatalf("FindOwnApplication() found=%v err=%v", found, err)
	}
	if stored.FirstName != "Grace" {
		t.Fatalf("expected first name Grace, got %q", stored.FirstName)
	}
	if len(stored.SelectedHouses) != 1 || stored.SelectedHouses[0] != "2" {
		t.Fatalf("expected selected houses [2], got %v", stored.SelectedHouses)
	}
	if stored.AdminNotes == nil || *stored.AdminNotes != notes {
		t.Fatalf("expected admin notes to survive applicant save, got %v", stored.AdminNotes)
	}
}

func TestUpsertOwnApplicationRejectsLockedApplication(t *testing.T) {
	fixture := newGatewayFixture(t)
	applicant := fixture.createUser(t, "applicant@example.com", "Applicant")
	admin := fixture.createUser(t, "admin@example.com", "Admin", models.RoleAdmin)
	ctx := context.Background()

	created := fixture.createApplication(t, applicant, "Ada")
	if err := fixture.gateway.UpdateApplicationStatus(ctx, admin, created.ID, models.StatusUnderReview, nil); err != nil {
		t.Fatalf("UpdateApplicationStatus() unexpected error: %v", err)
	}

	update := models.Application{Status: models.StatusDraft, FirstName: "Changed"}
	err := fixture.gateway.UpsertOwnApplication(ctx, applicant, &update)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for locked application, got %v", err)
	}
}

func TestSaveApplicantFieldsDoesNotOverwriteConcurrentStatusChange(t *testing.T) {
	fixture := newGatewayFixture(t)
	applicant := fixture.createUser(t, "applicant@example.com", "Applicant")
	admin := fixture.createUser(t, "admin@example.com", "Admin", models.RoleAdmin)
	ctx := context.Background()

	created := fixture.createApplication(t, applicant, "Ada")
	stale, found, err := fixture.gateway.FindOwnApplication(ctx, applicant)
	if err != nil || !found {
		t.Fatalf("FindOwnApplication() = found %v, err %v", found, err)
	}

	// The admin decision lands after the applicant's read but before the write.
	if err := fixture.gateway.UpdateApplicationStatus(ctx, admin, created.ID, models.StatusRejected, nil); err != nil {
		t.Fatalf("UpdateApplicationStatus() unexpected error: %v", err)
	}

	stale.Status = models.StatusDraft
	stale.FirstName = "Changed"
	if err := fixture.repos.Applications.SaveApplicantFields(ctx, &stale); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stale save, got %v", err)
	}

	stored, err := fixture.repos.Applications.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID() unexpected error: %v", err)
	}
	if stored.Status != models.StatusRejected || stored.FirstName != "Ada" {
		t.Fatalf("expected rejected row to stay untouched, got status=%q first_name=%q", stored.Status, stored.FirstName)
	}

	missing := models.Application{ID: "missing", UserID: applicant.UserID, Status: models.StatusDraft}
	if err := fixture.repos.Applications.SaveApplicantFields(ctx, &missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestUpsertOwnApplicationRejectsStaffStatuses(t *testing.T) {
	fixture := newGatewayFixture(t)
	applicant := fixture.createUser(t, "applicant@example.com", "Applicant")

	application := models.Application{Status: models.StatusApproved}
	err := fixture.gateway.UpsertOwnApplication(context.Background(), applicant, &application)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for applicant-written approved status, got %v", err)
	}
}

func TestUpdateApplicationStatusRequiresAdminRole(t *testing.T) {
	fixture := newGatewayFixture(t)
	applicant := fixture.createUser(t, "applicant@example.com", "Applicant")
	created := fixture.createApplication(t, applicant, "Ada")

	// A forged identity claiming admin is still checked against user_roles.
	forged := applicant
	forged.Roles = append(forged.Roles, models.RoleAdmin)

	err := fixture.gateway.UpdateApplicationStatus(context.Background(), forged, created.ID, models.StatusApproved, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateApplicationStatusUnknownID(t *testing.T) {
	fixture := newGatewayFixture(t)
	admin := fixture.createUser(t, "admin@example.com", "Admin", models.RoleAdmin)

	err := fixture.gateway.UpdateApplicationStatus(context.Background(), admin, "missing", models.StatusRejected, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListApplicationsMergesProfilesAndFiltersByStatus(t *testing.T) {
	fixture := newGatewayFixture(t)
	admin := fixture.createUser(t, "admin@example.com", "Admin", models.RoleAdmin)
	first := fixture.createUser(t, "first@example.com", "First Applicant")
	second := fixture.createUser(t, "second@example.com", "Second Applicant")
	ctx := context.Background()

	firstApplication := fixture.createApplication(t, first, "First")
	time.Sleep(5 * time.Millisecond)
	secondApplication := fixture.createApplication(t, second, "Second")

	if err := fixture.gateway.UpdateApplicationStatus(ctx, admin, firstApplication.ID, models.StatusSubmitted, nil); err != nil {
		t.Fatalf("UpdateApplicationStatus() unexpected error: %v", err)
	}

	all, err := fixture.gateway.ListApplications(ctx, admin, "")
	if err != nil {
		t.Fatalf("ListApplications() unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(all))
	}
	if all[0].ID != secondApplication.ID {
		t.Fatalf("expected newest application first, got %q", all[0].ID)
	}
	if all[0].OwnerEmail != "second@example.com" || all[0].OwnerFullName != "Second Applicant" {
		t.Fatalf("expected owner profile merged, got %#v", all[0])
	}

	submitted, err := fixture.gateway.ListApplications(ctx, admin, models.StatusSubmitted)
	if err != nil {
		t.Fatalf("ListApplications(submitted) unexpected error: %v", err)
	}
	if len(submitted) != 1 || submitted[0].ID != firstApplication.ID {
		t.Fatalf("expected only the submitted application, got %#v", submitted)
	}

	if _, err := fixture.gateway.ListApplications(ctx, first, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for applicant list, got %v", err)
	}
}

func TestMessagesAreOrderedAndScopedToParticipants(t *testing.T) {
	fixture := newGatewayFixture(t)
	applicant := fixture.createUser(t, "applicant@example.com", "Applicant")
	admin := fixture.createUser(t, "admin@example.com", "Admin", models.RoleAdmin)
	outsider := fixture.createUser(t, "outsider@example.com", "Outsider")
	ctx := context.Background()

	application := fixture.createApplication(t, applicant, "Ada")

	texts := []string{"hello", "we need your pay stubs", "uploaded"}
	senders := []models.Identity{applicant, admin, applicant}
	for index, text := range texts {
		message := models.Message{ApplicationID: application.ID, Message: text}
		if err := fixture.gateway.InsertMessage(ctx, senders[index], &message); err != nil {
			t.Fatalf("InsertMessage(%q) unexpected error: %v", text, err)
		}
	}

	messages, err := fixture.gateway.ListMessages(ctx, applicant, application.ID)
	if err != nil {
		t.Fatalf("ListMessages() unexpected error: %v", err)
	}
	if len(messages) != len(texts) {
		t.Fatalf("expected %d messages, got %d", len(texts), len(messages))
	}
	for index, message := range messages {
		if message.Message != texts[index] {
			t.Fatalf("message %d: expected %q, got %q", index, texts[index], message.Message)
		}
	}
	if messages[0].IsAdmin || !messages[1].IsAdmin {
		t.Fatalf("expected is_admin derived from sender roles, got %v/%v", messages[0].IsAdmin, messages[1].IsAdmin)
	}

	if _, err := fixture.gateway.ListMessages(ctx, outsider, application.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for outsider read, got %v", err)
	}
	intrusion := models.Message{ApplicationID: application.ID, Message: "hi"}
	if err := fixture.gateway.InsertMessage(ctx, outsider, &intrusion); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for outsider write, got %v", err)
	}
}

func TestCountPropertiesMatchesSeededIDs(t *testing.T) {
	fixture := newGatewayFixture(t)

	count, err := fixture.gateway.CountProperties(context.Background(), []string{"1", "4", "99"})
	if err != nil {
		t.Fatalf("CountProperties() unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 known properties, got %d", count)
	}
}
