package services

import (
	"context"
	"errors"
	"testing"

	"github.com/terraincognita07/landtrust/internal/db"
	"github.com/terraincognita07/landtrust/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type authUserRepositoryStub struct {
	users     map[string]models.User
	fullNames map[string]string
}

func newAuthUserRepositoryStub() *authUserRepositoryStub {
	return &authUserRepositoryStub{users: make(map[string]models.User), fullNames: make(map[string]string)}
}

func (stub *authUserRepositoryStub) ExistsByNormalizedEmail(_ context.Context, email string) (bool, error) {
	for _, user := range stub.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (stub *authUserRepositoryStub) FindByNormalizedEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range stub.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, db.ErrNotFound
}

func (stub *authUserRepositoryStub) FindByID(_ context.Context, userID string) (models.User, error) {
	user, ok := stub.users[userID]
	if !ok {
		return models.User{}, db.ErrNotFound
	}
	return user, nil
}

func (stub *authUserRepositoryStub) CreateWithProfile(_ context.Context, user *models.User, fullName string, _ ...string) error {
	user.ID = "user-" + user.Email
	stub.users[user.ID] = *user
	stub.fullNames[user.ID] = fullName
	return nil
}

func (stub *authUserRepositoryStub) UpdatePassword(_ context.Context, userID string, passwordHash string, mustChangePassword bool) error {
	user, ok := stub.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.MustChangePassword = mustChangePassword
	stub.users[userID] = user
	return nil
}

type authRoleRepositoryStub struct {
	roles []string
}

func (stub *authRoleRepositoryStub) ListRoles(context.Context, string) ([]string, error) {
	return stub.roles, nil
}

func TestAuthServiceRegisterHashesPasswordAndNormalizesInput(t *testing.T) {
	users := newAuthUserRepositoryStub()
	service := NewAuthService(users, &authRoleRepositoryStub{})

	user, err := service.Register(context.Background(), " Jane@Example.com ", "StrongPass1", "  Jane   Doe ")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if user.Email != "jane@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("StrongPass1")) != nil {
		t.Fatal("expected bcrypt hash of the password")
	}
	if users.fullNames[user.ID] != "Jane Doe" {
		t.Fatalf("expected normalized full name, got %q", users.fullNames[user.ID])
	}

	if _, err := service.Register(context.Background(), "jane@example.com", "StrongPass1", ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := service.Register(context.Background(), "sam@example.com", "weak", ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestAuthServiceAuthenticate(t *testing.T) {
	users := newAuthUserRepositoryStub()
	service := NewAuthService(users, &authRoleRepositoryStub{})
	registered, err := service.Register(context.Background(), "jane@example.com", "StrongPass1", "Jane")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	user, err := service.Authenticate(context.Background(), "JANE@example.com", "StrongPass1")
	if err != nil {
		t.Fatalf("Authenticate() unexpected error: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %q, got %q", registered.ID, user.ID)
	}

	if _, err := service.Authenticate(context.Background(), "jane@example.com", "WrongPass1"); !errors.Is(err, ErrInvalidLogin) {
		t.Fatalf("expected ErrInvalidLogin for wrong password, got %v", err)
	}
	if _, err := service.Authenticate(context.Background(), "nobody@example.com", "StrongPass1"); !errors.Is(err, ErrInvalidLogin) {
		t.Fatalf("expected ErrInvalidLogin for unknown email, got %v", err)
	}
}

func TestAuthServiceResolveIdentity(t *testing.T) {
	users := newAuthUserRepositoryStub()
	users.users["u1"] = models.User{ID: "u1", Email: "jane@example.com"}
	service := NewAuthService(users, &authRoleRepositoryStub{roles: []string{models.RoleApplicant, models.RoleHomeowner}})

	identity, err := service.ResolveIdentity(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ResolveIdentity() unexpected error: %v", err)
	}
	if identity.UserID != "u1" || !identity.HasRole(models.RoleHomeowner) {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if _, err := service.ResolveIdentity(context.Background(), "missing"); !errors.Is(err, ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
}

func TestAuthServiceChangePasswordClearsForcedFlag(t *testing.T) {
	users := newAuthUserRepositoryStub()
	service := NewAuthService(users, &authRoleRepositoryStub{})
	registered, err := service.Register(context.Background(), "jane@example.com", "StrongPass1", "Jane")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	forced := users.users[registered.ID]
	forced.MustChangePassword = true
	users.users[registered.ID] = forced

	if err := service.ChangePassword(context.Background(), registered.ID, "WrongPass1", "NewStrong2"); !errors.Is(err, ErrInvalidLogin) {
		t.Fatalf("expected ErrInvalidLogin, got %v", err)
	}
	if err := service.ChangePassword(context.Background(), registered.ID, "StrongPass1", "StrongPass1"); !errors.Is(err, ErrPasswordUnchanged) {
		t.Fatalf("expected ErrPasswordUnchanged, got %v", err)
	}
	if err := service.ChangePassword(context.Background(), registered.ID, "StrongPass1", "NewStrong2"); err != nil {
		t.Fatalf("ChangePassword() unexpected error: %v", err)
	}

	if users.users[registered.ID].MustChangePassword {
		t.Fatal("expected forced-change flag to be cleared")
	}
	if _, err := service.Authenticate(context.Background(), "jane@example.com", "NewStrong2"); err != nil {
		t.Fatalf("expected login with the new password, got %v", err)
	}
}
