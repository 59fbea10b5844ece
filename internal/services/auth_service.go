package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/landtrust/internal/db"
	"github.com/terraincognita07/landtrust/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidLogin      = errors.New("invalid email or password")
	ErrIdentityNotFound  = errors.New("identity not found")
	ErrPasswordUnchanged = errors.New("new password must differ from the current one")
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(ctx context.Context, email string) (bool, error)
	FindByNormalizedEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, userID string) (models.User, error)
	CreateWithProfile(ctx context.Context, user *models.User, fullName string, extraRoles ...string) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string, mustChangePassword bool) error
}

type AuthRoleRepository interface {
	ListRoles(ctx context.Context, userID string) ([]string, error)
}

type AuthService struct {
	users AuthUserRepository
	roles AuthRoleRepository
}

func NewAuthService(users AuthUserRepository, roles AuthRoleRepository) *AuthService {
	return &AuthService{users: users, roles: roles}
}

// Register creates the account, its profile and the applicant role grant.
// extraRoles are granted in the same write, so a failed grant leaves no account behind.
func (service *AuthService) Register(ctx context.Context, emailRaw string, password string, fullNameRaw string, extraRoles ...string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, password)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByNormalizedEmail(ctx, email)
	if err != nil {
		return models.User{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return models.User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Email: email, PasswordHash: string(hash)}
	if err := service.users.CreateWithProfile(ctx, &user, NormalizeFullName(fullNameRaw), extraRoles...); err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (service *AuthService) Authenticate(ctx context.Context, emailRaw string, password string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, password)
	if err != nil {
		return models.User{}, ErrInvalidLogin
	}

	user, err := service.users.FindByNormalizedEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return models.User{}, ErrInvalidLogin
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidLogin
	}
	return user, nil
}

// ResolveIdentity loads the caller and the roles currently stored for them.
func (service *AuthService) ResolveIdentity(ctx context.Context, userID string) (models.Identity, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return models.Identity{}, ErrIdentityNotFound
		}
		return models.Identity{}, fmt.Errorf("find user: %w", err)
	}
	roles, err := service.roles.ListRoles(ctx, user.ID)
	if err != nil {
		return models.Identity{}, fmt.Errorf("list roles: %w", err)
	}
	return models.Identity{
		UserID:             user.ID,
		Email:              user.Email,
		Roles:              roles,
		MustChangePassword: user.MustChangePassword,
	}, nil
}

// ChangePassword replaces the password after checking the current one and clears a forced-change flag.
func (service *AuthService) ChangePassword(ctx context.Context, userID string, currentPassword string, newPassword string) error {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrIdentityNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(strings.TrimSpace(currentPassword))) != nil {
		return ErrInvalidLogin
	}

	newPassword = strings.TrimSpace(newPassword)
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}
	if newPassword == strings.TrimSpace(currentPassword) {
		return ErrPasswordUnchanged
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := service.users.UpdatePassword(ctx, user.ID, string(hash), false); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
