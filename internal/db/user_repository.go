package db

import (
	"context"
	"errors"
	"time"

	"github.com/terraincognita07/landtrust/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	if err := repo.database.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByNormalizedEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := repo.database.WithContext(ctx).Where("lower(trim(email)) = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) ExistsByNormalizedEmail(ctx context.Context, email string) (bool, error) {
	var matched int64
	if err := repo.database.WithContext(ctx).Model(&models.User{}).
		Where("lower(trim(email)) = ?", email).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

// CreateWithProfile inserts the account, its profile row, the default applicant role
// and any extraRoles in one transaction.
func (repo *UserRepository) CreateWithProfile(ctx context.Context, user *models.User, fullName string, extraRoles ...string) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		profile := models.Profile{
			ID:        user.ID,
			Email:     user.Email,
			FullName:  fullName,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		for _, role := range append([]string{models.RoleApplicant}, extraRoles...) {
			if err := insertRoleIgnoringDuplicate(tx, user.ID, role); err != nil {
				return err
			}
		}
		return nil
	})
}

func (repo *UserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string, mustChangePassword bool) error {
	return repo.database.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"password_hash":        passwordHash,
		"must_change_password": mustChangePassword,
	}).Error
}

func (repo *UserRepository) FindProfiles(ctx context.Context, userIDs []string) (map[string]models.Profile, error) {
	profiles := make(map[string]models.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return profiles, nil
	}

	rows := make([]models.Profile, 0, len(userIDs))
	if err := repo.database.WithContext(ctx).Where("id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		profiles[row.ID] = row
	}
	return profiles, nil
}
