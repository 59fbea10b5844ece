package db

import (
	"context"

	"github.com/terraincognita07/landtrust/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleRepository struct {
	database *gorm.DB
}

func NewRoleRepository(database *gorm.DB) *RoleRepository {
	return &RoleRepository{database: database}
}

// HasRole is the server-side role check used by the access policy.
func (repo *RoleRepository) HasRole(ctx context.Context, userID string, role string) (bool, error) {
	var matched int64
	if err := repo.database.WithContext(ctx).Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *RoleRepository) ListRoles(ctx context.Context, userID string) ([]string, error) {
	roles := make([]string, 0)
	if err := repo.database.WithContext(ctx).Model(&models.UserRole{}).
		Where("user_id = ?", userID).
		Order("role ASC").
		Pluck("role", &roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// Grant inserts the role unless the user already holds it. Duplicates are not an error.
func (repo *RoleRepository) Grant(ctx context.Context, userID string, role string) error {
	return insertRoleIgnoringDuplicate(repo.database.WithContext(ctx), userID, role)
}

func (repo *RoleRepository) CountGrants(ctx context.Context, userID string, role string) (int64, error) {
	var count int64
	if err := repo.database.WithContext(ctx).Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func insertRoleIgnoringDuplicate(tx *gorm.DB, userID string, role string) error {
	grant := models.UserRole{UserID: userID, Role: role}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "role"}},
		DoNothing: true,
	}).Create(&grant).Error
}
