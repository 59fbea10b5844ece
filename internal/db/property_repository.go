package db

import (
	"context"

	"github.com/terraincognita07/landtrust/internal/models"
	"gorm.io/gorm"
)

// SeededListingIDs are the catalog houses inserted by the listing migration.
var SeededListingIDs = []string{"1", "2", "3", "4"}

type PropertyRepository struct {
	database *gorm.DB
}

func NewPropertyRepository(database *gorm.DB) *PropertyRepository {
	return &PropertyRepository{database: database}
}

func (repo *PropertyRepository) ListAvailable(ctx context.Context) ([]models.Property, error) {
	properties := make([]models.Property, 0)
	if err := repo.database.WithContext(ctx).
		Where("homeowner_id IS NULL").
		Order("id ASC").
		Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func (repo *PropertyRepository) CountByIDs(ctx context.Context, propertyIDs []string) (int64, error) {
	if len(propertyIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := repo.database.WithContext(ctx).Model(&models.Property{}).
		Where("id IN ?", propertyIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
