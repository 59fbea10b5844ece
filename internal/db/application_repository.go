package db

import (
	"context"
	"errors"

	"github.com/terraincognita07/landtrust/internal/models"
	"gorm.io/gorm"
)

// Columns an applicant save never touches: identity, ownership and staff-only fields.
var applicantProtectedColumns = []string{"id", "user_id", "admin_notes", "created_at"}

var applicantEditableStatuses = []string{models.StatusDraft, models.StatusPendingInfo}

type ApplicationRepository struct {
	database *gorm.DB
}

func NewApplicationRepository(database *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{database: database}
}

func (repo *ApplicationRepository) FindByUserID(ctx context.Context, userID string) (models.Application, bool, error) {
	application := models.Application{}
	result := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&application)
	if result.Error != nil {
		return models.Application{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Application{}, false, nil
	}
	return application, true, nil
}

func (repo *ApplicationRepository) FindByID(ctx context.Context, applicationID string) (models.Application, error) {
	var application models.Application
	if err := repo.database.WithContext(ctx).Where("id = ?", applicationID).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Application{}, ErrNotFound
		}
		return models.Application{}, err
	}
	return application, nil
}

func (repo *ApplicationRepository) Create(ctx context.Context, application *models.Application) error {
	return repo.database.WithContext(ctx).Omit("admin_notes").Create(application).Error
}

// SaveApplicantFields updates the row only while its stored status still allows applicant edits.
// A row that moved out of draft or pending_info since it was read yields ErrForbidden.
func (repo *ApplicationRepository) SaveApplicantFields(ctx context.Context, application *models.Application) error {
	result := repo.database.WithContext(ctx).
		Model(application).
		Where("status IN ?", applicantEditableStatuses).
		Select("*").
		Omit(applicantProtectedColumns...).
		Updates(application)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := repo.database.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", application.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrForbidden
}

func (repo *ApplicationRepository) UpdateStatus(ctx context.Context, applicationID string, status string, adminNotes *string) error {
	result := repo.database.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", applicationID).
		Updates(map[string]any{
			"status":      status,
			"admin_notes": adminNotes,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *ApplicationRepository) List(ctx context.Context, status string) ([]models.Application, error) {
	query := repo.database.WithContext(ctx).Model(&models.Application{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	applications := make([]models.Application, 0)
	if err := query.Order("created_at DESC, id DESC").Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}
