package db

import (
	"context"

	"github.com/terraincognita07/landtrust/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	database *gorm.DB
}

func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{database: database}
}

func (repo *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	return repo.database.WithContext(ctx).Create(message).Error
}

func (repo *MessageRepository) ListByApplication(ctx context.Context, applicationID string) ([]models.Message, error) {
	messages := make([]models.Message, 0)
	if err := repo.database.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC, rowid ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
