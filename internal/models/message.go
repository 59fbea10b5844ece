package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	ID            string    `gorm:"primaryKey;type:text" json:"id"`
	ApplicationID string    `gorm:"not null;index" json:"application_id"`
	SenderID      string    `gorm:"not null" json:"sender_id"`
	IsAdmin       bool      `gorm:"not null;default:false" json:"is_admin"`
	Message       string    `gorm:"not null" json:"message"`
	CreatedAt     time.Time `json:"created_at"`
}

func (message *Message) BeforeCreate(tx *gorm.DB) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	return nil
}
