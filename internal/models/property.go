package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Property struct {
	ID          string    `gorm:"primaryKey;type:text" json:"id"`
	Address     string    `gorm:"not null" json:"address"`
	Beds        int       `gorm:"not null;default:0" json:"beds"`
	Baths       float64   `json:"baths"`
	Price       string    `json:"price"`
	HomeownerID *string   `json:"homeowner_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (property *Property) BeforeCreate(tx *gorm.DB) error {
	if property.ID == "" {
		property.ID = uuid.NewString()
	}
	return nil
}
