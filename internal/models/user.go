package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin     = "admin"
	RoleApplicant = "applicant"
	RoleHomeowner = "homeowner"
)

type User struct {
	ID                 string    `gorm:"primaryKey;type:text"`
	Email              string    `gorm:"uniqueIndex;not null"`
	PasswordHash       string    `gorm:"not null"`
	MustChangePassword bool      `gorm:"not null;default:false"`
	CreatedAt          time.Time `gorm:"not null"`
}

func (user *User) BeforeCreate(tx *gorm.DB) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return nil
}

type Profile struct {
	ID        string `gorm:"primaryKey;type:text"`
	Email     string
	FullName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserRole struct {
	ID     string `gorm:"primaryKey;type:text"`
	UserID string `gorm:"not null;uniqueIndex:uidx_user_roles_user_role"`
	Role   string `gorm:"not null;uniqueIndex:uidx_user_roles_user_role"`
}

func (grant *UserRole) BeforeCreate(tx *gorm.DB) error {
	if grant.ID == "" {
		grant.ID = uuid.NewString()
	}
	return nil
}

func IsKnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleApplicant, RoleHomeowner:
		return true
	default:
		return false
	}
}
