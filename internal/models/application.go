package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusDraft         = "draft"
	StatusSubmitted     = "submitted"
	StatusUnderReview   = "under_review"
	StatusPendingInfo   = "pending_info"
	StatusReadyForMatch = "ready_for_match"
	StatusApproved      = "approved"
	StatusRejected      = "rejected"
)

var ApplicationStatuses = []string{
	StatusDraft,
	StatusSubmitted,
	StatusUnderReview,
	StatusPendingInfo,
	StatusReadyForMatch,
	StatusApproved,
	StatusRejected,
}

func IsKnownStatus(status string) bool {
	for _, known := range ApplicationStatuses {
		if known == status {
			return true
		}
	}
	return false
}

func IsTerminalStatus(status string) bool {
	return status == StatusApproved || status == StatusRejected
}

type HouseholdMember struct {
	Name string `json:"name"`
	Age  string `json:"age"`
}

type PersonalReference struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Relationship string `json:"relationship"`
}

type Application struct {
	ID     string `gorm:"primaryKey;type:text" json:"id"`
	UserID string `gorm:"not null;uniqueIndex" json:"user_id"`
	Status string `gorm:"not null;default:draft" json:"status"`

	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	DateOfBirth    string   `json:"date_of_birth"`
	SSN            string   `gorm:"column:ssn" json:"ssn,omitempty"`
	DriversLicense string   `json:"drivers_license,omitempty"`
	MaritalStatus  string   `json:"marital_status"`
	CurrentAddress string   `json:"current_address"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	ZipCode        string   `json:"zip_code"`
	YearsAtAddress *float64 `json:"years_at_address"`
	OwnOrRent      string   `json:"own_or_rent"`

	Employer          string              `json:"employer"`
	Occupation        string              `json:"occupation"`
	YearsEmployed     *float64            `json:"years_employed"`
	AnnualIncome      decimal.NullDecimal `gorm:"type:text" json:"annual_income"`
	AdditionalIncome  decimal.NullDecimal `gorm:"type:text" json:"additional_income"`
	CreditScore       *int                `json:"credit_score"`
	FirstTimeBuyer    *bool               `json:"first_time_buyer"`
	PreApproved       *bool               `json:"pre_approved"`
	DownPaymentAmount decimal.NullDecimal `gorm:"type:text" json:"down_payment_amount"`

	HouseholdMembers []HouseholdMember `gorm:"serializer:json" json:"household_members"`

	LakelandConnection bool   `gorm:"not null;default:false" json:"lakeland_connection"`
	LakelandDetails    string `json:"lakeland_details"`

	PersonalReferences []PersonalReference `gorm:"serializer:json" json:"personal_references"`

	AgentName  string `json:"agent_name"`
	AgentPhone string `json:"agent_phone"`
	AgentEmail string `json:"agent_email"`

	SelectedHouses []string `gorm:"serializer:json" json:"selected_houses"`
	JoinWaitlist   bool     `gorm:"not null;default:false" json:"join_waitlist"`

	AdminNotes *string `json:"admin_notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (application *Application) BeforeCreate(tx *gorm.DB) error {
	if application.ID == "" {
		application.ID = uuid.NewString()
	}
	if application.Status == "" {
		application.Status = StatusDraft
	}
	return nil
}

// ApplicationSummary is one row of the admin dashboard list.
type ApplicationSummary struct {
	Application
	OwnerEmail    string `json:"owner_email"`
	OwnerFullName string `json:"owner_full_name"`
}
