package services

import (
	"github.com/shopspring/decimal"
	"github.com/terraincognita07/landtrust/internal/models"
)

// ApplicationPatch carries the fields one wizard step changed. Nil fields are left alone;
// list fields replace the stored list wholesale.
type ApplicationPatch struct {
	FirstName      *string  `json:"first_name"`
	LastName       *string  `json:"last_name"`
	Email          *string  `json:"email"`
	Phone          *string  `json:"phone"`
	DateOfBirth    *string  `json:"date_of_birth"`
	SSN            *string  `json:"ssn"`
	DriversLicense *string  `json:"drivers_license"`
	MaritalStatus  *string  `json:"marital_status"`
	CurrentAddress *string  `json:"current_address"`
	City           *string  `json:"city"`
	State          *string  `json:"state"`
	ZipCode        *string  `json:"zip_code"`
	YearsAtAddress *float64 `json:"years_at_address"`
	OwnOrRent      *string  `json:"own_or_rent"`

	Employer          *string          `json:"employer"`
	Occupation        *string          `json:"occupation"`
	YearsEmployed     *float64         `json:"years_employed"`
	AnnualIncome      *decimal.Decimal `json:"annual_income"`
	AdditionalIncome  *decimal.Decimal `json:"additional_income"`
	CreditScore       *int             `json:"credit_score"`
	FirstTimeBuyer    *bool            `json:"first_time_buyer"`
	PreApproved       *bool            `json:"pre_approved"`
	DownPaymentAmount *decimal.Decimal `json:"down_payment_amount"`

	HouseholdMembers *[]models.HouseholdMember `json:"household_members"`

	LakelandConnection *bool   `json:"lakeland_connection"`
	LakelandDetails    *string `json:"lakeland_details"`

	PersonalReferences *[]models.PersonalReference `json:"personal_references"`

	AgentName  *string `json:"agent_name"`
	AgentPhone *string `json:"agent_phone"`
	AgentEmail *string `json:"agent_email"`

	SelectedHouses *[]string `json:"selected_houses"`
	JoinWaitlist   *bool     `json:"join_waitlist"`
}

func setString(target *string, value *string) {
	if value != nil {
		*target = *value
	}
}

func setMoney(target *decimal.NullDecimal, value *decimal.Decimal) {
	if value != nil {
		*target = decimal.NewNullDecimal(*value)
	}
}

// applyPatch merges the patch into the application, field by field.
// House selection goes through the selection helpers so the waitlist exclusivity holds;
// when a patch sets both, the waitlist flag is applied last.
func applyPatch(application *models.Application, patch ApplicationPatch) {
	setString(&application.FirstName, patch.FirstName)
	setString(&application.LastName, patch.LastName)
	setString(&application.Email, patch.Email)
	setString(&application.Phone, patch.Phone)
	setString(&application.DateOfBirth, patch.DateOfBirth)
	setString(&application.SSN, patch.SSN)
	setString(&application.DriversLicense, patch.DriversLicense)
	setString(&application.MaritalStatus, patch.MaritalStatus)
	setString(&application.CurrentAddress, patch.CurrentAddress)
	setString(&application.City, patch.City)
	setString(&application.State, patch.State)
	setString(&application.ZipCode, patch.ZipCode)
	if patch.YearsAtAddress != nil {
		value := *patch.YearsAtAddress
		application.YearsAtAddress = &value
	}
	setString(&application.OwnOrRent, patch.OwnOrRent)

	setString(&application.Employer, patch.Employer)
	setString(&application.Occupation, patch.Occupation)
	if patch.YearsEmployed != nil {
		value := *patch.YearsEmployed
		application.YearsEmployed = &value
	}
	setMoney(&application.AnnualIncome, patch.AnnualIncome)
	setMoney(&application.AdditionalIncome, patch.AdditionalIncome)
	if patch.CreditScore != nil {
		value := *patch.CreditScore
		application.CreditScore = &value
	}
	if patch.FirstTimeBuyer != nil {
		value := *patch.FirstTimeBuyer
		application.FirstTimeBuyer = &value
	}
	if patch.PreApproved != nil {
		value := *patch.PreApproved
		application.PreApproved = &value
	}
	setMoney(&application.DownPaymentAmount, patch.DownPaymentAmount)

	if patch.HouseholdMembers != nil {
		application.HouseholdMembers = copyHouseholdMembers(*patch.HouseholdMembers)
	}

	if patch.LakelandConnection != nil {
		application.LakelandConnection = *patch.LakelandConnection
	}
	setString(&application.LakelandDetails, patch.LakelandDetails)

	if patch.PersonalReferences != nil {
		references := make([]models.PersonalReference, len(*patch.PersonalReferences))
		copy(references, *patch.PersonalReferences)
		application.PersonalReferences = references
	}

	setString(&application.AgentName, patch.AgentName)
	setString(&application.AgentPhone, patch.AgentPhone)
	setString(&application.AgentEmail, patch.AgentEmail)

	if patch.SelectedHouses != nil {
		replaceSelection(application, *patch.SelectedHouses)
	}
	if patch.JoinWaitlist != nil {
		setWaitlist(application, *patch.JoinWaitlist)
	}
}

func copyHouseholdMembers(members []models.HouseholdMember) []models.HouseholdMember {
	copied := make([]models.HouseholdMember, len(members))
	copy(copied, members)
	return copied
}

func cloneApplication(application models.Application) models.Application {
	cloned := application
	if application.HouseholdMembers != nil {
		cloned.HouseholdMembers = copyHouseholdMembers(application.HouseholdMembers)
	}
	if application.PersonalReferences != nil {
		cloned.PersonalReferences = make([]models.PersonalReference, len(application.PersonalReferences))
		copy(cloned.PersonalReferences, application.PersonalReferences)
	}
	if application.SelectedHouses != nil {
		cloned.SelectedHouses = make([]string, len(application.SelectedHouses))
		copy(cloned.SelectedHouses, application.SelectedHouses)
	}
	return cloned
}
