package services

import (
	"fmt"
	"strings"

	"github.com/terraincognita07/landtrust/internal/models"
)

const (
	FirstStep  = 1
	TotalSteps = 8
)

type StepDefinition struct {
	Number int    `json:"number"`
	Key    string `json:"key"`
	Title  string `json:"title"`
}

var applicationSteps = []StepDefinition{
	{Number: 1, Key: "personal", Title: "Personal Information"},
	{Number: 2, Key: "agent", Title: "Real Estate Agent"},
	{Number: 3, Key: "heritage", Title: "Lakeland Heritage"},
	{Number: 4, Key: "household", Title: "Household"},
	{Number: 5, Key: "financial", Title: "Financial Information"},
	{Number: 6, Key: "homeownership", Title: "Homeownership"},
	{Number: 7, Key: "references", Title: "References"},
	{Number: 8, Key: "houses", Title: "House Selection"},
}

func ApplicationSteps() []StepDefinition {
	steps := make([]StepDefinition, len(applicationSteps))
	copy(steps, applicationSteps)
	return steps
}

func IsValidStep(step int) bool {
	return step >= FirstStep && step <= TotalSteps
}

func clampStep(step int) int {
	if step < FirstStep {
		return FirstStep
	}
	if step > TotalSteps {
		return TotalSteps
	}
	return step
}

// MissingFieldsForStep lists the required fields of one wizard step that are still empty.
func MissingFieldsForStep(step int, application models.Application) []string {
	missing := make([]string, 0)
	requireText := func(field string, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}

	switch step {
	case 1:
		requireText("first_name", application.FirstName)
		requireText("last_name", application.LastName)
		requireText("date_of_birth", application.DateOfBirth)
		requireText("email", application.Email)
		requireText("phone", application.Phone)
		requireText("current_address", application.CurrentAddress)
		requireText("zip_code", application.ZipCode)
	case 3:
		if application.LakelandConnection {
			requireText("lakeland_details", application.LakelandDetails)
		}
	case 4:
		named := 0
		for _, member := range application.HouseholdMembers {
			if strings.TrimSpace(member.Name) != "" {
				named++
			}
		}
		if named == 0 {
			missing = append(missing, "household_members")
		}
	case 5:
		if !application.AnnualIncome.Valid {
			missing = append(missing, "annual_income")
		}
		if application.CreditScore == nil {
			missing = append(missing, "credit_score")
		}
	case 7:
		if len(application.PersonalReferences) != RequiredReferenceCount {
			missing = append(missing, "personal_references")
			break
		}
		for index, reference := range application.PersonalReferences {
			prefix := fmt.Sprintf("personal_references[%d].", index)
			requireText(prefix+"name", reference.Name)
			requireText(prefix+"phone", reference.Phone)
			requireText(prefix+"relationship", reference.Relationship)
		}
	case 8:
		if len(application.SelectedHouses) == 0 && !application.JoinWaitlist {
			missing = append(missing, "selected_houses")
		}
	}

	return missing
}

// ValidateStep returns a *ValidationError when the step still has missing required fields.
func ValidateStep(step int, application models.Application) error {
	missing := MissingFieldsForStep(step, application)
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Missing: missing}
}

// ValidateForSubmission checks every step; a submitted record must not miss mandatory fields.
func ValidateForSubmission(application models.Application) error {
	missing := make([]string, 0)
	for step := FirstStep; step <= TotalSteps; step++ {
		missing = append(missing, MissingFieldsForStep(step, application)...)
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Missing: missing}
}
