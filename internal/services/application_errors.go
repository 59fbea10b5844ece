package services

import (
	"errors"
	"fmt"
	"strings"
)

const RequiredReferenceCount = 2

var (
	ErrValidationFailed       = errors.New("validation failed")
	ErrHouseSelectionRequired = errors.New("select at least one house or join the waitlist")
	ErrUnknownHouse           = errors.New("selected house is not available")
	ErrApplicationLocked      = errors.New("application can no longer be edited")
	ErrSubmitBeforeFinalStep  = errors.New("application can only be submitted from the final step")
	ErrInvalidStep            = errors.New("invalid application step")
	ErrDraftNotLoaded         = errors.New("application draft not loaded")
	ErrHouseholdMemberIndex   = errors.New("household member index out of range")
	ErrUnknownStatus          = errors.New("unknown application status")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrRoleGrantPending       = errors.New("status updated, role grant pending")
	ErrMessageEmpty           = errors.New("message is required")
	ErrMessageTooLong         = errors.New("message is too long")
)

type ValidationError struct {
	Missing []string
}

func (err *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(err.Missing, ", ")
}

func (err *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

type InvalidTransitionError struct {
	From string
	To   string
}

func (err *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move application from %s to %s", err.From, err.To)
}

func (err *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// RoleGrantPendingError means the status write committed but the homeowner grant did not.
// Re-applying the approved status retries the grant.
type RoleGrantPendingError struct {
	ApplicationID string
	UserID        string
	Attempts      int
	Err           error
}

func (err *RoleGrantPendingError) Error() string {
	return fmt.Sprintf("application %s approved but homeowner role for user %s not granted after %d attempts: %v",
		err.ApplicationID, err.UserID, err.Attempts, err.Err)
}

func (err *RoleGrantPendingError) Unwrap() []error {
	return []error{ErrRoleGrantPending, err.Err}
}
