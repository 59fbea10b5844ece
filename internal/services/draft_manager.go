package services

import (
	"context"
	"fmt"

	"github.com/terraincognita07/landtrust/internal/models"
)

type DraftGateway interface {
	FindOwnApplication(ctx context.Context, actor models.Identity) (models.Application, bool, error)
	UpsertOwnApplication(ctx context.Context, actor models.Identity, application *models.Application) error
}

type PropertyCatalog interface {
	ValidateSelection(ctx context.Context, houseIDs []string) error
}

type DraftOption func(*DraftManager)

// WithStepValidation makes Advance reject a step whose required fields are missing.
func WithStepValidation(enabled bool) DraftOption {
	return func(manager *DraftManager) {
		manager.stepValidation = enabled
	}
}

func WithPropertyCatalog(catalog PropertyCatalog) DraftOption {
	return func(manager *DraftManager) {
		manager.catalog = catalog
	}
}

// DraftManager owns one applicant's application across the wizard steps.
// It is the single source of truth for field values; step views only read slices of it.
type DraftManager struct {
	gateway        DraftGateway
	catalog        PropertyCatalog
	actor          models.Identity
	application    models.Application
	step           int
	loaded         bool
	stepValidation bool
}

func NewDraftManager(gateway DraftGateway, actor models.Identity, options ...DraftOption) *DraftManager {
	manager := &DraftManager{
		gateway: gateway,
		actor:   actor,
		step:    FirstStep,
	}
	for _, option := range options {
		option(manager)
	}
	return manager
}

// Load hydrates the aggregate from the caller's saved application, if any, and restarts at step 1.
func (manager *DraftManager) Load(ctx context.Context) error {
	existing, found, err := manager.gateway.FindOwnApplication(ctx, manager.actor)
	if err != nil {
		return fmt.Errorf("load application: %w", err)
	}

	if found {
		manager.application = cloneApplication(existing)
	} else {
		manager.application = models.Application{
			UserID: manager.actor.UserID,
			Status: models.StatusDraft,
		}
	}
	manager.step = FirstStep
	manager.loaded = true
	return nil
}

func (manager *DraftManager) Step() int {
	return manager.step
}

func (manager *DraftManager) SetStep(step int) error {
	if !IsValidStep(step) {
		return ErrInvalidStep
	}
	manager.step = step
	return nil
}

func (manager *DraftManager) Application() models.Application {
	return cloneApplication(manager.application)
}

func (manager *DraftManager) HasSavedApplication() bool {
	return manager.application.ID != ""
}

// Editable reports whether the applicant may still change the application.
func (manager *DraftManager) Editable() bool {
	switch manager.application.Status {
	case "", models.StatusDraft, models.StatusPendingInfo:
		return true
	default:
		return false
	}
}

func (manager *DraftManager) ensureEditable() error {
	if !manager.loaded {
		return ErrDraftNotLoaded
	}
	if !manager.Editable() {
		return ErrApplicationLocked
	}
	return nil
}

func (manager *DraftManager) Update(patch ApplicationPatch) error {
	if err := manager.ensureEditable(); err != nil {
		return err
	}
	applyPatch(&manager.application, patch)
	return nil
}

func (manager *DraftManager) HouseholdMembers() []models.HouseholdMember {
	return copyHouseholdMembers(manager.application.HouseholdMembers)
}

func (manager *DraftManager) AddMember() error {
	members := append(manager.HouseholdMembers(), models.HouseholdMember{})
	return manager.Update(ApplicationPatch{HouseholdMembers: &members})
}

func (manager *DraftManager) RemoveMember(index int) error {
	members := manager.HouseholdMembers()
	if index < 0 || index >= len(members) {
		return ErrHouseholdMemberIndex
	}
	members = append(members[:index], members[index+1:]...)
	return manager.Update(ApplicationPatch{HouseholdMembers: &members})
}

func (manager *DraftManager) UpdateMember(index int, name string, age string) error {
	members := manager.HouseholdMembers()
	if index < 0 || index >= len(members) {
		return ErrHouseholdMemberIndex
	}
	members[index] = models.HouseholdMember{Name: name, Age: age}
	return manager.Update(ApplicationPatch{HouseholdMembers: &members})
}

// Advance saves the whole aggregate and only then moves to the next step.
func (manager *DraftManager) Advance(ctx context.Context) error {
	if err := manager.ensureEditable(); err != nil {
		return err
	}
	if manager.stepValidation {
		if err := ValidateStep(manager.step, manager.application); err != nil {
			return err
		}
	}

	status := models.StatusDraft
	if manager.application.Status == models.StatusPendingInfo {
		status = models.StatusPendingInfo
	}
	if err := manager.persist(ctx, status); err != nil {
		return err
	}

	manager.step = clampStep(manager.step + 1)
	return nil
}

func (manager *DraftManager) Retreat() {
	manager.step = clampStep(manager.step - 1)
}

// Submit saves the aggregate with status submitted. Only valid from the final step
// and only when every mandatory field is present.
func (manager *DraftManager) Submit(ctx context.Context) error {
	if err := manager.ensureEditable(); err != nil {
		return err
	}
	if manager.step != TotalSteps {
		return ErrSubmitBeforeFinalStep
	}
	if err := ValidateForSubmission(manager.application); err != nil {
		return err
	}
	return manager.persist(ctx, models.StatusSubmitted)
}

func (manager *DraftManager) persist(ctx context.Context, status string) error {
	candidate := cloneApplication(manager.application)
	candidate.UserID = manager.actor.UserID
	candidate.Status = status
	if err := manager.gateway.UpsertOwnApplication(ctx, manager.actor, &candidate); err != nil {
		return fmt.Errorf("save application: %w", err)
	}
	manager.application = candidate
	return nil
}
