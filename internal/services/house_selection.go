package services

import (
	"context"
	"strings"

	"github.com/terraincognita07/landtrust/internal/models"
)

func replaceSelection(application *models.Application, houseIDs []string) {
	selection := make([]string, 0, len(houseIDs))
	seen := make(map[string]struct{}, len(houseIDs))
	for _, raw := range houseIDs {
		houseID := strings.TrimSpace(raw)
		if houseID == "" {
			continue
		}
		if _, duplicate := seen[houseID]; duplicate {
			continue
		}
		seen[houseID] = struct{}{}
		selection = append(selection, houseID)
	}
	application.SelectedHouses = selection
	application.JoinWaitlist = false
}

func setWaitlist(application *models.Application, join bool) {
	if join {
		application.SelectedHouses = []string{}
	}
	application.JoinWaitlist = join
}

func (manager *DraftManager) SelectedHouses() []string {
	selection := make([]string, len(manager.application.SelectedHouses))
	copy(selection, manager.application.SelectedHouses)
	return selection
}

func (manager *DraftManager) JoinsWaitlist() bool {
	return manager.application.JoinWaitlist
}

func (manager *DraftManager) Select(houseID string) error {
	if err := manager.ensureEditable(); err != nil {
		return err
	}
	replaceSelection(&manager.application, append(manager.SelectedHouses(), houseID))
	return nil
}

func (manager *DraftManager) Deselect(houseID string) error {
	if err := manager.ensureEditable(); err != nil {
		return err
	}
	target := strings.TrimSpace(houseID)
	remaining := make([]string, 0, len(manager.application.SelectedHouses))
	for _, selected := range manager.application.SelectedHouses {
		if selected != target {
			remaining = append(remaining, selected)
		}
	}
	replaceSelection(&manager.application, remaining)
	return nil
}

func (manager *DraftManager) JoinWaitlist(join bool) error {
	if err := manager.ensureEditable(); err != nil {
		return err
	}
	setWaitlist(&manager.application, join)
	return nil
}

// Finalize rejects an empty choice locally, without touching the gateway, and otherwise submits.
func (manager *DraftManager) Finalize(ctx context.Context) error {
	if err := manager.ensureEditable(); err != nil {
		return err
	}
	selection := manager.application.SelectedHouses
	if len(selection) == 0 && !manager.application.JoinWaitlist {
		return ErrHouseSelectionRequired
	}

	if manager.catalog != nil {
		if err := manager.catalog.ValidateSelection(ctx, selection); err != nil {
			return err
		}
	}

	return manager.Submit(ctx)
}
