package services

import "github.com/terraincognita07/landtrust/internal/models"

// allowedTransitions lists the forward edges of the application lifecycle.
// Rejection from any non-terminal state and same-status re-application are handled in CanTransition.
var allowedTransitions = map[string][]string{
	models.StatusDraft:         {models.StatusSubmitted},
	models.StatusSubmitted:     {models.StatusUnderReview},
	models.StatusUnderReview:   {models.StatusPendingInfo, models.StatusReadyForMatch},
	models.StatusPendingInfo:   {models.StatusUnderReview, models.StatusSubmitted},
	models.StatusReadyForMatch: {models.StatusApproved},
}

func CanTransition(from string, to string) bool {
	if !models.IsKnownStatus(from) || !models.IsKnownStatus(to) {
		return false
	}
	if from == to {
		return true
	}
	if models.IsTerminalStatus(from) {
		return false
	}
	if to == models.StatusRejected {
		return true
	}
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// NextStatuses is what an admin may pick for an application currently in status.
func NextStatuses(status string) []string {
	next := make([]string, 0, len(models.ApplicationStatuses))
	for _, candidate := range models.ApplicationStatuses {
		if candidate != status && CanTransition(status, candidate) {
			next = append(next, candidate)
		}
	}
	return next
}
