package models

// Identity is the authenticated caller as seen by services and repositories.
// It is built per request and never stored globally.
type Identity struct {
	UserID string
	Email  string
	Roles  []string

	MustChangePassword bool
}

func (identity Identity) IsZero() bool {
	return identity.UserID == ""
}

func (identity Identity) HasRole(role string) bool {
	for _, granted := range identity.Roles {
		if granted == role {
			return true
		}
	}
	return false
}

func (identity Identity) IsAdmin() bool {
	return identity.HasRole(RoleAdmin)
}

// PrimaryRole picks the most privileged role for dashboard routing.
func (identity Identity) PrimaryRole() string {
	switch {
	case identity.HasRole(RoleAdmin):
		return RoleAdmin
	case identity.HasRole(RoleHomeowner):
		return RoleHomeowner
	default:
		return RoleApplicant
	}
}
