package models

import "github.com/google/uuid"

// Profile is implemented by every role-specific profile variant. Each profile
// is owned by exactly one user and cascade-deletes with it.
type Profile interface {
	OwnerID() uuid.UUID
	TypeLabel() string
}

// ProfileTypeLabel maps an account type to the human-readable label used in
// detail views. Account types without a profile variant still get a label.
func ProfileTypeLabel(accountType string) string {
	switch accountType {
	case AccountTypeTechnician:
		return "Technician Profile"
	case AccountTypeMaintenance:
		return "Maintenance Company Profile"
	case AccountTypeDeveloper:
		return "Developer Profile"
	case AccountTypeAdmin:
		return "Administrator Profile"
	default:
		return "Unknown Profile"
	}
}
