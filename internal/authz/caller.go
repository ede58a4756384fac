package authz

import (
	"github.com/google/uuid"

	"mtambo/internal/models"
)

// Caller is the identity a request acts as. It is built once per request
// from the verified token and the user row, then passed explicitly into
// every authorization decision. The zero value is the anonymous caller.
type Caller struct {
	ID            uuid.UUID
	AccountType   string
	IsStaff       bool
	IsSuperuser   bool
	IsActive      bool
	Authenticated bool
}

// Anonymous is the caller used for unauthenticated requests.
var Anonymous = Caller{}

// CallerFor builds a Caller from a resolved user row.
func CallerFor(u *models.User) Caller {
	return Caller{
		ID:            u.ID,
		AccountType:   u.AccountType,
		IsStaff:       u.IsStaff,
		IsSuperuser:   u.IsSuperuser,
		IsActive:      u.IsActive,
		Authenticated: true,
	}
}

// privileged reports whether the caller bypasses object-level checks.
// Superusers and staff get full read-write everywhere.
func (c Caller) privileged() bool {
	return c.Authenticated && c.IsActive && (c.IsSuperuser || c.IsStaff)
}

func (c Caller) active() bool {
	return c.Authenticated && c.IsActive
}
