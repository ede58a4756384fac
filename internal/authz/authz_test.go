package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"mtambo/internal/models"
)

func activeCaller(accountType string) Caller {
	return Caller{
		ID:            uuid.New(),
		AccountType:   accountType,
		IsActive:      true,
		Authenticated: true,
	}
}

func superuserCaller() Caller {
	c := activeCaller(models.AccountTypeAdmin)
	c.IsSuperuser = true
	c.IsStaff = true
	return c
}

func TestCanActCollectionRules(t *testing.T) {
	anon := Anonymous
	tech := activeCaller(models.AccountTypeTechnician)
	maint := activeCaller(models.AccountTypeMaintenance)
	staff := activeCaller(models.AccountTypeAdmin)
	staff.IsStaff = true
	inactive := activeCaller(models.AccountTypeTechnician)
	inactive.IsActive = false

	tests := []struct {
		name     string
		caller   Caller
		action   Action
		resource Resource
		want     bool
	}{
		{"anonymous can create account", anon, ActionCreate, ResourceUser, true},
		{"anonymous cannot list users", anon, ActionList, ResourceUser, false},
		{"anonymous cannot retrieve", anon, ActionRetrieve, ResourceUser, false},
		{"inactive caller denied", inactive, ActionRetrieve, ResourceUser, false},
		{"technician cannot list users", tech, ActionList, ResourceUser, false},
		{"staff lists users", staff, ActionList, ResourceUser, true},
		{"superuser lists users", superuserCaller(), ActionList, ResourceUser, true},
		{"technician cannot list companies", tech, ActionList, ResourceCompany, false},
		{"maintenance caller may list companies", maint, ActionList, ResourceCompany, true},
		{"authenticated retrieve allowed", tech, ActionRetrieve, ResourceTechnician, true},
		{"authenticated technician list allowed", tech, ActionList, ResourceTechnician, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAct(tt.caller, tt.action, tt.resource))
		})
	}
}

func TestCanActOnUser(t *testing.T) {
	caller := activeCaller(models.AccountTypeDeveloper)
	self := &models.User{ID: caller.ID}
	other := &models.User{ID: uuid.New()}

	assert.True(t, CanActOnUser(caller, self))
	assert.False(t, CanActOnUser(caller, other))
	assert.True(t, CanActOnUser(superuserCaller(), other))

	staff := activeCaller(models.AccountTypeAdmin)
	staff.IsStaff = true
	assert.True(t, CanActOnUser(staff, other))

	inactive := caller
	inactive.IsActive = false
	assert.False(t, CanActOnUser(inactive, self))
}

func TestCanActOnCompany(t *testing.T) {
	admin := activeCaller(models.AccountTypeMaintenance)
	adminID := admin.ID
	company := &models.MaintenanceCompanyProfile{ID: uuid.New(), AdminUserID: &adminID}

	assert.True(t, CanActOnCompany(admin, company))
	assert.True(t, CanActOnCompany(superuserCaller(), company))
	assert.False(t, CanActOnCompany(activeCaller(models.AccountTypeMaintenance), company))

	orphan := &models.MaintenanceCompanyProfile{ID: uuid.New()}
	assert.False(t, CanActOnCompany(admin, orphan))
}

func TestCanActOnTechnician(t *testing.T) {
	owner := activeCaller(models.AccountTypeTechnician)
	admin := activeCaller(models.AccountTypeMaintenance)
	adminID := admin.ID

	company := &models.MaintenanceCompanyProfile{ID: uuid.New(), AdminUserID: &adminID}
	companyID := company.ID
	tech := &models.TechnicianProfile{
		ID:                   uuid.New(),
		UserID:               owner.ID,
		MaintenanceCompanyID: &companyID,
		MaintenanceCompany:   company,
	}

	assert.True(t, CanActOnTechnician(owner, tech))
	assert.True(t, CanActOnTechnician(admin, tech))
	assert.True(t, CanActOnTechnician(superuserCaller(), tech))

	// Another technician, another company admin: both denied.
	assert.False(t, CanActOnTechnician(activeCaller(models.AccountTypeTechnician), tech))
	assert.False(t, CanActOnTechnician(activeCaller(models.AccountTypeMaintenance), tech))

	// Unaffiliated technician is only reachable by owner and privileged.
	loner := &models.TechnicianProfile{ID: uuid.New(), UserID: owner.ID}
	assert.True(t, CanActOnTechnician(owner, loner))
	assert.False(t, CanActOnTechnician(admin, loner))
}

func TestCanManageCompanyTechnicians(t *testing.T) {
	admin := activeCaller(models.AccountTypeMaintenance)
	adminID := admin.ID
	company := &models.MaintenanceCompanyProfile{ID: uuid.New(), AdminUserID: &adminID}

	assert.True(t, CanManageCompanyTechnicians(admin, company))
	assert.True(t, CanManageCompanyTechnicians(superuserCaller(), company))
	assert.False(t, CanManageCompanyTechnicians(activeCaller(models.AccountTypeMaintenance), company))
	assert.False(t, CanManageCompanyTechnicians(Anonymous, company))
}
