package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mtambo/internal/models"
)

func TestTechnicianVisibility(t *testing.T) {
	ts := newTestServices(t)
	root, admin, company := companyFixture(t, ts)

	inside, err := ts.companies.CreateTechnician(callerFor(admin), company.ID, NewTechnicianInput{
		Email:       "in@x.com",
		PhoneNumber: "+254703000001",
		Password:    "longenough1",
		FirstName:   "In",
		LastName:    "Side",
	})
	require.NoError(t, err)

	// An unaffiliated technician elsewhere.
	outsideUser := ts.mustCreateUser(t, "out@x.com", models.AccountTypeTechnician)
	outside, err := ts.profiles.CreateProfile(outsideUser, ProfilePayload{})
	require.NoError(t, err)
	outsideProfile := outside.(*models.TechnicianProfile)

	// Technician A cannot reach technician B's profile.
	_, err = ts.technicians.Get(callerFor(outsideUser), inside.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// But sees their own.
	got, err := ts.technicians.Get(callerFor(outsideUser), outsideProfile.ID)
	require.NoError(t, err)
	assert.Equal(t, outsideProfile.ID, got.ID)

	// Company admin sees exactly their roster.
	list, err := ts.technicians.List(callerFor(admin))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, inside.ID, list[0].ID)

	// The unaffiliated technician is out of the admin's reach.
	_, err = ts.technicians.Get(callerFor(admin), outsideProfile.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Superuser sees everyone.
	list, err = ts.technicians.List(callerFor(root))
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestTechnicianListScopeAdminOfNothing(t *testing.T) {
	ts := newTestServices(t)
	orphanAdmin := ts.mustCreateUser(t, "noco@x.com", models.AccountTypeMaintenance)

	list, err := ts.technicians.List(callerFor(orphanAdmin))
	require.NoError(t, err)
	assert.Len(t, list, 0)
}

func TestTechnicianUpdate(t *testing.T) {
	ts := newTestServices(t)
	_, admin, company := companyFixture(t, ts)

	tech, err := ts.companies.CreateTechnician(callerFor(admin), company.ID, NewTechnicianInput{
		Email:       "u@x.com",
		PhoneNumber: "+254703000002",
		Password:    "longenough1",
		FirstName:   "You",
		LastName:    "Pdate",
	})
	require.NoError(t, err)

	spec := "escalators"
	years := 4
	updated, err := ts.technicians.Update(callerFor(admin), tech.ID, UpdateTechnicianInput{
		Specialization:    &spec,
		YearsOfExperience: &years,
	})
	require.NoError(t, err)
	assert.Equal(t, "escalators", updated.Specialization)
	require.NotNil(t, updated.YearsOfExperience)
	assert.Equal(t, 4, *updated.YearsOfExperience)

	// The owning technician can update their own profile too.
	owner, err := ts.identity.GetByID(tech.UserID.String())
	require.NoError(t, err)
	cert := "EN 81-20"
	updated, err = ts.technicians.Update(callerFor(owner), tech.ID, UpdateTechnicianInput{Certification: &cert})
	require.NoError(t, err)
	assert.Equal(t, "EN 81-20", updated.Certification)
}

func TestTechnicianDelete(t *testing.T) {
	ts := newTestServices(t)
	_, admin, company := companyFixture(t, ts)

	tech, err := ts.companies.CreateTechnician(callerFor(admin), company.ID, NewTechnicianInput{
		Email:       "d@x.com",
		PhoneNumber: "+254703000003",
		Password:    "longenough1",
		FirstName:   "Dee",
		LastName:    "Lete",
	})
	require.NoError(t, err)

	require.NoError(t, ts.technicians.Delete(callerFor(admin), tech.ID))

	var count int64
	ts.db.Model(&models.TechnicianProfile{}).Where("id = ?", tech.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	// The user account survives without its profile.
	var users int64
	ts.db.Model(&models.User{}).Where("id = ?", tech.UserID).Count(&users)
	assert.Equal(t, int64(1), users)
}

func TestTechnicianCreateAttachesAdminCompany(t *testing.T) {
	ts := newTestServices(t)
	root, admin, company := companyFixture(t, ts)

	// Maintenance admin creating for an existing technician user lands the
	// profile in their own company.
	techUser := ts.mustCreateUser(t, "exist@x.com", models.AccountTypeTechnician)
	spec := "lifts"
	tech, err := ts.technicians.Create(callerFor(admin), TechnicianLocator{UserID: &techUser.ID}, UpdateTechnicianInput{Specialization: &spec})
	require.NoError(t, err)
	require.NotNil(t, tech.MaintenanceCompanyID)
	assert.Equal(t, company.ID, *tech.MaintenanceCompanyID)

	// Superusers create unaffiliated profiles.
	loneUser := ts.mustCreateUser(t, "lone@x.com", models.AccountTypeTechnician)
	tech, err = ts.technicians.Create(callerFor(root), TechnicianLocator{UserID: &loneUser.ID}, UpdateTechnicianInput{})
	require.NoError(t, err)
	assert.Nil(t, tech.MaintenanceCompanyID)

	// Technicians themselves may not create profiles this way.
	_, err = ts.technicians.Create(callerFor(techUser), TechnicianLocator{UserID: &techUser.ID}, UpdateTechnicianInput{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateWithUser(t *testing.T) {
	ts := newTestServices(t)
	_, admin, company := companyFixture(t, ts)

	tech, err := ts.technicians.CreateWithUser(callerFor(admin), NewTechnicianInput{
		Email:          "wu@x.com",
		PhoneNumber:    "+254703000004",
		Password:       "longenough1",
		FirstName:      "With",
		LastName:       "User",
		Specialization: "doors",
	})
	require.NoError(t, err)
	require.NotNil(t, tech.MaintenanceCompanyID)
	assert.Equal(t, company.ID, *tech.MaintenanceCompanyID)

	// An admin without a company gets a field error, not a crash.
	orphanAdmin := ts.mustCreateUser(t, "noco@x.com", models.AccountTypeMaintenance)
	_, err = ts.technicians.CreateWithUser(callerFor(orphanAdmin), NewTechnicianInput{
		Email:       "wu2@x.com",
		PhoneNumber: "+254703000005",
		Password:    "longenough1",
		FirstName:   "No",
		LastName:    "Co",
	})
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "maintenance_company")

	// Non-maintenance callers are forbidden.
	dev := ts.mustCreateUser(t, "dev2@x.com", models.AccountTypeDeveloper)
	_, err = ts.technicians.CreateWithUser(callerFor(dev), NewTechnicianInput{
		Email:       "wu3@x.com",
		PhoneNumber: "+254703000006",
		Password:    "longenough1",
		FirstName:   "Not",
		LastName:    "Allowed",
	})
	assert.ErrorIs(t, err, ErrForbidden)
}
