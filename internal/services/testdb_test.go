package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"mtambo/internal/authz"
	"mtambo/internal/config"
	"mtambo/internal/models"
)

// newTestDB opens a fresh in-memory database per test. A single connection
// keeps sqlite access serialized, matching how the store arbitrates the
// concurrent-creation tests.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

type testServices struct {
	db          *gorm.DB
	identity    *IdentityService
	profiles    *ProfileFactory
	accounts    *AccountService
	companies   *CompanyService
	technicians *TechnicianService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := newTestDB(t)
	identity := NewIdentityService(db)
	profiles := NewProfileFactory(db)
	companies := NewCompanyService(db, identity, profiles)
	return &testServices{
		db:          db,
		identity:    identity,
		profiles:    profiles,
		accounts:    NewAccountService(db, identity, profiles),
		companies:   companies,
		technicians: NewTechnicianService(db, identity, profiles, companies),
	}
}

var phoneSeq = 0

// nextPhone hands out unique valid phone numbers across fixtures.
func nextPhone() string {
	phoneSeq++
	return "+2547" + padLeft(phoneSeq)
}

func padLeft(n int) string {
	s := ""
	for _, d := range []int{100000, 10000, 1000, 100, 10, 1} {
		s += string(rune('0' + (n/d)%10))
	}
	return s
}

func (ts *testServices) mustCreateUser(t *testing.T, email, accountType string) *models.User {
	t.Helper()
	user, err := ts.identity.CreateUser(CreateUserInput{
		Email:       email,
		PhoneNumber: nextPhone(),
		Password:    "s3cret-pass",
		FirstName:   "Test",
		LastName:    "User",
		AccountType: accountType,
		IsActive:    true,
	})
	require.NoError(t, err)
	return user
}

func (ts *testServices) mustCreateSuperuser(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := ts.identity.CreateSuperuser(CreateSuperuserInput{
		Email:       email,
		PhoneNumber: nextPhone(),
		Password:    "s3cret-pass",
		FirstName:   "Root",
		LastName:    "Admin",
	})
	require.NoError(t, err)
	return user
}

func callerFor(u *models.User) authz.Caller {
	return authz.CallerFor(u)
}
