package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mtambo/internal/models"
)

func TestCreateUserAndAuthenticate(t *testing.T) {
	ts := newTestServices(t)

	user, err := ts.identity.CreateUser(CreateUserInput{
		Email:       "Jane.Doe@Example.COM",
		PhoneNumber: "+254712345678",
		Password:    "hunter2hunter2",
		FirstName:   "Jane",
		LastName:    "Doe",
		AccountType: models.AccountTypeTechnician,
		IsActive:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", user.Email)
	assert.NotEqual(t, "hunter2hunter2", user.Password)

	got, err := ts.identity.Authenticate("JANE.DOE@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)

	// Wrong password and unknown email both come back as plain no-match.
	got, err = ts.identity.Authenticate("jane.doe@example.com", "wrong")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ts.identity.Authenticate("nobody@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAuthenticateInactiveUser(t *testing.T) {
	ts := newTestServices(t)
	user := ts.mustCreateUser(t, "sleeper@example.com", models.AccountTypeDeveloper)
	require.NoError(t, ts.db.Model(user).Update("is_active", false).Error)

	got, err := ts.identity.Authenticate("sleeper@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateUserValidation(t *testing.T) {
	ts := newTestServices(t)

	_, err := ts.identity.CreateUser(CreateUserInput{
		Email:       "not-an-email",
		PhoneNumber: "nope",
		Password:    "",
		AccountType: "wizard",
	})
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "phone_number")
	assert.Contains(t, ve.Fields, "password")
	assert.Contains(t, ve.Fields, "account_type")
}

func TestDuplicateEmailAndPhone(t *testing.T) {
	ts := newTestServices(t)
	ts.mustCreateUser(t, "taken@example.com", models.AccountTypeDeveloper)

	// Same email in different casing is still a duplicate.
	_, err := ts.identity.CreateUser(CreateUserInput{
		Email:       "TAKEN@Example.com",
		PhoneNumber: "+254799999999",
		Password:    "whatever1",
		AccountType: models.AccountTypeDeveloper,
		IsActive:    true,
	})
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "email")

	var u models.User
	require.NoError(t, ts.db.Where("email = ?", "taken@example.com").First(&u).Error)

	// Duplicate phone is a field error too.
	_, err = ts.identity.CreateUser(CreateUserInput{
		Email:       "fresh@example.com",
		PhoneNumber: u.PhoneNumber,
		Password:    "whatever1",
		AccountType: models.AccountTypeDeveloper,
		IsActive:    true,
	})
	ve, ok = AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "phone_number")

	var count int64
	ts.db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPhoneValidation(t *testing.T) {
	valid := []string{"+254712345678", "0712345678", "123456789", "+11234567890"}
	invalid := []string{"", "abc", "+254-712345678", "12345678", "12345678901234567"}

	for _, p := range valid {
		assert.True(t, phonePattern.MatchString(p), p)
	}
	for _, p := range invalid {
		assert.False(t, phonePattern.MatchString(p), p)
	}
}

func TestCreateSuperuser(t *testing.T) {
	ts := newTestServices(t)

	root := ts.mustCreateSuperuser(t, "root@example.com")
	assert.True(t, root.IsStaff)
	assert.True(t, root.IsSuperuser)
	assert.True(t, root.IsActive)
	assert.Equal(t, models.AccountTypeAdmin, root.AccountType)

	// Explicitly demanding is_staff=false is rejected.
	no := false
	_, err := ts.identity.CreateSuperuser(CreateSuperuserInput{
		Email:       "root2@example.com",
		PhoneNumber: nextPhone(),
		Password:    "s3cret-pass",
		IsStaff:     &no,
	})
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "is_staff")

	_, err = ts.identity.CreateSuperuser(CreateSuperuserInput{
		Email:       "root3@example.com",
		PhoneNumber: nextPhone(),
		Password:    "s3cret-pass",
		IsSuperuser: &no,
	})
	ve, ok = AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "is_superuser")
}

func TestChangePassword(t *testing.T) {
	ts := newTestServices(t)
	user := ts.mustCreateUser(t, "pw@example.com", models.AccountTypeDeveloper)
	originalHash := user.Password

	// Mismatched confirmation leaves the hash untouched.
	err := ts.identity.ChangePassword(user, "s3cret-pass", "new-password", "other")
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "confirm_new_password")

	var stored models.User
	require.NoError(t, ts.db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, originalHash, stored.Password)

	// Wrong old password is rejected.
	err = ts.identity.ChangePassword(user, "wrong-old", "new-password", "new-password")
	ve, ok = AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "old_password")

	// Correct flow replaces the credential.
	require.NoError(t, ts.identity.ChangePassword(user, "s3cret-pass", "new-password", "new-password"))

	got, err := ts.identity.Authenticate("pw@example.com", "new-password")
	require.NoError(t, err)
	require.NotNil(t, got)

	got, err = ts.identity.Authenticate("pw@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Nil(t, got)
}
