package services

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mtambo/internal/models"
)

var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// dummyHash is compared against when the email does not resolve, so the
// unknown-email and wrong-password paths cost the same and neither leaks
// whether an account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("mtambo-no-such-user"), bcrypt.DefaultCost)

// IdentityService owns the User entity and its credential lifecycle.
type IdentityService struct {
	db *gorm.DB
}

func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{db: db}
}

// CreateUserInput is the validated shape a new user is built from.
type CreateUserInput struct {
	Email       string
	PhoneNumber string
	Password    string
	FirstName   string
	LastName    string
	AccountType string
	IsStaff     bool
	IsSuperuser bool
	IsActive    bool
}

// NormalizeEmail lowercases and trims an address. Uniqueness checks and
// lookups always go through this, so casing differences collapse.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser validates the input, hashes the password and inserts the row.
// Duplicate email or phone comes back as a field-level ValidationError.
func (s *IdentityService) CreateUser(in CreateUserInput) (*models.User, error) {
	return s.createUser(s.db, in)
}

// CreateUserTx is CreateUser running inside an existing transaction, used
// when account and profile creation must commit or fail together.
func (s *IdentityService) CreateUserTx(tx *gorm.DB, in CreateUserInput) (*models.User, error) {
	return s.createUser(tx, in)
}

func (s *IdentityService) createUser(tx *gorm.DB, in CreateUserInput) (*models.User, error) {
	if err := validateUserInput(&in); err != nil {
		return nil, err
	}
	if err := s.checkUniqueness(tx, in.Email, in.PhoneNumber); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Password:    string(hash),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		AccountType: in.AccountType,
		IsStaff:     in.IsStaff,
		IsSuperuser: in.IsSuperuser,
		IsActive:    in.IsActive,
	}
	if err := tx.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			// Racing past the pre-check still yields a field error.
			return nil, NewValidationError("email", "a user with this email or phone number already exists")
		}
		return nil, err
	}
	return &user, nil
}

// CreateSuperuserInput carries the superuser flags as pointers so that an
// explicit false can be told apart from "not supplied".
type CreateSuperuserInput struct {
	Email       string
	PhoneNumber string
	Password    string
	FirstName   string
	LastName    string
	AccountType string
	IsStaff     *bool
	IsSuperuser *bool
}

// CreateSuperuser forces the staff/superuser/active flags on. Passing either
// flag explicitly false is rejected.
func (s *IdentityService) CreateSuperuser(in CreateSuperuserInput) (*models.User, error) {
	if in.IsStaff != nil && !*in.IsStaff {
		return nil, NewValidationError("is_staff", "superuser must have is_staff=true")
	}
	if in.IsSuperuser != nil && !*in.IsSuperuser {
		return nil, NewValidationError("is_superuser", "superuser must have is_superuser=true")
	}
	accountType := in.AccountType
	if accountType == "" {
		accountType = models.AccountTypeAdmin
	}
	return s.createUser(s.db, CreateUserInput{
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Password:    in.Password,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		AccountType: accountType,
		IsStaff:     true,
		IsSuperuser: true,
		IsActive:    true,
	})
}

// Authenticate resolves the user by normalized email and verifies the
// password. Any mismatch returns (nil, nil): the caller cannot tell whether
// the email exists, the password was wrong, or the account is inactive.
func (s *IdentityService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a comparison anyway to keep timing flat.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, nil
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil
	}
	if !user.IsActive {
		return nil, nil
	}
	return &user, nil
}

// ChangePassword replaces the stored hash after the old password verifies
// and the new password matches its confirmation.
func (s *IdentityService) ChangePassword(user *models.User, oldPassword, newPassword, confirm string) error {
	if newPassword != confirm {
		return NewValidationError("confirm_new_password", "new passwords must match")
	}
	if newPassword == "" {
		return NewValidationError("new_password", "new password is required")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return NewValidationError("old_password", "old password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.Model(user).Update("password", string(hash)).Error
}

// GetByID fetches a user without scoping. Callers needing caller-visible
// lookups go through AccountService instead.
func (s *IdentityService) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func validateUserInput(in *CreateUserInput) error {
	ve := &ValidationError{Fields: map[string]string{}}

	in.Email = NormalizeEmail(in.Email)
	if in.Email == "" {
		ve.Add("email", "email is required")
	} else if !strings.Contains(in.Email, "@") {
		ve.Add("email", "enter a valid email address")
	}

	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if !phonePattern.MatchString(in.PhoneNumber) {
		ve.Add("phone_number", "enter a valid phone number")
	}

	if in.Password == "" {
		ve.Add("password", "password is required")
	}
	if !models.ValidAccountType(in.AccountType) {
		ve.Add("account_type", "invalid account type")
	}

	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

func (s *IdentityService) checkUniqueness(tx *gorm.DB, email, phone string) error {
	ve := &ValidationError{Fields: map[string]string{}}

	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		ve.Add("email", "a user with this email already exists")
	}

	if err := tx.Model(&models.User{}).Where("phone_number = ?", phone).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		ve.Add("phone_number", "a user with this phone number already exists")
	}

	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}
