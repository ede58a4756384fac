package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mtambo/internal/authz"
	"mtambo/internal/models"
)

// AccountService orchestrates identity and profile creation and assembles
// account detail views. All lookups go through the caller's visible set
// first, so out-of-scope users surface as not-found rather than forbidden.
type AccountService struct {
	db       *gorm.DB
	identity *IdentityService
	profiles *ProfileFactory
}

func NewAccountService(db *gorm.DB, identity *IdentityService, profiles *ProfileFactory) *AccountService {
	return &AccountService{db: db, identity: identity, profiles: profiles}
}

// CreateAccountInput is the public signup payload: user fields plus an
// optional nested profile payload for the chosen role.
type CreateAccountInput struct {
	Email       string          `json:"email" binding:"required,email"`
	PhoneNumber string          `json:"phone_number" binding:"required,phone"`
	Password    string          `json:"password" binding:"required"`
	FirstName   string          `json:"first_name" binding:"required"`
	LastName    string          `json:"last_name" binding:"required"`
	AccountType string          `json:"account_type" binding:"required"`
	Profile     *ProfilePayload `json:"profile"`
}

// UpdateAccountInput holds the mutable user fields. Email is immutable
// after creation and deliberately absent. Pointer fields distinguish
// "not sent" from "set to zero".
type UpdateAccountInput struct {
	PhoneNumber *string        `json:"phone_number"`
	FirstName   *string        `json:"first_name"`
	LastName    *string        `json:"last_name"`
	Profile     *ProfileUpdate `json:"profile"`
}

// ProfileUpdate is the nested profile payload of an account update. Every
// field is a pointer so a partial update touches only the keys that were
// sent; omitted fields keep their stored value.
type ProfileUpdate struct {
	// Technician fields.
	Specialization    *string `json:"specialization"`
	Certification     *string `json:"certification"`
	YearsOfExperience *int    `json:"years_of_experience"`

	// Maintenance company fields.
	CompanyName        *string `json:"company_name"`
	RegistrationNumber *string `json:"registration_number"`

	// Developer fields.
	DeveloperName *string `json:"developer_name"`
	Address       *string `json:"address"`
}

// UserDetail is the read view of an account with its profile section. The
// profile details are nil when no profile exists for the account type.
type UserDetail struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	PhoneNumber string         `json:"phone_number"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	AccountType string         `json:"account_type"`
	Profile     ProfileSection `json:"profile"`
}

type ProfileSection struct {
	Type    string         `json:"type"`
	Details models.Profile `json:"details"`
}

// VisibleUsers returns the set of users the caller may see: privileged
// callers see everyone, everyone else sees exactly themselves.
func (s *AccountService) VisibleUsers(caller authz.Caller) ([]models.User, error) {
	if !authz.CanAct(caller, authz.ActionList, authz.ResourceUser) {
		return nil, ErrForbidden
	}
	var users []models.User
	if err := s.visibleScope(caller).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser resolves a user within the caller's visible scope. An existing
// user outside the scope is reported as not-found, not forbidden.
func (s *AccountService) GetUser(caller authz.Caller, id uuid.UUID) (*models.User, error) {
	if !caller.Authenticated || !caller.IsActive {
		return nil, ErrNotAuthenticated
	}
	var user models.User
	err := s.visibleScope(caller).
		Preload("TechnicianProfile").
		Preload("TechnicianProfile.MaintenanceCompany").
		Preload("MaintenanceProfile").
		Preload("DeveloperProfile").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateAccount creates the user row and its role-matching profile in one
// transaction; a failure in either step leaves nothing behind.
func (s *AccountService) CreateAccount(in CreateAccountInput) (*models.User, error) {
	in.AccountType = strings.ToLower(strings.TrimSpace(in.AccountType))

	var created *models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		user, err := s.identity.CreateUserTx(tx, CreateUserInput{
			Email:       in.Email,
			PhoneNumber: in.PhoneNumber,
			Password:    in.Password,
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			AccountType: in.AccountType,
			IsActive:    true,
		})
		if err != nil {
			return err
		}

		payload := ProfilePayload{}
		if in.Profile != nil {
			payload = *in.Profile
		}
		if _, err := s.profiles.CreateProfileTx(tx, user, payload); err != nil {
			return err
		}
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateAccount applies permitted field updates to a user in the caller's
// scope, including a nested profile payload when it matches the user's own
// role, all in one transaction.
func (s *AccountService) UpdateAccount(caller authz.Caller, id uuid.UUID, in UpdateAccountInput) (*models.User, error) {
	user, err := s.GetUser(caller, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanActOnUser(caller, user) {
		return nil, ErrForbidden
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if in.PhoneNumber != nil {
			phone := strings.TrimSpace(*in.PhoneNumber)
			if !phonePattern.MatchString(phone) {
				return NewValidationError("phone_number", "enter a valid phone number")
			}
			user.PhoneNumber = phone
		}
		if in.FirstName != nil {
			user.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			user.LastName = *in.LastName
		}
		if err := tx.Save(user).Error; err != nil {
			if isUniqueViolation(err) {
				return NewValidationError("phone_number", "a user with this phone number already exists")
			}
			return err
		}

		if in.Profile != nil {
			return s.applyProfileUpdate(tx, user, *in.Profile)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetUser(caller, id)
}

// DeleteAccount removes a user in the caller's scope; the attached profile
// cascade-deletes with it.
func (s *AccountService) DeleteAccount(caller authz.Caller, id uuid.UUID) error {
	user, err := s.GetUser(caller, id)
	if err != nil {
		return err
	}
	if !authz.CanActOnUser(caller, user) {
		return ErrForbidden
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		tx.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{})
		tx.Where("user_id = ?", user.ID).Delete(&models.TechnicianProfile{})
		tx.Where("user_id = ?", user.ID).Delete(&models.MaintenanceCompanyProfile{})
		tx.Where("user_id = ?", user.ID).Delete(&models.DeveloperProfile{})
		return tx.Delete(user).Error
	})
}

// Detail assembles the read view of a user with its profile section. A
// missing or role-mismatched profile yields a null details field instead of
// an error.
func (s *AccountService) Detail(user *models.User) (*UserDetail, error) {
	profile, err := s.profiles.GetProfile(user)
	if err != nil {
		return nil, err
	}
	return &UserDetail{
		ID:          user.ID,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		AccountType: user.AccountType,
		Profile: ProfileSection{
			Type:    models.ProfileTypeLabel(user.AccountType),
			Details: profile,
		},
	}, nil
}

func (s *AccountService) visibleScope(caller authz.Caller) *gorm.DB {
	if caller.IsSuperuser || caller.IsStaff {
		return s.db.Model(&models.User{})
	}
	return s.db.Model(&models.User{}).Where("id = ?", caller.ID)
}

func (s *AccountService) applyProfileUpdate(tx *gorm.DB, user *models.User, data ProfileUpdate) error {
	updates := map[string]interface{}{}
	set := func(column string, value *string) {
		if value != nil {
			updates[column] = *value
		}
	}

	var target interface{}
	switch user.AccountType {
	case models.AccountTypeTechnician:
		if user.TechnicianProfile == nil {
			return nil
		}
		set("specialization", data.Specialization)
		set("certification", data.Certification)
		if data.YearsOfExperience != nil {
			updates["years_of_experience"] = *data.YearsOfExperience
		}
		target = user.TechnicianProfile
	case models.AccountTypeMaintenance:
		if user.MaintenanceProfile == nil {
			return nil
		}
		set("company_name", data.CompanyName)
		set("registration_number", data.RegistrationNumber)
		target = user.MaintenanceProfile
	case models.AccountTypeDeveloper:
		if user.DeveloperProfile == nil {
			return nil
		}
		set("developer_name", data.DeveloperName)
		set("address", data.Address)
		set("company_name", data.CompanyName)
		target = user.DeveloperProfile
	default:
		// Admin accounts carry no profile; nested payloads are ignored.
		return nil
	}

	if len(updates) == 0 {
		return nil
	}
	return tx.Model(target).Updates(updates).Error
}
