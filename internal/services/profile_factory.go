package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mtambo/internal/models"
)

// ProfilePayload is the role-specific data accepted when a profile is
// created or updated. Only the fields matching the user's account type are
// read; the rest are ignored.
type ProfilePayload struct {
	// Technician fields.
	Specialization    string `json:"specialization"`
	Certification     string `json:"certification"`
	YearsOfExperience *int   `json:"years_of_experience"`

	// Maintenance company fields.
	CompanyName        string `json:"company_name"`
	RegistrationNumber string `json:"registration_number"`

	// Developer fields.
	DeveloperName string `json:"developer_name"`
	Address       string `json:"address"`
}

// profileBuilder constructs the unsaved profile variant for one account type.
type profileBuilder func(user *models.User, data ProfilePayload) models.Profile

// profileBuilders keys each profile constructor by account type. Account
// types without an entry ("admin") have no profile variant.
var profileBuilders = map[string]profileBuilder{
	models.AccountTypeTechnician: func(user *models.User, data ProfilePayload) models.Profile {
		return &models.TechnicianProfile{
			UserID:            user.ID,
			Specialization:    data.Specialization,
			Certification:     data.Certification,
			YearsOfExperience: data.YearsOfExperience,
		}
	},
	models.AccountTypeMaintenance: func(user *models.User, data ProfilePayload) models.Profile {
		return &models.MaintenanceCompanyProfile{
			UserID:             user.ID,
			CompanyName:        data.CompanyName,
			RegistrationNumber: data.RegistrationNumber,
			// AdminUserID defaults to the owner in BeforeCreate.
		}
	},
	models.AccountTypeDeveloper: func(user *models.User, data ProfilePayload) models.Profile {
		return &models.DeveloperProfile{
			UserID:        user.ID,
			DeveloperName: data.DeveloperName,
			Address:       data.Address,
			CompanyName:   data.CompanyName,
		}
	},
}

// ProfileFactory creates and resolves role-specific profiles.
type ProfileFactory struct {
	db *gorm.DB
}

func NewProfileFactory(db *gorm.DB) *ProfileFactory {
	return &ProfileFactory{db: db}
}

// CreateProfile attaches the role-matching profile to the user. It returns
// (nil, nil) when the account type has no profile variant. Creation is
// idempotent and race-safe: the insert carries ON CONFLICT DO NOTHING on the
// user_id unique index, and a conflict falls back to fetching the row that
// won, so concurrent calls converge on exactly one persisted profile.
func (f *ProfileFactory) CreateProfile(user *models.User, data ProfilePayload) (models.Profile, error) {
	return f.CreateProfileTx(f.db, user, data)
}

// CreateProfileTx is CreateProfile inside an existing transaction.
func (f *ProfileFactory) CreateProfileTx(tx *gorm.DB, user *models.User, data ProfilePayload) (models.Profile, error) {
	build, ok := profileBuilders[user.AccountType]
	if !ok {
		return nil, nil
	}

	profile := build(user, data)
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(profile)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return f.GetProfileTx(tx, user)
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race; the existing row is the profile.
		return f.GetProfileTx(tx, user)
	}
	return profile, nil
}

// GetProfile fetches the user's profile variant, or (nil, nil) when none
// exists for the account type or none has been created yet.
func (f *ProfileFactory) GetProfile(user *models.User) (models.Profile, error) {
	return f.GetProfileTx(f.db, user)
}

func (f *ProfileFactory) GetProfileTx(tx *gorm.DB, user *models.User) (models.Profile, error) {
	var (
		profile models.Profile
		err     error
	)
	switch user.AccountType {
	case models.AccountTypeTechnician:
		var p models.TechnicianProfile
		err = tx.Where("user_id = ?", user.ID).First(&p).Error
		profile = &p
	case models.AccountTypeMaintenance:
		var p models.MaintenanceCompanyProfile
		err = tx.Where("user_id = ?", user.ID).First(&p).Error
		profile = &p
	case models.AccountTypeDeveloper:
		var p models.DeveloperProfile
		err = tx.Where("user_id = ?", user.ID).First(&p).Error
		profile = &p
	default:
		return nil, nil
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}
