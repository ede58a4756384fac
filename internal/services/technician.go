package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mtambo/internal/authz"
	"mtambo/internal/models"
)

// TechnicianService exposes technician profiles with queryset-style scoping:
// superusers see all, maintenance admins see their company's roster, and
// technicians see themselves.
type TechnicianService struct {
	db       *gorm.DB
	identity *IdentityService
	profiles *ProfileFactory
	company  *CompanyService
}

func NewTechnicianService(db *gorm.DB, identity *IdentityService, profiles *ProfileFactory, company *CompanyService) *TechnicianService {
	return &TechnicianService{db: db, identity: identity, profiles: profiles, company: company}
}

type UpdateTechnicianInput struct {
	Specialization    *string `json:"specialization"`
	Certification     *string `json:"certification"`
	YearsOfExperience *int    `json:"years_of_experience"`
}

// List returns the technicians inside the caller's visible scope.
func (s *TechnicianService) List(caller authz.Caller) ([]models.TechnicianProfile, error) {
	if !caller.Authenticated || !caller.IsActive {
		return nil, ErrNotAuthenticated
	}
	scope, err := s.scope(caller)
	if err != nil {
		return nil, err
	}
	var technicians []models.TechnicianProfile
	if err := scope.Preload("User").Preload("MaintenanceCompany").Find(&technicians).Error; err != nil {
		return nil, err
	}
	return technicians, nil
}

// Get resolves a technician profile inside the caller's scope; out-of-scope
// profiles are not found.
func (s *TechnicianService) Get(caller authz.Caller, id uuid.UUID) (*models.TechnicianProfile, error) {
	if !caller.Authenticated || !caller.IsActive {
		return nil, ErrNotAuthenticated
	}
	scope, err := s.scope(caller)
	if err != nil {
		return nil, err
	}
	var technician models.TechnicianProfile
	err = scope.Preload("User").Preload("MaintenanceCompany").
		Where("technician_profiles.id = ?", id).First(&technician).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &technician, nil
}

// Update applies technician-specific field changes; owner, company admin or
// privileged callers only.
func (s *TechnicianService) Update(caller authz.Caller, id uuid.UUID, in UpdateTechnicianInput) (*models.TechnicianProfile, error) {
	technician, err := s.Get(caller, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanActOnTechnician(caller, technician) {
		return nil, ErrForbidden
	}
	if in.Specialization != nil {
		technician.Specialization = strings.TrimSpace(*in.Specialization)
	}
	if in.Certification != nil {
		technician.Certification = strings.TrimSpace(*in.Certification)
	}
	if in.YearsOfExperience != nil {
		technician.YearsOfExperience = in.YearsOfExperience
	}
	if err := s.db.Save(technician).Error; err != nil {
		return nil, err
	}
	return technician, nil
}

// Delete removes the technician profile. The user account stays; it simply
// has no profile afterwards.
func (s *TechnicianService) Delete(caller authz.Caller, id uuid.UUID) error {
	technician, err := s.Get(caller, id)
	if err != nil {
		return err
	}
	if !authz.CanActOnTechnician(caller, technician) {
		return ErrForbidden
	}
	return s.db.Delete(technician).Error
}

// Create attaches a technician profile to an existing technician user. A
// maintenance admin's new technicians land in their own company; superusers
// create unaffiliated ones.
func (s *TechnicianService) Create(caller authz.Caller, locator TechnicianLocator, in UpdateTechnicianInput) (*models.TechnicianProfile, error) {
	if !caller.Authenticated || !caller.IsActive {
		return nil, ErrNotAuthenticated
	}
	if !caller.IsSuperuser && caller.AccountType != models.AccountTypeMaintenance {
		return nil, ErrForbidden
	}

	user, err := s.company.resolveTechnicianUser(locator)
	if err != nil {
		return nil, err
	}

	var companyID *uuid.UUID
	if caller.AccountType == models.AccountTypeMaintenance && !caller.IsSuperuser {
		company, err := s.adminCompany(caller)
		if err != nil {
			return nil, err
		}
		companyID = &company.ID
	}

	var technician *models.TechnicianProfile
	err = s.db.Transaction(func(tx *gorm.DB) error {
		payload := ProfilePayload{}
		if in.Specialization != nil {
			payload.Specialization = *in.Specialization
		}
		if in.Certification != nil {
			payload.Certification = *in.Certification
		}
		payload.YearsOfExperience = in.YearsOfExperience

		profile, err := s.profiles.CreateProfileTx(tx, user, payload)
		if err != nil {
			return err
		}
		tech, ok := profile.(*models.TechnicianProfile)
		if !ok {
			return ErrNotFound
		}
		if companyID != nil {
			tech.MaintenanceCompanyID = companyID
			if err := tx.Save(tech).Error; err != nil {
				return err
			}
		}
		technician = tech
		return nil
	})
	if err != nil {
		return nil, err
	}
	return technician, nil
}

// CreateWithUser lets a maintenance admin create a technician user plus
// profile attached to their own company, resolved from the caller.
func (s *TechnicianService) CreateWithUser(caller authz.Caller, in NewTechnicianInput) (*models.TechnicianProfile, error) {
	if !caller.Authenticated || !caller.IsActive {
		return nil, ErrNotAuthenticated
	}
	if caller.AccountType != models.AccountTypeMaintenance {
		return nil, ErrForbidden
	}
	company, err := s.adminCompany(caller)
	if err != nil {
		return nil, err
	}
	return s.company.createTechnicianForCompany(company, in)
}

func (s *TechnicianService) adminCompany(caller authz.Caller) (*models.MaintenanceCompanyProfile, error) {
	var company models.MaintenanceCompanyProfile
	err := s.db.Where("admin_user_id = ?", caller.ID).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("maintenance_company", "maintenance company profile not found")
		}
		return nil, err
	}
	return &company, nil
}

func (s *TechnicianService) scope(caller authz.Caller) (*gorm.DB, error) {
	base := s.db.Model(&models.TechnicianProfile{})
	if caller.IsSuperuser || caller.IsStaff {
		return base, nil
	}
	switch caller.AccountType {
	case models.AccountTypeMaintenance:
		var company models.MaintenanceCompanyProfile
		err := s.db.Where("admin_user_id = ?", caller.ID).First(&company).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Admin of nothing sees nothing.
				return base.Where("1 = 0"), nil
			}
			return nil, err
		}
		return base.Where("maintenance_company_id = ?", company.ID), nil
	case models.AccountTypeTechnician:
		return base.Where("user_id = ?", caller.ID), nil
	default:
		return base.Where("1 = 0"), nil
	}
}
