package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mtambo/internal/authz"
	"mtambo/internal/models"
)

// CompanyService manages maintenance companies and the company↔technician
// membership relation with its delegated-admin rules.
type CompanyService struct {
	db       *gorm.DB
	identity *IdentityService
	profiles *ProfileFactory
}

func NewCompanyService(db *gorm.DB, identity *IdentityService, profiles *ProfileFactory) *CompanyService {
	return &CompanyService{db: db, identity: identity, profiles: profiles}
}

// CreateCompanyInput creates a company profile for an existing maintenance
// user. Admin defaults to the owning user.
type CreateCompanyInput struct {
	UserID             uuid.UUID `json:"user_id" binding:"required"`
	CompanyName        string    `json:"company_name" binding:"required"`
	RegistrationNumber string    `json:"registration_number"`
}

type UpdateCompanyInput struct {
	CompanyName        *string `json:"company_name"`
	RegistrationNumber *string `json:"registration_number"`
}

// TechnicianLocator resolves an existing technician user by id or email.
type TechnicianLocator struct {
	UserID *uuid.UUID `json:"user_id"`
	Email  string     `json:"email"`
}

// NewTechnicianInput creates a brand-new technician user plus profile.
type NewTechnicianInput struct {
	Email          string `json:"email" binding:"required,email"`
	PhoneNumber    string `json:"phone_number" binding:"required,phone"`
	Password       string `json:"password" binding:"required"`
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Specialization string `json:"specialization"`
}

// CompanyDetail embeds the admin email and the technician roster.
type CompanyDetail struct {
	Company         *models.MaintenanceCompanyProfile `json:"company"`
	AdminEmail      string                            `json:"admin_email"`
	TechnicianCount int                               `json:"technician_count"`
	Technicians     []models.TechnicianProfile        `json:"technicians"`
}

// CreateCompany is superuser-only. It attaches a maintenance company profile
// to the given maintenance-role user via the factory, so re-creation for the
// same user converges on the existing company.
func (s *CompanyService) CreateCompany(caller authz.Caller, in CreateCompanyInput) (*models.MaintenanceCompanyProfile, error) {
	if !caller.Authenticated || !caller.IsActive {
		return nil, ErrNotAuthenticated
	}
	if !caller.IsSuperuser {
		return nil, ErrForbidden
	}

	var owner models.User
	err := s.db.Where("id = ? AND account_type = ?", in.UserID, models.AccountTypeMaintenance).First(&owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("user_id", "no maintenance user with this id")
		}
		return nil, err
	}

	profile, err := s.profiles.CreateProfile(&owner, ProfilePayload{
		CompanyName:        in.CompanyName,
		RegistrationNumber: in.RegistrationNumber,
	})
	if err != nil {
		return nil, err
	}
	company, ok := profile.(*models.MaintenanceCompanyProfile)
	if !ok {
		return nil, ErrConflict
	}
	return company, nil
}

// CompanyListOptions narrows and orders the company listing.
type CompanyListOptions struct {
	Search  string
	OrderBy string
}

// companyOrderings whitelists the sortable columns; a leading "-" flips the
// direction.
var companyOrderings = map[string]string{
	"company_name":         "company_name ASC",
	"-company_name":        "company_name DESC",
	"registration_number":  "registration_number ASC",
	"-registration_number": "registration_number DESC",
	"created_at":           "created_at ASC",
	"-created_at":          "created_at DESC",
}

// ListCompanies returns all companies for privileged callers, and the
// companies a maintenance caller administers otherwise. Search matches
// company name or registration number, case-insensitively.
func (s *CompanyService) ListCompanies(caller authz.Caller, opts CompanyListOptions) ([]models.MaintenanceCompanyProfile, error) {
	if !authz.CanAct(caller, authz.ActionList, authz.ResourceCompany) {
		if !caller.Authenticated || !caller.IsActive {
			return nil, ErrNotAuthenticated
		}
		return nil, ErrForbidden
	}

	query := s.companyScope(caller).Preload("User")
	if search := strings.TrimSpace(opts.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(company_name) LIKE ? OR LOWER(registration_number) LIKE ?", pattern, pattern)
	}
	if opts.OrderBy != "" {
		order, ok := companyOrderings[opts.OrderBy]
		if !ok {
			return nil, NewValidationError("ordering", "unsupported ordering field")
		}
		query = query.Order(order)
	}

	var companies []models.MaintenanceCompanyProfile
	if err := query.Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// GetCompany resolves a company inside the caller's visible scope; a company
// that exists but is administered by someone else is simply not found.
func (s *CompanyService) GetCompany(caller authz.Caller, id uuid.UUID) (*models.MaintenanceCompanyProfile, error) {
	if !caller.Authenticated || !caller.IsActive {
		return nil, ErrNotAuthenticated
	}
	var company models.MaintenanceCompanyProfile
	err := s.companyScope(caller).Preload("User").Preload("AdminUser").
		Where("id = ?", id).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// CompanyByAdminEmail resolves a company by its admin's email. Available to
// any authenticated caller (used by cross-service lookups).
func (s *CompanyService) CompanyByAdminEmail(caller authz.Caller, email string) (*models.MaintenanceCompanyProfile, error) {
	if !caller.Authenticated || !caller.IsActive {
		return nil, ErrNotAuthenticated
	}
	email = NormalizeEmail(email)
	if email == "" {
		return nil, NewValidationError("email", "email is required")
	}

	var admin models.User
	err := s.db.Where("email = ? AND account_type = ?", email, models.AccountTypeMaintenance).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var company models.MaintenanceCompanyProfile
	err = s.db.Preload("User").Where("admin_user_id = ?", admin.ID).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// Detail builds the company read view with roster and admin email.
func (s *CompanyService) Detail(company *models.MaintenanceCompanyProfile) (*CompanyDetail, error) {
	var technicians []models.TechnicianProfile
	err := s.db.Preload("User").Where("maintenance_company_id = ?", company.ID).Find(&technicians).Error
	if err != nil {
		return nil, err
	}
	adminEmail := ""
	if company.AdminUserID != nil {
		var admin models.User
		if err := s.db.Select("email").Where("id = ?", *company.AdminUserID).First(&admin).Error; err == nil {
			adminEmail = admin.Email
		}
	}
	return &CompanyDetail{
		Company:         company,
		AdminEmail:      adminEmail,
		TechnicianCount: len(technicians),
		Technicians:     technicians,
	}, nil
}

// UpdateCompany applies partial updates; admin-of or privileged only.
func (s *CompanyService) UpdateCompany(caller authz.Caller, id uuid.UUID, in UpdateCompanyInput) (*models.MaintenanceCompanyProfile, error) {
	company, err := s.GetCompany(caller, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanActOnCompany(caller, company) {
		return nil, ErrForbidden
	}
	if in.CompanyName != nil {
		company.CompanyName = *in.CompanyName
	}
	if in.RegistrationNumber != nil {
		company.RegistrationNumber = *in.RegistrationNumber
	}
	if err := s.db.Save(company).Error; err != nil {
		return nil, err
	}
	return company, nil
}

// DeleteCompany removes a company. Its technicians survive unaffiliated:
// the company reference is cleared in the same transaction.
func (s *CompanyService) DeleteCompany(caller authz.Caller, id uuid.UUID) error {
	company, err := s.GetCompany(caller, id)
	if err != nil {
		return err
	}
	if !authz.CanActOnCompany(caller, company) {
		return ErrForbidden
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.TechnicianProfile{}).
			Where("maintenance_company_id = ?", company.ID).
			Update("maintenance_company_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(company).Error
	})
}

// ListTechnicians returns the company's roster; company admin or privileged.
func (s *CompanyService) ListTechnicians(caller authz.Caller, companyID uuid.UUID) ([]models.TechnicianProfile, error) {
	company, err := s.GetCompany(caller, companyID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageCompanyTechnicians(caller, company) {
		return nil, ErrForbidden
	}
	var technicians []models.TechnicianProfile
	err = s.db.Preload("User").Where("maintenance_company_id = ?", company.ID).Find(&technicians).Error
	if err != nil {
		return nil, err
	}
	return technicians, nil
}

// AddTechnician attaches an existing technician user to the company. The
// user's technician profile is created on the fly when missing.
func (s *CompanyService) AddTechnician(caller authz.Caller, companyID uuid.UUID, locator TechnicianLocator) (*models.TechnicianProfile, error) {
	company, err := s.GetCompany(caller, companyID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageCompanyTechnicians(caller, company) {
		return nil, ErrForbidden
	}

	user, err := s.resolveTechnicianUser(locator)
	if err != nil {
		return nil, err
	}

	var technician *models.TechnicianProfile
	err = s.db.Transaction(func(tx *gorm.DB) error {
		profile, err := s.profiles.CreateProfileTx(tx, user, ProfilePayload{})
		if err != nil {
			return err
		}
		tech, ok := profile.(*models.TechnicianProfile)
		if !ok {
			return ErrNotFound
		}
		tech.MaintenanceCompanyID = &company.ID
		if err := tx.Save(tech).Error; err != nil {
			return err
		}
		technician = tech
		return nil
	})
	if err != nil {
		return nil, err
	}
	return technician, nil
}

// RemoveTechnician clears the company reference on a technician currently in
// this company. A technician outside the company is not found.
func (s *CompanyService) RemoveTechnician(caller authz.Caller, companyID uuid.UUID, locator TechnicianLocator) error {
	company, err := s.GetCompany(caller, companyID)
	if err != nil {
		return err
	}
	if !authz.CanManageCompanyTechnicians(caller, company) {
		return ErrForbidden
	}

	query := s.db.Joins("User").Where("maintenance_company_id = ?", company.ID)
	switch {
	case locator.UserID != nil:
		query = query.Where("technician_profiles.user_id = ?", *locator.UserID)
	case locator.Email != "":
		query = query.Where("\"User\".email = ?", NormalizeEmail(locator.Email))
	default:
		return NewValidationError("user_id", "either user_id or email must be provided")
	}

	var technician models.TechnicianProfile
	if err := query.First(&technician).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	technician.MaintenanceCompanyID = nil
	return s.db.Save(&technician).Error
}

// CreateTechnician builds a new technician user with its profile already
// attached to the company, in one transaction. Email and phone uniqueness
// are checked up front so the caller gets field-level errors.
func (s *CompanyService) CreateTechnician(caller authz.Caller, companyID uuid.UUID, in NewTechnicianInput) (*models.TechnicianProfile, error) {
	company, err := s.GetCompany(caller, companyID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageCompanyTechnicians(caller, company) {
		return nil, ErrForbidden
	}
	return s.createTechnicianForCompany(company, in)
}

func (s *CompanyService) createTechnicianForCompany(company *models.MaintenanceCompanyProfile, in NewTechnicianInput) (*models.TechnicianProfile, error) {
	var technician *models.TechnicianProfile
	err := s.db.Transaction(func(tx *gorm.DB) error {
		user, err := s.identity.CreateUserTx(tx, CreateUserInput{
			Email:       in.Email,
			PhoneNumber: in.PhoneNumber,
			Password:    in.Password,
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			AccountType: models.AccountTypeTechnician,
			IsActive:    true,
		})
		if err != nil {
			return err
		}
		tech := models.TechnicianProfile{
			UserID:               user.ID,
			Specialization:       strings.TrimSpace(in.Specialization),
			MaintenanceCompanyID: &company.ID,
		}
		if err := tx.Create(&tech).Error; err != nil {
			return err
		}
		tech.User = user
		technician = &tech
		return nil
	})
	if err != nil {
		return nil, err
	}
	return technician, nil
}

func (s *CompanyService) resolveTechnicianUser(locator TechnicianLocator) (*models.User, error) {
	query := s.db.Where("account_type = ?", models.AccountTypeTechnician)
	switch {
	case locator.UserID != nil:
		query = query.Where("id = ?", *locator.UserID)
	case locator.Email != "":
		query = query.Where("email = ?", NormalizeEmail(locator.Email))
	default:
		return nil, NewValidationError("user_id", "either user_id or email must be provided")
	}
	var user models.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *CompanyService) companyScope(caller authz.Caller) *gorm.DB {
	if caller.IsSuperuser || caller.IsStaff {
		return s.db.Model(&models.MaintenanceCompanyProfile{})
	}
	return s.db.Model(&models.MaintenanceCompanyProfile{}).Where("admin_user_id = ?", caller.ID)
}
