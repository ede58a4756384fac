package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TechnicianProfile is the profile variant for account_type "technician".
// A technician belongs to at most one maintenance company; the reference is
// nullable so a technician can exist unaffiliated.
type TechnicianProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Specialization    string `gorm:"size:100" json:"specialization"`
	Certification     string `gorm:"size:100" json:"certification"`
	YearsOfExperience *int   `json:"years_of_experience"`

	MaintenanceCompanyID *uuid.UUID                 `gorm:"type:uuid;index" json:"maintenance_company_id"`
	MaintenanceCompany   *MaintenanceCompanyProfile `gorm:"foreignKey:MaintenanceCompanyID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"maintenance_company,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *TechnicianProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *TechnicianProfile) OwnerID() uuid.UUID { return p.UserID }

func (p *TechnicianProfile) TypeLabel() string { return "Technician Profile" }

// InCompany reports whether the technician currently belongs to the company.
func (p *TechnicianProfile) InCompany(companyID uuid.UUID) bool {
	return p.MaintenanceCompanyID != nil && *p.MaintenanceCompanyID == companyID
}
