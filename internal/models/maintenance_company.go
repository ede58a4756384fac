package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaintenanceCompanyProfile is the profile variant attached to users with
// account_type "maintenance". AdminUser is the user with delegated authority
// over the company's technicians; it defaults to the owning user.
type MaintenanceCompanyProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CompanyName        string `gorm:"size:255;not null" json:"company_name"`
	RegistrationNumber string `gorm:"size:100" json:"registration_number"`

	AdminUserID *uuid.UUID `gorm:"type:uuid;index" json:"admin_user_id"`
	AdminUser   *User      `gorm:"foreignKey:AdminUserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"admin_user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Inverse side of the technician FK, never stored on the company row.
	Technicians []TechnicianProfile `gorm:"foreignKey:MaintenanceCompanyID" json:"technicians,omitempty"`
}

func (p *MaintenanceCompanyProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	// Owning user administers the company unless told otherwise.
	if p.AdminUserID == nil {
		admin := p.UserID
		p.AdminUserID = &admin
	}
	return nil
}

func (p *MaintenanceCompanyProfile) OwnerID() uuid.UUID { return p.UserID }

func (p *MaintenanceCompanyProfile) TypeLabel() string { return "Maintenance Company Profile" }

// AdministeredBy reports whether the given user is the company's admin.
func (p *MaintenanceCompanyProfile) AdministeredBy(userID uuid.UUID) bool {
	return p.AdminUserID != nil && *p.AdminUserID == userID
}
