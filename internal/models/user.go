package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account types a User can carry. The type decides which profile variant
// is attached and which permission rules apply.
const (
	AccountTypeDeveloper   = "developer"
	AccountTypeMaintenance = "maintenance"
	AccountTypeTechnician  = "technician"
	AccountTypeAdmin       = "admin"
)

// AccountTypes lists every valid account_type value.
var AccountTypes = []string{
	AccountTypeDeveloper,
	AccountTypeMaintenance,
	AccountTypeTechnician,
	AccountTypeAdmin,
}

func ValidAccountType(t string) bool {
	for _, v := range AccountTypes {
		if v == t {
			return true
		}
	}
	return false
}

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName   string    `gorm:"size:100" json:"first_name"`
	LastName    string    `gorm:"size:100" json:"last_name"`
	Email       string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PhoneNumber string    `gorm:"size:16;uniqueIndex;not null" json:"phone_number"`
	Password    string    `gorm:"not null" json:"-"` // bcrypt hash, never plaintext
	AccountType string    `gorm:"size:50;not null;index" json:"account_type"`

	IsStaff     bool `gorm:"default:false" json:"is_staff"`
	IsSuperuser bool `gorm:"default:false" json:"is_superuser"`
	IsActive    bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Role-specific profile relations. At most one is ever populated,
	// matching AccountType.
	TechnicianProfile  *TechnicianProfile         `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"technician_profile,omitempty"`
	MaintenanceProfile *MaintenanceCompanyProfile `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"maintenance_profile,omitempty"`
	DeveloperProfile   *DeveloperProfile          `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"developer_profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
