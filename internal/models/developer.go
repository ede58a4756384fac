package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeveloperProfile is the profile variant for account_type "developer".
type DeveloperProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	DeveloperName string `gorm:"size:255" json:"developer_name"`
	Address       string `json:"address"`
	CompanyName   string `gorm:"size:255" json:"company_name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *DeveloperProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *DeveloperProfile) OwnerID() uuid.UUID { return p.UserID }

func (p *DeveloperProfile) TypeLabel() string { return "Developer Profile" }
