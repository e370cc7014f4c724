package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WebsiteSetup is the per-account website configuration record. The unique
// index on AccountID enforces the one-setup-per-account invariant; concurrent
// get-or-create attempts rely on it instead of application-level locking.
type WebsiteSetup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_website_setups_uuid" json:"uuid"`
	AccountID uint      `gorm:"not null;uniqueIndex:uk_website_setups_account_id" json:"account_id"`
	Account   Account   `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE" json:"account,omitempty"`

	// Hospital feature toggles
	ReviewSystem       bool `gorm:"default:false" json:"review_system"`
	AIChatbot          bool `gorm:"column:ai_chatbot;default:false" json:"ai_chatbot"`
	AmbulanceOrdering  bool `gorm:"default:false" json:"ambulance_ordering"`
	PatientPortal      bool `gorm:"default:false" json:"patient_portal"`
	PrescriptionRefill bool `gorm:"default:false" json:"prescription_refill"`

	// Pharmacy template selector
	TemplateID *int `gorm:"index:idx_website_setups_template_id" json:"template_id,omitempty"`

	// Payment state
	IsPaid     bool    `gorm:"default:false" json:"is_paid"`
	TotalPrice float64 `gorm:"type:numeric(10,2);default:0" json:"total_price"`

	// Assigned at signup from the email local part; setups reached through the
	// lazy path may carry no subdomain yet.
	Subdomain *string `gorm:"size:255;uniqueIndex:uk_website_setups_subdomain" json:"subdomain,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	BusinessInfo *BusinessInfo `gorm:"foreignKey:WebsiteSetupID" json:"business_info,omitempty"`
}

func (WebsiteSetup) TableName() string {
	return "website_setups"
}

// BeforeCreate ensures UUID is set
func (s *WebsiteSetup) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == uuid.Nil {
		s.UUID = uuid.New()
	}
	return nil
}

// WebsiteSetupFilter represents filter criteria for website setup queries
type WebsiteSetupFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	AccountID     *uint
	Subdomain     *string
	IsPaid        *bool
	TemplateID    *int
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
