// Package models contains domain entities and business models for the website configuration backend
package models

import (
	"time"

	"github.com/google/uuid"
)

// Business type constants
const (
	BusinessTypeHospital = "hospital"
	BusinessTypePharmacy = "pharmacy"
)

type Account struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_accounts_uuid" json:"uuid"`

	// Email doubles as the login handle
	Email        string `gorm:"size:255;not null;uniqueIndex:idx_accounts_email" json:"email"`
	Name         string `gorm:"size:255;not null" json:"name"`
	BusinessType string `gorm:"size:20;not null;index:idx_accounts_business_type" json:"business_type"`
	PasswordHash string `gorm:"size:255;not null" json:"-"` // Never serialize password hash

	IsActive *bool `gorm:"default:true;index:idx_accounts_is_active" json:"is_active"`

	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_accounts_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `gorm:"index:idx_accounts_last_login_at" json:"last_login_at,omitempty"`

	// Relations
	WebsiteSetup *WebsiteSetup    `gorm:"foreignKey:AccountID" json:"website_setup,omitempty"`
	Sessions     []AccountSession `gorm:"foreignKey:AccountID" json:"-"`
}

func (Account) TableName() string {
	return "accounts"
}

// AccountFilter represents filter criteria for account queries
type AccountFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Email         *string
	BusinessType  *string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *Account) IsHospital() bool {
	return a.BusinessType == BusinessTypeHospital
}

func (a *Account) IsPharmacy() bool {
	return a.BusinessType == BusinessTypePharmacy
}

// ValidBusinessType reports whether t is a member of the business type enumeration.
func ValidBusinessType(t string) bool {
	return t == BusinessTypeHospital || t == BusinessTypePharmacy
}
