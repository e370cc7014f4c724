package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DaySchedule is one weekday entry of the working-hours map.
type DaySchedule struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// WorkingHoursMap maps a lowercase weekday name ("monday"...) to its schedule.
type WorkingHoursMap map[string]DaySchedule

// BusinessInfo carries the public business profile attached to a website
// setup. The unique index on WebsiteSetupID enforces at most one profile per
// setup; rows are created lazily on first read or write.
type BusinessInfo struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	UUID           uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:uk_business_info_uuid" json:"uuid"`
	WebsiteSetupID uint         `gorm:"not null;uniqueIndex:uk_business_info_website_setup_id" json:"website_setup_id"`
	WebsiteSetup   WebsiteSetup `gorm:"foreignKey:WebsiteSetupID;references:ID;constraint:OnDelete:CASCADE" json:"website_setup,omitempty"`

	Name    string `gorm:"size:255;not null;default:''" json:"name"`
	About   string `gorm:"type:text;not null;default:''" json:"about"`
	Address string `gorm:"type:text;not null;default:''" json:"address"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	ContactPhone string `gorm:"size:32;not null;default:''" json:"contact_phone"`
	ContactEmail string `gorm:"size:255;not null;default:''" json:"contact_email"`
	Website      string `gorm:"size:255;not null;default:''" json:"website"`

	WorkingHours WorkingHoursMap `gorm:"type:jsonb;serializer:json;not null;default:'{}'" json:"working_hours"`

	// Publish is an explicit transition, never implied by field updates.
	IsPublished bool `gorm:"default:false;index:idx_business_info_is_published" json:"is_published"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (BusinessInfo) TableName() string {
	return "business_info"
}

// BeforeCreate ensures UUID and the hours map are set
func (b *BusinessInfo) BeforeCreate(tx *gorm.DB) error {
	if b.UUID == uuid.Nil {
		b.UUID = uuid.New()
	}
	if b.WorkingHours == nil {
		b.WorkingHours = WorkingHoursMap{}
	}
	return nil
}

// BusinessInfoFilter represents filter criteria for business info queries
type BusinessInfoFilter struct {
	ID             *uint
	UUID           *uuid.UUID
	WebsiteSetupID *uint
	IsPublished    *bool
	CreatedAfter   *time.Time
	CreatedBefore  *time.Time
}
