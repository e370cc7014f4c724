package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/medify/medify-backend/utils"
)

// AccountSession records each issued token pair. Tokens are stateless JWTs;
// issuing a new session never invalidates prior ones.
type AccountSession struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;not null;index:idx_account_sessions_uuid" json:"uuid"`
	AccountID    uint      `gorm:"not null;index:idx_account_sessions_account_id" json:"account_id"`
	Account      Account   `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE" json:"account,omitempty"`
	SessionToken string    `gorm:"size:512;not null;uniqueIndex:idx_account_sessions_session_token" json:"-"` // Never serialize token
	RefreshToken *string   `gorm:"size:512;uniqueIndex:idx_account_sessions_refresh_token" json:"-"`          // Never serialize refresh token
	IPAddress    *string   `gorm:"type:inet;index:idx_account_sessions_ip_address" json:"ip_address,omitempty"`
	UserAgent    *string   `gorm:"type:text" json:"user_agent,omitempty"`
	IsActive     *bool     `gorm:"default:true;index:idx_account_sessions_is_active" json:"is_active"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	ExpiresAt    time.Time `gorm:"not null;index:idx_account_sessions_expires_at" json:"expires_at"`
}

func (AccountSession) TableName() string {
	return "account_sessions"
}

// AccountSessionFilter represents filter criteria for session queries
type AccountSessionFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	AccountID     *uint
	IsActive      *bool
	IPAddress     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	ExpiresAfter  *time.Time
	ExpiresBefore *time.Time
}

func (s *AccountSession) IsExpired() bool {
	return utils.IsExpired(s.ExpiresAt)
}

func (s *AccountSession) IsValid() bool {
	return utils.IsTrue(s.IsActive) && !s.IsExpired()
}
