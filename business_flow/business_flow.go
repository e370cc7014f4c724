// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/medify/medify-backend/app/dto"
	"github.com/medify/medify-backend/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for session tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToAuthAccountDTO converts an account model to AuthAccountDTO for authentication responses
func ToAuthAccountDTO(account models.Account) dto.AuthAccountDTO {
	d := dto.AuthAccountDTO{
		ID:        account.ID,
		UUID:      account.UUID.String(),
		Email:     account.Email,
		Name:      account.Name,
		Category:  account.BusinessType,
		IsActive:  account.IsActive,
		CreatedAt: account.CreatedAt.Format(time.RFC3339),
	}

	if account.LastLoginAt != nil {
		d.LastLoginAt = account.LastLoginAt.Format(time.RFC3339)
	}

	return d
}

func ToSessionDTO(session models.AccountSession) dto.SessionDTO {
	return dto.SessionDTO{
		SessionToken: session.SessionToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    int(time.Until(session.ExpiresAt).Seconds()),
		TokenType:    "Bearer",
		CreatedAt:    session.CreatedAt.Format(time.RFC3339),
	}
}

// ToWebsiteSetupDTO converts a website setup model to its API representation
func ToWebsiteSetupDTO(setup models.WebsiteSetup) dto.WebsiteSetupDTO {
	return dto.WebsiteSetupDTO{
		ID:                 setup.ID,
		UUID:               setup.UUID.String(),
		AccountID:          setup.AccountID,
		ReviewSystem:       setup.ReviewSystem,
		AIChatbot:          setup.AIChatbot,
		AmbulanceOrdering:  setup.AmbulanceOrdering,
		PatientPortal:      setup.PatientPortal,
		PrescriptionRefill: setup.PrescriptionRefill,
		TemplateID:         setup.TemplateID,
		IsPaid:             setup.IsPaid,
		TotalPrice:         setup.TotalPrice,
		Subdomain:          setup.Subdomain,
		CreatedAt:          setup.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          setup.UpdatedAt.Format(time.RFC3339),
	}
}

// ToBusinessInfoDTO converts a business info model to its API representation
func ToBusinessInfoDTO(info models.BusinessInfo) dto.BusinessInfoDTO {
	return dto.BusinessInfoDTO{
		ID:             info.ID,
		UUID:           info.UUID.String(),
		WebsiteSetupID: info.WebsiteSetupID,
		Name:           info.Name,
		About:          info.About,
		Address:        info.Address,
		Latitude:       info.Latitude,
		Longitude:      info.Longitude,
		ContactPhone:   info.ContactPhone,
		ContactEmail:   info.ContactEmail,
		Website:        info.Website,
		WorkingHours:   ToWorkingHoursDTO(info.WorkingHours),
		IsPublished:    info.IsPublished,
		CreatedAt:      info.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      info.UpdatedAt.Format(time.RFC3339),
	}
}

// ToWorkingHoursDTO converts a stored working-hours map to its API representation
func ToWorkingHoursDTO(hours models.WorkingHoursMap) map[string]dto.DayScheduleDTO {
	out := make(map[string]dto.DayScheduleDTO, len(hours))
	for day, schedule := range hours {
		out[day] = dto.DayScheduleDTO{
			Open:   schedule.Open,
			Close:  schedule.Close,
			Closed: schedule.Closed,
		}
	}
	return out
}

// ToWorkingHoursModel converts an API working-hours map to its stored form
func ToWorkingHoursModel(hours map[string]dto.DayScheduleDTO) models.WorkingHoursMap {
	out := make(models.WorkingHoursMap, len(hours))
	for day, schedule := range hours {
		out[day] = models.DaySchedule{
			Open:   schedule.Open,
			Close:  schedule.Close,
			Closed: schedule.Closed,
		}
	}
	return out
}
