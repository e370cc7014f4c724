// Package dto contains Data Transfer Objects for API request and response structures
package dto

// DayScheduleDTO represents one weekday entry in a working-hours map
type DayScheduleDTO struct {
	Open   string `json:"open,omitempty" validate:"omitempty,time_of_day"`
	Close  string `json:"close,omitempty" validate:"omitempty,time_of_day"`
	Closed bool   `json:"closed"`
}

// CreateBusinessInfoRequest represents the single-shot creation payload for a
// business profile. Creation fails if a record already exists for the setup.
type CreateBusinessInfoRequest struct {
	Name         string                    `json:"name" validate:"omitempty,max=255"`
	About        string                    `json:"about" validate:"omitempty,max=5000"`
	Address      string                    `json:"address" validate:"omitempty,max=500"`
	Latitude     *float64                  `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude    *float64                  `json:"longitude,omitempty" validate:"omitempty,longitude"`
	ContactPhone string                    `json:"contact_phone" validate:"omitempty,max=32"`
	ContactEmail string                    `json:"contact_email" validate:"omitempty,email,max=255"`
	Website      string                    `json:"website" validate:"omitempty,url,max=255"`
	WorkingHours map[string]DayScheduleDTO `json:"working_hours,omitempty" validate:"omitempty,dive,keys,weekday,endkeys"`
}

// UpdateBusinessInfoRequest represents a partial update of a business profile.
// Nil fields are left untouched.
type UpdateBusinessInfoRequest struct {
	Name         *string                   `json:"name,omitempty" validate:"omitempty,max=255"`
	About        *string                   `json:"about,omitempty" validate:"omitempty,max=5000"`
	Address      *string                   `json:"address,omitempty" validate:"omitempty,max=500"`
	Latitude     *float64                  `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude    *float64                  `json:"longitude,omitempty" validate:"omitempty,longitude"`
	ContactPhone *string                   `json:"contact_phone,omitempty" validate:"omitempty,max=32"`
	ContactEmail *string                   `json:"contact_email,omitempty" validate:"omitempty,email,max=255"`
	Website      *string                   `json:"website,omitempty" validate:"omitempty,url,max=255"`
	WorkingHours map[string]DayScheduleDTO `json:"working_hours,omitempty" validate:"omitempty,dive,keys,weekday,endkeys"`
}

// BusinessInfoDTO represents business profile data for API responses
type BusinessInfoDTO struct {
	ID             uint                      `json:"id"`
	UUID           string                    `json:"uuid"`
	WebsiteSetupID uint                      `json:"website_setup_id"`
	Name           string                    `json:"name"`
	About          string                    `json:"about"`
	Address        string                    `json:"address"`
	Latitude       *float64                  `json:"latitude"`
	Longitude      *float64                  `json:"longitude"`
	ContactPhone   string                    `json:"contact_phone"`
	ContactEmail   string                    `json:"contact_email"`
	Website        string                    `json:"website"`
	WorkingHours   map[string]DayScheduleDTO `json:"working_hours"`
	IsPublished    bool                      `json:"is_published"`
	CreatedAt      string                    `json:"created_at"`
	UpdatedAt      string                    `json:"updated_at"`
}
