// Package dto contains Data Transfer Objects for API request and response structures
package dto

// UpdateWebsiteSetupRequest represents a partial update of a website setup.
// Nil fields are left untouched.
type UpdateWebsiteSetupRequest struct {
	ReviewSystem       *bool    `json:"review_system,omitempty" validate:"omitempty"`
	AIChatbot          *bool    `json:"ai_chatbot,omitempty" validate:"omitempty"`
	AmbulanceOrdering  *bool    `json:"ambulance_ordering,omitempty" validate:"omitempty"`
	PatientPortal      *bool    `json:"patient_portal,omitempty" validate:"omitempty"`
	PrescriptionRefill *bool    `json:"prescription_refill,omitempty" validate:"omitempty"`
	TemplateID         *int     `json:"template_id,omitempty" validate:"omitempty,min=0"`
	IsPaid             *bool    `json:"is_paid,omitempty" validate:"omitempty"`
	TotalPrice         *float64 `json:"total_price,omitempty" validate:"omitempty,min=0"`
	Subdomain          *string  `json:"subdomain,omitempty" validate:"omitempty,min=1,max=63,subdomain_format"`
}

// WebsiteSetupDTO represents website setup data for API responses
type WebsiteSetupDTO struct {
	ID                 uint    `json:"id"`
	UUID               string  `json:"uuid"`
	AccountID          uint    `json:"account_id"`
	ReviewSystem       bool    `json:"review_system"`
	AIChatbot          bool    `json:"ai_chatbot"`
	AmbulanceOrdering  bool    `json:"ambulance_ordering"`
	PatientPortal      bool    `json:"patient_portal"`
	PrescriptionRefill bool    `json:"prescription_refill"`
	TemplateID         *int    `json:"template_id"`
	IsPaid             bool    `json:"is_paid"`
	TotalPrice         float64 `json:"total_price"`
	Subdomain          *string `json:"subdomain"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}
