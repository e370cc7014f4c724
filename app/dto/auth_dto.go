// Package dto contains Data Transfer Objects for API request and response structures
package dto

// SignupRequest represents the signup form data
type SignupRequest struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=8,password_strength"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Name            string `json:"name" validate:"required,max=255"`
	Category        string `json:"category" validate:"required,oneof=hospital pharmacy"`
}

// SignupResponse represents the response after successful signup
type SignupResponse struct {
	Message        string         `json:"message"`
	Account        AuthAccountDTO `json:"account"`
	Session        SessionDTO     `json:"session"`
	WebsiteSetupID uint           `json:"website_setup_id"`
}

// LoginRequest represents the login credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the response after successful authentication
type LoginResponse struct {
	Account AuthAccountDTO `json:"account"`
	Session SessionDTO     `json:"session"`
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse represents the response after a successful token refresh
type RefreshTokenResponse struct {
	Session SessionDTO `json:"session"`
}

// AuthAccountDTO represents account data for authentication responses
type AuthAccountDTO struct {
	ID          uint   `json:"id"`
	UUID        string `json:"uuid"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	IsActive    *bool  `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	LastLoginAt string `json:"last_login_at,omitempty"`
}

// SessionDTO represents an issued token pair for API responses
type SessionDTO struct {
	SessionToken string  `json:"session_token"`
	RefreshToken *string `json:"refresh_token"`
	ExpiresIn    int     `json:"expires_in"`
	TokenType    string  `json:"token_type"`
	CreatedAt    string  `json:"created_at"`
}
