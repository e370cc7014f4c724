// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/medify/medify-backend/app/dto"
	"github.com/medify/medify-backend/app/middleware"
	businessflow "github.com/medify/medify-backend/business_flow"
	"github.com/medify/medify-backend/utils"
)

// AuthHandlerInterface defines the contract for authentication handlers
type AuthHandlerInterface interface {
	Signup(c fiber.Ctx) error
	Login(c fiber.Ctx) error
	Refresh(c fiber.Ctx) error
	Me(c fiber.Ctx) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	signupFlow businessflow.SignupFlow
	loginFlow  businessflow.LoginFlow
	validator  *validator.Validate
}

func (h *AuthHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AuthHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(signupFlow businessflow.SignupFlow, loginFlow businessflow.LoginFlow) *AuthHandler {
	handler := &AuthHandler{
		signupFlow: signupFlow,
		loginFlow:  loginFlow,
		validator:  validator.New(),
	}

	// Setup custom validations
	handler.setupCustomValidations()

	return handler
}

// Signup handles the account registration process
func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	// Get client information
	ipAddress := c.IP()
	userAgent := c.Get("User-Agent")
	metadata := businessflow.NewClientMetadata(ipAddress, userAgent)

	// Call business logic with proper context
	result, err := h.signupFlow.Signup(h.createRequestContext(c, "/api/v1/auth/signup"), &req, metadata)
	if err != nil {
		// Handle specific business errors
		if businessflow.IsEmailAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Email already exists", "EMAIL_EXISTS", nil)
		}
		if businessflow.IsInvalidBusinessType(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid business category", "INVALID_CATEGORY", nil)
		}
		if businessflow.IsPasswordMismatch(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Password confirmation does not match", "PASSWORD_MISMATCH", nil)
		}

		log.Println("Signup failed", err)
		// Handle generic business errors
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Signup failed", "SIGNUP_FAILED", nil)
	}

	middleware.RecordSignup(result.Account.Category)

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, fiber.Map{
		"account":          result.Account,
		"access_token":     result.Session.SessionToken,
		"refresh_token":    result.Session.RefreshToken,
		"token_type":       "Bearer",
		"expires_in":       utils.AccessTokenTTLSeconds,
		"website_setup_id": result.WebsiteSetupID,
	})
}

// Login handles account authentication
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	// Get client information
	ipAddress := c.IP()
	userAgent := c.Get("User-Agent")
	metadata := businessflow.NewClientMetadata(ipAddress, userAgent)

	// Call business logic with proper context
	result, err := h.loginFlow.Login(h.createRequestContext(c, "/api/v1/auth/login"), &req, metadata)
	if err != nil {
		// A missing account and a wrong password answer identically so the
		// response never reveals whether the email exists
		if businessflow.IsAccountNotFound(err) || businessflow.IsIncorrectPassword(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid email or password", "INVALID_CREDENTIALS", nil)
		}
		if businessflow.IsAccountInactive(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account is inactive", "ACCOUNT_INACTIVE", nil)
		}

		log.Println("Login failed", err)
		// Handle generic business errors
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	// Successful login - return tokens and account info
	return h.SuccessResponse(c, fiber.StatusOK, "Login successful", fiber.Map{
		"access_token":  result.Session.SessionToken,
		"refresh_token": result.Session.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    utils.AccessTokenTTLSeconds,
		"account":       result.Account,
	})
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	// Get client information
	ipAddress := c.IP()
	userAgent := c.Get("User-Agent")
	metadata := businessflow.NewClientMetadata(ipAddress, userAgent)

	result, err := h.loginFlow.RefreshTokens(h.createRequestContext(c, "/api/v1/auth/refresh"), &req, metadata)
	if err != nil {
		if businessflow.IsInvalidRefreshToken(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid refresh token", "INVALID_REFRESH_TOKEN", nil)
		}
		if businessflow.IsAccountNotFound(err) || businessflow.IsAccountInactive(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid refresh token", "INVALID_REFRESH_TOKEN", nil)
		}

		log.Println("Token refresh failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Token refresh failed", "REFRESH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Token refreshed", fiber.Map{
		"access_token":  result.Session.SessionToken,
		"refresh_token": result.Session.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    utils.AccessTokenTTLSeconds,
	})
}

// Me returns the authenticated caller's account
func (h *AuthHandler) Me(c fiber.Ctx) error {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok || accountID == 0 {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	result, err := h.loginFlow.CurrentAccount(h.createRequestContext(c, "/api/v1/auth/me"), accountID)
	if err != nil {
		if businessflow.IsAccountNotFound(err) || businessflow.IsAccountInactive(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid access token", "TOKEN_INVALID", nil)
		}

		log.Println("Current account lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load account", "CURRENT_ACCOUNT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Account loaded", fiber.Map{
		"account": result,
	})
}

// Health handles health check requests
func (h *AuthHandler) Health(c fiber.Ctx) error {
	return h.SuccessResponse(c, fiber.StatusOK, "Auth service is healthy", fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "auth-handler",
	})
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *AuthHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

// Custom validation setup
func (h *AuthHandler) setupCustomValidations() {
	// Register custom validation for password strength
	h.validator.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()

		hasUpper := false
		hasNumber := false

		for _, char := range value {
			if char >= 'A' && char <= 'Z' {
				hasUpper = true
			}
			if char >= '0' && char <= '9' {
				hasNumber = true
			}
		}

		return hasUpper && hasNumber
	})
}
