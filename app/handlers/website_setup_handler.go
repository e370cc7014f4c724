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
)

// WebsiteSetupHandlerInterface defines the contract for website setup handlers
type WebsiteSetupHandlerInterface interface {
	GetMine(c fiber.Ctx) error
	UpdateMine(c fiber.Ctx) error
}

// WebsiteSetupHandler handles website setup HTTP requests
type WebsiteSetupHandler struct {
	setupFlow businessflow.WebsiteSetupFlow
	validator *validator.Validate
}

func (h *WebsiteSetupHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *WebsiteSetupHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewWebsiteSetupHandler creates a new website setup handler
func NewWebsiteSetupHandler(setupFlow businessflow.WebsiteSetupFlow) *WebsiteSetupHandler {
	handler := &WebsiteSetupHandler{
		setupFlow: setupFlow,
		validator: validator.New(),
	}

	// Setup custom validations
	handler.setupCustomValidations()

	return handler
}

// GetMine returns the caller's website setup, creating the default record on first access
func (h *WebsiteSetupHandler) GetMine(c fiber.Ctx) error {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok || accountID == 0 {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	result, err := h.setupFlow.GetOrCreateSetup(h.createRequestContext(c, "/api/v1/website-setups/mine"), accountID)
	if err != nil {
		log.Println("Website setup lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load website setup", "SETUP_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Website setup loaded", fiber.Map{
		"website_setup": result,
	})
}

// UpdateMine applies a partial update to the caller's website setup
func (h *WebsiteSetupHandler) UpdateMine(c fiber.Ctx) error {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok || accountID == 0 {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	var req dto.UpdateWebsiteSetupRequest
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

	result, err := h.setupFlow.UpdateSetup(h.createRequestContext(c, "/api/v1/website-setups/mine"), accountID, &req)
	if err != nil {
		// Handle specific business errors
		if businessflow.IsSetupUpdateEmpty(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "No fields provided for update", "EMPTY_UPDATE", nil)
		}
		if businessflow.IsTemplateOutOfRange(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Template ID is out of range", "TEMPLATE_OUT_OF_RANGE", nil)
		}
		if businessflow.IsSubdomainTaken(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Subdomain is already taken", "SUBDOMAIN_TAKEN", nil)
		}

		log.Println("Website setup update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update website setup", "SETUP_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Website setup updated", fiber.Map{
		"website_setup": result,
	})
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *WebsiteSetupHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

// Custom validation setup
func (h *WebsiteSetupHandler) setupCustomValidations() {
	// Register custom validation for subdomain labels
	h.validator.RegisterValidation("subdomain_format", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return false
		}
		if value[0] == '-' || value[len(value)-1] == '-' {
			return false
		}
		for _, char := range value {
			if !((char >= 'a' && char <= 'z') || (char >= '0' && char <= '9') || char == '-') {
				return false
			}
		}
		return true
	})
}
