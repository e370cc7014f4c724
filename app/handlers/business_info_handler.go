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

// BusinessInfoHandlerInterface defines the contract for business info handlers
type BusinessInfoHandlerInterface interface {
	GetMine(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	UpdateMine(c fiber.Ctx) error
	Publish(c fiber.Ctx) error
}

// BusinessInfoHandler handles business info HTTP requests
type BusinessInfoHandler struct {
	infoFlow  businessflow.BusinessInfoFlow
	validator *validator.Validate
}

func (h *BusinessInfoHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *BusinessInfoHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewBusinessInfoHandler creates a new business info handler
func NewBusinessInfoHandler(infoFlow businessflow.BusinessInfoFlow) *BusinessInfoHandler {
	handler := &BusinessInfoHandler{
		infoFlow:  infoFlow,
		validator: validator.New(),
	}

	// Setup custom validations
	handler.setupCustomValidations()

	return handler
}

// GetMine returns the caller's business profile, creating an empty draft on first access
func (h *BusinessInfoHandler) GetMine(c fiber.Ctx) error {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok || accountID == 0 {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	result, err := h.infoFlow.GetOrCreateBusinessInfo(h.createRequestContext(c, "/api/v1/business-info/mine"), accountID)
	if err != nil {
		log.Println("Business info lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load business info", "BUSINESS_INFO_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Business info loaded", fiber.Map{
		"business_info": result,
	})
}

// Create explicitly creates the caller's business profile
func (h *BusinessInfoHandler) Create(c fiber.Ctx) error {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok || accountID == 0 {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	var req dto.CreateBusinessInfoRequest
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

	result, err := h.infoFlow.CreateBusinessInfo(h.createRequestContext(c, "/api/v1/business-info/mine"), accountID, &req)
	if err != nil {
		// Handle specific business errors
		if businessflow.IsBusinessInfoAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Business info already exists. Use the update endpoint.", "BUSINESS_INFO_EXISTS", nil)
		}
		if businessflow.IsInvalidWorkingHours(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid working hours", "INVALID_WORKING_HOURS", nil)
		}
		if businessflow.IsInvalidCoordinates(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid coordinates", "INVALID_COORDINATES", nil)
		}

		log.Println("Business info creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create business info", "BUSINESS_INFO_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Business info created", fiber.Map{
		"business_info": result,
	})
}

// UpdateMine applies a partial update to the caller's business profile
func (h *BusinessInfoHandler) UpdateMine(c fiber.Ctx) error {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok || accountID == 0 {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	var req dto.UpdateBusinessInfoRequest
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

	result, err := h.infoFlow.UpdateBusinessInfo(h.createRequestContext(c, "/api/v1/business-info/mine"), accountID, &req)
	if err != nil {
		if businessflow.IsInvalidWorkingHours(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid working hours", "INVALID_WORKING_HOURS", nil)
		}
		if businessflow.IsInvalidCoordinates(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid coordinates", "INVALID_COORDINATES", nil)
		}

		log.Println("Business info update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update business info", "BUSINESS_INFO_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Business info updated", fiber.Map{
		"business_info": result,
	})
}

// Publish marks the caller's business profile as published
func (h *BusinessInfoHandler) Publish(c fiber.Ctx) error {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok || accountID == 0 {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	result, err := h.infoFlow.Publish(h.createRequestContext(c, "/api/v1/business-info/mine/publish"), accountID)
	if err != nil {
		log.Println("Business info publish failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to publish business info", "PUBLISH_FAILED", nil)
	}

	middleware.RecordPublish()

	return h.SuccessResponse(c, fiber.StatusOK, "Business info published", fiber.Map{
		"business_info": result,
	})
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *BusinessInfoHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

// Custom validation setup
func (h *BusinessInfoHandler) setupCustomValidations() {
	// Register custom validation for HH:MM times
	h.validator.RegisterValidation("time_of_day", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if len(value) != 5 || value[2] != ':' {
			return false
		}
		hh := (int(value[0]-'0') * 10) + int(value[1]-'0')
		mm := (int(value[3]-'0') * 10) + int(value[4]-'0')
		for _, i := range []int{0, 1, 3, 4} {
			if value[i] < '0' || value[i] > '9' {
				return false
			}
		}
		return hh >= 0 && hh <= 23 && mm >= 0 && mm <= 59
	})

	// Register custom validation for lowercase weekday keys
	h.validator.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday":
			return true
		}
		return false
	})
}
