package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Error codes returned in the "code" field of error responses.
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	ErrCodeUpstream            = "UPSTREAM_ERROR"
	ErrCodeUnconfigured        = "UNCONFIGURED"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
	// HTTPStatus carries a status for errors that map to a specific code,
	// e.g. upstream provider failures. Zero means "use the handler's choice".
	HTTPStatus int
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
	}
}

func NewInsufficientCreditsError() *AppError {
	return &AppError{
		Code:    ErrCodeInsufficientCredits,
		Message: "Insufficient credits",
	}
}

// NewUpstreamError wraps a provider-side failure. The status is the
// provider's HTTP status when known, otherwise 500.
func NewUpstreamError(status int, message string) *AppError {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	return &AppError{
		Code:       ErrCodeUpstream,
		Message:    message,
		HTTPStatus: status,
	}
}

func NewUnconfiguredError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnconfigured,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		if appErr.HTTPStatus != 0 {
			status = appErr.HTTPStatus
		}
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
