// Package errors defines the structured error envelope the HTTP layer
// renders, and the mapping from core extraction errors onto it.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"eclcli/internal/deck"
	"eclcli/internal/inferdims"
)

// APIError represents a structured API error response.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details.
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios.
var (
	ErrInvalidRequest    = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrValidationFailed  = New(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed")
	ErrNotFound          = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")
	ErrInternalServer    = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)

// ErrValidation creates a validation error with field details.
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// InvalidRequestWithError creates an invalid request error with details.
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
}

// FromExtractionError maps a core extraction failure onto the API envelope.
// Deck-wide failures are unprocessable input, not server faults.
func FromExtractionError(err error) *APIError {
	var parseErr *deck.ParseError
	var countErr *deck.RecordCountError
	var sizeErr *deck.MissingSizeError
	var ambiguous *inferdims.AmbiguousDimensionError
	switch {
	case errors.As(err, &ambiguous):
		return NewWithDetails(http.StatusUnprocessableEntity, "AMBIGUOUS_DIMENSION", ambiguous.Error(),
			fmt.Sprintf("attempted candidates %d..%d", ambiguous.From, ambiguous.To))
	case errors.As(err, &parseErr), errors.As(err, &countErr), errors.As(err, &sizeErr):
		return NewWithDetails(http.StatusUnprocessableEntity, "DECK_PARSE_ERROR", "Deck could not be parsed", err.Error())
	}
	return NewWithDetails(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error", err.Error())
}
