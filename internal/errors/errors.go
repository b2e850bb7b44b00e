// Package errors provides the error taxonomy of the inventory API.
// Service-layer failures are returned as *AppError so handlers can render a
// stable code and message without leaking store internals to clients.
package errors

import (
	"errors"
	"net/http"
	"strings"
)

// FieldError scopes a validation failure to a single schema field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"message"`
	Details    []FieldError `json:"details,omitempty"`
	StatusCode int          `json:"-"`
	Internal   error        `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Field+": "+d.Message)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Field returns the message recorded for field, or "" if none.
func (e *AppError) Field(field string) string {
	for _, d := range e.Details {
		if d.Field == field {
			return d.Message
		}
	}
	return ""
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Validation builds a VALIDATION_FAILED error carrying field-scoped details.
func Validation(details ...FieldError) *AppError {
	return &AppError{
		Code:       ErrValidation.Code,
		Message:    ErrValidation.Message,
		StatusCode: ErrValidation.StatusCode,
		Details:    details,
	}
}

// Envelope is the JSON body of every error response.
type Envelope struct {
	Error *AppError `json:"error"`
}

// Resolve maps err to what a client may see. Anything that is not an
// *AppError becomes ErrInternalServer and known is false.
func Resolve(err error) (appErr *AppError, known bool) {
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return ErrInternalServer, false
}

// Authentication & authorization errors.
var (
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrForbidden    = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Resource engine errors.
var (
	ErrUnknownResource   = &AppError{Code: "UNKNOWN_RESOURCE", Message: "Unknown resource", StatusCode: http.StatusNotFound}
	ErrRecordNotFound    = &AppError{Code: "RECORD_NOT_FOUND", Message: "Record not found", StatusCode: http.StatusNotFound}
	ErrValidation        = &AppError{Code: "VALIDATION_FAILED", Message: "Validation failed", StatusCode: http.StatusBadRequest}
	ErrFieldNotEditable  = &AppError{Code: "FIELD_NOT_EDITABLE", Message: "Field cannot be edited", StatusCode: http.StatusBadRequest}
	ErrOperationDisabled = &AppError{Code: "OPERATION_DISABLED", Message: "Operation is not allowed for this resource", StatusCode: http.StatusForbidden}
	ErrPersistence       = &AppError{Code: "PERSISTENCE_ERROR", Message: "The change could not be saved", StatusCode: http.StatusInternalServerError}
)

// Import errors.
var (
	ErrImportFailed = &AppError{Code: "IMPORT_FAILED", Message: "Import failed", StatusCode: http.StatusBadRequest}
)
