// Package errors provides custom error types for the ProTrack API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

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

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrConflict       = &AppError{Code: "CONFLICT", Message: "The record was modified by another request", StatusCode: http.StatusConflict}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Client errors.
var (
	ErrClientNotFound      = &AppError{Code: "CLIENT_NOT_FOUND", Message: "Client not found", StatusCode: http.StatusNotFound}
	ErrDuplicateClientName = &AppError{Code: "DUPLICATE_CLIENT_NAME", Message: "A client with this name already exists", StatusCode: http.StatusConflict}
	ErrClientNotBillable   = &AppError{Code: "INVALID_CLIENT", Message: "Selected client is not valid", StatusCode: http.StatusBadRequest}
)

// Project errors.
var (
	ErrProjectNotFound       = &AppError{Code: "PROJECT_NOT_FOUND", Message: "Project not found", StatusCode: http.StatusNotFound}
	ErrDuplicateProjectTitle = &AppError{Code: "DUPLICATE_PROJECT_TITLE", Message: "A project with this title already exists", StatusCode: http.StatusConflict}
	ErrProjectHasTimeEntries = &AppError{Code: "PROJECT_HAS_TIME_ENTRIES", Message: "Project has logged time entries and cannot be deleted", StatusCode: http.StatusConflict}
)

// Time entry errors.
var (
	ErrTimeEntryNotFound = &AppError{Code: "TIME_ENTRY_NOT_FOUND", Message: "Time entry not found", StatusCode: http.StatusNotFound}
	ErrInvalidTimeRange  = &AppError{Code: "INVALID_TIME_RANGE", Message: "End time must be after start time", StatusCode: http.StatusBadRequest}
)

// Invoice errors.
var (
	ErrInvoiceNotFound        = &AppError{Code: "INVOICE_NOT_FOUND", Message: "Invoice not found", StatusCode: http.StatusNotFound}
	ErrDuplicateInvoiceNumber = &AppError{Code: "DUPLICATE_INVOICE_NUMBER", Message: "An invoice with this number already exists", StatusCode: http.StatusConflict}
	ErrNoUnbilledTimeEntries  = &AppError{Code: "NO_UNBILLED_TIME_ENTRIES", Message: "No unbilled time entries found for the selected criteria", StatusCode: http.StatusNotFound}
	ErrInvoiceNumberExhausted = &AppError{Code: "INVOICE_NUMBER_EXHAUSTED", Message: "Could not allocate a unique invoice number", StatusCode: http.StatusConflict}
)

// Assistant errors. Failures of the text-generation assistant never fail
// the parent operation; they surface on the assistant endpoints only.
var (
	ErrAssistantDisabled      = &AppError{Code: "ASSISTANT_DISABLED", Message: "AI assistance is disabled. Ask your administrator to enable it in configuration", StatusCode: http.StatusServiceUnavailable}
	ErrAssistantNotConfigured = &AppError{Code: "ASSISTANT_NOT_CONFIGURED", Message: "AI assistance is not fully configured. Please provide an API key", StatusCode: http.StatusServiceUnavailable}
	ErrAssistantProvider      = &AppError{Code: "ASSISTANT_PROVIDER_ERROR", Message: "The AI provider returned an error while generating text", StatusCode: http.StatusBadGateway}
	ErrAssistantEmptyResponse = &AppError{Code: "ASSISTANT_EMPTY_RESPONSE", Message: "The AI provider returned an empty response", StatusCode: http.StatusBadGateway}
)
