package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Domain errors
	ErrorTypeValidation        ErrorType = "VALIDATION"
	ErrorTypeNotFound          ErrorType = "NOT_FOUND"
	ErrorTypeConflict          ErrorType = "CONFLICT"
	ErrorTypeDanglingReference ErrorType = "DANGLING_REFERENCE"
	ErrorTypeStaleEdit         ErrorType = "STALE_EDIT"
	ErrorTypeDuplicateRule     ErrorType = "DUPLICATE_RULE"
	ErrorTypeInvalidEvent      ErrorType = "INVALID_EVENT"

	// Application errors
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeInternal     ErrorType = "INTERNAL"
	ErrorTypeRateLimit    ErrorType = "RATE_LIMIT"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// Constructor functions for common error types

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDanglingReferenceError creates an error for an edge whose endpoint is
// missing or rejected. The mutation that produced it must not leave a
// partial edge behind.
func NewDanglingReferenceError(nodeID string) *AppError {
	return &AppError{
		Type:       ErrorTypeDanglingReference,
		Message:    fmt.Sprintf("edge references missing or rejected node %s", nodeID),
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewStaleEditError creates an error for a user edit submitted against a
// node that has already moved past the edited version. Surfaced to the
// caller for manual reconciliation, never silently overwritten.
func NewStaleEditError(nodeID string, submitted, current int) *AppError {
	return &AppError{
		Type:       ErrorTypeStaleEdit,
		Message:    fmt.Sprintf("node %s was modified since version %d (now %d)", nodeID, submitted, current),
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicateRuleError creates an error for a suppression rule that already
// exists. Callers are expected to coalesce it rather than fail.
func NewDuplicateRuleError(ruleValue string) *AppError {
	return &AppError{
		Type:       ErrorTypeDuplicateRule,
		Message:    fmt.Sprintf("suppression rule for %q already exists", ruleValue),
		HTTPStatus: http.StatusOK,
	}
}

// NewInvalidEventError creates an error for a malformed timeline event
func NewInvalidEventError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidEvent,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(limit int, window string) *AppError {
	return &AppError{
		Type:       ErrorTypeRateLimit,
		Message:    fmt.Sprintf("rate limit exceeded: %d requests per %s", limit, window),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// Helper functions

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsDanglingReference checks if an error is a dangling reference error
func IsDanglingReference(err error) bool {
	return IsType(err, ErrorTypeDanglingReference)
}

// IsStaleEdit checks if an error is a stale edit error
func IsStaleEdit(err error) bool {
	return IsType(err, ErrorTypeStaleEdit)
}

// IsDuplicateRule checks if an error is a duplicate rule error
func IsDuplicateRule(err error) bool {
	return IsType(err, ErrorTypeDuplicateRule)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	return IsType(err, ErrorTypeConflict)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, add context to message
	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
