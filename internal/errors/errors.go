package errors

import "fmt"

// Error codes
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeSessionClosed = "SESSION_CLOSED"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeStorage       = "STORAGE_ERROR"
	ErrCodeInternal      = "INTERNAL_ERROR"
	ErrCodeBadRequest    = "BAD_REQUEST"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewAlreadyExistsError creates a new ALREADY_EXISTS error
func NewAlreadyExistsError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeAlreadyExists,
		Message: fmt.Sprintf("%s already exists: %v", resource, id),
		Status:  409,
	}
}

// NewSessionClosedError creates a new SESSION_CLOSED error
func NewSessionClosedError(sessionID string) *AppError {
	return &AppError{
		Code:    ErrCodeSessionClosed,
		Message: fmt.Sprintf("session is completed and cannot accept reviews: %s", sessionID),
		Status:  409,
	}
}

// NewConflictError creates a new CONFLICT error for a concurrent update.
// This is the one condition where callers are expected to retry.
func NewConflictError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: fmt.Sprintf("concurrent update detected on %s: %v", resource, id),
		Status:  409,
	}
}

// NewStorageError wraps a failure from the persistence collaborator
func NewStorageError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeStorage,
		Message: "storage operation failed",
		Status:  500,
		Err:     err,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}
