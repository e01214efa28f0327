// Package apperror defines a centralized system for application-specific errors.
// Every layer (stores, services, middleware) returns *AppError values so that the
// HTTP layer can translate them into status codes and a uniform JSON body.
// It's similar in concept to Nest.js's Exception Filters.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType is an enumeration (using `iota`) for different categories of application errors.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the database
	DatabaseError
	// ConfigError represents an error related to application configuration
	ConfigError
	// AuthError represents an authentication error (missing/invalid/expired token, bad credentials)
	AuthError
	// NotFoundError represents a resource not found error
	NotFoundError
	// ValidationError represents an input validation error
	ValidationError
	// BadRequestError represents a generic bad request
	BadRequestError
	// InternalError represents a generic internal server error
	InternalError
	// MigrationError represents an error during database migrations
	MigrationError
	// ConflictError represents a conflict, e.g., an email that is already registered
	ConflictError
)

// String makes error types readable in logs.
func (t ErrorType) String() string {
	switch t {
	case DatabaseError:
		return "database"
	case ConfigError:
		return "config"
	case AuthError:
		return "auth"
	case NotFoundError:
		return "not_found"
	case ValidationError:
		return "validation"
	case BadRequestError:
		return "bad_request"
	case InternalError:
		return "internal"
	case MigrationError:
		return "migration"
	case ConflictError:
		return "conflict"
	default:
		return "unknown"
	}
}

// AppError is a custom error type for the application.
// It allows wrapping an underlying error (`Err`) for debugging while only
// `Message` is ever shown to API clients.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error // Underlying error
}

// Error returns the string representation of the error, satisfying the `error` interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error, so `errors.Is` and `errors.As` can inspect the chain.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type
func (e *AppError) StatusCode() int {
	switch e.Type {
	case AuthError:
		return http.StatusUnauthorized
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError, BadRequestError:
		return http.StatusBadRequest
	case ConflictError:
		// Registration clients expect 400 for an email that is already taken.
		return http.StatusBadRequest
	case DatabaseError, ConfigError, InternalError, MigrationError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new AppError. This is a generic constructor.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewAuthError creates a new AuthError (for authentication issues)
func NewAuthError(message string, underlyingError error) *AppError {
	return NewAppError(AuthError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewValidationError creates a new ValidationError
func NewValidationError(message string, underlyingError error) *AppError {
	return NewAppError(ValidationError, message, underlyingError)
}

// NewBadRequestError creates a new BadRequestError
func NewBadRequestError(message string, underlyingError error) *AppError {
	return NewAppError(BadRequestError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// NewMigrationError creates a new MigrationError
func NewMigrationError(message string, underlyingError error) *AppError {
	return NewAppError(MigrationError, message, underlyingError)
}

// NewConflictError creates a new ConflictError
func NewConflictError(message string, underlyingError error) *AppError {
	return NewAppError(ConflictError, message, underlyingError)
}

// ErrorResponse represents a generic error response payload for API clients.
type ErrorResponse struct {
	Error string `json:"error" example:"A description of the error"`
}

// ToResponse converts an AppError to an ErrorResponse suitable for API responses.
// Only the user-facing `Message` is included, never the underlying `Err`.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

// FromError attempts to convert a generic error to an *AppError, looking
// through wrapped errors. It returns the *AppError and true if successful.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Is reports whether err (or anything it wraps) is an *AppError of the given type.
func Is(err error, errType ErrorType) bool {
	ae, ok := FromError(err)
	return ok && ae.Type == errType
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	return Is(err, NotFoundError)
}

// IsAuthError checks if an error is an AuthError (authentication problem)
func IsAuthError(err error) bool {
	return Is(err, AuthError)
}

// IsValidationError checks if an error is a Validation error
func IsValidationError(err error) bool {
	return Is(err, ValidationError)
}

// IsConflictError checks if an error is a Conflict error
func IsConflictError(err error) bool {
	return Is(err, ConflictError)
}
