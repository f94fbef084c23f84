package errors

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized is returned when credentials are missing, malformed or wrong.
	ErrUnauthorized = errors.New("invalid credentials")
	// ErrConflict is returned when registering a username that already exists.
	ErrConflict = errors.New("username already exists")
	// ErrNotFound is returned when an expense identifier does not exist.
	ErrNotFound = errors.New("expense not found")
	// ErrAccountNotFound is returned by credential lookups for unknown usernames.
	// It never reaches a client; authentication turns it into ErrUnauthorized.
	ErrAccountNotFound = errors.New("account not found")
	// ErrUnavailable is returned when the store cannot serve the request in time.
	ErrUnavailable = errors.New("service temporarily unavailable")
)

// Violation is a single failed field check.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violation found in one payload.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Is makes errors.Is(err, ErrValidation) hold for validation errors.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError from violations.
func NewValidationError(violations ...Violation) *ValidationError {
	return &ValidationError{Violations: violations}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Path    string      `json:"path,omitempty"`
	Details []Violation `json:"details,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    []Violation
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Code:    e.Code,
		Details: e.Details,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognised is
// an internal error with its detail suppressed.
func MapErrorToHTTP(err error) *HTTPError {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		httpErr := NewHTTPError(http.StatusBadRequest, "Validation failed", "VALIDATION_FAILED")
		httpErr.Details = verr.Violations
		return httpErr
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, "Invalid credentials", "UNAUTHORIZED")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, "Username already exists", "USERNAME_TAKEN")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "Expense not found", "EXPENSE_NOT_FOUND")
	case errors.Is(err, ErrUnavailable):
		return NewHTTPError(http.StatusServiceUnavailable, "Service temporarily unavailable", "UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
	}
}
