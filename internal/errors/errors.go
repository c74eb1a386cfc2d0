package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when the email is unknown or the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateEntry matches any DuplicateEntryError via errors.Is.
	ErrDuplicateEntry = errors.New("duplicate entry")
	// ErrInternal hides unexpected failures from callers; details go to the server log.
	ErrInternal = errors.New("unexpected error, check server logs")
	// ErrValidation is returned when request input is malformed.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidToken is returned when a bearer token does not resolve to a user.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUserInactive is returned when the token owner has been deactivated.
	ErrUserInactive = errors.New("user is inactive, talk with an admin")
	// ErrForbidden is returned when the user lacks a required role.
	ErrForbidden = errors.New("user lacks a required role")
)

// DuplicateEntryError carries the detail reported by the database for a unique violation.
type DuplicateEntryError struct {
	Detail string
}

func (e *DuplicateEntryError) Error() string {
	if e.Detail == "" {
		return ErrDuplicateEntry.Error()
	}
	return e.Detail
}

// Is lets errors.Is(err, ErrDuplicateEntry) match.
func (e *DuplicateEntryError) Is(target error) bool {
	return target == ErrDuplicateEntry
}

// ValidationError wraps a message describing which input was rejected.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
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
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Anything unrecognized becomes a generic 500 so internal details never leak.
func MapErrorToHTTP(err error) *HTTPError {
	var dup *DuplicateEntryError
	var invalid *ValidationError

	switch {
	case errors.As(err, &dup):
		return NewHTTPError(http.StatusBadRequest, dup.Error(), "DUPLICATE_ENTRY")
	case errors.As(err, &invalid):
		return NewHTTPError(http.StatusBadRequest, invalid.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidToken.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrUserInactive):
		return NewHTTPError(http.StatusUnauthorized, ErrUserInactive.Error(), "USER_INACTIVE")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, ErrInternal.Error(), "INTERNAL_ERROR")
	}
}
