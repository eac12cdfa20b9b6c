package errors

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Kind classifies an application error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindConflict
)

// AppError is an error that carries a client-safe message and its kind.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
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

// Validation reports malformed, missing or out-of-range input.
func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// Auth reports a missing, invalid or expired credential.
func Auth(message string) *AppError {
	return &AppError{Kind: KindAuth, Message: message}
}

// NotFound reports a referenced resource that does not exist.
func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// Conflict reports a uniqueness violation.
func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Detail  string `json:"detail,omitempty"`
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
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain and storage errors to HTTP errors.
// Anything unrecognised becomes a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case KindValidation:
			return NewHTTPError(http.StatusBadRequest, appErr.Message, "VALIDATION_ERROR")
		case KindAuth:
			return NewHTTPError(http.StatusUnauthorized, appErr.Message, "UNAUTHORIZED")
		case KindNotFound:
			return NewHTTPError(http.StatusNotFound, appErr.Message, "NOT_FOUND")
		case KindConflict:
			return NewHTTPError(http.StatusConflict, appErr.Message, "CONFLICT")
		}
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NewHTTPError(http.StatusNotFound, "Resource not found", "NOT_FOUND")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return NewHTTPError(http.StatusConflict, "Duplicate resource", "CONFLICT")
	default:
		return NewHTTPError(http.StatusInternalServerError, "Server error", "INTERNAL_ERROR")
	}
}
