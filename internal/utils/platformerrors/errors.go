// Package platformerrors defines the typed error model shared by the HTTP
// boundary of the backend server.
package platformerrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// ErrorType classifies a platform error for HTTP status mapping.
type ErrorType int

const (
	ErrorTypeInternal ErrorType = iota
	ErrorTypeValidation
	ErrorTypeNotFound
	ErrorTypeConflict
	ErrorTypeUnauthorized
	ErrorTypeForbidden
	ErrorTypeTimeout
	ErrorTypeExternal
)

// PlatformError carries a typed, loggable error across layer boundaries.
type PlatformError struct {
	Type      ErrorType
	Message   string
	RequestID string
	Err       error
}

func (e *PlatformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// New creates a PlatformError without a cause.
func New(t ErrorType, message string) *PlatformError {
	return &PlatformError{Type: t, Message: message}
}

// Wrap creates a PlatformError around an underlying cause.
func Wrap(t ErrorType, message string, err error) *PlatformError {
	return &PlatformError{Type: t, Message: message, Err: err}
}

// GetPlatformError extracts a PlatformError from an error chain, or nil.
func GetPlatformError(err error) *PlatformError {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe
	}
	return nil
}

// ErrorTypeToHTTPStatus maps an error type to its HTTP status code.
func ErrorTypeToHTTPStatus(t ErrorType) int {
	switch t {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeForbidden:
		return http.StatusForbidden
	case ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	case ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// LogError writes a platform error at a severity matching its type.
func LogError(log zerolog.Logger, err *PlatformError) {
	event := log.Error()
	switch err.Type {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeUnauthorized, ErrorTypeForbidden:
		event = log.Warn()
	}
	event.
		Err(err.Err).
		Str("error_type", typeToString(err.Type)).
		Str("request_id", err.RequestID).
		Msg(err.Message)
}

// typeToString converts an ErrorType to the snake_case string used in API
// responses and logs.
func typeToString(t ErrorType) string {
	switch t {
	case ErrorTypeValidation:
		return "validation_error"
	case ErrorTypeNotFound:
		return "not_found_error"
	case ErrorTypeConflict:
		return "conflict_error"
	case ErrorTypeUnauthorized:
		return "unauthorized_error"
	case ErrorTypeForbidden:
		return "forbidden_error"
	case ErrorTypeTimeout:
		return "timeout_error"
	case ErrorTypeExternal:
		return "external_error"
	default:
		return "internal_error"
	}
}
