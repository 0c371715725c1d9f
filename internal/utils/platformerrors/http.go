package platformerrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HTTPErrorResponse is the standard error envelope.
type HTTPErrorResponse struct {
	Error *HTTPErrorDetail `json:"error"`
}

// HTTPErrorDetail contains error details for HTTP responses.
type HTTPErrorDetail struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteHTTPError logs a PlatformError and writes it as an HTTP response.
func WriteHTTPError(c *gin.Context, err *PlatformError, log zerolog.Logger) {
	if err == nil {
		WriteInternalError(c, "unknown error")
		return
	}

	LogError(log, err)

	c.JSON(ErrorTypeToHTTPStatus(err.Type), HTTPErrorResponse{
		Error: &HTTPErrorDetail{
			Message:   err.Message,
			Type:      typeToString(err.Type),
			RequestID: err.RequestID,
		},
	})
}

// WriteError writes any error as an HTTP response, unwrapping PlatformErrors
// and treating everything else as internal.
func WriteError(c *gin.Context, err error, log zerolog.Logger) {
	if err == nil {
		WriteInternalError(c, "unknown error")
		return
	}

	if pe := GetPlatformError(err); pe != nil {
		WriteHTTPError(c, pe, log)
		return
	}

	c.JSON(http.StatusInternalServerError, HTTPErrorResponse{
		Error: &HTTPErrorDetail{
			Message: err.Error(),
			Type:    "internal_error",
		},
	})
}

// WriteTyped writes a typed error response without an underlying cause.
func WriteTyped(c *gin.Context, t ErrorType, message string) {
	c.JSON(ErrorTypeToHTTPStatus(t), HTTPErrorResponse{
		Error: &HTTPErrorDetail{
			Message: message,
			Type:    typeToString(t),
		},
	})
}

// WriteNotFound writes a 404 response.
func WriteNotFound(c *gin.Context, message string) {
	WriteTyped(c, ErrorTypeNotFound, message)
}

// WriteValidationError writes a 400 response.
func WriteValidationError(c *gin.Context, message string) {
	WriteTyped(c, ErrorTypeValidation, message)
}

// WriteUnauthorized writes a 401 response.
func WriteUnauthorized(c *gin.Context, message string) {
	WriteTyped(c, ErrorTypeUnauthorized, message)
}

// WriteConflict writes a 409 response.
func WriteConflict(c *gin.Context, message string) {
	WriteTyped(c, ErrorTypeConflict, message)
}

// WriteInternalError writes a 500 response.
func WriteInternalError(c *gin.Context, message string) {
	WriteTyped(c, ErrorTypeInternal, message)
}
