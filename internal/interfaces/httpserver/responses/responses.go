// Package responses contains HTTP response DTOs for the backend API.
// Endpoint-specific response types live in subpackages.
package responses

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error *ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}
