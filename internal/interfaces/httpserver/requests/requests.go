// Package requests contains HTTP request DTOs for the backend API.
package requests

// TokenRequest is the query for the token endpoint.
type TokenRequest struct {
	// Room is the LiveKit room the console wants to join.
	Room string `form:"room" binding:"required"`
}
