// Package token holds response DTOs for the token endpoint.
package token

import "github.com/glowdesk/voice-console/internal/domain/session"

// TokenResponse carries the join credential back to the console. Only the
// token itself crosses the wire; room and identity are already known to the
// caller.
type TokenResponse struct {
	Token string `json:"token"`
}

// NewTokenResponse builds a TokenResponse from an issued credential.
func NewTokenResponse(cred *session.Credential) TokenResponse {
	return TokenResponse{Token: cred.Token}
}
