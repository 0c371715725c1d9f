// Package handlers holds the HTTP handlers for the backend API.
package handlers

import (
	"github.com/google/wire"

	"github.com/glowdesk/voice-console/internal/domain/session"
	"github.com/glowdesk/voice-console/internal/domain/stats"
)

// Provider holds all HTTP handlers.
type Provider struct {
	Token *TokenHandler
	Stats *StatsHandler
}

// NewProvider creates a new handler provider.
func NewProvider(sessions session.Service, statsService stats.Service) *Provider {
	return &Provider{
		Token: NewTokenHandler(sessions),
		Stats: NewStatsHandler(statsService),
	}
}

// HandlerProvider provides all handlers for wire.
var HandlerProvider = wire.NewSet(
	NewProvider,
)
