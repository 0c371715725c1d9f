// Package domain groups the wire providers for the domain layer.
package domain

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/glowdesk/voice-console/internal/config"
	"github.com/glowdesk/voice-console/internal/domain/session"
	"github.com/glowdesk/voice-console/internal/domain/stats"
)

// ProvideSessionService provides the session service.
func ProvideSessionService(
	sessionStore session.Store,
	tokenGen session.TokenGenerator,
	cfg *config.Config,
	log zerolog.Logger,
) session.Service {
	return session.NewService(
		sessionStore,
		tokenGen,
		cfg.LiveKitTokenTTL,
		log,
	)
}

// ProvideStatsService provides the stats service.
func ProvideStatsService(sessions session.Service, log zerolog.Logger) stats.Service {
	return stats.NewService(sessions, log)
}

// ServiceProvider provides all domain services.
var ServiceProvider = wire.NewSet(
	ProvideSessionService,
	ProvideStatsService,
)
