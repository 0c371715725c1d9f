//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/glowdesk/voice-console/internal/config"
	"github.com/glowdesk/voice-console/internal/domain"
	"github.com/glowdesk/voice-console/internal/domain/session"
	"github.com/glowdesk/voice-console/internal/infrastructure/auth"
	"github.com/glowdesk/voice-console/internal/infrastructure/livekit"
	"github.com/glowdesk/voice-console/internal/infrastructure/store"
	"github.com/glowdesk/voice-console/internal/interfaces/httpserver"
)

// ProviderSet is the wire provider set for the backend.
var ProviderSet = wire.NewSet(
	// Infrastructure providers
	ProvideTokenGenerator,
	ProvideRoomClient,
	ProvideSessionStore,
	ProvideSyncer,
	ProvideAuthValidator,

	// Domain providers
	domain.ServiceProvider,

	// Interface providers
	httpserver.New,

	// Application
	NewApplication,
)

// ProvideTokenGenerator provides a LiveKit token generator.
func ProvideTokenGenerator(cfg *config.Config) session.TokenGenerator {
	return livekit.NewTokenGenerator(cfg)
}

// ProvideRoomClient provides a LiveKit room client.
func ProvideRoomClient(cfg *config.Config) *livekit.RoomClient {
	return livekit.NewRoomClient(cfg)
}

// ProvideSessionStore provides the in-memory session store.
func ProvideSessionStore(log zerolog.Logger) session.Store {
	return store.NewMemoryStore(log)
}

// ProvideSyncer provides the session syncer.
func ProvideSyncer(
	sessionStore session.Store,
	roomClient *livekit.RoomClient,
	cfg *config.Config,
	log zerolog.Logger,
) *store.Syncer {
	return store.NewSyncer(sessionStore, roomClient, cfg.SessionStaleTTL, cfg.SessionSyncInterval, log)
}

// ProvideAuthValidator provides the auth validator.
func ProvideAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

// CreateApplication wires the backend application.
func CreateApplication(
	ctx context.Context,
	cfg *config.Config,
	log zerolog.Logger,
) (*Application, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
