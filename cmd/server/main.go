// @title           Voice Console Backend
// @version         1.0
// @description     Token and stats backend for the salon voice console.
// @description     Issues LiveKit join tokens and tracks session outcomes.

// @host      localhost:8000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token from Keycloak

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/glowdesk/voice-console/internal/config"
	"github.com/glowdesk/voice-console/internal/domain/session"
	"github.com/glowdesk/voice-console/internal/domain/stats"
	"github.com/glowdesk/voice-console/internal/infrastructure/auth"
	"github.com/glowdesk/voice-console/internal/infrastructure/livekit"
	"github.com/glowdesk/voice-console/internal/infrastructure/logger"
	"github.com/glowdesk/voice-console/internal/infrastructure/observability"
	"github.com/glowdesk/voice-console/internal/infrastructure/store"
	"github.com/glowdesk/voice-console/internal/interfaces/httpserver"
)

// Application holds the backend components with a lifecycle.
type Application struct {
	httpServer *httpserver.HTTPServer
	syncer     *store.Syncer
	log        zerolog.Logger
}

// NewApplication creates a new application instance.
func NewApplication(httpServer *httpserver.HTTPServer, syncer *store.Syncer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		syncer:     syncer,
		log:        log,
	}
}

// Start runs the backend until the context is cancelled.
func (a *Application) Start(ctx context.Context) error {
	a.syncer.Start(ctx)

	err := a.httpServer.Run(ctx)

	a.syncer.Stop()
	return err
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize auth validator")
	}

	tokenGen := livekit.NewTokenGenerator(cfg)
	roomClient := livekit.NewRoomClient(cfg)

	sessionStore := store.NewMemoryStore(log)
	syncer := store.NewSyncer(sessionStore, roomClient, cfg.SessionStaleTTL, cfg.SessionSyncInterval, log)

	sessionService := session.NewService(sessionStore, tokenGen, cfg.LiveKitTokenTTL, log)
	statsService := stats.NewService(sessionService, log)

	httpServer := httpserver.New(cfg, log, sessionService, statsService, authValidator)

	app := NewApplication(httpServer, syncer, log)

	log.Info().
		Str("service", cfg.ServiceName).
		Int("port", cfg.HTTPPort).
		Str("environment", cfg.Environment).
		Msg("starting backend")

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("backend stopped with error")
	}

	log.Info().Msg("backend exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env", "../../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
