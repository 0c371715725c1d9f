// Package httpserver assembles the gin engine and runs the backend HTTP
// server.
package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/glowdesk/voice-console/internal/config"
	"github.com/glowdesk/voice-console/internal/domain/session"
	"github.com/glowdesk/voice-console/internal/domain/stats"
	"github.com/glowdesk/voice-console/internal/infrastructure/auth"
	"github.com/glowdesk/voice-console/internal/interfaces/httpserver/handlers"
	"github.com/glowdesk/voice-console/internal/interfaces/httpserver/middlewares"
	"github.com/glowdesk/voice-console/internal/interfaces/httpserver/routes"
)

// HTTPServer is the backend HTTP server: token issuance for the console and
// stats for the supervisor dashboard.
type HTTPServer struct {
	cfg         *config.Config
	engine      *gin.Engine
	log         zerolog.Logger
	handlerProv *handlers.Provider
	routeProv   *routes.Provider
}

// New creates a new HTTP server.
func New(
	cfg *config.Config,
	log zerolog.Logger,
	sessionService session.Service,
	statsService stats.Service,
	authValidator *auth.Validator,
) *HTTPServer {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.Use(middlewares.RequestID())
	engine.Use(middlewares.Tracing(cfg.ServiceName))
	engine.Use(middlewares.Metrics())
	engine.Use(middlewares.CORS())
	engine.Use(middlewares.RequestLoggerWithLogger(log))

	registerCoreRoutes(engine, cfg)

	handlerProvider := handlers.NewProvider(sessionService, statsService)
	routeProvider := routes.NewProvider(handlerProvider, authValidator)
	routeProvider.Register(engine)

	return &HTTPServer{
		cfg:         cfg,
		engine:      engine,
		log:         log,
		handlerProv: handlerProvider,
		routeProv:   routeProvider,
	}
}

// Engine exposes the underlying gin engine for tests.
func (s *HTTPServer) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *HTTPServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr()).Msg("HTTP server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("HTTP server error")
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("context cancelled, shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func registerCoreRoutes(engine *gin.Engine, cfg *config.Config) {
	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": cfg.ServiceName,
			"status":  "ok",
		})
	})

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	engine.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
