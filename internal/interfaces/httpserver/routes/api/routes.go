// Package api registers the /api route group consumed by the console and
// the supervisor dashboard.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/glowdesk/voice-console/internal/interfaces/httpserver/handlers"
)

// Routes holds the /api route configuration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes creates the /api routes instance.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{handlers: handlerProvider}
}

// Register mounts the /api group on the engine. An auth middleware, when
// provided, guards the whole group.
func (r *Routes) Register(engine *gin.Engine, authMiddleware gin.HandlerFunc) {
	api := engine.Group("/api")
	if authMiddleware != nil {
		api.Use(authMiddleware)
	}

	api.GET("/token", r.handlers.Token.Issue)
	api.GET("/supervisor-stats", r.handlers.Stats.Get)
}
