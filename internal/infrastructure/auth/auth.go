// Package auth provides optional bearer-token authentication for the
// backend API, validated against a Keycloak realm.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/glowdesk/voice-console/internal/config"
)

// Validator guards API routes with JWT validation. When auth is disabled in
// config the middleware is a passthrough, which is the default for local
// salon deployments.
type Validator struct {
	cfg      *config.Config
	log      zerolog.Logger
	keycloak *KeycloakValidator
}

// NewValidator initializes the Keycloak validator when auth is enabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	if !cfg.AuthEnabled {
		return &Validator{cfg: cfg, log: log}, nil
	}

	keycloak, err := NewKeycloakValidator(
		ctx,
		cfg.AuthJWKSURL,
		cfg.AuthIssuer,
		cfg.AuthAudience,
		5*time.Minute, // refreshEvery
		time.Minute,   // clockSkew
		log,
	)
	if err != nil {
		return nil, err
	}

	return &Validator{cfg: cfg, log: log, keycloak: keycloak}, nil
}

// Middleware enforces bearer-token auth when enabled.
func (v *Validator) Middleware() gin.HandlerFunc {
	if v == nil || !v.cfg.AuthEnabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		claims, err := v.keycloak.Validate(c.Request.Context(), tokenString)
		if err != nil {
			v.log.Debug().Err(err).Msg("jwt validation failed")
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("principal_claims", claims)
		c.Next()
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": message,
	})
}
