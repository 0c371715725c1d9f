package responses

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/glowdesk/voice-console/internal/infrastructure/store"
	"github.com/glowdesk/voice-console/internal/utils/platformerrors"
)

// HandleError maps store-specific and platform errors to HTTP responses.
func HandleError(c *gin.Context, err error, message string) {
	logger := log.With().Str("path", c.Request.URL.Path).Logger()

	if errors.Is(err, store.ErrSessionNotFound) {
		platformerrors.WriteNotFound(c, message)
		return
	}
	if errors.Is(err, store.ErrRoomAlreadyExists) {
		platformerrors.WriteConflict(c, message)
		return
	}

	platformerrors.WriteError(c, err, logger)
}

// HandleNewError writes a typed error response without an underlying cause.
// Use for route-level failures like validation.
func HandleNewError(c *gin.Context, errorType platformerrors.ErrorType, message string) {
	platformerrors.WriteTyped(c, errorType, message)
}
