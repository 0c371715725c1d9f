package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glowdesk/voice-console/internal/domain/session"
	"github.com/glowdesk/voice-console/internal/interfaces/httpserver/requests"
	"github.com/glowdesk/voice-console/internal/interfaces/httpserver/responses"
	tokenres "github.com/glowdesk/voice-console/internal/interfaces/httpserver/responses/token"
	"github.com/glowdesk/voice-console/internal/utils/platformerrors"
)

// TokenHandler serves room join tokens to the console.
type TokenHandler struct {
	sessions session.Service
}

// NewTokenHandler creates a token handler.
func NewTokenHandler(sessions session.Service) *TokenHandler {
	return &TokenHandler{sessions: sessions}
}

// Issue godoc
// @Summary      Issue a room join token
// @Description  Mints a LiveKit token for the named room and tracks the session.
// @Tags         Voice API
// @Produce      json
// @Param        room query string true "Room name"
// @Success      200 {object} token.TokenResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /api/token [get]
func (h *TokenHandler) Issue(c *gin.Context) {
	var req requests.TokenRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "room is required")
		return
	}

	cred, err := h.sessions.IssueToken(c.Request.Context(), req.Room)
	if err != nil {
		responses.HandleError(c, err, "failed to issue token")
		return
	}

	c.JSON(http.StatusOK, tokenres.NewTokenResponse(cred))
}
