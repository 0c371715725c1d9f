package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glowdesk/voice-console/internal/domain/stats"
	"github.com/glowdesk/voice-console/internal/interfaces/httpserver/responses"
)

// StatsHandler serves the supervisor dashboard counters.
type StatsHandler struct {
	stats stats.Service
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(statsService stats.Service) *StatsHandler {
	return &StatsHandler{stats: statsService}
}

// Get godoc
// @Summary      Supervisor dashboard stats
// @Description  Returns session counters for the supervisor dashboard.
// @Tags         Voice API
// @Produce      json
// @Success      200 {object} stats.Stats
// @Failure      500 {object} responses.ErrorResponse
// @Router       /api/supervisor-stats [get]
func (h *StatsHandler) Get(c *gin.Context) {
	snapshot, err := h.stats.Snapshot(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to read stats")
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
