package api

import (
	"log/slog"
	"net/http"

	"github.com/wordtrail/wordtrail/internal/api/shared"
	"github.com/wordtrail/wordtrail/internal/service"
)

// StatsHandler handles statistics HTTP requests.
type StatsHandler struct {
	stats  *service.StatsService
	logger *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(stats *service.StatsService, log *slog.Logger) *StatsHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StatsHandler")
	}

	return &StatsHandler{
		stats:  stats,
		logger: log.With(slog.String("component", "stats_handler")),
	}
}

// GetStatistics handles GET /statistics requests.
func (h *StatsHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.stats.GetStatistics(r.Context()))
}
