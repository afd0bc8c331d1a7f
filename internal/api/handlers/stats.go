package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/spendwise-app/spendwise/internal/api/middleware"
	"github.com/spendwise-app/spendwise/internal/model"
	"github.com/spendwise-app/spendwise/internal/stats"
	"github.com/spendwise-app/spendwise/internal/store"
)

// StatsHandler serves the aggregate views the dashboard renders.
type StatsHandler struct {
	store store.Store
	log   zerolog.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(st store.Store, log zerolog.Logger) *StatsHandler {
	return &StatsHandler{store: st, log: log}
}

// Stats handles GET /stats with every breakdown in one response.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	txns, err := h.store.GetAll(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load transactions for stats")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":         len(txns),
		"totalSpent":    stats.TotalSpending(txns, model.TypeDebit),
		"totalCredited": stats.TotalSpending(txns, model.TypeCredit),
		"byCategory":    stats.SpendingByCategory(txns),
		"byDate":        stats.SpendingByDate(txns),
		"byMonth":       stats.MonthlySpending(txns),
	})
}
