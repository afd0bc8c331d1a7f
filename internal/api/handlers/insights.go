package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/spendwise-app/spendwise/internal/api/middleware"
	"github.com/spendwise-app/spendwise/internal/insights"
	"github.com/spendwise-app/spendwise/internal/model"
)

// InsightsHandler handles the spending-insights endpoint.
type InsightsHandler struct {
	summarizer *insights.Summarizer
	log        zerolog.Logger
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(summarizer *insights.Summarizer, log zerolog.Logger) *InsightsHandler {
	return &InsightsHandler{summarizer: summarizer, log: log}
}

// Summarize handles POST /summarize-insights. The caller posts its current
// transaction list; insights are ephemeral and nothing is persisted.
func (h *InsightsHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Transactions []model.Transaction `json:"transactions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Transactions == nil {
		middleware.WriteError(w, http.StatusBadRequest, "Transactions array is required")
		return
	}

	result, err := h.summarizer.Summarize(r.Context(), req.Transactions)
	if err != nil {
		h.log.Warn().Err(err).Msg("Insight generation failed")
		middleware.WriteAppError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"insights": result,
	})
}
