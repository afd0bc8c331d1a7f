// Package handlers implements the HTTP surface: SMS extraction, insight
// summarization, the stored transaction list, aggregate stats, and the
// change event stream.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/spendwise-app/spendwise/internal/api/middleware"
	"github.com/spendwise-app/spendwise/internal/extract"
	"github.com/spendwise-app/spendwise/internal/store"
)

// ExtractHandler handles the SMS-to-transactions endpoint.
type ExtractHandler struct {
	svc      *extract.Service
	store    store.Store
	notifier *store.Notifier
	log      zerolog.Logger
}

// NewExtractHandler creates a new extraction handler.
func NewExtractHandler(svc *extract.Service, st store.Store, notifier *store.Notifier, log zerolog.Logger) *ExtractHandler {
	return &ExtractHandler{
		svc:      svc,
		store:    st,
		notifier: notifier,
		log:      log,
	}
}

// Extract handles POST /extract. The validated batch is persisted before
// responding, so the returned records carry their assigned id/createdAt.
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		SMSText string `json:"smsText"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	protos, err := h.svc.Extract(ctx, req.SMSText)
	if err != nil {
		h.log.Warn().Err(err).Msg("Extraction failed")
		middleware.WriteAppError(w, err)
		return
	}

	records, err := h.store.Add(ctx, protos)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to persist extracted transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save transactions")
		return
	}
	h.notifier.Notify()

	h.log.Info().Int("count", len(records)).Msg("Extracted and saved transactions")
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": records,
	})
}
