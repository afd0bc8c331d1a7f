package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/spendwise-app/spendwise/internal/api/middleware"
	"github.com/spendwise-app/spendwise/internal/store"
)

// TransactionsHandler handles the stored transaction list.
type TransactionsHandler struct {
	store    store.Store
	notifier *store.Notifier
	log      zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(st store.Store, notifier *store.Notifier, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		store:    st,
		notifier: notifier,
		log:      log,
	}
}

// List handles GET /transactions. The list comes back in insertion order;
// sorting (e.g. by date descending) is a view-layer concern.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	txns, err := h.store.GetAll(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txns,
		"count":        len(txns),
	})
}

// Delete handles DELETE /transactions/{id}.
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.DeleteByID(r.Context(), id); err != nil {
		h.log.Warn().Err(err).Str("id", id).Msg("Failed to delete transaction")
		middleware.WriteAppError(w, err)
		return
	}
	h.notifier.Notify()

	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /transactions, removing the entire collection.
func (h *TransactionsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		h.log.Error().Err(err).Msg("Failed to clear transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to clear transactions")
		return
	}
	h.notifier.Notify()

	w.WriteHeader(http.StatusNoContent)
}
