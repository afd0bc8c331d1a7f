package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/spendwise-app/spendwise/internal/store"
)

// EventsHandler streams store change notifications as server-sent events so
// the dashboard reloads without polling.
type EventsHandler struct {
	notifier *store.Notifier
	log      zerolog.Logger
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(notifier *store.Notifier, log zerolog.Logger) *EventsHandler {
	return &EventsHandler{notifier: notifier, log: log}
}

// Events handles GET /events. One "transactions" event is sent per store
// mutation; the payload is empty because consumers reload the full list.
func (h *EventsHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := h.notifier.Subscribe()
	defer cancel()

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch:
			fmt.Fprint(w, "event: transactions\ndata: {}\n\n")
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}
