package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/shoplist/internal/store"
)

type SyncHandler struct {
	store  *store.ShoppingStore
	sender store.Sender
	logger *slog.Logger
}

// NewSyncHandler wires the flush endpoint to the configured remote sender.
// A nil sender means no remote is configured and Sync reports 503.
func NewSyncHandler(s *store.ShoppingStore, sender store.Sender, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{store: s, sender: sender, logger: logger}
}

// Pending returns the queued offline ops in replay order.
func (h *SyncHandler) Pending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Pending())
}

// Sync flushes the offline queue against the remote. On failure the queue
// is left intact and the caller retries later.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if h.sender == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no remote configured"})
		return
	}

	if err := h.store.Flush(r.Context(), h.sender); err != nil {
		h.logger.Warn("flush failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "flush failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"remaining": len(h.store.Pending())})
}
