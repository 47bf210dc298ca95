package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/store"
	"github.com/dukerupert/shoplist/internal/websocket"
)

type SnapshotHandler struct {
	store  *store.ShoppingStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewSnapshotHandler(s *store.ShoppingStore, hub *websocket.Hub, logger *slog.Logger) *SnapshotHandler {
	return &SnapshotHandler{store: s, hub: hub, logger: logger}
}

// Load returns the current list document, or 404 when no list exists yet.
func (h *SnapshotHandler) Load(w http.ResponseWriter, r *http.Request) {
	snap := h.store.LoadSnapshot()
	if snap == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": reasonNotFound})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Save overwrites the current list document wholesale. Used by UI shells
// that hold the whole snapshot in memory and write it back on change.
func (h *SnapshotHandler) Save(w http.ResponseWriter, r *http.Request) {
	var snap model.ListSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	h.store.SaveSnapshot(snap)
	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("list", "saved", snap.ID, nil))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reset wipes every storage slot. Debug and test teardown only.
func (h *SnapshotHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.store.Reset()
	h.logger.Warn("storage reset")
	w.WriteHeader(http.StatusNoContent)
}
