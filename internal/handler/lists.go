package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/shoplist/internal/store"
	"github.com/dukerupert/shoplist/internal/websocket"
)

// Reason codes surfaced to UI shells for logical validation failures.
const (
	reasonInvalid   = "invalid"
	reasonDuplicate = "duplicate"
	reasonNotFound  = "notfound"
)

type ListHandler struct {
	store  *store.ShoppingStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewListHandler(s *store.ShoppingStore, hub *websocket.Hub, logger *slog.Logger) *ListHandler {
	return &ListHandler{store: s, hub: hub, logger: logger}
}

func (h *ListHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type listNameRequest struct {
	Name string `json:"name"`
}

func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ListAll())
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req listNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	snap, err := h.store.CreateAndSelectUnique(req.Name)
	if err != nil {
		writeReason(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("list", "created", snap.ID, nil))
	writeJSON(w, http.StatusCreated, snap)
}

func (h *ListHandler) Select(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap := h.store.Select(id)
	if snap == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": reasonNotFound})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *ListHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req listNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	snap := h.store.OpenByName(req.Name)
	if snap == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": reasonNotFound})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *ListHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req listNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	snap, err := h.store.RenameCurrentUnique(req.Name)
	if err != nil {
		writeReason(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("list", "renamed", snap.ID, nil))
	writeJSON(w, http.StatusOK, snap)
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.store.Delete(id)
	h.broadcast(websocket.NewMessage("list", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListHandler) NameExists(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	writeJSON(w, http.StatusOK, map[string]bool{"exists": h.store.NameExists(name)})
}

// writeReason maps the store's validation errors onto status codes and
// machine-readable reason strings.
func writeReason(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidName):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": reasonInvalid})
	case errors.Is(err, store.ErrDuplicateName):
		writeJSON(w, http.StatusConflict, map[string]string{"error": reasonDuplicate})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": reasonNotFound})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
