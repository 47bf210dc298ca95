package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/shoplist/internal/grocery"
	"github.com/dukerupert/shoplist/internal/kv"
	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/store"
	"github.com/dukerupert/shoplist/internal/websocket"
)

type ItemHandler struct {
	store  *store.ShoppingStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewItemHandler(s *store.ShoppingStore, hub *websocket.Hub, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{store: s, hub: hub, logger: logger}
}

func (h *ItemHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type itemRequest struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Snoozed  bool           `json:"snoozed"`
	Amount   *float64       `json:"amount"`
	Unit     model.Unit     `json:"unit"`
	Category model.Category `json:"category"`
}

func (h *ItemHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	item := model.Item{
		ID:       req.ID,
		Name:     req.Name,
		Snoozed:  req.Snoozed,
		Amount:   req.Amount,
		Unit:     req.Unit,
		Category: req.Category,
	}
	if item.ID == "" {
		item.ID = kv.NewID()
	}
	// Auto-categorize when no category was provided
	if item.Category == "" {
		if cat := grocery.Categorize(item.Name); cat != model.CategoryDefault {
			item.Category = cat
		}
	}

	snap := h.store.AddItem(item)
	h.broadcast(websocket.NewMessage("item", "added", snap.ID, map[string]any{"item_id": item.ID}))
	writeJSON(w, http.StatusCreated, snap)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch model.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	snap := h.store.UpdateItem(id, patch)
	h.broadcast(websocket.NewMessage("item", "updated", snap.ID, map[string]any{"item_id": id}))
	writeJSON(w, http.StatusOK, snap)
}

func (h *ItemHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap := h.store.ToggleItem(id)
	h.broadcast(websocket.NewMessage("item", "toggled", snap.ID, map[string]any{"item_id": id}))
	writeJSON(w, http.StatusOK, snap)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap := h.store.DeleteItem(id)
	h.broadcast(websocket.NewMessage("item", "deleted", snap.ID, map[string]any{"item_id": id}))
	writeJSON(w, http.StatusOK, snap)
}

type replaceItemsRequest struct {
	Items []model.Item `json:"items"`
}

func (h *ItemHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req replaceItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	snap := h.store.ReplaceItems(req.Items)
	h.broadcast(websocket.NewMessage("item", "replaced", snap.ID, nil))
	writeJSON(w, http.StatusOK, snap)
}
