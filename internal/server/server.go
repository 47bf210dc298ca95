package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/shoplist/internal/backup"
	"github.com/dukerupert/shoplist/internal/handler"
	"github.com/dukerupert/shoplist/internal/remote"
	"github.com/dukerupert/shoplist/internal/store"
	ws "github.com/dukerupert/shoplist/internal/websocket"
)

// Server wires the storage facade, the change-notification hub, and the
// HTTP surface that UI shells consume.
type Server struct {
	store     *store.ShoppingStore
	hub       *ws.Hub
	listH     *handler.ListHandler
	itemH     *handler.ItemHandler
	snapshotH *handler.SnapshotHandler
	syncH     *handler.SyncHandler
	backupMgr *backup.Manager
	logger    *slog.Logger
}

// New builds the server. remoteURL may be empty, in which case the store
// treats the host as always online and the sync endpoint is disabled.
func New(db *sql.DB, remoteURL string, backupCfg backup.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	var online store.Connectivity
	var sender store.Sender
	if remoteURL != "" {
		client := remote.NewClient(remoteURL, logger.With("component", "remote"))
		online = client
		sender = client.Send
	}

	st := store.NewShoppingStore(db, online, logger.With("component", "store"))

	backupMgr := backup.NewManager(backupCfg, db, func(s backup.Status) {
		hub.Broadcast(ws.Message{
			Type:   "backup_status",
			Entity: "backup",
			Action: string(s.State),
			Extra: map[string]any{
				"in_progress": s.InProgress,
				"error":       s.Error,
			},
		})
	}, logger.With("component", "backup"))

	return &Server{
		store:     st,
		hub:       hub,
		listH:     handler.NewListHandler(st, hub, logger.With("component", "lists")),
		itemH:     handler.NewItemHandler(st, hub, logger.With("component", "items")),
		snapshotH: handler.NewSnapshotHandler(st, hub, logger.With("component", "snapshot")),
		syncH:     handler.NewSyncHandler(st, sender, logger.With("component", "sync")),
		backupMgr: backupMgr,
		logger:    logger,
	}
}

// Store exposes the storage facade, for the background flush loop in main.
func (s *Server) Store() *store.ShoppingStore {
	return s.store
}

// Backup exposes the backup manager.
func (s *Server) Backup() *backup.Manager {
	return s.backupMgr
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("HEAD /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Lists
	mux.HandleFunc("GET /api/lists", s.listH.List)
	mux.HandleFunc("POST /api/lists", s.listH.Create)
	mux.HandleFunc("GET /api/lists/exists", s.listH.NameExists)
	mux.HandleFunc("POST /api/lists/open", s.listH.Open)
	mux.HandleFunc("POST /api/lists/{id}/select", s.listH.Select)
	mux.HandleFunc("PUT /api/lists/current/name", s.listH.Rename)
	mux.HandleFunc("DELETE /api/lists/{id}", s.listH.Delete)

	// Items on the current list
	mux.HandleFunc("POST /api/items", s.itemH.Add)
	mux.HandleFunc("PUT /api/items", s.itemH.Replace)
	mux.HandleFunc("PATCH /api/items/{id}", s.itemH.Update)
	mux.HandleFunc("POST /api/items/{id}/toggle", s.itemH.Toggle)
	mux.HandleFunc("DELETE /api/items/{id}", s.itemH.Delete)

	// Snapshot load/save + debug reset
	mux.HandleFunc("GET /api/snapshot", s.snapshotH.Load)
	mux.HandleFunc("PUT /api/snapshot", s.snapshotH.Save)
	mux.HandleFunc("POST /api/reset", s.snapshotH.Reset)

	// Offline queue
	mux.HandleFunc("GET /api/pending", s.syncH.Pending)
	mux.HandleFunc("POST /api/sync", s.syncH.Sync)

	// Backup
	mux.HandleFunc("POST /api/backup", s.backupH())
	mux.HandleFunc("GET /api/backup/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.backupMgr.CurrentStatus())
	})
	mux.HandleFunc("GET /api/backup/fetch", s.backupFetchH())

	// Real-time change notifications
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	return mux
}

func (s *Server) backupH() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.backupMgr.RunBackup(r.Context()); err != nil {
			s.logger.Warn("backup failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, s.backupMgr.CurrentStatus())
	}
}

// backupFetchH downloads and unseals a stored backup by object key. The
// response is the raw sqlite snapshot; restoring it over the live database
// is an offline operation.
func (s *Server) backupFetchH() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("key")
		if key == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing key parameter"})
			return
		}
		data, err := s.backupMgr.Fetch(r.Context(), key)
		if err != nil {
			s.logger.Warn("backup fetch failed", "key", key, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", `attachment; filename="snapshot.db"`)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
