package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/shoplist/internal/backup"
	"github.com/dukerupert/shoplist/internal/database"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, "", backup.Config{}, slog.Default())
}

func TestBackupFetchRequiresKey(t *testing.T) {
	srv := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/backup/fetch", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestBackupFetchDisabled(t *testing.T) {
	srv := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/backup/fetch?key=shoplist/x.db.enc", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestHealth(t *testing.T) {
	srv := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
