package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dukerupert/shoplist/internal/model"
)

func testOp() model.PendingOp {
	return model.PendingOp{
		Kind:     model.OpToggle,
		ItemID:   "i1",
		ListID:   "l1",
		QueuedAt: time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestSendPostsOp(t *testing.T) {
	var got model.PendingOp
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ops" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	if err := c.Send(context.Background(), testOp()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got.Kind != model.OpToggle || got.ItemID != "i1" {
		t.Errorf("server received %+v", got)
	}
}

func TestSendRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	if err := c.Send(context.Background(), testOp()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

func TestSendClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	if err := c.Send(context.Background(), testOp()); err == nil {
		t.Fatal("expected error for rejected op")
	}
	if calls.Load() != 1 {
		t.Errorf("4xx must not be retried, got %d calls", calls.Load())
	}
}

func TestOnline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	c := NewClient(srv.URL, nil)
	if !c.Online() {
		t.Error("expected online while server is up")
	}

	srv.Close()
	if c.Online() {
		t.Error("expected offline after server shutdown")
	}
}

func TestAlwaysOnline(t *testing.T) {
	if !(Always{}).Online() {
		t.Error("Always must report online")
	}
}
