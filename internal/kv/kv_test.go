package kv

import (
	"regexp"
	"testing"

	"github.com/dukerupert/shoplist/internal/database"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db, nil)
}

func TestReadMissingReturnsFallback(t *testing.T) {
	s := setupStore(t)

	got := Read(s, "nope", "fallback")
	if got != "fallback" {
		t.Errorf("got %q, want %q", got, "fallback")
	}

	if p := ReadNullable[string](s, "nope"); p != nil {
		t.Errorf("expected nil, got %v", *p)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := setupStore(t)

	type rec struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	Write(s, "r", rec{Name: "Milk", Count: 2})

	got := Read(s, "r", rec{})
	if got.Name != "Milk" || got.Count != 2 {
		t.Errorf("got %+v, want {Milk 2}", got)
	}
}

func TestReadCorruptReturnsFallback(t *testing.T) {
	s := setupStore(t)

	if err := s.setRaw("bad", []byte("{not json")); err != nil {
		t.Fatalf("set raw: %v", err)
	}

	got := Read(s, "bad", []int{1, 2})
	if len(got) != 2 {
		t.Errorf("got %v, want fallback [1 2]", got)
	}
	if p := ReadNullable[map[string]int](s, "bad"); p != nil {
		t.Errorf("expected nil for corrupt slot, got %v", *p)
	}
}

func TestWriteOverwrites(t *testing.T) {
	s := setupStore(t)

	Write(s, "k", 1)
	Write(s, "k", 2)

	if got := Read(s, "k", 0); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestDeleteAndKeys(t *testing.T) {
	s := setupStore(t)

	Write(s, "list.a", "A")
	Write(s, "list.b", "B")
	Write(s, "other", "C")

	keys := s.Keys("list.")
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d: %v", len(keys), keys)
	}

	s.Delete("list.a")
	if got := s.Keys("list."); len(got) != 1 || got[0] != "list.b" {
		t.Errorf("after delete got %v, want [list.b]", got)
	}

	// Deleting an absent slot is a no-op
	s.Delete("list.a")
}

func TestReset(t *testing.T) {
	s := setupStore(t)

	Write(s, "a", 1)
	Write(s, "b", 2)
	s.Reset()

	if got := s.Keys(""); len(got) != 0 {
		t.Errorf("expected empty store after reset, got %v", got)
	}
}

var uuidShape = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func TestNewIDShapeAndUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewID()
		if !uuidShape.MatchString(id) {
			t.Fatalf("id %q is not UUID-shaped", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}
