package store

import "github.com/dukerupert/shoplist/internal/kv"

// SelectionStore persists the single "current list" pointer read by the
// legacy single-list operations.
type SelectionStore struct {
	kv *kv.Store
}

func NewSelectionStore(s *kv.Store) *SelectionStore {
	return &SelectionStore{kv: s}
}

// Current returns the selected list id, or "" when no selection is set.
func (s *SelectionStore) Current() string {
	return kv.Read(s.kv, keyCurrent, "")
}

// Present reports whether the selection slot exists, for the migration
// trigger check.
func (s *SelectionStore) Present() bool {
	return kv.ReadNullable[string](s.kv, keyCurrent) != nil
}

// Select sets the current list id.
func (s *SelectionStore) Select(id string) {
	kv.Write(s.kv, keyCurrent, id)
}

// Clear removes the selection entirely.
func (s *SelectionStore) Clear() {
	s.kv.Delete(keyCurrent)
}
