package store

import (
	"sort"

	"github.com/dukerupert/shoplist/internal/kv"
	"github.com/dukerupert/shoplist/internal/model"
)

// IndexStore maintains the ordered catalog of list metadata, kept separate
// from the per-list documents so pickers can enumerate lists without loading
// any item payloads.
type IndexStore struct {
	kv *kv.Store
}

func NewIndexStore(s *kv.Store) *IndexStore {
	return &IndexStore{kv: s}
}

// ReadAll returns the persisted index, or an empty slice when the slot is
// absent or corrupt.
func (s *IndexStore) ReadAll() []model.ListMeta {
	return kv.Read(s.kv, keyIndex, []model.ListMeta{})
}

// Present reports whether the index slot holds a decodable index. An empty
// index still counts as present; a corrupt slot counts as absent, so a
// broken index layout falls back to re-importing from the legacy slot.
func (s *IndexStore) Present() bool {
	return kv.ReadNullable[[]model.ListMeta](s.kv, keyIndex) != nil
}

// WriteAll persists the full index, overwriting the previous contents.
func (s *IndexStore) WriteAll(entries []model.ListMeta) {
	if entries == nil {
		entries = []model.ListMeta{}
	}
	kv.Write(s.kv, keyIndex, entries)
}

// Upsert replaces the entry with the same id in place, or appends when no
// entry matches, then persists the index sorted most recently updated first.
func (s *IndexStore) Upsert(meta model.ListMeta) {
	entries := s.ReadAll()
	found := false
	for i := range entries {
		if entries[i].ID == meta.ID {
			entries[i] = meta
			found = true
			break
		}
	}
	if !found {
		entries = append(entries, meta)
	}
	sortByRecency(entries)
	s.WriteAll(entries)
}

// RemoveByID filters the entry out, persists, and returns the resulting
// index so delete flows can repair the current selection.
func (s *IndexStore) RemoveByID(id string) []model.ListMeta {
	entries := s.ReadAll()
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.WriteAll(kept)
	return kept
}

func sortByRecency(entries []model.ListMeta) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
}
