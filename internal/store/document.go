package store

import (
	"time"

	"github.com/dukerupert/shoplist/internal/kv"
	"github.com/dukerupert/shoplist/internal/model"
)

// DocumentStore reads and writes full per-list documents and keeps the
// index's denormalized metadata and the legacy single-document mirror in
// sync on every write.
type DocumentStore struct {
	kv        *kv.Store
	index     *IndexStore
	selection *SelectionStore
	now       func() time.Time
}

func NewDocumentStore(s *kv.Store, index *IndexStore, selection *SelectionStore) *DocumentStore {
	return &DocumentStore{
		kv:        s,
		index:     index,
		selection: selection,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Read loads one document by list id, returning nil when absent or corrupt.
func (s *DocumentStore) Read(id string) *model.ListSnapshot {
	return kv.ReadNullable[model.ListSnapshot](s.kv, docKey(id))
}

// ReadLegacy loads the legacy single-document slot, nil when absent.
func (s *DocumentStore) ReadLegacy() *model.ListSnapshot {
	return kv.ReadNullable[model.ListSnapshot](s.kv, keyLegacy)
}

// LegacyPresent reports whether the legacy slot holds anything at all, even
// unparseable bytes. The migration trigger must fire on corrupt legacy data
// too, so this checks slot existence rather than decodability.
func (s *DocumentStore) LegacyPresent() bool {
	for _, k := range s.kv.Keys(keyLegacy) {
		if k == keyLegacy {
			return true
		}
	}
	return false
}

// WriteLegacy overwrites the legacy single-document slot.
func (s *DocumentStore) WriteLegacy(snap model.ListSnapshot) {
	kv.Write(s.kv, keyLegacy, snap)
}

// Write persists the document under its id, mirrors it into the legacy slot
// when it is the current selection, and upserts its metadata into the index.
func (s *DocumentStore) Write(snap model.ListSnapshot) {
	kv.Write(s.kv, docKey(snap.ID), snap)

	if s.selection.Current() == snap.ID {
		s.WriteLegacy(snap)
	}

	s.index.Upsert(model.MetaOf(snap, s.now()))
}

// RemoveByID deletes the document, drops its index entry, and repairs the
// current selection: when the deleted list was selected, the most recently
// updated remaining list becomes current, or the selection is cleared when
// none remain. Returns the resulting current id ("" when cleared) so callers
// can react. The three writes are ordered so that a crash mid-sequence
// leaves a re-runnable state: index and selection are always derivable from
// which documents still exist.
func (s *DocumentStore) RemoveByID(id string) string {
	s.kv.Delete(docKey(id))
	remaining := s.index.RemoveByID(id)

	current := s.selection.Current()
	if current != id {
		return current
	}
	if len(remaining) == 0 {
		// The mirror still holds the deleted list; left behind, it reads as
		// unmigrated legacy data and the next migration run would resurrect it.
		s.kv.Delete(keyLegacy)
		s.selection.Clear()
		return ""
	}
	next := remaining[0].ID
	s.selection.Select(next)
	if doc := s.Read(next); doc != nil {
		s.WriteLegacy(*doc)
	}
	return next
}
