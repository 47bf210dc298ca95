package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dukerupert/shoplist/internal/kv"
	"github.com/dukerupert/shoplist/internal/model"
)

// Logical validation failures. These are the machine-readable reason codes
// the UI renders; storage failures never surface here.
var (
	ErrInvalidName   = errors.New("list name is blank")
	ErrDuplicateName = errors.New("list name already exists")
	ErrNotFound      = errors.New("list not found")
)

// Connectivity reports whether the remote service is reachable. Injected so
// tests can run deterministically without a network.
type Connectivity interface {
	Online() bool
}

type alwaysOnline struct{}

func (alwaysOnline) Online() bool { return true }

// ShoppingStore is the facade over the storage core: multi-list management
// plus the legacy single-list item operations. Every public operation runs
// the legacy migration first, and item mutations performed while offline are
// enqueued for later replay.
//
// A single mutex serializes all operations; the underlying slot writes are
// synchronous, so within one operation the document write, index upsert, and
// legacy mirror happen in a fixed order with no interleaving.
type ShoppingStore struct {
	mu        sync.Mutex
	kv        *kv.Store
	docs      *DocumentStore
	index     *IndexStore
	selection *SelectionStore
	queue     *QueueStore
	migrator  *Migrator
	online    Connectivity
	logger    *slog.Logger
	newID     func() string
	now       func() time.Time
}

// NewShoppingStore wires the storage core over db. A nil online defaults to
// always-reachable, matching environments that cannot report reachability.
func NewShoppingStore(db *sql.DB, online Connectivity, logger *slog.Logger) *ShoppingStore {
	if logger == nil {
		logger = slog.Default()
	}
	if online == nil {
		online = alwaysOnline{}
	}
	slots := kv.NewStore(db, logger)
	index := NewIndexStore(slots)
	selection := NewSelectionStore(slots)
	docs := NewDocumentStore(slots, index, selection)
	return &ShoppingStore{
		kv:        slots,
		docs:      docs,
		index:     index,
		selection: selection,
		queue:     NewQueueStore(slots),
		migrator:  NewMigrator(docs, index, selection, logger.With("component", "migrate")),
		online:    online,
		logger:    logger,
		newID:     kv.NewID,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// resolveCurrent loads the current document: the selected list when a
// selection is set, otherwise the legacy slot. The legacy fallback should
// only ever be hit before migration has run.
func (s *ShoppingStore) resolveCurrent() *model.ListSnapshot {
	if id := s.selection.Current(); id != "" {
		return s.docs.Read(id)
	}
	return s.docs.ReadLegacy()
}

// createList writes a new empty list and selects it. No validation: the
// permissive create path deliberately allows duplicate names.
func (s *ShoppingStore) createList(name string) model.ListSnapshot {
	now := s.now()
	snap := model.ListSnapshot{
		ID:        s.newID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Items:     []model.Item{},
	}
	s.selection.Select(snap.ID)
	s.docs.Write(snap)
	return snap
}

// currentForMutation resolves the current document, creating and selecting a
// default list when none exists so item mutations never have to special-case
// "no list yet".
func (s *ShoppingStore) currentForMutation() model.ListSnapshot {
	if doc := s.resolveCurrent(); doc != nil {
		return *doc
	}
	return s.createList(model.DefaultListName)
}

func (s *ShoppingStore) nameExists(name string, excludeID string) bool {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, meta := range s.index.ReadAll() {
		if meta.ID == excludeID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(meta.Name)) == want {
			return true
		}
	}
	return false
}

// enqueueIfOffline records the op for later replay when the remote is not
// reachable right now.
func (s *ShoppingStore) enqueueIfOffline(op model.PendingOp) {
	if s.online.Online() {
		return
	}
	op.QueuedAt = s.now()
	s.queue.Enqueue(op)
	s.logger.Debug("queued offline op", "kind", op.Kind, "item_id", op.ItemID)
}

// --- List management ---

// CreateAndSelect creates a new empty list with the given name, selects it,
// and returns it. Duplicate names are allowed here; use
// CreateAndSelectUnique for validated creation.
func (s *ShoppingStore) CreateAndSelect(name string) model.ListSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrator.Run()
	return s.createList(name)
}

// ListAll returns the index entries, most recently updated first.
func (s *ShoppingStore) ListAll() []model.ListMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrator.Run()
	entries := s.index.ReadAll()
	sortByRecency(entries)
	return entries
}

// Select makes the list with the given id current, mirrors it into the
// legacy slot, and bumps its index recency. Returns nil when the id is
// unknown.
func (s *ShoppingStore) Select(id string) *model.ListSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrator.Run()
	return s.selectLocked(id)
}

func (s *ShoppingStore) selectLocked(id string) *model.ListSnapshot {
	doc := s.docs.Read(id)
	if doc == nil {
		return nil
	}
	s.selection.Select(id)
	doc.UpdatedAt = s.now()
	s.docs.Write(*doc)
	return doc
}

// Rename changes the current list's name. Returns nil when no current list
// exists. Duplicate names are allowed here; use RenameCurrentUnique for
// validated renames.
func (s *ShoppingStore) Rename(newName string) *model.ListSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrator.Run()
	return s.rename(newName)
}

func (s *ShoppingStore) rename(newName string) *model.ListSnapshot {
	id := s.selection.Current()
	if id == "" {
		return nil
	}
	doc := s.docs.Read(id)
	if doc == nil {
		return nil
	}
	doc.Name = newName
	doc.UpdatedAt = s.now()
	s.docs.Write(*doc)
	return doc
}

// Delete removes the list document, its index entry, and repairs the
// current selection when the deleted list was selected.
func (s *ShoppingStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrator.Run()
	s.docs.RemoveByID(id)
}

// NameExists reports whether any list's name matches the candidate,
// case-insensitively and ignoring surrounding whitespace.
func (s *ShoppingStore) NameExists(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrator.Run()
	return s.nameExists(name, "")
}

// CreateAndSelectUnique validates the candidate name before creating:
// ErrInvalidName for a blank name, ErrDuplicateName when another list
// already uses it.
func (s *ShoppingStore) CreateAndSelectUnique(name string) (model.ListSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrator.Run()

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return model.ListSnapshot{}, ErrInvalidName
	}
	if s.nameExists(trimmed, "") {
		return model.ListSnapshot{}, ErrDuplicateName
	}
	return s.createList(trimmed), nil
}

// RenameCurrentUnique validates the candidate name before renaming the
// current list: ErrInvalidName for a blank name, ErrNotFound when no current
// list exists, ErrDuplicateName when another list already uses the name.
func (s *ShoppingStore) RenameCurrentUnique(newName string) (model.ListSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrator.Run()

	trimmed := strings.TrimSpace(newName)
	if trimmed == "" {
		return model.ListSnapshot{}, ErrInvalidName
	}
	current := s.selection.Current()
	if current == "" || s.docs.Read(current) == nil {
		return model.ListSnapshot{}, ErrNotFound
	}
	if s.nameExists(trimmed, current) {
		return model.ListSnapshot{}, ErrDuplicateName
	}
	return *s.rename(trimmed), nil
}

// OpenByName selects the list whose name matches exactly
// (case-insensitively, trimmed). Returns nil when no list matches.
func (s *ShoppingStore) OpenByName(name string) *model.ListSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrator.Run()

	want := strings.ToLower(strings.TrimSpace(name))
	for _, meta := range s.index.ReadAll() {
		if strings.ToLower(strings.TrimSpace(meta.Name)) == want {
			return s.selectLocked(meta.ID)
		}
	}
	return nil
}

// --- Item operations on the current list ---

// AddItem appends the item to the current list, creating a default list
// first when none exists. Offline, the add is queued for replay.
func (s *ShoppingStore) AddItem(item model.Item) model.ListSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrator.Run()

	doc := s.currentForMutation()
	doc.Items = append(doc.Items, item)
	doc.UpdatedAt = s.now()
	s.docs.Write(doc)

	s.enqueueIfOffline(model.PendingOp{Kind: model.OpAdd, Item: &item, ListID: doc.ID})
	return doc
}

// UpdateItem applies the patch to the matching item. Unknown item ids leave
// the list unchanged apart from its updated_at stamp.
func (s *ShoppingStore) UpdateItem(id string, patch model.ItemPatch) model.ListSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrator.Run()

	doc := s.currentForMutation()
	for i := range doc.Items {
		if doc.Items[i].ID == id {
			doc.Items[i] = patch.Apply(doc.Items[i])
		}
	}
	doc.UpdatedAt = s.now()
	s.docs.Write(doc)

	s.enqueueIfOffline(model.PendingOp{Kind: model.OpUpdate, ItemID: id, Patch: &patch, ListID: doc.ID})
	return doc
}

// ToggleItem flips the done flag on the matching item.
func (s *ShoppingStore) ToggleItem(id string) model.ListSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrator.Run()

	doc := s.currentForMutation()
	for i := range doc.Items {
		if doc.Items[i].ID == id {
			doc.Items[i].Done = !doc.Items[i].Done
		}
	}
	doc.UpdatedAt = s.now()
	s.docs.Write(doc)

	s.enqueueIfOffline(model.PendingOp{Kind: model.OpToggle, ItemID: id, ListID: doc.ID})
	return doc
}

// DeleteItem removes the matching item from the current list.
func (s *ShoppingStore) DeleteItem(id string) model.ListSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrator.Run()

	doc := s.currentForMutation()
	kept := doc.Items[:0]
	for _, it := range doc.Items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	doc.Items = kept
	doc.UpdatedAt = s.now()
	s.docs.Write(doc)

	s.enqueueIfOffline(model.PendingOp{Kind: model.OpDelete, ItemID: id, ListID: doc.ID})
	return doc
}

// ReplaceItems overwrites the current list's items wholesale.
func (s *ShoppingStore) ReplaceItems(items []model.Item) model.ListSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrator.Run()

	doc := s.currentForMutation()
	if items == nil {
		items = []model.Item{}
	}
	doc.Items = items
	doc.UpdatedAt = s.now()
	s.docs.Write(doc)
	return doc
}

// --- Snapshot access ---

// LoadSnapshot resolves the current document, nil when none exists.
func (s *ShoppingStore) LoadSnapshot() *model.ListSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrator.Run()
	return s.resolveCurrent()
}

// SaveSnapshot stamps updated_at and persists the snapshot. When no list is
// selected yet, the saved snapshot becomes the current selection so the
// index, mirror, and selection stay consistent.
func (s *ShoppingStore) SaveSnapshot(snap model.ListSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrator.Run()

	if snap.ID == "" {
		snap.ID = s.newID()
	}
	if s.selection.Current() == "" {
		s.selection.Select(snap.ID)
	}
	snap.UpdatedAt = s.now()
	s.docs.Write(snap)
}

// --- Offline queue ---

// Pending returns the queued offline ops in insertion order.
func (s *ShoppingStore) Pending() []model.PendingOp {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Load()
}

// Flush replays the queued ops through send in order, clearing the queue
// only when every op succeeds. The store is locked for the duration, so ops
// enqueued by concurrent mutations are never lost to the clear.
func (s *ShoppingStore) Flush(ctx context.Context, send Sender) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Flush(ctx, send)
}

// Reset deletes every slot: legacy document, queue, index, selection, and
// all per-list documents. Debug and test teardown only.
func (s *ShoppingStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv.Reset()
}
