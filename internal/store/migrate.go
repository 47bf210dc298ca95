package store

import (
	"log/slog"
	"time"

	"github.com/dukerupert/shoplist/internal/kv"
	"github.com/dukerupert/shoplist/internal/model"
)

// Migrator performs the one-time transformation from the legacy
// single-document storage layout to the indexed multi-list layout. Running
// it is idempotent: once the index and selection exist, or no legacy data
// exists, it is a no-op, so every public operation can call it cheaply.
type Migrator struct {
	docs      *DocumentStore
	index     *IndexStore
	selection *SelectionStore
	logger    *slog.Logger
	newID     func() string
	now       func() time.Time
}

func NewMigrator(docs *DocumentStore, index *IndexStore, selection *SelectionStore, logger *slog.Logger) *Migrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{
		docs:      docs,
		index:     index,
		selection: selection,
		logger:    logger,
		newID:     kv.NewID,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Needed reports whether migration must run: the legacy slot holds data and
// the indexed layout is not fully in place yet.
func (m *Migrator) Needed() bool {
	if m.index.Present() && m.selection.Present() {
		return false
	}
	return m.docs.LegacyPresent()
}

// Run migrates the legacy document into the indexed layout. Re-running after
// a completed migration changes nothing.
func (m *Migrator) Run() {
	if !m.Needed() {
		return
	}

	now := m.now()
	id := m.newID()

	legacy := m.docs.ReadLegacy()
	if legacy == nil {
		// Slot exists but does not decode. Start over with an empty list.
		m.logger.Warn("legacy document unreadable, migrating empty list")
		legacy = &model.ListSnapshot{ID: id, CreatedAt: now}
	}
	if legacy.ID == "" {
		legacy.ID = id
	}

	doc := model.ListSnapshot{
		ID:        legacy.ID,
		Name:      legacy.DisplayName(),
		CreatedAt: legacy.CreatedAt,
		UpdatedAt: legacy.UpdatedAt,
		Items:     legacy.Items,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = now
	}
	if doc.Items == nil {
		doc.Items = []model.Item{}
	}

	// Selection must be set before the document write so the write mirrors
	// the document into the legacy slot for old readers.
	m.selection.Select(doc.ID)
	m.docs.Write(doc)
	m.docs.WriteLegacy(doc)

	m.logger.Info("migrated legacy list", "list_id", doc.ID, "items", len(doc.Items))
}
