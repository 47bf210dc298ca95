package model

import (
	"strings"
	"time"
)

// DefaultListName is the display name substituted whenever a list has a
// blank or missing name.
const DefaultListName = "My list"

// ListSnapshot is the full persisted document for one shopping list.
type ListSnapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
	Items     []Item    `json:"items"`
}

// DisplayName returns the list name, falling back to DefaultListName when
// blank.
func (l ListSnapshot) DisplayName() string {
	name := strings.TrimSpace(l.Name)
	if name == "" {
		return DefaultListName
	}
	return name
}

// ListMeta is the index entry for one list: a denormalized projection of its
// snapshot. After any write completes, every stored snapshot has exactly one
// matching meta with equal id, name, created_at, and updated_at.
type ListMeta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// MetaOf derives the index entry for a snapshot. A blank name becomes
// DefaultListName and a missing updated_at defaults to now.
func MetaOf(l ListSnapshot, now time.Time) ListMeta {
	updated := l.UpdatedAt
	if updated.IsZero() {
		updated = now
	}
	return ListMeta{
		ID:        l.ID,
		Name:      l.DisplayName(),
		CreatedAt: l.CreatedAt,
		UpdatedAt: updated,
	}
}
