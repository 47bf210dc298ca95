package model

import "time"

// OpKind discriminates the variants of a PendingOp.
type OpKind string

const (
	OpAdd    OpKind = "add"
	OpUpdate OpKind = "update"
	OpToggle OpKind = "toggle"
	OpDelete OpKind = "delete"
)

// ItemPatch is a partial item update: nil fields are left untouched.
type ItemPatch struct {
	Name     *string   `json:"name,omitempty"`
	Done     *bool     `json:"done,omitempty"`
	Snoozed  *bool     `json:"snoozed,omitempty"`
	Amount   *float64  `json:"amount,omitempty"`
	Unit     *Unit     `json:"unit,omitempty"`
	Category *Category `json:"category,omitempty"`
}

// Apply returns the item with the patch's non-nil fields applied.
func (p ItemPatch) Apply(it Item) Item {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Done != nil {
		it.Done = *p.Done
	}
	if p.Snoozed != nil {
		it.Snoozed = *p.Snoozed
	}
	if p.Amount != nil {
		it.Amount = p.Amount
	}
	if p.Unit != nil {
		it.Unit = *p.Unit
	}
	if p.Category != nil {
		it.Category = *p.Category
	}
	return it
}

// PendingOp is one queued item mutation awaiting replay against the remote
// service. Kind selects the variant: add carries the full item, update
// carries the item id plus a patch, toggle and delete carry only the id.
type PendingOp struct {
	Kind     OpKind     `json:"kind"`
	Item     *Item      `json:"item,omitempty"`
	ItemID   string     `json:"item_id,omitempty"`
	Patch    *ItemPatch `json:"patch,omitempty"`
	ListID   string     `json:"list_id,omitempty"`
	QueuedAt time.Time  `json:"queued_at"`
}
