package store

// Slot keys. These are the durable storage layout and must stay stable
// across versions: the legacy migration depends on finding old data under
// the same keys it was written to.
const (
	keyLegacy    = "shopping_list"
	keyQueue     = "pending_ops"
	keyIndex     = "lists.index"
	keyCurrent   = "lists.current"
	docKeyPrefix = "list."
)

func docKey(id string) string {
	return docKeyPrefix + id
}
