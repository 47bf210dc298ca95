package model

// Unit is an enumerated unit of measure for an item amount.
type Unit string

const (
	UnitPiece  Unit = "piece"
	UnitGram   Unit = "g"
	UnitKilo   Unit = "kg"
	UnitLiter  Unit = "l"
	UnitMillil Unit = "ml"
	UnitPack   Unit = "pack"
	UnitBottle Unit = "bottle"
	UnitCan    Unit = "can"
)

// Category is an enumerated shopping category label. An empty Category means
// CategoryDefault.
type Category string

const (
	CategoryDefault   Category = "Default"
	CategoryProduce   Category = "Produce"
	CategoryDairy     Category = "Dairy"
	CategoryMeat      Category = "Meat & Seafood"
	CategoryBakery    Category = "Bakery"
	CategoryPantry    Category = "Pantry"
	CategoryFrozen    Category = "Frozen"
	CategoryBeverages Category = "Beverages"
	CategorySnacks    Category = "Snacks"
	CategoryHousehold Category = "Household"
	CategoryCare      Category = "Personal Care"
)

// Item is a single entry on a shopping list. IDs are unique within one
// list's items and immutable after creation.
type Item struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Done     bool     `json:"done"`
	Snoozed  bool     `json:"snoozed,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
	Unit     Unit     `json:"unit,omitempty"`
	Category Category `json:"category,omitempty"`
}

// Bucket is the display partition an item falls into. It is derived from the
// done/snoozed pair and never stored.
type Bucket string

const (
	BucketOpen   Bucket = "open"
	BucketLater  Bucket = "later"
	BucketInCart Bucket = "in_cart"
)

// BucketOf returns the bucket for an item: done wins over snoozed.
func BucketOf(it Item) Bucket {
	switch {
	case it.Done:
		return BucketInCart
	case it.Snoozed:
		return BucketLater
	default:
		return BucketOpen
	}
}

// EffectiveCategory resolves an absent category to CategoryDefault.
func (it Item) EffectiveCategory() Category {
	if it.Category == "" {
		return CategoryDefault
	}
	return it.Category
}
