// Package grocery guesses a shopping category from an item's display name so
// new items land in a sensible store aisle without the user picking one.
package grocery

import (
	"strings"

	"github.com/dukerupert/shoplist/internal/model"
)

// Categorize returns the category for the given item name. Matching is
// case-insensitive: exact match first, then substring match with the more
// specific keywords tried before the generic ones. Unknown names fall back
// to CategoryDefault.
func Categorize(itemName string) model.Category {
	name := strings.ToLower(strings.TrimSpace(itemName))
	if name == "" {
		return model.CategoryDefault
	}

	if cat, ok := exactMatch[name]; ok {
		return cat
	}

	for _, entry := range substringMatches {
		if strings.Contains(name, entry.keyword) {
			return entry.category
		}
	}

	return model.CategoryDefault
}

var exactMatch = map[string]model.Category{
	"apple":      model.CategoryProduce,
	"apples":     model.CategoryProduce,
	"banana":     model.CategoryProduce,
	"bananas":    model.CategoryProduce,
	"tomato":     model.CategoryProduce,
	"tomatoes":   model.CategoryProduce,
	"potato":     model.CategoryProduce,
	"potatoes":   model.CategoryProduce,
	"onion":      model.CategoryProduce,
	"onions":     model.CategoryProduce,
	"garlic":     model.CategoryProduce,
	"lettuce":    model.CategoryProduce,
	"spinach":    model.CategoryProduce,
	"broccoli":   model.CategoryProduce,
	"carrots":    model.CategoryProduce,
	"cucumber":   model.CategoryProduce,
	"lemon":      model.CategoryProduce,
	"lemons":     model.CategoryProduce,
	"avocado":    model.CategoryProduce,
	"avocados":   model.CategoryProduce,
	"milk":       model.CategoryDairy,
	"butter":     model.CategoryDairy,
	"eggs":       model.CategoryDairy,
	"yogurt":     model.CategoryDairy,
	"cheese":     model.CategoryDairy,
	"cream":      model.CategoryDairy,
	"chicken":    model.CategoryMeat,
	"beef":       model.CategoryMeat,
	"pork":       model.CategoryMeat,
	"salmon":     model.CategoryMeat,
	"shrimp":     model.CategoryMeat,
	"bacon":      model.CategoryMeat,
	"bread":      model.CategoryBakery,
	"bagels":     model.CategoryBakery,
	"croissant":  model.CategoryBakery,
	"tortillas":  model.CategoryBakery,
	"rice":       model.CategoryPantry,
	"pasta":      model.CategoryPantry,
	"flour":      model.CategoryPantry,
	"sugar":      model.CategoryPantry,
	"salt":       model.CategoryPantry,
	"cereal":     model.CategoryPantry,
	"oatmeal":    model.CategoryPantry,
	"ketchup":    model.CategoryPantry,
	"mustard":    model.CategoryPantry,
	"mayo":       model.CategoryPantry,
	"coffee":     model.CategoryBeverages,
	"tea":        model.CategoryBeverages,
	"juice":      model.CategoryBeverages,
	"soda":       model.CategoryBeverages,
	"beer":       model.CategoryBeverages,
	"wine":       model.CategoryBeverages,
	"water":      model.CategoryBeverages,
	"chips":      model.CategorySnacks,
	"crackers":   model.CategorySnacks,
	"popcorn":    model.CategorySnacks,
	"cookies":    model.CategorySnacks,
	"chocolate":  model.CategorySnacks,
	"detergent":  model.CategoryHousehold,
	"sponges":    model.CategoryHousehold,
	"batteries":  model.CategoryHousehold,
	"shampoo":    model.CategoryCare,
	"toothpaste": model.CategoryCare,
	"deodorant":  model.CategoryCare,
	"soap":       model.CategoryCare,
}

// Ordered most-specific keyword first so "ice cream" wins over "cream" and
// "peanut butter" over "butter".
var substringMatches = []struct {
	keyword  string
	category model.Category
}{
	{"ice cream", model.CategoryFrozen},
	{"frozen", model.CategoryFrozen},
	{"peanut butter", model.CategoryPantry},
	{"olive oil", model.CategoryPantry},
	{"toilet paper", model.CategoryHousehold},
	{"paper towel", model.CategoryHousehold},
	{"trash bag", model.CategoryHousehold},
	{"dish soap", model.CategoryHousehold},
	{"hand soap", model.CategoryCare},
	{"toothbrush", model.CategoryCare},
	{"berries", model.CategoryProduce},
	{"pepper", model.CategoryProduce},
	{"mushroom", model.CategoryProduce},
	{"salad", model.CategoryProduce},
	{"cheese", model.CategoryDairy},
	{"yogurt", model.CategoryDairy},
	{"milk", model.CategoryDairy},
	{"steak", model.CategoryMeat},
	{"sausage", model.CategoryMeat},
	{"fish", model.CategoryMeat},
	{"turkey", model.CategoryMeat},
	{"bread", model.CategoryBakery},
	{"bun", model.CategoryBakery},
	{"muffin", model.CategoryBakery},
	{"cake", model.CategoryBakery},
	{"sauce", model.CategoryPantry},
	{"beans", model.CategoryPantry},
	{"soup", model.CategoryPantry},
	{"spice", model.CategoryPantry},
	{"cola", model.CategoryBeverages},
	{"drink", model.CategoryBeverages},
	{"candy", model.CategorySnacks},
	{"snack", model.CategorySnacks},
	{"nuts", model.CategorySnacks},
	{"cleaner", model.CategoryHousehold},
	{"wipes", model.CategoryHousehold},
	{"lotion", model.CategoryCare},
	{"razor", model.CategoryCare},
}
