package models

import "strings"

// Canonical categories used by the pantry.
const (
	CategoryMeat       = "Meat"
	CategoryFruits     = "Fruits"
	CategoryVegetables = "Vegetables"
	CategorySnacks     = "Snacks"
	CategoryDrinks     = "Drinks"
	CategoryBakery     = "Bakery"
	CategoryDairy      = "Dairy"
	CategoryOther      = "Other"
)

// categoryKeywords is checked in order; the first category with a matching keyword wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryMeat, []string{"meat"}},
	{CategoryFruits, []string{"fruit"}},
	{CategoryVegetables, []string{"vegetable", "legume"}},
	{CategorySnacks, []string{"snack", "chips"}},
	{CategoryDrinks, []string{"drink", "soda", "beverage", "boisson", "juice", "beer"}},
	{CategoryBakery, []string{"bread", "bakery", "pastry"}},
	{CategoryDairy, []string{"dairy", "milk", "cheese", "yogurt"}},
}

// NormalizeCategory maps a free-form label, such as the categories returned by
// barcode databases, onto one of the canonical categories.
func NormalizeCategory(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(normalized, kw) {
				return c.category
			}
		}
	}
	return CategoryOther
}
