package models

import (
	"fmt"
	"strings"
)

// Document keys of a stored shopping list item. Name, category and quantity
// share the product keys.
const (
	FieldBought = "bought"
)

// ShoppingItem is one entry of the shopping list.
type ShoppingItem struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name" validate:"notblank"`
	Quantity int    `json:"quantity" validate:"gte=1"`
	Bought   bool   `json:"bought"`
	Category string `json:"category,omitempty"`
}

// itemKeywords guesses a category from a shopping item's name, in order.
var itemKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryDairy, []string{"milk", "cheese", "yogurt", "butter"}},
	{CategoryFruits, []string{"apple", "banana", "orange", "berries", "grapes"}},
	{CategoryVegetables, []string{"carrot", "tomato", "lettuce", "potato", "onion"}},
	{CategoryBakery, []string{"bread", "croissant", "brioche", "bun"}},
	{CategoryDrinks, []string{"soda", "cola", "juice", "water"}},
	{CategorySnacks, []string{"chips", "chocolate", "cookie", "candy"}},
}

// GuessCategory picks a canonical category from an item name such as "2 bananas".
func GuessCategory(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, c := range itemKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.category
			}
		}
	}
	return CategoryOther
}

// Document flattens the item into its stored layout.
func (i ShoppingItem) Document() map[string]interface{} {
	doc := map[string]interface{}{
		FieldName:     i.Name,
		FieldQuantity: int64(i.Quantity),
		FieldBought:   i.Bought,
	}
	if i.Category != "" {
		doc[FieldCategory] = i.Category
	}
	return doc
}

// ShoppingItemFromDocument builds an item from a stored document. A missing
// quantity reads as 1.
func ShoppingItemFromDocument(id string, fields map[string]interface{}) (ShoppingItem, error) {
	item := ShoppingItem{ID: id, Quantity: 1}
	var err error
	if item.Name, err = stringField(fields, FieldName); err != nil {
		return ShoppingItem{}, err
	}
	if item.Category, err = stringField(fields, FieldCategory); err != nil {
		return ShoppingItem{}, err
	}
	if _, ok := fields[FieldQuantity]; ok {
		if item.Quantity, err = intField(fields, FieldQuantity); err != nil {
			return ShoppingItem{}, err
		}
	}
	switch v := fields[FieldBought].(type) {
	case nil:
	case bool:
		item.Bought = v
	default:
		return ShoppingItem{}, fmt.Errorf("field %q: expected bool, got %T", FieldBought, v)
	}
	return item, nil
}
