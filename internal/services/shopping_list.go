package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodhive/internal/models"
	"foodhive/internal/repositories"

	"go.uber.org/zap"
)

// ShoppingListCollection is the document collection shopping list items are stored under.
const ShoppingListCollection = "shoppingList"

// ShoppingList manages shopping list items in a document store.
type ShoppingList struct {
	docs   repositories.DocumentStore
	logger *zap.Logger
}

// NewShoppingList creates a new ShoppingList. logger may be nil.
func NewShoppingList(docs repositories.DocumentStore, logger *zap.Logger) *ShoppingList {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShoppingList{
		docs:   docs,
		logger: logger,
	}
}

// Add stores a new item. An item without a category gets one guessed from its name.
func (s *ShoppingList) Add(ctx context.Context, item models.ShoppingItem) (*models.ShoppingItem, error) {
	if strings.TrimSpace(item.Category) == "" {
		item.Category = models.GuessCategory(item.Name)
	}
	if err := ValidateShoppingItem(item); err != nil {
		return nil, err
	}

	id, err := s.docs.Create(ctx, ShoppingListCollection, item.Document())
	if err != nil {
		s.logger.Warn("Error adding shopping item", zap.String("name", item.Name), zap.Error(err))
		return nil, &StoreError{Op: "create", Err: err}
	}
	item.ID = id
	s.logger.Info("Shopping item added", zap.String("id", id), zap.String("name", item.Name))
	return &item, nil
}

// List returns every item on the shopping list. Undecodable documents are skipped.
func (s *ShoppingList) List(ctx context.Context) ([]models.ShoppingItem, error) {
	docs, err := s.docs.GetAll(ctx, ShoppingListCollection)
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}

	items := make([]models.ShoppingItem, 0, len(docs))
	for _, doc := range docs {
		item, err := models.ShoppingItemFromDocument(doc.ID, doc.Fields)
		if err != nil {
			s.logger.Warn("Skipping undecodable shopping item", zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Get retrieves a single item by its ID.
func (s *ShoppingList) Get(ctx context.Context, id string) (*models.ShoppingItem, error) {
	doc, err := s.docs.GetByID(ctx, ShoppingListCollection, id)
	if err != nil {
		return nil, s.classify("get", id, err)
	}
	item, err := models.ShoppingItemFromDocument(doc.ID, doc.Fields)
	if err != nil {
		return nil, fmt.Errorf("failed to decode shopping item %s: %w", id, err)
	}
	return &item, nil
}

// Update replaces the stored item with the same ID.
func (s *ShoppingList) Update(ctx context.Context, item models.ShoppingItem) (*models.ShoppingItem, error) {
	if err := ValidateShoppingItem(item); err != nil {
		return nil, err
	}
	if err := s.docs.Update(ctx, ShoppingListCollection, item.ID, item.Document()); err != nil {
		return nil, s.classify("update", item.ID, err)
	}
	return &item, nil
}

// ToggleBought flips the bought flag of an item and returns the updated item.
func (s *ShoppingList) ToggleBought(ctx context.Context, id string) (*models.ShoppingItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Bought = !item.Bought
	if err := s.docs.Update(ctx, ShoppingListCollection, id, item.Document()); err != nil {
		return nil, s.classify("update", id, err)
	}
	return item, nil
}

// Delete removes an item from the list.
func (s *ShoppingList) Delete(ctx context.Context, id string) error {
	if err := s.docs.Delete(ctx, ShoppingListCollection, id); err != nil {
		return s.classify("delete", id, err)
	}
	s.logger.Info("Shopping item deleted", zap.String("id", id))
	return nil
}

// MissingItems returns the names that are not already on the list as
// unbought items, compared case-insensitively. Blank and repeated names are dropped.
func (s *ShoppingList) MissingItems(ctx context.Context, names []string) ([]string, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	pending := make(map[string]bool, len(items))
	for _, item := range items {
		if !item.Bought {
			pending[normalizeItemName(item.Name)] = true
		}
	}

	var missing []string
	for _, name := range names {
		key := normalizeItemName(name)
		if key == "" || pending[key] {
			continue
		}
		pending[key] = true
		missing = append(missing, strings.TrimSpace(name))
	}
	return missing, nil
}

// AddMissing adds one item per name not already pending on the list, each
// with quantity 1 and a guessed category, and returns the items added.
func (s *ShoppingList) AddMissing(ctx context.Context, names []string) ([]models.ShoppingItem, error) {
	missing, err := s.MissingItems(ctx, names)
	if err != nil {
		return nil, err
	}

	added := make([]models.ShoppingItem, 0, len(missing))
	for _, name := range missing {
		item, err := s.Add(ctx, models.ShoppingItem{Name: name, Quantity: 1})
		if err != nil {
			return added, err
		}
		added = append(added, *item)
	}
	return added, nil
}

func (s *ShoppingList) classify(op, id string, err error) error {
	if errors.Is(err, repositories.ErrDocumentNotFound) {
		return fmt.Errorf("shopping item with ID %s: %w", id, ErrShoppingItemNotFound)
	}
	return &StoreError{Op: op, Err: err}
}

func normalizeItemName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
