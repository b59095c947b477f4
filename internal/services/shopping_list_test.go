package services_test

import (
	"context"
	"errors"
	"testing"

	"foodhive/internal/models"
	"foodhive/internal/repositories"
	"foodhive/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestShoppingList_AddAndList(t *testing.T) {
	list := services.NewShoppingList(repositories.NewMockDocumentStore(), nil)
	ctx := context.Background()

	milk, err := list.Add(ctx, models.ShoppingItem{Name: "Milk", Quantity: 2})
	require.NoError(t, err)
	assert.NotEmpty(t, milk.ID)
	assert.Equal(t, models.CategoryDairy, milk.Category)

	soap, err := list.Add(ctx, models.ShoppingItem{Name: "Soap", Quantity: 1, Category: "Household"})
	require.NoError(t, err)
	assert.Equal(t, "Household", soap.Category)

	items, err := list.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, *milk, items[0])
	assert.Equal(t, *soap, items[1])
}

func TestShoppingList_AddInvalid(t *testing.T) {
	mockDocs := new(MockDocumentStore)
	list := services.NewShoppingList(mockDocs, nil)

	testCases := []struct {
		name  string
		item  models.ShoppingItem
		field string
	}{
		{name: "blank name", item: models.ShoppingItem{Name: " ", Quantity: 1}, field: "name"},
		{name: "zero quantity", item: models.ShoppingItem{Name: "Eggs"}, field: "quantity"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := list.Add(context.Background(), tc.item)

			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []string{tc.field}, verr.Fields)
		})
	}
	mockDocs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestShoppingList_ToggleBought(t *testing.T) {
	list := services.NewShoppingList(repositories.NewMockDocumentStore(), nil)
	ctx := context.Background()
	bread, err := list.Add(ctx, models.ShoppingItem{Name: "Bread", Quantity: 1})
	require.NoError(t, err)

	toggled, err := list.ToggleBought(ctx, bread.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Bought)

	stored, err := list.Get(ctx, bread.ID)
	require.NoError(t, err)
	assert.True(t, stored.Bought)

	toggled, err = list.ToggleBought(ctx, bread.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Bought)

	_, err = list.ToggleBought(ctx, "missing")
	assert.ErrorIs(t, err, services.ErrShoppingItemNotFound)
}

func TestShoppingList_UpdateAndDelete(t *testing.T) {
	list := services.NewShoppingList(repositories.NewMockDocumentStore(), nil)
	ctx := context.Background()
	apples, err := list.Add(ctx, models.ShoppingItem{Name: "Apples", Quantity: 1})
	require.NoError(t, err)

	apples.Quantity = 6
	updated, err := list.Update(ctx, *apples)
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Quantity)

	stored, err := list.Get(ctx, apples.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, stored.Quantity)

	_, err = list.Update(ctx, models.ShoppingItem{ID: "missing", Name: "Pears", Quantity: 1})
	assert.ErrorIs(t, err, services.ErrShoppingItemNotFound)

	require.NoError(t, list.Delete(ctx, apples.ID))
	_, err = list.Get(ctx, apples.ID)
	assert.ErrorIs(t, err, services.ErrShoppingItemNotFound)
	assert.ErrorIs(t, list.Delete(ctx, apples.ID), services.ErrShoppingItemNotFound)
}

func TestShoppingList_AddMissing(t *testing.T) {
	list := services.NewShoppingList(repositories.NewMockDocumentStore(), nil)
	ctx := context.Background()

	_, err := list.Add(ctx, models.ShoppingItem{Name: "Tomato", Quantity: 3})
	require.NoError(t, err)
	onions, err := list.Add(ctx, models.ShoppingItem{Name: "Onion", Quantity: 1})
	require.NoError(t, err)
	_, err = list.ToggleBought(ctx, onions.ID)
	require.NoError(t, err)

	ingredients := []string{" tomato ", "Onion", "Butter", "butter", "", "Rice"}

	missing, err := list.MissingItems(ctx, ingredients)
	require.NoError(t, err)
	assert.Equal(t, []string{"Onion", "Butter", "Rice"}, missing)

	added, err := list.AddMissing(ctx, ingredients)
	require.NoError(t, err)
	require.Len(t, added, 3)
	assert.Equal(t, models.CategoryVegetables, added[0].Category)
	assert.Equal(t, models.CategoryDairy, added[1].Category)
	assert.Equal(t, models.CategoryOther, added[2].Category)
	for _, item := range added {
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, 1, item.Quantity)
		assert.False(t, item.Bought)
	}

	again, err := list.AddMissing(ctx, ingredients)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestShoppingList_StoreUnavailable(t *testing.T) {
	mockDocs := new(MockDocumentStore)
	list := services.NewShoppingList(mockDocs, nil)
	errDown := errors.New("connection refused")
	mockDocs.On("GetAll", mock.Anything, services.ShoppingListCollection).Return(nil, errDown).Once()
	mockDocs.On("Create", mock.Anything, services.ShoppingListCollection, mock.Anything).Return("", errDown).Once()

	_, err := list.AddMissing(context.Background(), []string{"Milk"})
	assert.ErrorIs(t, err, services.ErrStoreUnavailable)

	_, err = list.Add(context.Background(), models.ShoppingItem{Name: "Milk", Quantity: 1})
	assert.ErrorIs(t, err, services.ErrStoreUnavailable)
	assert.ErrorIs(t, err, errDown)
	mockDocs.AssertExpectations(t)
}
