package repositories_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"foodhive/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// runDocumentStoreContract exercises the behaviour every DocumentStore must share.
func runDocumentStoreContract(t *testing.T, store repositories.DocumentStore) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		fields := map[string]interface{}{"name": "Fresh Apple", "quantity": int64(3)}
		id, err := store.Create(ctx, "products", fields)
		require.NoError(t, err)
		assert.NotEmpty(t, id)

		doc, err := store.GetByID(ctx, "products", id)
		require.NoError(t, err)
		assert.Equal(t, id, doc.ID)
		assert.Equal(t, "Fresh Apple", doc.Fields["name"])
		assert.EqualValues(t, 3, doc.Fields["quantity"])
	})

	t.Run("identical documents get distinct ids", func(t *testing.T) {
		fields := map[string]interface{}{"name": "Milk"}
		first, err := store.Create(ctx, "products", fields)
		require.NoError(t, err)
		second, err := store.Create(ctx, "products", fields)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := store.GetByID(ctx, "products", "000000000000000000000000")
		assert.ErrorIs(t, err, repositories.ErrDocumentNotFound)
	})

	t.Run("collections are isolated", func(t *testing.T) {
		id, err := store.Create(ctx, "shopping", map[string]interface{}{"name": "Eggs"})
		require.NoError(t, err)

		_, err = store.GetByID(ctx, "products", id)
		assert.ErrorIs(t, err, repositories.ErrDocumentNotFound)

		docs, err := store.GetAll(ctx, "shopping")
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, id, docs[0].ID)
		assert.Equal(t, "Eggs", docs[0].Fields["name"])
	})

	t.Run("update", func(t *testing.T) {
		id, err := store.Create(ctx, "shopping", map[string]interface{}{"name": "Bread", "bought": false})
		require.NoError(t, err)

		require.NoError(t, store.Update(ctx, "shopping", id, map[string]interface{}{"name": "Bread", "bought": true}))

		doc, err := store.GetByID(ctx, "shopping", id)
		require.NoError(t, err)
		assert.Equal(t, true, doc.Fields["bought"])

		err = store.Update(ctx, "shopping", "000000000000000000000000", map[string]interface{}{"name": "Ghost"})
		assert.ErrorIs(t, err, repositories.ErrDocumentNotFound)
		err = store.Update(ctx, "products", id, map[string]interface{}{"name": "Other collection"})
		assert.ErrorIs(t, err, repositories.ErrDocumentNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		collection := "delete-" + uuid.NewString()
		keep, err := store.Create(ctx, collection, map[string]interface{}{"name": "Keep"})
		require.NoError(t, err)
		drop, err := store.Create(ctx, collection, map[string]interface{}{"name": "Drop"})
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, collection, drop))

		_, err = store.GetByID(ctx, collection, drop)
		assert.ErrorIs(t, err, repositories.ErrDocumentNotFound)
		docs, err := store.GetAll(ctx, collection)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, keep, docs[0].ID)

		assert.ErrorIs(t, store.Delete(ctx, collection, drop), repositories.ErrDocumentNotFound)
	})

	t.Run("get all", func(t *testing.T) {
		collection := "list-" + uuid.NewString()
		var ids []string
		for i := 0; i < 3; i++ {
			id, err := store.Create(ctx, collection, map[string]interface{}{"n": int64(i)})
			require.NoError(t, err)
			ids = append(ids, id)
		}

		docs, err := store.GetAll(ctx, collection)
		require.NoError(t, err)
		got := make([]string, len(docs))
		for i, d := range docs {
			got[i] = d.ID
		}
		assert.ElementsMatch(t, ids, got)

		empty, err := store.GetAll(ctx, "nothing-here-"+uuid.NewString())
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestMockDocumentStore(t *testing.T) {
	runDocumentStoreContract(t, repositories.NewMockDocumentStore())
}

func TestMockDocumentStore_CopiesFields(t *testing.T) {
	store := repositories.NewMockDocumentStore()
	fields := map[string]interface{}{"name": "Tea"}

	id, err := store.Create(context.Background(), "products", fields)
	require.NoError(t, err)
	fields["name"] = "Coffee"

	doc, err := store.GetByID(context.Background(), "products", id)
	require.NoError(t, err)
	assert.Equal(t, "Tea", doc.Fields["name"])

	doc.Fields["name"] = "Cocoa"
	again, err := store.GetByID(context.Background(), "products", id)
	require.NoError(t, err)
	assert.Equal(t, "Tea", again.Fields["name"])
}

func TestMockDocumentStore_InsertionOrder(t *testing.T) {
	store := repositories.NewMockDocumentStore()
	var ids []string
	for i := 0; i < 5; i++ {
		id, err := store.Create(context.Background(), "products", map[string]interface{}{"n": i})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	docs, err := store.GetAll(context.Background(), "products")
	require.NoError(t, err)
	for i, d := range docs {
		assert.Equal(t, ids[i], d.ID)
	}
}

func TestMockDocumentStore_CancelledContext(t *testing.T) {
	store := repositories.NewMockDocumentStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Create(ctx, "products", map[string]interface{}{"name": "Tea"})
	assert.ErrorIs(t, err, context.Canceled)

	docs, err := store.GetAll(context.Background(), "products")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestGORMDocumentStore(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	store := repositories.NewGORMDocumentStore(db)
	require.NoError(t, store.AutoMigrate())

	runDocumentStoreContract(t, store)
}

func TestMongoDocumentStore(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping MongoDB integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database("foodhive_test_" + uuid.NewString()[:8])
	defer func() {
		_ = db.Drop(context.Background())
	}()

	store := repositories.NewMongoDocumentStore(db)
	runDocumentStoreContract(t, store)

	_, err = store.GetByID(ctx, "products", "not-an-object-id")
	assert.ErrorIs(t, err, repositories.ErrDocumentNotFound)
}
