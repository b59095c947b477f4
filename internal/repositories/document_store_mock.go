package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MockDocumentStore is an in-memory implementation of DocumentStore.
type MockDocumentStore struct {
	collections map[string]map[string]map[string]interface{}
	order       map[string][]string
	mu          sync.RWMutex
}

// NewMockDocumentStore creates a new instance of MockDocumentStore.
func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{
		collections: make(map[string]map[string]map[string]interface{}),
		order:       make(map[string][]string),
	}
}

// Create stores a copy of fields under a new random ID.
func (r *MockDocumentStore) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	docs, ok := r.collections[collection]
	if !ok {
		docs = make(map[string]map[string]interface{})
		r.collections[collection] = docs
	}
	id := uuid.New().String()
	docs[id] = copyFields(fields)
	r.order[collection] = append(r.order[collection], id)
	return id, nil
}

// GetByID returns a document by its ID.
func (r *MockDocumentStore) GetByID(ctx context.Context, collection, id string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	fields, ok := r.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("document with ID %s in %s: %w", id, collection, ErrDocumentNotFound)
	}
	return &Document{ID: id, Fields: copyFields(fields)}, nil
}

// GetAll returns all documents of a collection in insertion order.
func (r *MockDocumentStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.order[collection]
	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, Document{ID: id, Fields: copyFields(r.collections[collection][id])})
	}
	return docs, nil
}

// Update replaces the stored fields of an existing document.
func (r *MockDocumentStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.collections[collection][id]; !ok {
		return fmt.Errorf("document with ID %s in %s not found for update: %w", id, collection, ErrDocumentNotFound)
	}
	r.collections[collection][id] = copyFields(fields)
	return nil
}

// Delete removes a document by its ID.
func (r *MockDocumentStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.collections[collection][id]; !ok {
		return fmt.Errorf("document with ID %s in %s not found for deletion: %w", id, collection, ErrDocumentNotFound)
	}
	delete(r.collections[collection], id)
	ids := r.order[collection]
	for i, existing := range ids {
		if existing == id {
			r.order[collection] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func copyFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
