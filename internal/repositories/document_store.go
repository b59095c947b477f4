package repositories

import (
	"context"
	"errors"
)

// ErrDocumentNotFound is returned when no document exists under the given ID.
var ErrDocumentNotFound = errors.New("document not found")

// Document is a stored key/value document together with its store-assigned ID.
type Document struct {
	ID     string
	Fields map[string]interface{}
}

// DocumentStore defines the interface for schemaless document persistence.
// Documents are grouped into named collections; IDs are generated by the store.
type DocumentStore interface {
	Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error)
	GetByID(ctx context.Context, collection, id string) (*Document, error)
	GetAll(ctx context.Context, collection string) ([]Document, error)
	// Update replaces the fields of an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
}
