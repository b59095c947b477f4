package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentRecord is the table row backing one document.
type DocumentRecord struct {
	ID         string            `gorm:"primaryKey;type:varchar(36)"`
	Collection string            `gorm:"index;type:varchar(100);not null"`
	Fields     datatypes.JSONMap `gorm:"not null"`
	CreatedAt  time.Time
}

// TableName pins the table name regardless of naming strategy.
func (DocumentRecord) TableName() string {
	return "documents"
}

// GORMDocumentStore is a GORM implementation of DocumentStore that keeps each
// document as a JSON column, so it runs on SQLite and PostgreSQL alike.
type GORMDocumentStore struct {
	db *gorm.DB
}

// NewGORMDocumentStore creates a new instance of GORMDocumentStore.
func NewGORMDocumentStore(db *gorm.DB) *GORMDocumentStore {
	return &GORMDocumentStore{
		db: db,
	}
}

// AutoMigrate creates or updates the documents table.
func (r *GORMDocumentStore) AutoMigrate() error {
	if err := r.db.AutoMigrate(&DocumentRecord{}); err != nil {
		return fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return nil
}

// Create inserts a new document row.
func (r *GORMDocumentStore) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	record := DocumentRecord{
		ID:         uuid.New().String(),
		Collection: collection,
		Fields:     datatypes.JSONMap(copyFields(fields)),
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}
	return record.ID, nil
}

// GetByID retrieves a single document by its ID.
func (r *GORMDocumentStore) GetByID(ctx context.Context, collection, id string) (*Document, error) {
	var record DocumentRecord
	err := r.db.WithContext(ctx).First(&record, "collection = ? AND id = ?", collection, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document with ID %s in %s: %w", id, collection, ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("failed to get document by ID %s: %w", id, err)
	}
	return &Document{ID: record.ID, Fields: map[string]interface{}(record.Fields)}, nil
}

// GetAll retrieves every document of a collection, oldest first.
func (r *GORMDocumentStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	var records []DocumentRecord
	err := r.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("created_at, id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all documents: %w", err)
	}
	docs := make([]Document, len(records))
	for i, record := range records {
		docs[i] = Document{ID: record.ID, Fields: map[string]interface{}(record.Fields)}
	}
	return docs, nil
}

// Update replaces the fields of an existing document row.
func (r *GORMDocumentStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&DocumentRecord{}).
		Where("collection = ? AND id = ?", collection, id).
		Update("fields", datatypes.JSONMap(copyFields(fields)))
	if result.Error != nil {
		return fmt.Errorf("failed to update document %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("document with ID %s in %s not found for update: %w", id, collection, ErrDocumentNotFound)
	}
	return nil
}

// Delete removes a document row by its ID.
func (r *GORMDocumentStore) Delete(ctx context.Context, collection, id string) error {
	result := r.db.WithContext(ctx).Where("collection = ? AND id = ?", collection, id).Delete(&DocumentRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("document with ID %s in %s not found for deletion: %w", id, collection, ErrDocumentNotFound)
	}
	return nil
}
