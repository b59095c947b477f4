package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDocumentStore is a MongoDB implementation of DocumentStore.
// Collections map one-to-one to Mongo collections; IDs are ObjectID hex strings.
type MongoDocumentStore struct {
	db *mongo.Database
}

// NewMongoDocumentStore creates a new instance of MongoDocumentStore.
func NewMongoDocumentStore(db *mongo.Database) *MongoDocumentStore {
	return &MongoDocumentStore{
		db: db,
	}
}

// Create inserts fields as a new document and returns the generated ObjectID.
func (r *MongoDocumentStore) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	res, err := r.db.Collection(collection).InsertOne(ctx, toBSON(fields))
	if err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted ID type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// GetByID retrieves a single document by its ObjectID hex string.
func (r *MongoDocumentStore) GetByID(ctx context.Context, collection, id string) (*Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("document with ID %s in %s: %w", id, collection, ErrDocumentNotFound)
	}

	var raw bson.M
	err = r.db.Collection(collection).FindOne(ctx, bson.M{"_id": oid}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("document with ID %s in %s: %w", id, collection, ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("failed to get document by ID %s: %w", id, err)
	}
	doc := fromBSON(raw)
	return &doc, nil
}

// GetAll retrieves every document of a collection in natural order.
func (r *MongoDocumentStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	cursor, err := r.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to get all documents: %w", err)
	}
	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	docs := make([]Document, len(raws))
	for i, raw := range raws {
		docs[i] = fromBSON(raw)
	}
	return docs, nil
}

// Update replaces every field of an existing document, keeping its ObjectID.
func (r *MongoDocumentStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("document with ID %s in %s: %w", id, collection, ErrDocumentNotFound)
	}
	res, err := r.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": oid}, toBSON(fields))
	if err != nil {
		return fmt.Errorf("failed to update document %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("document with ID %s in %s not found for update: %w", id, collection, ErrDocumentNotFound)
	}
	return nil
}

// Delete removes a document by its ObjectID hex string.
func (r *MongoDocumentStore) Delete(ctx context.Context, collection, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("document with ID %s in %s: %w", id, collection, ErrDocumentNotFound)
	}
	res, err := r.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("document with ID %s in %s not found for deletion: %w", id, collection, ErrDocumentNotFound)
	}
	return nil
}

func toBSON(fields map[string]interface{}) bson.M {
	doc := bson.M{}
	for k, v := range fields {
		if k == "_id" {
			continue
		}
		doc[k] = v
	}
	return doc
}

func fromBSON(raw bson.M) Document {
	var id string
	switch v := raw["_id"].(type) {
	case primitive.ObjectID:
		id = v.Hex()
	case string:
		id = v
	default:
		id = fmt.Sprint(v)
	}
	fields := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		if k != "_id" {
			fields[k] = v
		}
	}
	return Document{ID: id, Fields: fields}
}
