package services

import (
	"context"
	"errors"
	"fmt"

	"foodhive/internal/models"
	"foodhive/internal/repositories"
	"foodhive/pkg/metrics"

	"go.uber.org/zap"
)

// ProductsCollection is the document collection products are stored under.
const ProductsCollection = "products"

// SaveResult is the single outcome delivered for an accepted save.
type SaveResult struct {
	Product *models.Product
	Err     error
}

// ProductStore validates products and persists them to a document store.
type ProductStore struct {
	docs    repositories.DocumentStore
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewProductStore creates a new ProductStore. logger and m may be nil.
func NewProductStore(docs repositories.DocumentStore, logger *zap.Logger, m *metrics.Metrics) *ProductStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductStore{
		docs:    docs,
		logger:  logger,
		metrics: m,
	}
}

// SaveAsync validates product and, if valid, starts writing it in the background.
//
// Validation failures are returned immediately as a *ValidationError and the
// document store is never called. Otherwise the returned channel receives
// exactly one SaveResult and is then closed. Writes are not retried, and
// saving the same values twice creates two documents.
func (s *ProductStore) SaveAsync(ctx context.Context, product models.Product) (<-chan SaveResult, error) {
	if err := ValidateProduct(product); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			s.logger.Warn("Rejected invalid product", zap.String("name", product.Name), zap.Strings("fields", verr.Fields))
		}
		s.metrics.ObserveSave(metrics.OutcomeInvalid)
		return nil, err
	}

	fields := product.Document()
	done := make(chan SaveResult, 1)
	go func() {
		defer close(done)
		done <- s.create(ctx, product, fields)
	}()
	return done, nil
}

// Save is the blocking form of SaveAsync.
func (s *ProductStore) Save(ctx context.Context, product models.Product) (*models.Product, error) {
	results, err := s.SaveAsync(ctx, product)
	if err != nil {
		return nil, err
	}
	res := <-results
	return res.Product, res.Err
}

// WaitResult waits for the outcome of a SaveAsync call until ctx is done. An
// outcome that is already available wins over an expired ctx.
func WaitResult(ctx context.Context, results <-chan SaveResult) SaveResult {
	select {
	case res := <-results:
		return res
	default:
	}

	select {
	case res := <-results:
		return res
	case <-ctx.Done():
		select {
		case res := <-results:
			return res
		default:
			return SaveResult{Err: ctx.Err()}
		}
	}
}

func (s *ProductStore) create(ctx context.Context, product models.Product, fields map[string]interface{}) SaveResult {
	id, err := s.docs.Create(ctx, ProductsCollection, fields)
	if err == nil && id == "" {
		err = errors.New("store returned an empty document ID")
	}
	if err != nil {
		s.logger.Warn("Error adding product", zap.String("name", product.Name), zap.Error(err))
		s.metrics.ObserveSave(metrics.OutcomeFailure)
		return SaveResult{Err: &StoreError{Op: "create", Err: err}}
	}

	saved := product.WithID(id)
	s.logger.Info("Product added", zap.String("id", id), zap.String("name", saved.Name))
	s.metrics.ObserveSave(metrics.OutcomeSuccess)
	return SaveResult{Product: &saved}
}

// Get retrieves a single product by its ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *ProductStore) Get(ctx context.Context, id string) (*models.Product, error) {
	doc, err := s.docs.GetByID(ctx, ProductsCollection, id)
	if err != nil {
		if errors.Is(err, repositories.ErrDocumentNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
		}
		return nil, &StoreError{Op: "get", Err: err}
	}

	product, err := models.ProductFromDocument(doc.ID, doc.Fields)
	if err != nil {
		return nil, fmt.Errorf("failed to decode product %s: %w", id, err)
	}
	return &product, nil
}

// List returns every stored product. Documents that cannot be decoded are
// skipped and logged.
func (s *ProductStore) List(ctx context.Context) ([]models.Product, error) {
	docs, err := s.docs.GetAll(ctx, ProductsCollection)
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}

	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		product, err := models.ProductFromDocument(doc.ID, doc.Fields)
		if err != nil {
			s.logger.Warn("Skipping undecodable product document", zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		products = append(products, product)
	}
	return products, nil
}
