package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRecord marks a product rejected by local validation. No I/O happened.
	ErrInvalidRecord = errors.New("invalid product record")
	// ErrStoreUnavailable marks a write or read the document store could not complete.
	ErrStoreUnavailable = errors.New("product store unavailable")
	// ErrProductNotFound is returned when no product exists with the given ID.
	ErrProductNotFound = errors.New("product not found")
	// ErrShoppingItemNotFound is returned when no shopping list item exists with the given ID.
	ErrShoppingItemNotFound = errors.New("shopping list item not found")
)

// ValidationError lists the document keys of the fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidRecord, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRecord
}

// HasField reports whether field is among the offending fields.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// StoreError wraps a document store failure. It matches ErrStoreUnavailable and
// the store's own error, so callers can still inspect how the store classified it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStoreUnavailable, e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.Err}
}
