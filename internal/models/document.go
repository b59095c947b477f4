package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Document keys of a stored product.
const (
	FieldName     = "name"
	FieldCategory = "category"
	FieldAddDate  = "addDate"
	FieldExpDate  = "expDate"
	FieldQuantity = "quantity"
	FieldWeight   = "weight"
	FieldNote     = "note"
)

// Document flattens p into the key/value layout persisted by document stores.
// The ID is not part of the document; stores keep it as the document key.
func (p Product) Document() map[string]interface{} {
	doc := map[string]interface{}{
		FieldName:     p.Name,
		FieldCategory: p.Category,
		FieldQuantity: int64(p.Quantity),
	}
	if !p.AddDate.IsZero() {
		doc[FieldAddDate] = p.AddDate.String()
	}
	if !p.ExpDate.IsZero() {
		doc[FieldExpDate] = p.ExpDate.String()
	}
	if !p.Weight.IsZero() {
		doc[FieldWeight] = p.Weight.String()
	}
	if p.Note != "" {
		doc[FieldNote] = p.Note
	}
	return doc
}

// ProductFromDocument builds a product from a stored document in one step.
// Older documents stored every field as a string, or dates as epoch
// milliseconds and weight as a bare number of kilograms; both are accepted.
func ProductFromDocument(id string, fields map[string]interface{}) (Product, error) {
	p := Product{ID: id}
	var err error
	if p.Name, err = stringField(fields, FieldName); err != nil {
		return Product{}, err
	}
	if p.Category, err = stringField(fields, FieldCategory); err != nil {
		return Product{}, err
	}
	if p.Note, err = stringField(fields, FieldNote); err != nil {
		return Product{}, err
	}
	if p.AddDate, err = dateField(fields, FieldAddDate); err != nil {
		return Product{}, err
	}
	if p.ExpDate, err = dateField(fields, FieldExpDate); err != nil {
		return Product{}, err
	}
	if p.Quantity, err = intField(fields, FieldQuantity); err != nil {
		return Product{}, err
	}
	if p.Weight, err = weightField(fields, FieldWeight); err != nil {
		return Product{}, err
	}
	return p, nil
}

func stringField(fields map[string]interface{}, key string) (string, error) {
	switch v := fields[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("field %q: expected string, got %T", key, v)
	}
}

func dateField(fields map[string]interface{}, key string) (Date, error) {
	switch v := fields[key].(type) {
	case nil:
		return Date{}, nil
	case string:
		d, err := ParseDate(v)
		if err != nil {
			return Date{}, fmt.Errorf("field %q: %w", key, err)
		}
		return d, nil
	case time.Time:
		return DateOf(v.UTC()), nil
	case interface{ Time() time.Time }:
		return DateOf(v.Time().UTC()), nil
	default:
		ms, err := toInt64(v)
		if err != nil {
			return Date{}, fmt.Errorf("field %q: %w", key, err)
		}
		return DateOf(time.UnixMilli(ms).UTC()), nil
	}
}

func intField(fields map[string]interface{}, key string) (int, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return 0, nil
	}
	if s, isString := v.(string); isString {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", key, err)
		}
		return n, nil
	}
	n, err := toInt64(v)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", key, err)
	}
	return int(n), nil
}

func weightField(fields map[string]interface{}, key string) (Weight, error) {
	switch v := fields[key].(type) {
	case nil:
		return Weight{}, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return Weight{}, nil
		}
		if w, err := ParseWeight(v); err == nil {
			return w, nil
		}
		if magnitude, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(v), ",", ".")); err == nil {
			return Weight{Magnitude: magnitude, Unit: Kilogram}, nil
		}
		if w, err := FindWeight(v); err == nil {
			return w, nil
		}
		return Weight{}, fmt.Errorf("field %q: invalid weight %q", key, v)
	case float64:
		return Weight{Magnitude: decimal.NewFromFloat(v), Unit: Kilogram}, nil
	case float32:
		return Weight{Magnitude: decimal.NewFromFloat32(v), Unit: Kilogram}, nil
	default:
		n, err := toInt64(v)
		if err != nil {
			return Weight{}, fmt.Errorf("field %q: %w", key, err)
		}
		return Weight{Magnitude: decimal.NewFromInt(n), Unit: Kilogram}, nil
	}
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("expected integer, got %v", n)
		}
		return int64(n), nil
	case json.Number:
		return n.Int64()
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}
