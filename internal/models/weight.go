package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is the unit a Weight magnitude is expressed in.
type Unit string

const (
	Gram       Unit = "g"
	Kilogram   Unit = "kg"
	Millilitre Unit = "ml"
	Litre      Unit = "l"
)

var thousand = decimal.NewFromInt(1000)

// weightPattern matches a whole weight value: "0.5kg", "500 g", "0,5 L".
var weightPattern = regexp.MustCompile(`(?i)^\s*(-?\d+(?:[.,]\d+)?)\s*(kg|ml|g|l)\s*$`)

// labelWeightPattern finds a weight inside label or OCR text such as "Net wt 1.25 KG".
// The number must not continue another number or word.
var labelWeightPattern = regexp.MustCompile(`(?i)(?:^|[^\w.,])(-?\d+(?:[.,]\d+)?)\s*(kg|ml|g|l)\b`)

// ErrUnknownUnit is returned when a weight carries a unit outside g, kg, ml and l.
var ErrUnknownUnit = errors.New("unknown weight unit")

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	switch u {
	case Gram, Kilogram, Millilitre, Litre:
		return true
	}
	return false
}

func (u Unit) base() Unit {
	switch u {
	case Kilogram:
		return Gram
	case Litre:
		return Millilitre
	}
	return u
}

// Weight is a non-negative magnitude tagged with a unit.
type Weight struct {
	Magnitude decimal.Decimal
	Unit      Unit
}

// NewWeight builds a Weight from a float magnitude.
func NewWeight(magnitude float64, unit Unit) Weight {
	return Weight{Magnitude: decimal.NewFromFloat(magnitude), Unit: unit}
}

// ParseWeight parses s as a single "<number><unit>" value and nothing else.
func ParseWeight(s string) (Weight, error) {
	return matchWeight(weightPattern, s)
}

// FindWeight extracts the first "<number><unit>" pair from free text.
func FindWeight(s string) (Weight, error) {
	return matchWeight(labelWeightPattern, s)
}

func matchWeight(pattern *regexp.Regexp, s string) (Weight, error) {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return Weight{}, fmt.Errorf("invalid weight %q", s)
	}
	magnitude, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", "."))
	if err != nil {
		return Weight{}, fmt.Errorf("invalid weight %q: %w", s, err)
	}
	return Weight{Magnitude: magnitude, Unit: Unit(strings.ToLower(m[2]))}, nil
}

// IsZero reports whether the weight is unset.
func (w Weight) IsZero() bool {
	return w.Magnitude.IsZero() && w.Unit == ""
}

// Equal compares magnitudes numerically, so 0.50kg equals 0.5kg.
func (w Weight) Equal(o Weight) bool {
	return w.Unit == o.Unit && w.Magnitude.Equal(o.Magnitude)
}

// String renders the canonical form, e.g. "0.5kg".
func (w Weight) String() string {
	if w.IsZero() {
		return ""
	}
	return w.Magnitude.String() + string(w.Unit)
}

// Convert expresses w in another unit of the same dimension (mass or volume).
func (w Weight) Convert(to Unit) (Weight, error) {
	if !w.Unit.Valid() || !to.Valid() {
		return Weight{}, ErrUnknownUnit
	}
	if w.Unit.base() != to.base() {
		return Weight{}, fmt.Errorf("cannot convert %s to %s", w.Unit, to)
	}
	magnitude := w.Magnitude
	if w.Unit != w.Unit.base() {
		magnitude = magnitude.Mul(thousand)
	}
	if to != to.base() {
		magnitude = magnitude.Div(thousand)
	}
	return Weight{Magnitude: magnitude, Unit: to}, nil
}

type weightJSON struct {
	Magnitude decimal.Decimal `json:"magnitude"`
	Unit      Unit            `json:"unit"`
}

// MarshalJSON encodes the weight as {"magnitude":"0.5","unit":"kg"}, or null when unset.
func (w Weight) MarshalJSON() ([]byte, error) {
	if w.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(weightJSON{Magnitude: w.Magnitude, Unit: w.Unit})
}

// UnmarshalJSON accepts the object form, a label string such as "0.5kg", or null.
func (w *Weight) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case string(data) == "null":
		*w = Weight{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*w = Weight{}
			return nil
		}
		parsed, err := ParseWeight(s)
		if err != nil {
			return err
		}
		*w = parsed
		return nil
	}
	var raw weightJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("weight must be an object or a label string: %w", err)
	}
	*w = Weight{Magnitude: raw.Magnitude, Unit: Unit(strings.ToLower(string(raw.Unit)))}
	return nil
}
