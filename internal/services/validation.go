package services

import (
	"foodhive/internal/models"
	"foodhive/pkg/validator"

	govalidator "github.com/go-playground/validator/v10"
)

func init() {
	validator.RegisterStructValidation(productRules, models.Product{})
}

// productRules holds the cross-field and typed-field checks struct tags cannot express.
func productRules(sl govalidator.StructLevel) {
	p := sl.Current().Interface().(models.Product)

	if p.ID != "" {
		sl.ReportError(p.ID, "id", "ID", "isdefault", "")
	}
	if p.Weight.Magnitude.IsNegative() {
		sl.ReportError(p.Weight, "weight", "Weight", "gte", "0")
	} else if !p.Weight.IsZero() && !p.Weight.Unit.Valid() {
		sl.ReportError(p.Weight, "weight", "Weight", "oneof", "g kg ml l")
	}
	if !p.AddDate.IsZero() && !p.ExpDate.IsZero() && p.ExpDate.Before(p.AddDate) {
		sl.ReportError(p.ExpDate, "expDate", "ExpDate", "gtefield", "addDate")
	}
}

// ValidateProduct runs every rule against p and returns a *ValidationError
// naming each offending field, or nil.
func ValidateProduct(p models.Product) error {
	return validationError(validator.ValidateStruct(p))
}

// ValidateShoppingItem checks a shopping list item before it is stored.
func ValidateShoppingItem(item models.ShoppingItem) error {
	return validationError(validator.ValidateStruct(item))
}

func validationError(errs []*validator.ErrorResponse) error {
	if len(errs) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(errs))
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		if seen[e.FailedField] {
			continue
		}
		seen[e.FailedField] = true
		fields = append(fields, e.FailedField)
	}
	return &ValidationError{Fields: fields}
}
