package models

// Product represents one inventory item in the pantry.
// Validation is left to the consumer so drafts can be built incrementally.
type Product struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name" validate:"notblank"`
	Category string `json:"category" validate:"notblank"`
	AddDate  Date   `json:"addDate"`
	ExpDate  Date   `json:"expDate"`
	Quantity int    `json:"quantity" validate:"gte=0"`
	Weight   Weight `json:"weight"`
	Note     string `json:"note,omitempty" validate:"max=500"`
}

// NewProduct builds a product with every field set except the ID.
func NewProduct(name, category string, addDate, expDate Date, quantity int, weight Weight, note string) Product {
	return Product{
		Name:     name,
		Category: category,
		AddDate:  addDate,
		ExpDate:  expDate,
		Quantity: quantity,
		Weight:   weight,
		Note:     note,
	}
}

// WithID returns a copy of p carrying id. An ID, once assigned, is never replaced.
func (p Product) WithID(id string) Product {
	if p.ID != "" {
		return p
	}
	p.ID = id
	return p
}
