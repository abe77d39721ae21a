package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductID identifies a raw product in the stock catalog
type ProductID string

// RawProduct represents an unprocessed inventory ingredient and its current stock
type RawProduct struct {
	ID                ProductID       `validate:"required"`
	Name              string          `validate:"required"`
	Unit              string          `validate:"required"`
	AvailableQuantity decimal.Decimal `validate:"gte=0"`
}

// NewRawProduct creates a validated RawProduct
func NewRawProduct(id ProductID, name, unit string, available decimal.Decimal) (*RawProduct, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("product name cannot be empty")
	}
	if unit == "" {
		return nil, fmt.Errorf("unit cannot be empty")
	}
	if available.IsNegative() {
		return nil, fmt.Errorf("available quantity cannot be negative, got %s", available)
	}

	return &RawProduct{
		ID:                id,
		Name:              name,
		Unit:              unit,
		AvailableQuantity: available,
	}, nil
}
