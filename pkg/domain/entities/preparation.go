package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PreparationID identifies a preparation (a specific cut or portioning of a raw product)
type PreparationID string

// Preparation is an intermediate, pre-processed form of a raw product
type Preparation struct {
	ID                      PreparationID `validate:"required"`
	Name                    string        `validate:"required"`
	SourceProductID         ProductID     `validate:"required"`
	CutShapeLabel           string
	RawQuantityRequired     decimal.Decimal `validate:"gte=0"`
	PreparedQuantityYielded decimal.Decimal `validate:"gte=0"`
	PortionCount            int64           `validate:"gte=0"`
	PortionSize             decimal.Decimal `validate:"gte=0"`
	PortionUnit             string
	ExpiryDate              *time.Time
}

// NewPreparation creates a validated Preparation. Yield figures must be
// positive here; catalogs built from other sources may still carry zero ratios,
// which the allocators report instead of rejecting.
func NewPreparation(
	id PreparationID,
	name string,
	source ProductID,
	cutShape string,
	rawRequired, yielded decimal.Decimal,
	portionCount int64,
	portionSize decimal.Decimal,
	portionUnit string,
) (*Preparation, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("preparation id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("preparation name cannot be empty")
	}
	if string(source) == "" {
		return nil, fmt.Errorf("source product id cannot be empty")
	}
	if !rawRequired.IsPositive() {
		return nil, fmt.Errorf("raw quantity required must be positive, got %s", rawRequired)
	}
	if !yielded.IsPositive() {
		return nil, fmt.Errorf("prepared quantity yielded must be positive, got %s", yielded)
	}
	if portionCount < 0 {
		return nil, fmt.Errorf("portion count cannot be negative, got %d", portionCount)
	}
	if !portionSize.IsPositive() {
		return nil, fmt.Errorf("portion size must be positive, got %s", portionSize)
	}

	return &Preparation{
		ID:                      id,
		Name:                    name,
		SourceProductID:         source,
		CutShapeLabel:           cutShape,
		RawQuantityRequired:     rawRequired,
		PreparedQuantityYielded: yielded,
		PortionCount:            portionCount,
		PortionSize:             portionSize,
		PortionUnit:             portionUnit,
	}, nil
}

// HasValidRatio reports whether both sides of the conversion are positive
func (p *Preparation) HasValidRatio() bool {
	return p.RawQuantityRequired.IsPositive() && p.PreparedQuantityYielded.IsPositive()
}

// YieldOf returns the prepared quantity raw input gives: raw × yielded / required.
// The division comes last.
func (p *Preparation) YieldOf(raw decimal.Decimal) decimal.Decimal {
	if !p.HasValidRatio() {
		return decimal.Zero
	}
	return raw.Mul(p.PreparedQuantityYielded).Div(p.RawQuantityRequired)
}

// RawFor returns the raw input needed for prepared: prepared × required / yielded
func (p *Preparation) RawFor(prepared decimal.Decimal) decimal.Decimal {
	if !p.HasValidRatio() {
		return decimal.Zero
	}
	return prepared.Mul(p.RawQuantityRequired).Div(p.PreparedQuantityYielded)
}

// Fits reports whether prepared can be made from raw, comparing
// prepared × required ≤ raw × yielded without dividing
func (p *Preparation) Fits(prepared, raw decimal.Decimal) bool {
	return !prepared.Mul(p.RawQuantityRequired).GreaterThan(raw.Mul(p.PreparedQuantityYielded))
}

// IsExpired reports whether the preparation is past its expiry date at now
func (p *Preparation) IsExpired(now time.Time) bool {
	return p.ExpiryDate != nil && now.After(*p.ExpiryDate)
}
