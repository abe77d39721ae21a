package entities

import "github.com/shopspring/decimal"

// FloorDiv returns floor(numerator / denominator) for a positive denominator.
// Decimal division rounds at DivisionPrecision, so the quotient is checked
// against the exact products on both sides.
func FloorDiv(numerator, denominator decimal.Decimal) int64 {
	if !denominator.IsPositive() || !numerator.IsPositive() {
		return 0
	}
	n := numerator.Div(denominator).Floor().IntPart()
	for n > 0 && denominator.Mul(decimal.NewFromInt(n)).GreaterThan(numerator) {
		n--
	}
	for denominator.Mul(decimal.NewFromInt(n + 1)).LessThanOrEqual(numerator) {
		n++
	}
	return n
}
