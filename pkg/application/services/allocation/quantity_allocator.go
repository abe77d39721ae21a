package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/prepplan/pkg/application/services/shared"
	"github.com/vsinha/prepplan/pkg/domain/entities"
)

var (
	fullShare = decimal.NewFromInt(1)
	halfShare = decimal.New(5, -1)
)

// QuantityResult is the outcome of a quantity edit or bulk operation.
// Applied is the stored prepared quantity of a single edit; bulk operations
// leave it zero and report their total in RawConsumed.
type QuantityResult struct {
	State       shared.AllocationMap
	Applied     decimal.Decimal
	RawConsumed decimal.Decimal
	Warnings    []entities.Warning
}

// QuantityAllocator balances continuous prepared quantities across the
// preparations sharing one raw product. Unlike PortionAllocator it is
// self-correcting: when an edit overshoots the stock, the edited preparation
// absorbs the whole correction and its siblings keep their values.
type QuantityAllocator struct{}

// NewQuantityAllocator creates a new quantity allocator
func NewQuantityAllocator() *QuantityAllocator {
	return &QuantityAllocator{}
}

// Apply stores the prepared quantity requested for prep, clamped so that the
// raw consumption of all preparations of the product stays within stock.
// The given state is not modified.
func (a *QuantityAllocator) Apply(
	product entities.RawProduct,
	prep entities.Preparation,
	state shared.AllocationMap,
	requested decimal.Decimal,
) QuantityResult {
	itemID := string(prep.ID)
	next := state.Clone()

	if prep.SourceProductID != product.ID {
		return QuantityResult{
			State: next,
			Warnings: []entities.Warning{entities.NewWarning(entities.LookupFailure, itemID,
				"preparation %s is made from %s, not %s", prep.ID, prep.SourceProductID, product.ID)},
		}
	}

	if !prep.HasValidRatio() {
		next.Set(&shared.AllocationRequest{
			ProductID:         product.ID,
			ItemID:            itemID,
			RequestedQuantity: decimal.Zero,
			RawConsumed:       decimal.Zero,
		})
		return QuantityResult{
			State:       next,
			Applied:     decimal.Zero,
			RawConsumed: decimal.Zero,
			Warnings: []entities.Warning{entities.NewWarning(entities.InvalidConversionRatio, itemID,
				"conversion ratio of %s must be positive (raw %s, yield %s)",
				prep.ID, prep.RawQuantityRequired, prep.PreparedQuantityYielded)},
		}
	}

	var warnings []entities.Warning
	if requested.IsNegative() {
		requested = decimal.Zero
	}

	available := decimal.Max(product.AvailableQuantity.Sub(state.RawConsumedExcept(product.ID, itemID)), decimal.Zero)
	applied := requested
	rawConsumed := prep.RawFor(requested)

	if !prep.Fits(requested, available) {
		applied = prep.YieldOf(available)
		rawConsumed = available
		warnings = append(warnings, entities.NewWarning(entities.StockUnderflow, itemID,
			"requested %s exceeds remaining stock, clamped to %s", requested, applied))
	} else if rawConsumed.GreaterThan(available) {
		// the request fits exactly; RawFor rounded up in the last digit
		rawConsumed = available
	}

	next.Set(&shared.AllocationRequest{
		ProductID:         product.ID,
		ItemID:            itemID,
		RequestedQuantity: applied,
		RawConsumed:       rawConsumed,
	})

	return QuantityResult{State: next, Applied: applied, RawConsumed: rawConsumed, Warnings: warnings}
}

// UseAll sets every preparation to its full yield capacity, the prepared
// quantity the whole stock would give. This deliberately bypasses the stock
// check; an overshoot is reported as StockUnderflow.
func (a *QuantityAllocator) UseAll(
	product entities.RawProduct,
	preparations []entities.Preparation,
	state shared.AllocationMap,
) QuantityResult {
	return a.bulk(product, preparations, state, fullShare)
}

// SplitEvenly sets every preparation to half of its full yield capacity.
// Like UseAll it bypasses the stock check and reports an overshoot.
func (a *QuantityAllocator) SplitEvenly(
	product entities.RawProduct,
	preparations []entities.Preparation,
	state shared.AllocationMap,
) QuantityResult {
	return a.bulk(product, preparations, state, halfShare)
}

// Reset drops every request held for the product
func (a *QuantityAllocator) Reset(product entities.RawProduct, state shared.AllocationMap) QuantityResult {
	next := state.Clone()
	for key, request := range next {
		if request.ProductID == product.ID {
			delete(next, key)
		}
	}
	return QuantityResult{State: next, Applied: decimal.Zero, RawConsumed: decimal.Zero}
}

func (a *QuantityAllocator) bulk(
	product entities.RawProduct,
	preparations []entities.Preparation,
	state shared.AllocationMap,
	share decimal.Decimal,
) QuantityResult {
	next := state.Clone()
	var warnings []entities.Warning

	for _, prep := range preparations {
		if prep.SourceProductID != product.ID {
			continue
		}
		itemID := string(prep.ID)

		if !prep.HasValidRatio() {
			warnings = append(warnings, entities.NewWarning(entities.InvalidConversionRatio, itemID,
				"conversion ratio of %s must be positive, planned with zero capacity", prep.ID))
			next.Set(&shared.AllocationRequest{ProductID: product.ID, ItemID: itemID, RequestedQuantity: decimal.Zero, RawConsumed: decimal.Zero})
			continue
		}

		raw := product.AvailableQuantity.Mul(share)
		next.Set(&shared.AllocationRequest{
			ProductID:         product.ID,
			ItemID:            itemID,
			RequestedQuantity: prep.YieldOf(raw),
			RawConsumed:       raw,
		})
	}

	total := next.TotalRawConsumed(product.ID)
	if total.GreaterThan(product.AvailableQuantity) {
		warnings = append(warnings, entities.NewWarning(entities.StockUnderflow, string(product.ID),
			"bulk allocation consumes %s of %s available", total, product.AvailableQuantity))
	}

	return QuantityResult{State: next, Applied: decimal.Zero, RawConsumed: total, Warnings: warnings}
}
