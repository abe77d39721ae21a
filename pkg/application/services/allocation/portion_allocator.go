package allocation

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prepplan/pkg/application/services/shared"
	"github.com/vsinha/prepplan/pkg/domain/entities"
)

// ProductionOption is a finished production competing for one raw product.
// One batch consumes BatchQuantity of the product and makes PortionsPerBatch
// portions; the pair is kept as is so that repeating per-portion amounts such
// as 2 kg / 3 never get rounded before a comparison.
type ProductionOption struct {
	ID               string
	Name             string
	BatchQuantity    decimal.Decimal
	PortionsPerBatch int64
	// Cap is the production's own portion ceiling, independent of stock
	Cap int64
}

// Valid reports whether one portion has a positive raw requirement
func (o ProductionOption) Valid() bool {
	return o.PortionsPerBatch > 0 && o.BatchQuantity.IsPositive()
}

// PerPortion returns the raw quantity one portion consumes, rounded for display
func (o ProductionOption) PerPortion() decimal.Decimal {
	if !o.Valid() {
		return decimal.Zero
	}
	return o.BatchQuantity.Div(decimal.NewFromInt(o.PortionsPerBatch))
}

// Consumption returns the raw quantity of portions, dividing once
func (o ProductionOption) Consumption(portions int64) decimal.Decimal {
	if !o.Valid() || portions <= 0 {
		return decimal.Zero
	}
	return o.BatchQuantity.Mul(decimal.NewFromInt(portions)).Div(decimal.NewFromInt(o.PortionsPerBatch))
}

// ProductionOptionsFor derives the options of a raw product from the recipes
// referencing it: one batch consumes quantityRequired and a plan never exceeds
// one batch.
func ProductionOptionsFor(productID entities.ProductID, recipes []entities.Recipe) []ProductionOption {
	var options []ProductionOption
	for _, recipe := range recipes {
		ing, ok := recipe.IngredientFor(productID)
		if !ok {
			continue
		}
		options = append(options, ProductionOption{
			ID:               string(recipe.ID),
			Name:             recipe.Name,
			BatchQuantity:    ing.QuantityRequired,
			PortionsPerBatch: recipe.PortionsPerBatch,
			Cap:              recipe.PortionsPerBatch,
		})
	}
	return options
}

// PortionResult is the outcome of a portion edit
type PortionResult struct {
	State    shared.AllocationMap
	Applied  int64
	Warnings []entities.Warning
}

// PortionAllocator balances discrete portion counts of competing productions
// against one shared raw-stock pool. The edited option is capped by what its
// siblings left over; siblings are never touched (last editor wins).
type PortionAllocator struct{}

// NewPortionAllocator creates a new portion allocator
func NewPortionAllocator() *PortionAllocator {
	return &PortionAllocator{}
}

// Apply stores the feasible portion count for optionID and returns the new state.
// The given state is not modified.
func (a *PortionAllocator) Apply(
	product entities.RawProduct,
	options []ProductionOption,
	state shared.AllocationMap,
	optionID string,
	requested int64,
) PortionResult {
	option, found := findOption(options, optionID)
	if !found {
		return PortionResult{
			State: state.Clone(),
			Warnings: []entities.Warning{entities.NewWarning(entities.LookupFailure, optionID,
				"production %s does not use product %s", optionID, product.ID)},
		}
	}

	var warnings []entities.Warning
	maxFeasible := a.MaxFeasible(product, options, state, option)
	if !option.Valid() {
		warnings = append(warnings, entities.NewWarning(entities.InvalidConversionRatio, optionID,
			"per-portion requirement must be positive, got %s / %d", option.BatchQuantity, option.PortionsPerBatch))
	}

	upper := maxFeasible
	if option.Cap < upper {
		upper = option.Cap
	}
	if upper < 0 {
		upper = 0
	}

	applied := requested
	if applied < 0 {
		applied = 0
	}
	if applied > upper {
		applied = upper
		if maxFeasible < option.Cap && option.Valid() {
			warnings = append(warnings, entities.NewWarning(entities.StockUnderflow, optionID,
				"requested %d portions, remaining stock allows %d", requested, applied))
		}
	}

	// applied fits exactly; keep the stored figures within stock when the
	// division rounded up in the last digit
	rawConsumed := option.Consumption(applied)
	left := decimal.Max(product.AvailableQuantity.Sub(state.RawConsumedExcept(product.ID, optionID)), decimal.Zero)
	if rawConsumed.GreaterThan(left) {
		rawConsumed = left
	}

	next := state.Clone()
	next.Set(&shared.AllocationRequest{
		ProductID:         product.ID,
		ItemID:            optionID,
		RequestedPortions: applied,
		RawConsumed:       rawConsumed,
	})

	return PortionResult{State: next, Applied: applied, Warnings: warnings}
}

// MaxFeasible returns how many portions of option the stock left by the other
// options allows, ignoring the option's own cap. A non-positive requirement
// yields 0. Consumption is summed scaled by the common multiple of the batch
// sizes, so the comparison involves no rounded division.
func (a *PortionAllocator) MaxFeasible(
	product entities.RawProduct,
	options []ProductionOption,
	state shared.AllocationMap,
	option ProductionOption,
) int64 {
	if !option.Valid() {
		return 0
	}

	scale := commonBatch(options)
	others := decimal.Zero
	for _, o := range options {
		if o.ID == option.ID || !o.Valid() {
			continue
		}
		request := state.Get(product.ID, o.ID)
		if request == nil || request.RequestedPortions <= 0 {
			continue
		}
		perBatch := new(big.Int).Quo(scale, big.NewInt(o.PortionsPerBatch))
		others = others.Add(o.BatchQuantity.
			Mul(decimal.NewFromInt(request.RequestedPortions)).
			Mul(decimal.NewFromBigInt(perBatch, 0)))
	}

	scaled := decimal.NewFromBigInt(scale, 0)
	available := product.AvailableQuantity.Mul(scaled).Sub(others)
	if !available.IsPositive() {
		return 0
	}

	// n × batchQuantity × scale ≤ available × portionsPerBatch
	return entities.FloorDiv(
		available.Mul(decimal.NewFromInt(option.PortionsPerBatch)),
		option.BatchQuantity.Mul(scaled),
	)
}

// commonBatch returns the least common multiple of the valid batch sizes
func commonBatch(options []ProductionOption) *big.Int {
	lcm := big.NewInt(1)
	for _, o := range options {
		if !o.Valid() {
			continue
		}
		size := big.NewInt(o.PortionsPerBatch)
		gcd := new(big.Int).GCD(nil, nil, lcm, size)
		lcm.Mul(lcm, new(big.Int).Quo(size, gcd))
	}
	return lcm
}

func findOption(options []ProductionOption, id string) (ProductionOption, bool) {
	for _, o := range options {
		if o.ID == id {
			return o, true
		}
	}
	return ProductionOption{}, false
}
