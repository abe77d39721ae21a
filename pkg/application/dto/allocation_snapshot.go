package dto

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/prepplan/pkg/domain/entities"
)

// EditCommand is a single allocation edit issued by the planning screen.
// Exactly one of RequestedQuantity or RequestedPortions is set.
type EditCommand struct {
	TargetID          string
	RequestedQuantity *decimal.Decimal
	RequestedPortions *int64
}

// QuantityEdit builds an edit requesting a prepared quantity for a preparation
func QuantityEdit(targetID string, quantity decimal.Decimal) EditCommand {
	return EditCommand{TargetID: targetID, RequestedQuantity: &quantity}
}

// PortionEdit builds an edit requesting a portion count for a production
func PortionEdit(targetID string, portions int64) EditCommand {
	return EditCommand{TargetID: targetID, RequestedPortions: &portions}
}

// MatchingProduction is a recipe that can be made from an allocated preparation
type MatchingProduction struct {
	RecipeID           entities.RecipeID
	RecipeName         string
	QuantityPerPortion decimal.Decimal
	AchievablePortions int64
	MatchedByName      bool
}

// ItemAllocation is the per-item breakdown of an allocation snapshot
type ItemAllocation struct {
	ItemID              string
	ItemName            string
	AllocatedAmount     decimal.Decimal
	RawConsumed         decimal.Decimal
	AchievablePortions  int64
	Expired             bool
	MatchingProductions []MatchingProduction
}

// Preview returns at most limit matching productions, in ranking order
func (i ItemAllocation) Preview(limit int) []MatchingProduction {
	if limit < 0 || limit >= len(i.MatchingProductions) {
		return i.MatchingProductions
	}
	return i.MatchingProductions[:limit]
}

// AllocationSnapshot is the derived, never-persisted result of a recompute
type AllocationSnapshot struct {
	SessionID         string
	ProductID         entities.ProductID
	Mode              string
	AvailableQuantity decimal.Decimal
	RawConsumedTotal  decimal.Decimal
	RawRemaining      decimal.Decimal
	// Overcommitted is non-zero only when outstanding allocations exceed the
	// stock, after a bulk operation or a catalog refresh
	Overcommitted decimal.Decimal
	PerItem       []ItemAllocation
	Warnings      []entities.Warning
	// PreviewLimit is the number of matching productions shown per item
	// before the full list is requested
	PreviewLimit int
}

// Item returns the breakdown for itemID
func (s *AllocationSnapshot) Item(itemID string) (ItemAllocation, bool) {
	for _, item := range s.PerItem {
		if item.ItemID == itemID {
			return item, true
		}
	}
	return ItemAllocation{}, false
}
