package shared

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prepplan/pkg/domain/entities"
)

// AllocationRequest holds the planned amount for one item drawn from one raw product.
// RawConsumed is fixed when the request is stored so that totals never drift
// from the value checked against stock.
type AllocationRequest struct {
	ProductID         entities.ProductID
	ItemID            string
	RequestedQuantity decimal.Decimal
	RequestedPortions int64
	RawConsumed       decimal.Decimal
}

// AllocationMap manages allocation requests by product and item
type AllocationMap map[string]*AllocationRequest

// NewAllocationMap creates a new empty allocation map
func NewAllocationMap() AllocationMap {
	return make(AllocationMap)
}

// Get retrieves the allocation request for a product and item
func (am AllocationMap) Get(productID entities.ProductID, itemID string) *AllocationRequest {
	key := am.makeKey(productID, itemID)
	return am[key]
}

// Set stores an allocation request under its product and item
func (am AllocationMap) Set(request *AllocationRequest) {
	key := am.makeKey(request.ProductID, request.ItemID)
	am[key] = request
}

// Size returns the number of allocation requests stored
func (am AllocationMap) Size() int {
	return len(am)
}

// Clone returns a deep copy; allocators never mutate the map they are given
func (am AllocationMap) Clone() AllocationMap {
	clone := make(AllocationMap, len(am))
	for key, request := range am {
		copied := *request
		clone[key] = &copied
	}
	return clone
}

// RawConsumedExcept sums the raw consumption of productID's requests, skipping itemID
func (am AllocationMap) RawConsumedExcept(productID entities.ProductID, itemID string) decimal.Decimal {
	total := decimal.Zero
	for _, request := range am {
		if request.ProductID == productID && request.ItemID != itemID {
			total = total.Add(request.RawConsumed)
		}
	}
	return total
}

// TotalRawConsumed sums the raw consumption of every request for productID
func (am AllocationMap) TotalRawConsumed(productID entities.ProductID) decimal.Decimal {
	return am.RawConsumedExcept(productID, "")
}

// StaleProducts returns, sorted, the products other than productID that still hold requests
func (am AllocationMap) StaleProducts(productID entities.ProductID) []entities.ProductID {
	productSet := make(map[entities.ProductID]bool)
	for key := range am {
		if product, _, found := am.parseKey(key); found && product != productID {
			productSet[product] = true
		}
	}

	var products []entities.ProductID
	for product := range productSet {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i] < products[j] })
	return products
}

// makeKey creates a consistent key for product and item
func (am AllocationMap) makeKey(productID entities.ProductID, itemID string) string {
	return fmt.Sprintf("%s|%s", productID, itemID)
}

// parseKey extracts product and item from a key
func (am AllocationMap) parseKey(key string) (entities.ProductID, string, bool) {
	for i, char := range key {
		if char == '|' {
			return entities.ProductID(key[:i]), key[i+1:], true
		}
	}
	return "", "", false
}

// String returns a string representation of the allocation map for debugging
func (am AllocationMap) String() string {
	if len(am) == 0 {
		return "AllocationMap{empty}"
	}

	keys := make([]string, 0, len(am))
	for key := range am {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := fmt.Sprintf("AllocationMap{%d entries:\n", len(am))
	for _, key := range keys {
		request := am[key]
		result += fmt.Sprintf(
			"  %s@%s: quantity=%s, portions=%d, raw=%s\n",
			request.ItemID,
			request.ProductID,
			request.RequestedQuantity,
			request.RequestedPortions,
			request.RawConsumed,
		)
	}
	result += "}"
	return result
}
