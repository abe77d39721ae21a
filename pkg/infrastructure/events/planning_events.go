package events

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/prepplan/pkg/domain/entities"
)

const (
	ProductSelectedEvent   = "session.product_selected"
	CatalogRefreshedEvent  = "session.catalog_refreshed"
	QuantityAllocatedEvent = "allocation.quantity"
	PortionsAllocatedEvent = "allocation.portions"
	BulkAllocatedEvent     = "allocation.bulk"
	AllocationsResetEvent  = "allocation.reset"
)

// PlanningEventTypes lists every event type a planning session records
func PlanningEventTypes() []string {
	return []string{
		ProductSelectedEvent,
		CatalogRefreshedEvent,
		QuantityAllocatedEvent,
		PortionsAllocatedEvent,
		BulkAllocatedEvent,
		AllocationsResetEvent,
	}
}

type ProductSelected struct {
	ProductID          entities.ProductID   `json:"product_id"`
	DiscardedProductID entities.ProductID   `json:"discarded_product_id,omitempty"`
	DiscardedRequests  int                  `json:"discarded_requests"`
	StaleProducts      []entities.ProductID `json:"stale_products,omitempty"`
}

type CatalogRefreshed struct {
	ProductID         entities.ProductID `json:"product_id"`
	AvailableQuantity decimal.Decimal    `json:"available_quantity"`
	Overcommitted     decimal.Decimal    `json:"overcommitted"`
}

// AllocationEdited records a single edit: the value asked for and the value kept
type AllocationEdited struct {
	ProductID entities.ProductID `json:"product_id"`
	ItemID    string             `json:"item_id"`
	Requested string             `json:"requested"`
	Applied   string             `json:"applied"`
	Warnings  []entities.Warning `json:"warnings,omitempty"`
}

type BulkAllocated struct {
	ProductID   entities.ProductID `json:"product_id"`
	Operation   string             `json:"operation"`
	RawConsumed decimal.Decimal    `json:"raw_consumed"`
	Warnings    []entities.Warning `json:"warnings,omitempty"`
}

type AllocationsReset struct {
	ProductID entities.ProductID `json:"product_id"`
}

func NewProductSelectedEvent(sessionID string, data ProductSelected) Event {
	return NewEvent(ProductSelectedEvent, sessionID, data)
}

func NewCatalogRefreshedEvent(sessionID string, data CatalogRefreshed) Event {
	return NewEvent(CatalogRefreshedEvent, sessionID, data)
}

func NewQuantityAllocatedEvent(sessionID string, data AllocationEdited) Event {
	return NewEvent(QuantityAllocatedEvent, sessionID, data)
}

func NewPortionsAllocatedEvent(sessionID string, data AllocationEdited) Event {
	return NewEvent(PortionsAllocatedEvent, sessionID, data)
}

func NewBulkAllocatedEvent(sessionID string, data BulkAllocated) Event {
	return NewEvent(BulkAllocatedEvent, sessionID, data)
}

func NewAllocationsResetEvent(sessionID string, productID entities.ProductID) Event {
	return NewEvent(AllocationsResetEvent, sessionID, AllocationsReset{ProductID: productID})
}
