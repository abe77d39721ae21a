package shared

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAllocationMap_BasicOperations(t *testing.T) {
	allocMap := NewAllocationMap()
	if allocMap.Size() != 0 {
		t.Errorf("Expected empty map, got size %d", allocMap.Size())
	}

	allocMap.Set(&AllocationRequest{
		ProductID:         "BEEF",
		ItemID:            "P1",
		RequestedQuantity: decimal.NewFromInt(6),
		RawConsumed:       decimal.NewFromInt(6),
	})

	retrieved := allocMap.Get("BEEF", "P1")
	if retrieved == nil {
		t.Fatal("Expected to find allocation request")
	}
	if !retrieved.RequestedQuantity.Equal(decimal.NewFromInt(6)) {
		t.Errorf("Expected requested quantity 6, got %s", retrieved.RequestedQuantity)
	}

	if allocMap.Get("BEEF", "P2") != nil {
		t.Error("Expected no request for a non-existent item")
	}
	if allocMap.Get("SALMON", "P1") != nil {
		t.Error("Expected requests to be keyed by product as well as item")
	}
	if allocMap.Size() != 1 {
		t.Errorf("Expected one request, got size %d", allocMap.Size())
	}
}

func TestAllocationMap_RawTotals(t *testing.T) {
	allocMap := NewAllocationMap()
	allocMap.Set(&AllocationRequest{ProductID: "BEEF", ItemID: "P1", RawConsumed: decimal.NewFromInt(6)})
	allocMap.Set(&AllocationRequest{ProductID: "BEEF", ItemID: "P2", RawConsumed: decimal.RequireFromString("2.5")})
	allocMap.Set(&AllocationRequest{ProductID: "SALMON", ItemID: "P3", RawConsumed: decimal.NewFromInt(1)})

	if total := allocMap.TotalRawConsumed("BEEF"); !total.Equal(decimal.RequireFromString("8.5")) {
		t.Errorf("Expected BEEF total 8.5, got %s", total)
	}
	if others := allocMap.RawConsumedExcept("BEEF", "P1"); !others.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("Expected others 2.5, got %s", others)
	}

	stale := allocMap.StaleProducts("BEEF")
	if len(stale) != 1 || stale[0] != "SALMON" {
		t.Errorf("Expected [SALMON] as stale, got %v", stale)
	}
}

func TestAllocationMap_CloneIsIndependent(t *testing.T) {
	allocMap := NewAllocationMap()
	allocMap.Set(&AllocationRequest{ProductID: "BEEF", ItemID: "P1", RequestedPortions: 3})

	clone := allocMap.Clone()
	clone.Get("BEEF", "P1").RequestedPortions = 9
	clone.Set(&AllocationRequest{ProductID: "BEEF", ItemID: "P2"})

	if allocMap.Get("BEEF", "P1").RequestedPortions != 3 {
		t.Error("Expected original request to be unaffected by clone mutation")
	}
	if allocMap.Size() != 1 {
		t.Errorf("Expected original size 1, got %d", allocMap.Size())
	}
}

func TestAllocationMap_String(t *testing.T) {
	if NewAllocationMap().String() != "AllocationMap{empty}" {
		t.Error("Expected empty representation")
	}

	allocMap := NewAllocationMap()
	allocMap.Set(&AllocationRequest{ProductID: "BEEF", ItemID: "R1", RequestedQuantity: decimal.Zero, RequestedPortions: 4, RawConsumed: decimal.RequireFromString("0.8")})
	expected := "AllocationMap{1 entries:\n  R1@BEEF: quantity=0, portions=4, raw=0.8\n}"
	if allocMap.String() != expected {
		t.Errorf("Expected %q, got %q", expected, allocMap.String())
	}
}
