package entities

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRawProduct_Validation(t *testing.T) {
	valid, err := NewRawProduct("BEEF", "Beef chuck", "kg", decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("Expected valid product creation to succeed: %v", err)
	}
	if !valid.AvailableQuantity.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected available quantity 10, got %s", valid.AvailableQuantity)
	}

	testCases := []struct {
		name        string
		id          ProductID
		productName string
		unit        string
		available   decimal.Decimal
		expectError string
	}{
		{"empty id", "", "Beef", "kg", decimal.Zero, "product id cannot be empty"},
		{"empty name", "BEEF", "", "kg", decimal.Zero, "product name cannot be empty"},
		{"empty unit", "BEEF", "Beef", "", decimal.Zero, "unit cannot be empty"},
		{"negative stock", "BEEF", "Beef", "kg", decimal.NewFromInt(-2), "available quantity cannot be negative, got -2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRawProduct(tc.id, tc.productName, tc.unit, tc.available)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestWarningCode_String(t *testing.T) {
	testCases := []struct {
		code     WarningCode
		expected string
	}{
		{InvalidConversionRatio, "InvalidConversionRatio"},
		{StockUnderflow, "StockUnderflow"},
		{LookupFailure, "LookupFailure"},
		{InconsistentState, "InconsistentState"},
		{WarningCode(99), "Unknown"},
	}

	for _, tc := range testCases {
		if got := tc.code.String(); got != tc.expected {
			t.Errorf("Expected %s, got %s", tc.expected, got)
		}
	}

	w := NewWarning(StockUnderflow, "P1", "clamped to %s", "4")
	if w.String() != "StockUnderflow [P1]: clamped to 4" {
		t.Errorf("Unexpected warning string: %s", w.String())
	}
	if !HasWarning([]Warning{w}, StockUnderflow) {
		t.Error("Expected HasWarning to find StockUnderflow")
	}
	if HasWarning([]Warning{w}, LookupFailure) {
		t.Error("Expected HasWarning to not find LookupFailure")
	}
}
