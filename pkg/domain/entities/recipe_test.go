package entities

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRecipe_Validation(t *testing.T) {
	ingredients := []Ingredient{{ProductID: "BEEF", QuantityRequired: decimal.RequireFromString("2.4")}}

	recipe, err := NewRecipe("R1", "Beef stir fry", "Mains", 12, ingredients)
	if err != nil {
		t.Fatalf("Expected valid recipe creation to succeed: %v", err)
	}
	if recipe.PortionsPerBatch != 12 {
		t.Errorf("Expected 12 portions per batch, got %d", recipe.PortionsPerBatch)
	}

	testCases := []struct {
		name        string
		id          RecipeID
		recipeName  string
		portions    int64
		ingredients []Ingredient
		expectError string
	}{
		{"empty id", "", "Stir fry", 12, ingredients, "recipe id cannot be empty"},
		{"empty name", "R1", "", 12, ingredients, "recipe name cannot be empty"},
		{"zero portions", "R1", "Stir fry", 0, ingredients, "portions per batch must be positive, got 0"},
		{"empty ingredient", "R1", "Stir fry", 12, []Ingredient{{QuantityRequired: decimal.NewFromInt(1)}}, "ingredient product id cannot be empty"},
		{"zero ingredient", "R1", "Stir fry", 12, []Ingredient{{ProductID: "BEEF"}}, "ingredient BEEF quantity must be positive, got 0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRecipe(tc.id, tc.recipeName, "Mains", tc.portions, tc.ingredients)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestRecipe_QuantityPerPortion(t *testing.T) {
	recipe := Recipe{
		ID:               "R1",
		Name:             "Beef stir fry",
		PortionsPerBatch: 12,
		Ingredients: []Ingredient{
			{ProductID: "ONION", QuantityRequired: decimal.NewFromInt(1)},
			{ProductID: "BEEF", QuantityRequired: decimal.RequireFromString("2.4")},
		},
	}

	ing, ok := recipe.IngredientFor("BEEF")
	if !ok {
		t.Fatal("Expected to find BEEF ingredient")
	}
	perPortion, ok := recipe.QuantityPerPortion(ing)
	if !ok {
		t.Fatal("Expected per-portion quantity to be valid")
	}
	if !perPortion.Equal(decimal.RequireFromString("0.2")) {
		t.Errorf("Expected 0.2 per portion, got %s", perPortion)
	}

	if _, ok := recipe.IngredientFor("PORK"); ok {
		t.Error("Expected no PORK ingredient")
	}

	recipe.PortionsPerBatch = 0
	if _, ok := recipe.QuantityPerPortion(ing); ok {
		t.Error("Expected zero batch size to be rejected")
	}
}

func TestRecipe_PortionsFromRepeatingPerPortion(t *testing.T) {
	recipe := Recipe{ID: "R", Name: "Braise", PortionsPerBatch: 3, Ingredients: []Ingredient{
		{ProductID: "BEEF", QuantityRequired: decimal.NewFromInt(2)},
	}}
	ing := recipe.Ingredients[0]

	testCases := []struct {
		available string
		expected  int64
	}{
		{"2", 3},
		{"1.9999", 2},
		{"4", 6},
		{"0", 0},
	}

	for _, tc := range testCases {
		if got := recipe.PortionsFrom(ing, decimal.RequireFromString(tc.available)); got != tc.expected {
			t.Errorf("Expected %d portions from %s kg, got %d", tc.expected, tc.available, got)
		}
	}

	recipe.PortionsPerBatch = 0
	if got := recipe.PortionsFrom(ing, decimal.NewFromInt(2)); got != 0 {
		t.Errorf("Expected zero batch size to give 0 portions, got %d", got)
	}
}

func TestFloorDiv(t *testing.T) {
	third := decimal.NewFromInt(1).Div(decimal.NewFromInt(3))

	if got := FloorDiv(decimal.RequireFromString("8.5"), decimal.RequireFromString("0.1")); got != 85 {
		t.Errorf("Expected 85, got %d", got)
	}
	if got := FloorDiv(decimal.NewFromInt(1), third); third.Mul(decimal.NewFromInt(got)).GreaterThan(decimal.NewFromInt(1)) {
		t.Errorf("Expected %d thirds to fit in 1", got)
	}
	if got := FloorDiv(decimal.NewFromInt(-1), decimal.NewFromInt(1)); got != 0 {
		t.Errorf("Expected negative numerator to give 0, got %d", got)
	}
}
