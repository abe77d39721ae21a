package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func writeKitchen(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, ProductsFile, `product_id,name,unit,available_quantity
BEEF,Beef chuck,kg,10
SALMON,Salmon side,kg,3
`)
	writeFile(t, dir, PreparationsFile, `preparation_id,name,source_product_id,cut_shape,raw_quantity_required,prepared_quantity_yielded,portion_count,portion_size,portion_unit,expiry_date
BEEF_STRIPS,Beef strips,BEEF,strips,10,8.5,85,0.1,kg,
SALMON_FILLET,Salmon fillet,SALMON,fillet,1,0.6,12,0.15,kg,2026-03-01
`)
	writeFile(t, dir, RecipesFile, `recipe_id,name,category,portions_per_batch,selling_price
R1,Beef stir fry,mains,12,14.50
R3,Crispy strips wrap,mains,10,
`)
	writeFile(t, dir, RecipeIngredientsFile, `recipe_id,product_id,quantity_required
R1,BEEF,2.4
R3,BEEF_STRIPS,1.5
R3,WRAP,1
R1,SALT,0.01
`)
	return dir
}

func TestLoader_LoadScenario(t *testing.T) {
	scenario, err := NewLoader().LoadScenario(writeKitchen(t))
	if err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}

	if len(scenario.Products) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(scenario.Products))
	}
	if !scenario.Products[0].AvailableQuantity.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected 10 kg beef, got %s", scenario.Products[0].AvailableQuantity)
	}

	if len(scenario.Preparations) != 2 {
		t.Fatalf("Expected 2 preparations, got %d", len(scenario.Preparations))
	}
	strips := scenario.Preparations[0]
	if strips.CutShapeLabel != "strips" || strips.PortionCount != 85 || strips.ExpiryDate != nil {
		t.Errorf("Unexpected strips preparation %+v", strips)
	}
	fillet := scenario.Preparations[1]
	if fillet.ExpiryDate == nil || fillet.ExpiryDate.Format("2006-01-02") != "2026-03-01" {
		t.Errorf("Expected fillet expiry date, got %v", fillet.ExpiryDate)
	}

	if len(scenario.Recipes) != 2 {
		t.Fatalf("Expected 2 recipes, got %d", len(scenario.Recipes))
	}
	stirFry := scenario.Recipes[0]
	if stirFry.SellingPrice == nil || !stirFry.SellingPrice.Equal(decimal.RequireFromString("14.5")) {
		t.Errorf("Expected selling price 14.50, got %v", stirFry.SellingPrice)
	}
	if len(stirFry.Ingredients) != 2 || stirFry.Ingredients[1].ProductID != "SALT" {
		t.Errorf("Expected BEEF then SALT, got %+v", stirFry.Ingredients)
	}
	wrap := scenario.Recipes[1]
	if wrap.SellingPrice != nil {
		t.Errorf("Expected no selling price, got %v", wrap.SellingPrice)
	}
	if len(wrap.Ingredients) != 2 || wrap.Ingredients[0].ProductID != "BEEF_STRIPS" {
		t.Errorf("Expected ingredient lines in file order, got %+v", wrap.Ingredients)
	}
}

func TestLoader_OptionalFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProductsFile, "product_id,name,unit,available_quantity\nBEEF,Beef,kg,10\n")

	scenario, err := NewLoader().LoadScenario(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(scenario.Preparations) != 0 || len(scenario.Recipes) != 0 {
		t.Errorf("Expected no preparations or recipes, got %+v", scenario)
	}
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		products string
		expected string
	}{
		{"header mismatch", "id,name,unit,qty\nBEEF,Beef,kg,10\n", "header mismatch"},
		{"no data rows", "product_id,name,unit,available_quantity\n", "at least one data row"},
		{"bad quantity", "product_id,name,unit,available_quantity\nBEEF,Beef,kg,ten\n", "row 2: invalid available_quantity: ten"},
		{"empty file", "", "is empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, ProductsFile, tc.products)

			_, err := NewLoader().LoadProducts(path)
			if err == nil || !strings.Contains(err.Error(), tc.expected) {
				t.Errorf("Expected error containing %q, got %v", tc.expected, err)
			}
		})
	}
}

func TestLoader_MissingProductsFile(t *testing.T) {
	_, err := NewLoader().LoadScenario(t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "failed to open products file") {
		t.Errorf("Expected open error, got %v", err)
	}
}

func TestLoader_IngredientForUnknownRecipe(t *testing.T) {
	dir := t.TempDir()
	recipes := writeFile(t, dir, RecipesFile, "recipe_id,name,category,portions_per_batch,selling_price\nR1,Stew,mains,10,\n")
	ingredients := writeFile(t, dir, RecipeIngredientsFile, "recipe_id,product_id,quantity_required\nR9,BEEF,1\n")

	_, err := NewLoader().LoadRecipes(recipes, ingredients)
	if err == nil || !strings.Contains(err.Error(), "unknown recipe_id: R9") {
		t.Errorf("Expected unknown recipe error, got %v", err)
	}
}

func TestLoader_InvalidPreparationRow(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, PreparationsFile, `preparation_id,name,source_product_id,cut_shape,raw_quantity_required,prepared_quantity_yielded,portion_count,portion_size,portion_unit,expiry_date
P1,Strips,BEEF,strips,10,8.5,many,0.1,kg,
`)

	_, err := NewLoader().LoadPreparations(path)
	if err == nil || !strings.Contains(err.Error(), "invalid portion_count: many") {
		t.Errorf("Expected portion count error, got %v", err)
	}
}
