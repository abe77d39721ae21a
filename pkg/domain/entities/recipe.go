package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RecipeID identifies a finished production (menu item)
type RecipeID string

// Ingredient is a single line of a recipe
type Ingredient struct {
	ProductID        ProductID       `validate:"required"`
	QuantityRequired decimal.Decimal `validate:"gte=0"`
}

// Recipe represents a finished menu item sold in portions
type Recipe struct {
	ID               RecipeID `validate:"required"`
	Name             string   `validate:"required"`
	Category         string
	PortionsPerBatch int64            `validate:"gte=0"`
	Ingredients      []Ingredient     `validate:"dive"`
	SellingPrice     *decimal.Decimal `validate:"omitempty,gte=0"`
}

// NewRecipe creates a validated Recipe
func NewRecipe(id RecipeID, name, category string, portionsPerBatch int64, ingredients []Ingredient) (*Recipe, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("recipe id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("recipe name cannot be empty")
	}
	if portionsPerBatch <= 0 {
		return nil, fmt.Errorf("portions per batch must be positive, got %d", portionsPerBatch)
	}
	for _, ing := range ingredients {
		if string(ing.ProductID) == "" {
			return nil, fmt.Errorf("ingredient product id cannot be empty")
		}
		if !ing.QuantityRequired.IsPositive() {
			return nil, fmt.Errorf("ingredient %s quantity must be positive, got %s", ing.ProductID, ing.QuantityRequired)
		}
	}

	return &Recipe{
		ID:               id,
		Name:             name,
		Category:         category,
		PortionsPerBatch: portionsPerBatch,
		Ingredients:      ingredients,
	}, nil
}

// IngredientFor returns the first ingredient line referencing productID
func (r *Recipe) IngredientFor(productID ProductID) (Ingredient, bool) {
	for _, ing := range r.Ingredients {
		if ing.ProductID == productID {
			return ing, true
		}
	}
	return Ingredient{}, false
}

// QuantityPerPortion returns the ingredient amount one portion of the recipe consumes.
// ok is false when the batch size or the ingredient quantity is not positive.
func (r *Recipe) QuantityPerPortion(ing Ingredient) (decimal.Decimal, bool) {
	if r.PortionsPerBatch <= 0 || !ing.QuantityRequired.IsPositive() {
		return decimal.Zero, false
	}
	return ing.QuantityRequired.Div(decimal.NewFromInt(r.PortionsPerBatch)), true
}

// PortionsFrom returns how many portions available of ing's product supports:
// floor(available × portionsPerBatch / quantityRequired). Invalid figures give 0.
func (r *Recipe) PortionsFrom(ing Ingredient, available decimal.Decimal) int64 {
	if r.PortionsPerBatch <= 0 || !ing.QuantityRequired.IsPositive() {
		return 0
	}
	return FloorDiv(available.Mul(decimal.NewFromInt(r.PortionsPerBatch)), ing.QuantityRequired)
}
