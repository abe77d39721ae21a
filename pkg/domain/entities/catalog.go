package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Catalog is an immutable snapshot of products, preparations and recipes
// together with the stock figures read at snapshot time. Lookups return
// copies; slices inside returned records must not be modified.
type Catalog struct {
	products     []RawProduct
	preparations []Preparation
	recipes      []Recipe

	productIndex     map[ProductID]int
	preparationIndex map[PreparationID]int
	recipeIndex      map[RecipeID]int
}

// NewCatalog creates a catalog snapshot, rejecting duplicate identifiers
func NewCatalog(products []RawProduct, preparations []Preparation, recipes []Recipe) (*Catalog, error) {
	c := &Catalog{
		products:         make([]RawProduct, 0, len(products)),
		preparations:     make([]Preparation, 0, len(preparations)),
		recipes:          make([]Recipe, 0, len(recipes)),
		productIndex:     make(map[ProductID]int, len(products)),
		preparationIndex: make(map[PreparationID]int, len(preparations)),
		recipeIndex:      make(map[RecipeID]int, len(recipes)),
	}

	for _, p := range products {
		if _, exists := c.productIndex[p.ID]; exists {
			return nil, fmt.Errorf("duplicate product id: %s", p.ID)
		}
		c.productIndex[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	for _, p := range preparations {
		if _, exists := c.preparationIndex[p.ID]; exists {
			return nil, fmt.Errorf("duplicate preparation id: %s", p.ID)
		}
		c.preparationIndex[p.ID] = len(c.preparations)
		c.preparations = append(c.preparations, p)
	}

	for _, r := range recipes {
		if _, exists := c.recipeIndex[r.ID]; exists {
			return nil, fmt.Errorf("duplicate recipe id: %s", r.ID)
		}
		r.Ingredients = append([]Ingredient(nil), r.Ingredients...)
		c.recipeIndex[r.ID] = len(c.recipes)
		c.recipes = append(c.recipes, r)
	}

	return c, nil
}

// Product returns the raw product with the given id
func (c *Catalog) Product(id ProductID) (RawProduct, bool) {
	index, exists := c.productIndex[id]
	if !exists {
		return RawProduct{}, false
	}
	return c.products[index], true
}

// Preparation returns the preparation with the given id
func (c *Catalog) Preparation(id PreparationID) (Preparation, bool) {
	index, exists := c.preparationIndex[id]
	if !exists {
		return Preparation{}, false
	}
	return c.preparations[index], true
}

// Recipe returns the recipe with the given id
func (c *Catalog) Recipe(id RecipeID) (Recipe, bool) {
	index, exists := c.recipeIndex[id]
	if !exists {
		return Recipe{}, false
	}
	return c.recipes[index], true
}

// Products returns all raw products in catalog order
func (c *Catalog) Products() []RawProduct {
	return append([]RawProduct(nil), c.products...)
}

// Preparations returns all preparations in catalog order
func (c *Catalog) Preparations() []Preparation {
	return append([]Preparation(nil), c.preparations...)
}

// Recipes returns all recipes in catalog order
func (c *Catalog) Recipes() []Recipe {
	return append([]Recipe(nil), c.recipes...)
}

// PreparationsFor returns the preparations made from productID, in catalog order
func (c *Catalog) PreparationsFor(productID ProductID) []Preparation {
	var preparations []Preparation
	for _, p := range c.preparations {
		if p.SourceProductID == productID {
			preparations = append(preparations, p)
		}
	}
	return preparations
}

// RecipesUsing returns the recipes with an ingredient line referencing productID
func (c *Catalog) RecipesUsing(productID ProductID) []Recipe {
	var recipes []Recipe
	for _, r := range c.recipes {
		if _, ok := r.IngredientFor(productID); ok {
			recipes = append(recipes, r)
		}
	}
	return recipes
}

// WithAvailableQuantity returns a copy of the catalog where the stock of
// productID is replaced. The receiver is left untouched.
func (c *Catalog) WithAvailableQuantity(productID ProductID, available decimal.Decimal) (*Catalog, error) {
	if _, exists := c.productIndex[productID]; !exists {
		return nil, fmt.Errorf("product not found: %s", productID)
	}

	products := c.Products()
	products[c.productIndex[productID]].AvailableQuantity = available
	return NewCatalog(products, c.preparations, c.recipes)
}
