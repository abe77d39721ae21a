package memory

import (
	"fmt"

	"github.com/vsinha/prepplan/pkg/domain/entities"
	"github.com/vsinha/prepplan/pkg/domain/repositories"
)

// RecipeRepository provides in-memory recipe storage. Load order is the
// catalog order used to rank matching productions.
type RecipeRepository struct {
	recipes    []entities.Recipe
	recipesMap map[entities.RecipeID]int
}

// NewRecipeRepository creates a new in-memory recipe repository
func NewRecipeRepository(expectedRecipes int) *RecipeRepository {
	return &RecipeRepository{
		recipes:    make([]entities.Recipe, 0, expectedRecipes),
		recipesMap: make(map[entities.RecipeID]int, expectedRecipes),
	}
}

// Verify interface compliance
var _ repositories.RecipeRepository = (*RecipeRepository)(nil)

// LoadRecipes loads recipes in order; a repeated id is rejected
func (r *RecipeRepository) LoadRecipes(recipes []*entities.Recipe) error {
	for _, recipe := range recipes {
		if err := r.AddRecipe(*recipe); err != nil {
			return err
		}
	}
	return nil
}

// AddRecipe appends a recipe to the repository. The ingredient lines are copied.
func (r *RecipeRepository) AddRecipe(recipe entities.Recipe) error {
	if _, exists := r.recipesMap[recipe.ID]; exists {
		return fmt.Errorf("duplicate recipe id: %s", recipe.ID)
	}
	recipe.Ingredients = append([]entities.Ingredient(nil), recipe.Ingredients...)
	r.recipesMap[recipe.ID] = len(r.recipes)
	r.recipes = append(r.recipes, recipe)
	return nil
}

// GetRecipe returns the recipe with the given id
func (r *RecipeRepository) GetRecipe(id entities.RecipeID) (*entities.Recipe, error) {
	index, exists := r.recipesMap[id]
	if !exists {
		return nil, fmt.Errorf("recipe not found: %s", id)
	}
	recipe := r.recipes[index]
	return &recipe, nil
}

// GetAllRecipes returns all recipes in load order
func (r *RecipeRepository) GetAllRecipes() ([]*entities.Recipe, error) {
	recipes := make([]*entities.Recipe, 0, len(r.recipes))
	for i := range r.recipes {
		recipe := r.recipes[i]
		recipes = append(recipes, &recipe)
	}
	return recipes, nil
}
