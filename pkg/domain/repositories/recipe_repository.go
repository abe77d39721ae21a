package repositories

import "github.com/vsinha/prepplan/pkg/domain/entities"

// RecipeRepository provides access to recipes and their ingredient lines
type RecipeRepository interface {
	GetRecipe(id entities.RecipeID) (*entities.Recipe, error)
	GetAllRecipes() ([]*entities.Recipe, error)
	LoadRecipes(recipes []*entities.Recipe) error
}
