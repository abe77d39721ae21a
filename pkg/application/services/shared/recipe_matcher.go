package shared

import (
	"strings"

	"github.com/vsinha/prepplan/pkg/domain/entities"
)

// RecipeMatch links a recipe to the ingredient line a preparation would supply
type RecipeMatch struct {
	Recipe        entities.Recipe
	Ingredient    entities.Ingredient
	MatchedByName bool
	// Unresolved is set when the recipe matched but has no line the
	// preparation can stand in for; Ingredient is empty then
	Unresolved bool
}

// RecipeMatcher decides whether a recipe can consume a preparation and, if so,
// which ingredient line the preparation stands in for
type RecipeMatcher interface {
	MatchRecipe(prep entities.Preparation, recipe entities.Recipe) (RecipeMatch, bool)
}

// IngredientMatcher matches recipes with an ingredient referencing the
// preparation's source product
type IngredientMatcher struct{}

func (IngredientMatcher) MatchRecipe(prep entities.Preparation, recipe entities.Recipe) (RecipeMatch, bool) {
	ing, ok := recipe.IngredientFor(prep.SourceProductID)
	if !ok {
		return RecipeMatch{}, false
	}
	return RecipeMatch{Recipe: recipe, Ingredient: ing}, true
}

// CutShapeNameMatcher matches recipes whose name contains the preparation's
// cut-shape label, case-insensitively. The recipe's line for the source product
// is used when present, otherwise a line referencing the preparation itself.
// A recipe with neither is still listed but marked Unresolved.
type CutShapeNameMatcher struct{}

func (CutShapeNameMatcher) MatchRecipe(prep entities.Preparation, recipe entities.Recipe) (RecipeMatch, bool) {
	label := strings.TrimSpace(prep.CutShapeLabel)
	if label == "" || len(recipe.Ingredients) == 0 {
		return RecipeMatch{}, false
	}
	if !strings.Contains(strings.ToLower(recipe.Name), strings.ToLower(label)) {
		return RecipeMatch{}, false
	}

	if ing, ok := recipe.IngredientFor(prep.SourceProductID); ok {
		return RecipeMatch{Recipe: recipe, Ingredient: ing, MatchedByName: true}, true
	}
	if ing, ok := recipe.IngredientFor(entities.ProductID(prep.ID)); ok {
		return RecipeMatch{Recipe: recipe, Ingredient: ing, MatchedByName: true}, true
	}
	return RecipeMatch{Recipe: recipe, MatchedByName: true, Unresolved: true}, true
}

// FirstMatch tries each matcher in order and keeps the first hit
type FirstMatch []RecipeMatcher

func (m FirstMatch) MatchRecipe(prep entities.Preparation, recipe entities.Recipe) (RecipeMatch, bool) {
	for _, matcher := range m {
		if match, ok := matcher.MatchRecipe(prep, recipe); ok {
			return match, true
		}
	}
	return RecipeMatch{}, false
}

// DefaultRecipeMatcher prefers the ingredient reference and falls back to the
// cut-shape label heuristic
func DefaultRecipeMatcher() RecipeMatcher {
	return FirstMatch{IngredientMatcher{}, CutShapeNameMatcher{}}
}

// MatchRecipes returns the recipes matching prep, preserving catalog order
func MatchRecipes(matcher RecipeMatcher, prep entities.Preparation, recipes []entities.Recipe) []RecipeMatch {
	var matches []RecipeMatch
	for _, recipe := range recipes {
		if match, ok := matcher.MatchRecipe(prep, recipe); ok {
			matches = append(matches, match)
		}
	}
	return matches
}
