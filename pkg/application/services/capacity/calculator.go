package capacity

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/prepplan/pkg/application/dto"
	"github.com/vsinha/prepplan/pkg/application/services/shared"
	"github.com/vsinha/prepplan/pkg/domain/entities"
)

const (
	// DefaultPreviewLimit is the number of productions shown before "show all"
	DefaultPreviewLimit = 3
	minPreviewLimit     = 3
	maxPreviewLimit     = 5
)

// Result holds the downstream capacity of one allocated preparation
type Result struct {
	PreparationID      entities.PreparationID
	PreparedQuantity   decimal.Decimal
	AchievablePortions int64
	Productions        []dto.MatchingProduction
	Warnings           []entities.Warning
}

// Calculator translates an allocated preparation quantity into achievable
// portions of the preparation and of the recipes consuming it
type Calculator struct {
	matcher      shared.RecipeMatcher
	previewLimit int
}

// NewCalculator creates a calculator with the given matching strategy.
// A nil matcher selects shared.DefaultRecipeMatcher.
func NewCalculator(matcher shared.RecipeMatcher) *Calculator {
	if matcher == nil {
		matcher = shared.DefaultRecipeMatcher()
	}
	return &Calculator{matcher: matcher, previewLimit: DefaultPreviewLimit}
}

// WithPreviewLimit returns a copy of the calculator using limit, kept within 3..5
func (c *Calculator) WithPreviewLimit(limit int) *Calculator {
	if limit < minPreviewLimit {
		limit = minPreviewLimit
	}
	if limit > maxPreviewLimit {
		limit = maxPreviewLimit
	}
	return &Calculator{matcher: c.matcher, previewLimit: limit}
}

// PreviewLimit returns the bounded preview size
func (c *Calculator) PreviewLimit() int {
	return c.previewLimit
}

// Calculate derives achievable portions for prep given its prepared quantity.
// It never fails: invalid figures yield zero-capacity entries with warnings.
func (c *Calculator) Calculate(prep entities.Preparation, prepared decimal.Decimal, recipes []entities.Recipe) Result {
	if prepared.IsNegative() {
		prepared = decimal.Zero
	}
	result := Result{
		PreparationID:    prep.ID,
		PreparedQuantity: prepared,
	}

	result.AchievablePortions = c.preparationPortions(prep, prepared, &result)

	for _, match := range shared.MatchRecipes(c.matcher, prep, recipes) {
		production := dto.MatchingProduction{
			RecipeID:      match.Recipe.ID,
			RecipeName:    match.Recipe.Name,
			MatchedByName: match.MatchedByName,
		}

		if match.Unresolved {
			result.Warnings = append(result.Warnings, entities.NewWarning(entities.LookupFailure, string(match.Recipe.ID),
				"recipe %s names %s but has no line for %s or %s, planned with zero capacity",
				match.Recipe.ID, prep.CutShapeLabel, prep.SourceProductID, prep.ID))
			result.Productions = append(result.Productions, production)
			continue
		}

		perPortion, ok := match.Recipe.QuantityPerPortion(match.Ingredient)
		if !ok {
			result.Warnings = append(result.Warnings, entities.NewWarning(entities.InvalidConversionRatio, string(match.Recipe.ID),
				"recipe %s has no positive per-portion requirement", match.Recipe.ID))
		} else {
			production.QuantityPerPortion = perPortion
			production.AchievablePortions = match.Recipe.PortionsFrom(match.Ingredient, prepared)
		}

		result.Productions = append(result.Productions, production)
	}

	return result
}

// CalculateByID looks prep up in the catalog first. A missing preparation or
// source product yields an empty result with a LookupFailure warning.
func (c *Calculator) CalculateByID(catalog *entities.Catalog, id entities.PreparationID, prepared decimal.Decimal) Result {
	prep, ok := catalog.Preparation(id)
	if !ok {
		return lookupFailure(id, prepared, "preparation %s not found", id)
	}
	if _, ok := catalog.Product(prep.SourceProductID); !ok {
		return lookupFailure(id, prepared, "source product %s of %s not found", prep.SourceProductID, id)
	}
	return c.Calculate(prep, prepared, catalog.Recipes())
}

func (c *Calculator) preparationPortions(prep entities.Preparation, prepared decimal.Decimal, result *Result) int64 {
	if !prep.PortionSize.IsPositive() {
		result.Warnings = append(result.Warnings, entities.NewWarning(entities.InvalidConversionRatio, string(prep.ID),
			"portion size of %s must be positive, got %s", prep.ID, prep.PortionSize))
		return 0
	}

	portions := entities.FloorDiv(prepared, prep.PortionSize)
	if portions > prep.PortionCount {
		portions = prep.PortionCount
	}
	if portions < 0 {
		portions = 0
	}
	return portions
}

func lookupFailure(id entities.PreparationID, prepared decimal.Decimal, format string, args ...any) Result {
	return Result{
		PreparationID:    id,
		PreparedQuantity: prepared,
		Warnings:         []entities.Warning{entities.NewWarning(entities.LookupFailure, string(id), format, args...)},
	}
}
