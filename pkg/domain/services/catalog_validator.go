package services

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/vsinha/prepplan/pkg/domain/entities"
)

// CatalogValidator rejects malformed catalog records before they reach the planner.
// Non-positive ratios are deliberately accepted: the allocators report them as
// InvalidConversionRatio warnings and plan the item with zero capacity.
type CatalogValidator struct {
	validate *validator.Validate
}

// NewCatalogValidator creates a new catalog validator
func NewCatalogValidator() *CatalogValidator {
	validate := validator.New()
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return &CatalogValidator{validate: validate}
}

// ValidationResult contains the results of catalog validation
type ValidationResult struct {
	DuplicateIDs          []string
	OrphanedPreparations  []entities.PreparationID
	UnresolvedIngredients map[entities.RecipeID][]entities.ProductID
	Errors                []string
}

// HasErrors reports whether the catalog must be rejected
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ValidateCatalog checks field constraints, identifier uniqueness and
// preparation-to-product references
func (v *CatalogValidator) ValidateCatalog(
	products []entities.RawProduct,
	preparations []entities.Preparation,
	recipes []entities.Recipe,
) *ValidationResult {
	result := &ValidationResult{
		DuplicateIDs:          make([]string, 0),
		OrphanedPreparations:  make([]entities.PreparationID, 0),
		UnresolvedIngredients: make(map[entities.RecipeID][]entities.ProductID),
		Errors:                make([]string, 0),
	}

	productIDs := make(map[entities.ProductID]bool, len(products))
	for _, p := range products {
		if err := v.validate.Struct(p); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("product %q: %s", p.ID, describe(err)))
		}
		if productIDs[p.ID] {
			result.DuplicateIDs = append(result.DuplicateIDs, string(p.ID))
		}
		productIDs[p.ID] = true
	}

	preparationIDs := make(map[entities.PreparationID]bool, len(preparations))
	for _, p := range preparations {
		if err := v.validate.Struct(p); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("preparation %q: %s", p.ID, describe(err)))
		}
		if preparationIDs[p.ID] {
			result.DuplicateIDs = append(result.DuplicateIDs, string(p.ID))
		}
		preparationIDs[p.ID] = true

		if p.SourceProductID != "" && !productIDs[p.SourceProductID] {
			result.OrphanedPreparations = append(result.OrphanedPreparations, p.ID)
		}
	}

	recipeIDs := make(map[entities.RecipeID]bool, len(recipes))
	for _, r := range recipes {
		if err := v.validate.Struct(r); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("recipe %q: %s", r.ID, describe(err)))
		}
		if recipeIDs[r.ID] {
			result.DuplicateIDs = append(result.DuplicateIDs, string(r.ID))
		}
		recipeIDs[r.ID] = true

		// Recipes routinely use ingredients that are not stocked as raw products
		// (salt, water); these are reported but never rejected.
		for _, ing := range r.Ingredients {
			if !productIDs[ing.ProductID] {
				result.UnresolvedIngredients[r.ID] = append(result.UnresolvedIngredients[r.ID], ing.ProductID)
			}
		}
	}

	if len(result.DuplicateIDs) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Duplicate ids found: %v", result.DuplicateIDs))
	}
	if len(result.OrphanedPreparations) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Preparations reference unknown products: %v", result.OrphanedPreparations))
	}

	return result
}

// describe flattens validator errors into "Field:tag" pairs
func describe(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	message := ""
	for i, fe := range validationErrors {
		if i > 0 {
			message += ", "
		}
		message += fmt.Sprintf("%s:%s", fe.Namespace(), fe.Tag())
	}
	return message
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}
