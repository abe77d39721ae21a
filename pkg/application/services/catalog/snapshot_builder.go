package catalog

import (
	"fmt"
	"strings"

	"github.com/vsinha/prepplan/pkg/domain/entities"
	"github.com/vsinha/prepplan/pkg/domain/repositories"
	"github.com/vsinha/prepplan/pkg/domain/services"
)

// SnapshotBuilder reads the catalog repositories and freezes them into a
// validated entities.Catalog
type SnapshotBuilder struct {
	validator *services.CatalogValidator
}

// NewSnapshotBuilder creates a new snapshot builder
func NewSnapshotBuilder() *SnapshotBuilder {
	return &SnapshotBuilder{validator: services.NewCatalogValidator()}
}

// Build reads every product, preparation and recipe and returns the snapshot
// together with the validation report. Malformed records fail the build;
// unresolved recipe ingredients are only reported.
func (b *SnapshotBuilder) Build(
	productRepo repositories.ProductRepository,
	preparationRepo repositories.PreparationRepository,
	recipeRepo repositories.RecipeRepository,
) (*entities.Catalog, *services.ValidationResult, error) {
	productPtrs, err := productRepo.GetAllProducts()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read products: %w", err)
	}
	preparationPtrs, err := preparationRepo.GetAllPreparations()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read preparations: %w", err)
	}
	recipePtrs, err := recipeRepo.GetAllRecipes()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read recipes: %w", err)
	}

	products := values(productPtrs)
	preparations := values(preparationPtrs)
	recipes := values(recipePtrs)

	report := b.validator.ValidateCatalog(products, preparations, recipes)
	if report.HasErrors() {
		return nil, report, fmt.Errorf("invalid catalog: %s", strings.Join(report.Errors, "; "))
	}

	snapshot, err := entities.NewCatalog(products, preparations, recipes)
	if err != nil {
		return nil, report, fmt.Errorf("failed to build catalog snapshot: %w", err)
	}

	return snapshot, report, nil
}

func values[T any](items []*T) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		result = append(result, *item)
	}
	return result
}
