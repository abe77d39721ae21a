package testing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prepplan/pkg/domain/entities"
	"github.com/vsinha/prepplan/pkg/infrastructure/repositories/memory"
)

// Qty parses a fixture amount; invalid literals panic
func Qty(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// ScenarioACatalog is 10 kg of beef and one strips preparation yielding 85%
// in 0.1 kg portions
func ScenarioACatalog() *entities.Catalog {
	return mustCatalog(
		[]entities.RawProduct{beef("10")},
		[]entities.Preparation{preparation("P1", "Beef strips", "BEEF", "strips", "10", "8.5", 85, "0.1")},
		nil,
	)
}

// ScenarioBCatalog is 10 kg of beef shared by two preparations with ratio 1
func ScenarioBCatalog() *entities.Catalog {
	return mustCatalog(
		[]entities.RawProduct{beef("10")},
		[]entities.Preparation{
			preparation("P1", "Beef cubes", "BEEF", "cubes", "1", "1", 100, "0.2"),
			preparation("P2", "Beef mince", "BEEF", "mince", "1", "1", 100, "0.2"),
		},
		nil,
	)
}

// ScenarioCCatalog is 3 kg of salmon shared by two productions needing
// 0.2 kg per portion (12 per batch) and 0.15 kg per portion (16 per batch)
func ScenarioCCatalog() *entities.Catalog {
	return mustCatalog(
		[]entities.RawProduct{{ID: "SALMON", Name: "Salmon side", Unit: "kg", AvailableQuantity: Qty("3")}},
		nil,
		[]entities.Recipe{
			recipe("A", "Salmon poke bowl", "mains", 12, entities.Ingredient{ProductID: "SALMON", QuantityRequired: Qty("2.4")}),
			recipe("B", "Salmon tartare", "starters", 16, entities.Ingredient{ProductID: "SALMON", QuantityRequired: Qty("2.4")}),
		},
	)
}

// KitchenProducts, KitchenPreparations and KitchenRecipes describe a small
// kitchen mixing the three scenarios with an unrelated product
func KitchenProducts() []*entities.RawProduct {
	salmon := entities.RawProduct{ID: "SALMON", Name: "Salmon side", Unit: "kg", AvailableQuantity: Qty("3")}
	lettuce := entities.RawProduct{ID: "LETTUCE", Name: "Romaine lettuce", Unit: "kg", AvailableQuantity: Qty("5")}
	b := beef("10")
	return []*entities.RawProduct{&b, &salmon, &lettuce}
}

func KitchenPreparations() []*entities.Preparation {
	strips := preparation("BEEF_STRIPS", "Beef strips", "BEEF", "strips", "10", "8.5", 85, "0.1")
	cubes := preparation("BEEF_CUBES", "Beef cubes", "BEEF", "cubes", "1", "1", 50, "0.2")
	fillet := preparation("SALMON_FILLET", "Salmon fillet", "SALMON", "fillet", "1", "0.6", 12, "0.15")
	return []*entities.Preparation{&strips, &cubes, &fillet}
}

func KitchenRecipes() []*entities.Recipe {
	recipes := []entities.Recipe{
		recipe("R1", "Beef stir fry", "mains", 12, entities.Ingredient{ProductID: "BEEF", QuantityRequired: Qty("2.4")}),
		recipe("R2", "Caesar salad", "starters", 4, entities.Ingredient{ProductID: "LETTUCE", QuantityRequired: Qty("1")}),
		recipe("R3", "Crispy strips wrap", "mains", 10,
			entities.Ingredient{ProductID: "BEEF_STRIPS", QuantityRequired: Qty("1.5")},
			entities.Ingredient{ProductID: "WRAP", QuantityRequired: Qty("1")}),
		recipe("A", "Salmon poke bowl", "mains", 12, entities.Ingredient{ProductID: "SALMON", QuantityRequired: Qty("2.4")}),
		recipe("B", "Salmon tartare", "starters", 16, entities.Ingredient{ProductID: "SALMON", QuantityRequired: Qty("2.4")}),
	}
	result := make([]*entities.Recipe, len(recipes))
	for i := range recipes {
		result[i] = &recipes[i]
	}
	return result
}

// KitchenCatalog returns the kitchen as a catalog snapshot
func KitchenCatalog() *entities.Catalog {
	return mustCatalog(deref(KitchenProducts()), deref(KitchenPreparations()), deref(KitchenRecipes()))
}

// KitchenRepositories returns in-memory repositories loaded with the kitchen
func KitchenRepositories() (*memory.ProductRepository, *memory.PreparationRepository, *memory.RecipeRepository) {
	products := memory.NewProductRepository(3)
	preparations := memory.NewPreparationRepository(3)
	recipes := memory.NewRecipeRepository(5)

	if err := products.LoadProducts(KitchenProducts()); err != nil {
		panic(err)
	}
	if err := preparations.LoadPreparations(KitchenPreparations()); err != nil {
		panic(err)
	}
	if err := recipes.LoadRecipes(KitchenRecipes()); err != nil {
		panic(err)
	}

	return products, preparations, recipes
}

func beef(available string) entities.RawProduct {
	return entities.RawProduct{ID: "BEEF", Name: "Beef chuck", Unit: "kg", AvailableQuantity: Qty(available)}
}

func preparation(id entities.PreparationID, name string, source entities.ProductID, cutShape, raw, yielded string, portions int64, size string) entities.Preparation {
	return entities.Preparation{
		ID:                      id,
		Name:                    name,
		SourceProductID:         source,
		CutShapeLabel:           cutShape,
		RawQuantityRequired:     Qty(raw),
		PreparedQuantityYielded: Qty(yielded),
		PortionCount:            portions,
		PortionSize:             Qty(size),
		PortionUnit:             "kg",
	}
}

func recipe(id entities.RecipeID, name, category string, portionsPerBatch int64, ingredients ...entities.Ingredient) entities.Recipe {
	return entities.Recipe{
		ID:               id,
		Name:             name,
		Category:         category,
		PortionsPerBatch: portionsPerBatch,
		Ingredients:      ingredients,
	}
}

func deref[T any](items []*T) []T {
	values := make([]T, len(items))
	for i, item := range items {
		values[i] = *item
	}
	return values
}

func mustCatalog(products []entities.RawProduct, preparations []entities.Preparation, recipes []entities.Recipe) *entities.Catalog {
	catalog, err := entities.NewCatalog(products, preparations, recipes)
	if err != nil {
		panic(fmt.Sprintf("invalid fixture catalog: %v", err))
	}
	return catalog
}
