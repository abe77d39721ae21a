package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prepplan/pkg/domain/entities"
)

// Scenario file names inside a scenario directory
const (
	ProductsFile          = "products.csv"
	PreparationsFile      = "preparations.csv"
	RecipesFile           = "recipes.csv"
	RecipeIngredientsFile = "recipe_ingredients.csv"
)

var (
	productsHeader          = []string{"product_id", "name", "unit", "available_quantity"}
	preparationsHeader      = []string{"preparation_id", "name", "source_product_id", "cut_shape", "raw_quantity_required", "prepared_quantity_yielded", "portion_count", "portion_size", "portion_unit", "expiry_date"}
	recipesHeader           = []string{"recipe_id", "name", "category", "portions_per_batch", "selling_price"}
	recipeIngredientsHeader = []string{"recipe_id", "product_id", "quantity_required"}
)

// Scenario is the raw content of a scenario directory, in file order
type Scenario struct {
	Products     []*entities.RawProduct
	Preparations []*entities.Preparation
	Recipes      []*entities.Recipe
}

// Loader handles loading catalog data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadScenario reads a scenario directory. Only products.csv is required;
// a kitchen without preparations or recipes yields empty lists.
func (l *Loader) LoadScenario(dir string) (*Scenario, error) {
	products, err := l.LoadProducts(filepath.Join(dir, ProductsFile))
	if err != nil {
		return nil, err
	}

	scenario := &Scenario{Products: products}

	preparationsPath := filepath.Join(dir, PreparationsFile)
	if exists(preparationsPath) {
		if scenario.Preparations, err = l.LoadPreparations(preparationsPath); err != nil {
			return nil, err
		}
	}

	recipesPath := filepath.Join(dir, RecipesFile)
	if exists(recipesPath) {
		ingredientsPath := filepath.Join(dir, RecipeIngredientsFile)
		if !exists(ingredientsPath) {
			ingredientsPath = ""
		}
		if scenario.Recipes, err = l.LoadRecipes(recipesPath, ingredientsPath); err != nil {
			return nil, err
		}
	}

	return scenario, nil
}

// LoadProducts loads raw products and their stock from a CSV file
func (l *Loader) LoadProducts(filename string) ([]*entities.RawProduct, error) {
	records, err := readRecords(filename, "products", productsHeader, 1)
	if err != nil {
		return nil, err
	}

	var products []*entities.RawProduct
	for i, record := range records {
		available, err := parseDecimal("available_quantity", record[3])
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}

		products = append(products, &entities.RawProduct{
			ID:                entities.ProductID(record[0]),
			Name:              record[1],
			Unit:              record[2],
			AvailableQuantity: available,
		})
	}

	return products, nil
}

// LoadPreparations loads preparation definitions from a CSV file
func (l *Loader) LoadPreparations(filename string) ([]*entities.Preparation, error) {
	records, err := readRecords(filename, "preparations", preparationsHeader, 0)
	if err != nil {
		return nil, err
	}

	var preparations []*entities.Preparation
	for i, record := range records {
		prep, err := parsePreparation(record)
		if err != nil {
			return nil, fmt.Errorf("preparations CSV row %d: %w", i+2, err)
		}
		preparations = append(preparations, &prep)
	}

	return preparations, nil
}

// LoadRecipes loads recipes and, when ingredientsFile is not empty, joins
// their ingredient lines. Ingredient lines keep file order within a recipe.
func (l *Loader) LoadRecipes(recipesFile, ingredientsFile string) ([]*entities.Recipe, error) {
	records, err := readRecords(recipesFile, "recipes", recipesHeader, 0)
	if err != nil {
		return nil, err
	}

	var recipes []*entities.Recipe
	byID := make(map[entities.RecipeID]*entities.Recipe, len(records))
	for i, record := range records {
		recipe, err := parseRecipe(record)
		if err != nil {
			return nil, fmt.Errorf("recipes CSV row %d: %w", i+2, err)
		}
		recipes = append(recipes, &recipe)
		byID[recipe.ID] = &recipe
	}

	if ingredientsFile == "" {
		return recipes, nil
	}

	lines, err := readRecords(ingredientsFile, "recipe ingredients", recipeIngredientsHeader, 0)
	if err != nil {
		return nil, err
	}
	for i, record := range lines {
		recipe, ok := byID[entities.RecipeID(record[0])]
		if !ok {
			return nil, fmt.Errorf("recipe ingredients CSV row %d: unknown recipe_id: %s", i+2, record[0])
		}
		quantity, err := parseDecimal("quantity_required", record[2])
		if err != nil {
			return nil, fmt.Errorf("recipe ingredients CSV row %d: %w", i+2, err)
		}
		recipe.Ingredients = append(recipe.Ingredients, entities.Ingredient{
			ProductID:        entities.ProductID(record[1]),
			QuantityRequired: quantity,
		})
	}

	return recipes, nil
}

// readRecords returns the data rows of filename after checking its header and
// column counts
func readRecords(filename, kind string, expectedHeader []string, minRows int) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s CSV is empty", kind)
	}
	if len(records) < 1+minRows {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	rows := records[1:]
	for i, record := range rows {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
		for j := range record {
			record[j] = strings.TrimSpace(record[j])
		}
	}

	return rows, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parsePreparation(record []string) (entities.Preparation, error) {
	raw, err := parseDecimal("raw_quantity_required", record[4])
	if err != nil {
		return entities.Preparation{}, err
	}

	yielded, err := parseDecimal("prepared_quantity_yielded", record[5])
	if err != nil {
		return entities.Preparation{}, err
	}

	portionCount, err := strconv.ParseInt(record[6], 10, 64)
	if err != nil {
		return entities.Preparation{}, fmt.Errorf("invalid portion_count: %s", record[6])
	}

	portionSize, err := parseDecimal("portion_size", record[7])
	if err != nil {
		return entities.Preparation{}, err
	}

	prep := entities.Preparation{
		ID:                      entities.PreparationID(record[0]),
		Name:                    record[1],
		SourceProductID:         entities.ProductID(record[2]),
		CutShapeLabel:           record[3],
		RawQuantityRequired:     raw,
		PreparedQuantityYielded: yielded,
		PortionCount:            portionCount,
		PortionSize:             portionSize,
		PortionUnit:             record[8],
	}

	if record[9] != "" {
		expiry, err := time.Parse("2006-01-02", record[9])
		if err != nil {
			return entities.Preparation{}, fmt.Errorf("invalid expiry_date format: %s (expected YYYY-MM-DD)", record[9])
		}
		prep.ExpiryDate = &expiry
	}

	return prep, nil
}

func parseRecipe(record []string) (entities.Recipe, error) {
	portionsPerBatch, err := strconv.ParseInt(record[3], 10, 64)
	if err != nil {
		return entities.Recipe{}, fmt.Errorf("invalid portions_per_batch: %s", record[3])
	}

	recipe := entities.Recipe{
		ID:               entities.RecipeID(record[0]),
		Name:             record[1],
		Category:         record[2],
		PortionsPerBatch: portionsPerBatch,
	}

	if record[4] != "" {
		price, err := parseDecimal("selling_price", record[4])
		if err != nil {
			return entities.Recipe{}, err
		}
		recipe.SellingPrice = &price
	}

	return recipe, nil
}

func parseDecimal(column, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", column, value)
	}
	return d, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
