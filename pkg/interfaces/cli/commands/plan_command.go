package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/vsinha/prepplan/pkg/application/dto"
	catalogsvc "github.com/vsinha/prepplan/pkg/application/services/catalog"
	"github.com/vsinha/prepplan/pkg/application/services/planning"
	"github.com/vsinha/prepplan/pkg/domain/entities"
	"github.com/vsinha/prepplan/pkg/infrastructure/events"
	"github.com/vsinha/prepplan/pkg/infrastructure/logging"
	"github.com/vsinha/prepplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/prepplan/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/prepplan/pkg/interfaces/cli/output"
)

// Config holds configuration for the plan command
type Config struct {
	ScenarioDir string
	Product     string
	Mode        string
	// Edits are "id=value" pairs applied in order: a prepared quantity in
	// preparation mode, a portion count in forecast mode
	Edits       []string
	UseAll      bool
	SplitEvenly bool
	// Restock replaces the product's stock after the edits, as a catalog
	// refresh would
	Restock      string
	OutputDir    string
	Format       string
	PreviewLimit int
	ShowAll      bool
	LogLevel     string
	LogFormat    string
	Verbose      bool
	Help         bool
	// Stdout receives console output; nil means os.Stdout
	Stdout io.Writer
}

// PlanCommand loads a scenario, replays edits through a planning session and
// renders the resulting snapshot
type PlanCommand struct {
	config Config
	out    io.Writer
	logger *logrus.Logger
}

// NewPlanCommand creates a new plan command with the given configuration
func NewPlanCommand(config Config) *PlanCommand {
	out := config.Stdout
	if out == nil {
		out = os.Stdout
	}
	return &PlanCommand{
		config: config,
		out:    out,
		logger: logging.New(config.LogLevel, config.LogFormat),
	}
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	mode, err := c.validateInputs()
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if c.config.Verbose {
		c.printHeader(mode)
	}

	catalog, err := c.loadCatalog()
	if err != nil {
		logging.LogError(c.logger, "cli", "Execute", "load catalog", c.config.ScenarioDir, err)
		return err
	}

	journal := events.NewInMemoryEventStore(c.logger)
	if c.config.Verbose {
		printer := &journalPrinter{out: c.out}
		fmt.Fprintln(c.out, "Session journal:")
		if err := journal.Subscribe(events.PlanningEventTypes(), printer); err != nil {
			return fmt.Errorf("failed to subscribe journal printer: %w", err)
		}
		defer journal.Unsubscribe(printer)
	}

	session := planning.NewSession(catalog, mode,
		planning.WithLogger(c.logger),
		planning.WithJournal(journal),
		planning.WithPreviewLimit(c.config.PreviewLimit),
	)

	var warnings []entities.Warning
	collect := func(snapshot dto.AllocationSnapshot) {
		warnings = mergeWarnings(warnings, snapshot.Warnings)
	}

	collect(session.SelectProduct(entities.ProductID(c.config.Product)))
	if _, selected := session.SelectedProduct(); !selected {
		return fmt.Errorf("product not found: %s", c.config.Product)
	}

	if c.config.UseAll {
		collect(session.UseAll())
	}
	if c.config.SplitEvenly {
		collect(session.SplitEvenly())
	}

	for _, raw := range c.config.Edits {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("planning interrupted: %w", err)
		}
		edit, err := parseEdit(mode, raw)
		if err != nil {
			return fmt.Errorf("invalid edit %q: %w", raw, err)
		}
		collect(session.Apply(edit))
	}

	if c.config.Restock != "" {
		available, err := decimal.NewFromString(c.config.Restock)
		if err != nil {
			return fmt.Errorf("invalid restock quantity: %s", c.config.Restock)
		}
		refreshed, err := catalog.WithAvailableQuantity(entities.ProductID(c.config.Product), available)
		if err != nil {
			return fmt.Errorf("failed to restock: %w", err)
		}
		collect(session.RefreshCatalog(refreshed))
	}

	snapshot := session.Snapshot()
	snapshot.Warnings = mergeWarnings(warnings, snapshot.Warnings)

	if c.config.Verbose {
		c.printJournalSummary(session)
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		ShowAll:   c.config.ShowAll,
		Writer:    c.out,
	}

	if err := output.Generate(&snapshot, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	return nil
}

// validateInputs validates the command configuration and resolves the mode
func (c *PlanCommand) validateInputs() (planning.Mode, error) {
	if c.config.ScenarioDir == "" {
		return planning.ModePreparation, fmt.Errorf("must specify a -scenario directory")
	}
	if c.config.Product == "" {
		return planning.ModePreparation, fmt.Errorf("must specify a -product to plan")
	}
	if c.config.UseAll && c.config.SplitEvenly {
		return planning.ModePreparation, fmt.Errorf("-use-all and -split-evenly are mutually exclusive")
	}

	mode, ok := planning.ParseMode(strings.ToLower(c.config.Mode))
	if !ok {
		return planning.ModePreparation, fmt.Errorf("unknown mode %q (expected preparation or forecast)", c.config.Mode)
	}
	return mode, nil
}

// loadCatalog reads the scenario directory into repositories and freezes them
func (c *PlanCommand) loadCatalog() (*entities.Catalog, error) {
	scenario, err := csv.NewLoader().LoadScenario(c.config.ScenarioDir)
	if err != nil {
		return nil, fmt.Errorf("error loading scenario: %w", err)
	}

	productRepo := memory.NewProductRepository(len(scenario.Products))
	if err := productRepo.LoadProducts(scenario.Products); err != nil {
		return nil, fmt.Errorf("failed to load products into repository: %w", err)
	}
	preparationRepo := memory.NewPreparationRepository(len(scenario.Preparations))
	if err := preparationRepo.LoadPreparations(scenario.Preparations); err != nil {
		return nil, fmt.Errorf("failed to load preparations into repository: %w", err)
	}
	recipeRepo := memory.NewRecipeRepository(len(scenario.Recipes))
	if err := recipeRepo.LoadRecipes(scenario.Recipes); err != nil {
		return nil, fmt.Errorf("failed to load recipes into repository: %w", err)
	}

	catalog, report, err := catalogsvc.NewSnapshotBuilder().Build(productRepo, preparationRepo, recipeRepo)
	if err != nil {
		return nil, err
	}

	for recipeID, products := range report.UnresolvedIngredients {
		c.logger.WithFields(logrus.Fields{
			"recipe":   recipeID,
			"products": products,
		}).Debug("recipe ingredients not stocked as raw products")
	}

	if c.config.Verbose {
		fmt.Fprintf(c.out, "Catalog loaded: %d products, %d preparations, %d recipes\n\n",
			len(scenario.Products), len(scenario.Preparations), len(scenario.Recipes))
	}

	return catalog, nil
}

func parseEdit(mode planning.Mode, raw string) (dto.EditCommand, error) {
	id, value, found := strings.Cut(raw, "=")
	id, value = strings.TrimSpace(id), strings.TrimSpace(value)
	if !found || id == "" || value == "" {
		return dto.EditCommand{}, fmt.Errorf("expected id=value")
	}

	if mode == planning.ModeForecast {
		portions, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return dto.EditCommand{}, fmt.Errorf("invalid portion count: %s", value)
		}
		return dto.PortionEdit(id, portions), nil
	}

	quantity, err := decimal.NewFromString(value)
	if err != nil {
		return dto.EditCommand{}, fmt.Errorf("invalid quantity: %s", value)
	}
	return dto.QuantityEdit(id, quantity), nil
}

// mergeWarnings appends the warnings not already reported
func mergeWarnings(existing, more []entities.Warning) []entities.Warning {
	for _, w := range more {
		seen := false
		for _, e := range existing {
			if e == w {
				seen = true
				break
			}
		}
		if !seen {
			existing = append(existing, w)
		}
	}
	return existing
}

// printHeader prints the command header information
func (c *PlanCommand) printHeader(mode planning.Mode) {
	fmt.Fprintf(c.out, "Prep planning CLI\n")
	fmt.Fprintf(c.out, "Scenario: %s\n", c.config.ScenarioDir)
	fmt.Fprintf(c.out, "Product: %s (%s)\n", c.config.Product, mode)
	fmt.Fprintf(c.out, "Edits: %d\n", len(c.config.Edits))
	fmt.Fprintf(c.out, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(c.out, "Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Fprintln(c.out)
}

func (c *PlanCommand) printJournalSummary(session *planning.Session) {
	recorded, err := session.Journal()
	if err != nil {
		logging.LogError(c.logger, "cli", "printJournalSummary", "read journal", session.ID(), err)
		return
	}
	fmt.Fprintf(c.out, "  (%d events)\n\n", len(recorded))
}

// journalPrinter writes each planning event as the session records it
type journalPrinter struct {
	out io.Writer
}

func (p *journalPrinter) Handle(event events.Event) error {
	_, err := fmt.Fprintf(p.out, "  %3d %s\n", event.Version(), event.Type())
	return err
}

func (p *journalPrinter) CanHandle(eventType string) bool {
	return strings.HasPrefix(eventType, "session.") || strings.HasPrefix(eventType, "allocation.")
}

// showHelp displays the help message
func (c *PlanCommand) showHelp() {
	fmt.Fprintf(c.out, `prepplan - stock allocation and production capacity planning

USAGE:
    prepplan -scenario <directory> -product <id> [-edit id=value ...]

OPTIONS:
    -scenario <dir>     Path to scenario directory containing CSV files
    -product <id>       Raw product to plan
    -mode <mode>        preparation (quantities) or forecast (portions), default preparation
    -edit <id=value>    Edit to apply, repeatable, applied in order
    -use-all            Set every preparation to its full yield capacity first
    -split-evenly       Set every preparation to half its full yield capacity first
    -restock <qty>      Replace the product's stock after the edits
    -preview <n>        Matching productions shown per item, 3 to 5 (default: 3)
    -show-all           List every matching production
    -output <dir>       Output directory for results (required for csv and xlsx)
    -format <fmt>       Output format: text, json, csv, xlsx (default: text)
    -log-level <level>  Log level: debug, info, warn, error (default: warn)
    -log-format <fmt>   Log format: text or json (default: text)
    -verbose            Enable verbose output
    -help               Show this help message

Defaults can also be set through PREPPLAN_* variables or a .env file.

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── products.csv             # Raw products and stock
    ├── preparations.csv         # Cuts and portionings of raw products
    ├── recipes.csv              # Finished productions
    └── recipe_ingredients.csv   # Ingredient lines of each recipe

CSV FILE FORMATS:

products.csv:
    product_id,name,unit,available_quantity
    BEEF,Beef chuck,kg,10

preparations.csv:
    preparation_id,name,source_product_id,cut_shape,raw_quantity_required,prepared_quantity_yielded,portion_count,portion_size,portion_unit,expiry_date
    BEEF_STRIPS,Beef strips,BEEF,strips,10,8.5,85,0.1,kg,

recipes.csv:
    recipe_id,name,category,portions_per_batch,selling_price
    R1,Beef stir fry,mains,12,14.50

recipe_ingredients.csv:
    recipe_id,product_id,quantity_required
    R1,BEEF,2.4

EXAMPLES:
    # Allocate 8.5 kg of strips
    prepplan -scenario kitchen -product BEEF -edit BEEF_STRIPS=8.5

    # Forecast portions of two productions sharing salmon
    prepplan -scenario kitchen -product SALMON -mode forecast -edit A=10 -edit B=10

    # Export the plan as a workbook
    prepplan -scenario kitchen -product BEEF -use-all -format xlsx -output results/
`)
}
