package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vsinha/prepplan/pkg/infrastructure/config"
	"github.com/vsinha/prepplan/pkg/interfaces/cli/commands"
)

// editList collects repeated -edit flags in order
type editList []string

func (e *editList) String() string {
	return strings.Join(*e, ",")
}

func (e *editList) Set(value string) error {
	*e = append(*e, value)
	return nil
}

func main() {
	// A missing .env file is fine; the environment and flags still apply
	_ = godotenv.Load()
	env := config.Load()

	var edits editList
	flag.Var(&edits, "edit", "Edit to apply as id=value (repeatable)")

	// Command line flags
	var (
		scenarioDir = flag.String(
			"scenario",
			env.ScenarioDir,
			"Path to scenario directory containing CSV files",
		)
		product      = flag.String("product", "", "Raw product to plan")
		mode         = flag.String("mode", "preparation", "Planning mode: preparation or forecast")
		useAll       = flag.Bool("use-all", false, "Set every preparation to its full yield capacity")
		splitEvenly  = flag.Bool("split-evenly", false, "Set every preparation to half its full yield capacity")
		restock      = flag.String("restock", "", "Replace the product's stock after the edits")
		outputDir    = flag.String("output", "", "Output directory for results (optional)")
		format       = flag.String("format", env.OutputFormat, "Output format: text, json, csv, xlsx")
		previewLimit = flag.Int("preview", env.PreviewLimit, "Matching productions shown per item (3 to 5)")
		showAll      = flag.Bool("show-all", false, "List every matching production")
		logLevel     = flag.String("log-level", env.LogLevel, "Log level: debug, info, warn, error")
		logFormat    = flag.String("log-format", env.LogFormat, "Log format: text or json")
		verbose      = flag.Bool("verbose", false, "Enable verbose output")
		help         = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	// Create command configuration
	cfg := commands.Config{
		ScenarioDir:  *scenarioDir,
		Product:      *product,
		Mode:         *mode,
		Edits:        edits,
		UseAll:       *useAll,
		SplitEvenly:  *splitEvenly,
		Restock:      *restock,
		OutputDir:    *outputDir,
		Format:       *format,
		PreviewLimit: *previewLimit,
		ShowAll:      *showAll,
		LogLevel:     *logLevel,
		LogFormat:    *logFormat,
		Verbose:      *verbose,
		Help:         *help,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Create and execute command
	cmd := commands.NewPlanCommand(cfg)
	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
