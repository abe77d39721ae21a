package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/prepplan/pkg/application/dto"
)

// Output file names written into Config.OutputDir
const (
	JSONFile        = "allocation_snapshot.json"
	AllocationsFile = "allocations.csv"
	WarningsFile    = "warnings.csv"
	WorkbookFile    = "allocation_snapshot.xlsx"

	allocationsSheet = "Allocations"
	warningsSheet    = "Warnings"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	// ShowAll lists every matching production instead of the preview
	ShowAll bool
	// Writer receives console output; nil means stdout
	Writer io.Writer
}

func (c Config) writer() io.Writer {
	if c.Writer == nil {
		return os.Stdout
	}
	return c.Writer
}

// Generate renders the snapshot in the configured format
func Generate(snapshot *dto.AllocationSnapshot, config Config) error {
	switch strings.ToLower(config.Format) {
	case "", "text":
		return generateTextOutput(snapshot, config)
	case "json":
		return generateJSONOutput(snapshot, config)
	case "csv":
		return generateCSVOutput(snapshot, config)
	case "xlsx":
		return generateWorkbookOutput(snapshot, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(snapshot *dto.AllocationSnapshot, config Config) error {
	w := config.writer()

	fmt.Fprintf(w, "Allocation plan for %s (%s)\n", snapshot.ProductID, snapshot.Mode)
	fmt.Fprintf(w, "==============================\n\n")
	fmt.Fprintf(w, "Available:  %s\n", snapshot.AvailableQuantity)
	fmt.Fprintf(w, "Consumed:   %s\n", snapshot.RawConsumedTotal)
	fmt.Fprintf(w, "Remaining:  %s\n", snapshot.RawRemaining)
	if snapshot.Overcommitted.IsPositive() {
		fmt.Fprintf(w, "Overcommitted: %s\n", snapshot.Overcommitted)
	}
	if config.Verbose {
		fmt.Fprintf(w, "Session:    %s\n", snapshot.SessionID)
	}
	fmt.Fprintln(w)

	if len(snapshot.PerItem) > 0 {
		fmt.Fprintf(w, "%-18s %-24s %-12s %-12s %-9s\n", "Item", "Name", "Allocated", "Raw Used", "Portions")
		fmt.Fprintf(w, "%-18s %-24s %-12s %-12s %-9s\n",
			"------------------", "------------------------", "------------", "------------", "---------")

		for _, item := range snapshot.PerItem {
			name := item.ItemName
			if item.Expired {
				name += " (expired)"
			}
			fmt.Fprintf(w, "%-18s %-24s %-12s %-12s %-9d\n",
				item.ItemID, name, item.AllocatedAmount, item.RawConsumed, item.AchievablePortions)

			productions := item.MatchingProductions
			if !config.ShowAll {
				productions = item.Preview(snapshot.PreviewLimit)
			}
			for _, production := range productions {
				marker := ""
				if production.MatchedByName {
					marker = " ~"
				}
				fmt.Fprintf(w, "    -> %s%s: %d portions\n", production.RecipeName, marker, production.AchievablePortions)
			}
			if hidden := len(item.MatchingProductions) - len(productions); hidden > 0 {
				fmt.Fprintf(w, "    ... %d more\n", hidden)
			}
		}
		fmt.Fprintln(w)
	}

	if len(snapshot.Warnings) > 0 {
		fmt.Fprintf(w, "Warnings:\n")
		for _, warning := range snapshot.Warnings {
			fmt.Fprintf(w, "  %s\n", warning)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// generateJSONOutput creates JSON output
func generateJSONOutput(snapshot *dto.AllocationSnapshot, config Config) error {
	jsonData, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.writer(), string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, JSONFile)
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes allocations.csv and warnings.csv
func generateCSVOutput(snapshot *dto.AllocationSnapshot, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	allocFile := filepath.Join(config.OutputDir, AllocationsFile)
	if err := writeCSV(allocFile, allocationRows(snapshot)); err != nil {
		return fmt.Errorf("failed to write allocations CSV: %w", err)
	}

	warningFile := filepath.Join(config.OutputDir, WarningsFile)
	if err := writeCSV(warningFile, warningRows(snapshot)); err != nil {
		return fmt.Errorf("failed to write warnings CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "CSV results saved to:\n  Allocations: %s\n  Warnings: %s\n", allocFile, warningFile)
	}
	return nil
}

// generateWorkbookOutput writes an xlsx workbook with one sheet per table
func generateWorkbookOutput(snapshot *dto.AllocationSnapshot, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for xlsx format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", allocationsSheet); err != nil {
		return fmt.Errorf("failed to name allocations sheet: %w", err)
	}
	if _, err := f.NewSheet(warningsSheet); err != nil {
		return fmt.Errorf("failed to create warnings sheet: %w", err)
	}

	if err := fillSheet(f, allocationsSheet, allocationRows(snapshot)); err != nil {
		return err
	}
	if err := fillSheet(f, warningsSheet, warningRows(snapshot)); err != nil {
		return err
	}

	filename := filepath.Join(config.OutputDir, WorkbookFile)
	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "Workbook saved to: %s\n", filename)
	}
	return nil
}

func allocationRows(snapshot *dto.AllocationSnapshot) [][]string {
	rows := [][]string{{"item_id", "item_name", "allocated_amount", "raw_consumed", "achievable_portions", "expired", "matching_productions"}}
	for _, item := range snapshot.PerItem {
		productions := make([]string, 0, len(item.MatchingProductions))
		for _, p := range item.MatchingProductions {
			productions = append(productions, fmt.Sprintf("%s:%d", p.RecipeID, p.AchievablePortions))
		}
		rows = append(rows, []string{
			item.ItemID,
			item.ItemName,
			item.AllocatedAmount.String(),
			item.RawConsumed.String(),
			strconv.FormatInt(item.AchievablePortions, 10),
			strconv.FormatBool(item.Expired),
			strings.Join(productions, ";"),
		})
	}
	return rows
}

func warningRows(snapshot *dto.AllocationSnapshot) [][]string {
	rows := [][]string{{"code", "item_id", "message"}}
	for _, w := range snapshot.Warnings {
		rows = append(rows, []string{w.Code.String(), w.ItemID, w.Message})
	}
	return rows
}

func writeCSV(filename string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		file.Close()
		return err
	}
	if err := writer.Error(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func fillSheet(f *excelize.File, sheet string, rows [][]string) error {
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("failed to address %s cell: %w", sheet, err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write %s cell %s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
