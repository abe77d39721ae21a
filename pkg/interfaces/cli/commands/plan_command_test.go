package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vsinha/prepplan/pkg/application/services/planning"
)

func writeScenario(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"products.csv": "product_id,name,unit,available_quantity\nBEEF,Beef chuck,kg,10\nSALMON,Salmon side,kg,3\n",
		"preparations.csv": "preparation_id,name,source_product_id,cut_shape,raw_quantity_required,prepared_quantity_yielded,portion_count,portion_size,portion_unit,expiry_date\n" +
			"P1,Beef cubes,BEEF,cubes,1,1,100,0.2,kg,\n" +
			"P2,Beef mince,BEEF,mince,1,1,100,0.2,kg,\n",
		"recipes.csv":            "recipe_id,name,category,portions_per_batch,selling_price\nA,Salmon poke bowl,mains,12,\nB,Salmon tartare,starters,16,\n",
		"recipe_ingredients.csv": "recipe_id,product_id,quantity_required\nA,SALMON,2.4\nB,SALMON,2.4\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

func runPlan(t *testing.T, config Config) (map[string]any, string) {
	t.Helper()
	var buf bytes.Buffer
	config.Stdout = &buf
	config.Format = "json"
	config.LogLevel = "panic"

	if err := NewPlanCommand(config).Execute(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var snapshot map[string]any
	if err := json.Unmarshal(buf.Bytes(), &snapshot); err != nil {
		t.Fatalf("Expected JSON snapshot, got %q: %v", buf.String(), err)
	}
	return snapshot, buf.String()
}

func TestPlanCommand_PreparationEdits(t *testing.T) {
	snapshot, raw := runPlan(t, Config{
		ScenarioDir: writeScenario(t),
		Product:     "BEEF",
		Mode:        "preparation",
		Edits:       []string{"P1=6", "P2=7"},
	})

	if snapshot["RawConsumedTotal"] != "10" || snapshot["RawRemaining"] != "0" {
		t.Errorf("Expected full consumption, got consumed %v remaining %v", snapshot["RawConsumedTotal"], snapshot["RawRemaining"])
	}
	if !strings.Contains(raw, "StockUnderflow") {
		t.Errorf("Expected StockUnderflow warning in %s", raw)
	}
}

func TestPlanCommand_ForecastEdits(t *testing.T) {
	snapshot, _ := runPlan(t, Config{
		ScenarioDir: writeScenario(t),
		Product:     "SALMON",
		Mode:        "forecast",
		Edits:       []string{"A=10", "B=10"},
	})

	items, _ := snapshot["PerItem"].([]any)
	if len(items) != 2 {
		t.Fatalf("Expected 2 productions, got %v", snapshot["PerItem"])
	}
	b := items[1].(map[string]any)
	if b["ItemID"] != "B" || b["AchievablePortions"] != float64(6) {
		t.Errorf("Expected B clamped to 6 portions, got %v", b)
	}
}

func TestPlanCommand_RestockReportsOvercommitment(t *testing.T) {
	snapshot, _ := runPlan(t, Config{
		ScenarioDir: writeScenario(t),
		Product:     "BEEF",
		Mode:        "preparation",
		UseAll:      true,
		Restock:     "15",
	})

	if snapshot["Overcommitted"] != "5" {
		t.Errorf("Expected 5 kg overcommitted, got %v", snapshot["Overcommitted"])
	}
}

func TestPlanCommand_ValidationErrors(t *testing.T) {
	scenario := writeScenario(t)

	testCases := []struct {
		name     string
		config   Config
		expected string
	}{
		{"missing scenario", Config{Product: "BEEF"}, "must specify a -scenario directory"},
		{"missing product", Config{ScenarioDir: scenario}, "must specify a -product"},
		{"unknown mode", Config{ScenarioDir: scenario, Product: "BEEF", Mode: "weekly"}, "unknown mode"},
		{"conflicting bulk", Config{ScenarioDir: scenario, Product: "BEEF", UseAll: true, SplitEvenly: true}, "mutually exclusive"},
		{"unknown product", Config{ScenarioDir: scenario, Product: "TUNA", Mode: "preparation"}, "product not found: TUNA"},
		{"malformed edit", Config{ScenarioDir: scenario, Product: "BEEF", Mode: "preparation", Edits: []string{"P1"}}, "expected id=value"},
		{"bad restock", Config{ScenarioDir: scenario, Product: "BEEF", Mode: "preparation", Restock: "lots"}, "invalid restock quantity"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.config.Stdout = &bytes.Buffer{}
			tc.config.LogLevel = "panic"
			err := NewPlanCommand(tc.config).Execute(context.Background())
			if err == nil || !strings.Contains(err.Error(), tc.expected) {
				t.Errorf("Expected error containing %q, got %v", tc.expected, err)
			}
		})
	}
}

func TestPlanCommand_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewPlanCommand(Config{
		ScenarioDir: writeScenario(t),
		Product:     "BEEF",
		Mode:        "preparation",
		Edits:       []string{"P1=1"},
		Stdout:      &bytes.Buffer{},
		LogLevel:    "panic",
	}).Execute(ctx)

	if err == nil || !strings.Contains(err.Error(), "planning interrupted") {
		t.Errorf("Expected interruption error, got %v", err)
	}
}

func TestParseEdit(t *testing.T) {
	edit, err := parseEdit(planning.ModePreparation, " P1 = 8.5 ")
	if err != nil || edit.TargetID != "P1" || edit.RequestedQuantity == nil || edit.RequestedQuantity.String() != "8.5" {
		t.Errorf("Unexpected quantity edit %+v, %v", edit, err)
	}

	edit, err = parseEdit(planning.ModeForecast, "A=10")
	if err != nil || edit.RequestedPortions == nil || *edit.RequestedPortions != 10 {
		t.Errorf("Unexpected portion edit %+v, %v", edit, err)
	}

	if _, err := parseEdit(planning.ModeForecast, "A=1.5"); err == nil {
		t.Error("Expected fractional portions to be rejected")
	}
	if _, err := parseEdit(planning.ModePreparation, "=3"); err == nil {
		t.Error("Expected missing id to be rejected")
	}
}

func TestPlanCommand_Help(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPlanCommand(Config{Help: true, Stdout: &buf}).Execute(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "USAGE:") {
		t.Errorf("Expected usage text, got %q", buf.String())
	}
}

func TestPlanCommand_VerbosePrintsJournalAsRecorded(t *testing.T) {
	var buf bytes.Buffer
	config := Config{
		ScenarioDir: writeScenario(t),
		Product:     "BEEF",
		Mode:        "preparation",
		Edits:       []string{"P1=4", "P2=3"},
		Format:      "text",
		LogLevel:    "panic",
		Verbose:     true,
		Stdout:      &buf,
	}

	if err := NewPlanCommand(config).Execute(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Session journal:", "  1 session.product_selected", "  3 allocation.quantity", "(3 events)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in verbose output:\n%s", want, out)
		}
	}
	if strings.Index(out, "session.product_selected") > strings.Index(out, "(3 events)") {
		t.Error("Expected events to be printed before the summary")
	}
}
