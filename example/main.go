package main

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prepplan/pkg/application/dto"
	"github.com/vsinha/prepplan/pkg/application/services/planning"
	"github.com/vsinha/prepplan/pkg/infrastructure/events"
	"github.com/vsinha/prepplan/pkg/infrastructure/logging"
	fixtures "github.com/vsinha/prepplan/pkg/infrastructure/testing"
)

func main() {
	logger := logging.New("info", logging.FormatText)
	catalog := fixtures.KitchenCatalog()
	journal := events.NewInMemoryEventStore(logger)

	// Cut the beef: strips first, then as many cubes as the rest allows
	prep := planning.NewSession(catalog, planning.ModePreparation,
		planning.WithLogger(logger),
		planning.WithJournal(journal),
	)
	prep.SelectProduct("BEEF")
	prep.Apply(dto.QuantityEdit("BEEF_STRIPS", decimal.NewFromInt(6)))
	snapshot := prep.Apply(dto.QuantityEdit("BEEF_CUBES", decimal.NewFromInt(5)))

	fmt.Printf("Beef: %s of %s kg used, %s kg left\n",
		snapshot.RawConsumedTotal.StringFixed(2), snapshot.AvailableQuantity, snapshot.RawRemaining.StringFixed(2))
	for _, item := range snapshot.PerItem {
		fmt.Printf("  %s: %s kg -> %d portions\n", item.ItemName, item.AllocatedAmount.StringFixed(2), item.AchievablePortions)
		for _, production := range item.Preview(snapshot.PreviewLimit) {
			fmt.Printf("    %s: %d portions\n", production.RecipeName, production.AchievablePortions)
		}
	}
	for _, warning := range snapshot.Warnings {
		fmt.Printf("  ! %s\n", warning)
	}
	fmt.Println()

	// Forecast salmon dishes sharing the same side
	forecast := planning.NewSession(catalog, planning.ModeForecast,
		planning.WithLogger(logger),
		planning.WithJournal(journal),
	)
	forecast.SelectProduct("SALMON")
	forecast.Apply(dto.PortionEdit("A", 10))
	snapshot = forecast.Apply(dto.PortionEdit("B", 10))

	fmt.Printf("Salmon: %s of %s kg used\n", snapshot.RawConsumedTotal, snapshot.AvailableQuantity)
	for _, item := range snapshot.PerItem {
		fmt.Printf("  %s: %d portions\n", item.ItemName, item.AchievablePortions)
	}
	fmt.Println()

	all, _ := journal.ReadAllEvents(0)
	fmt.Printf("Journal: %d events across 2 sessions\n", len(all))
}
