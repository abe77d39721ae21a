package planning

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/vsinha/prepplan/pkg/application/dto"
	"github.com/vsinha/prepplan/pkg/application/services/allocation"
	"github.com/vsinha/prepplan/pkg/application/services/capacity"
	"github.com/vsinha/prepplan/pkg/application/services/shared"
	"github.com/vsinha/prepplan/pkg/domain/entities"
	"github.com/vsinha/prepplan/pkg/infrastructure/events"
	"github.com/vsinha/prepplan/pkg/infrastructure/logging"
)

const moduleName = "planning"

// Mode selects which allocator a planning view drives
type Mode int

const (
	// ModePreparation balances prepared quantities across the preparations of a product
	ModePreparation Mode = iota
	// ModeForecast balances portion counts across the productions using a product
	ModeForecast
)

// String method for Mode enum
func (m Mode) String() string {
	switch m {
	case ModePreparation:
		return "preparation"
	case ModeForecast:
		return "forecast"
	default:
		return "unknown"
	}
}

// ParseMode resolves a mode name as printed by String
func ParseMode(name string) (Mode, bool) {
	switch name {
	case "preparation":
		return ModePreparation, true
	case "forecast":
		return ModeForecast, true
	default:
		return ModePreparation, false
	}
}

// Session holds the allocation state of one planning view. It recomputes a
// snapshot after every edit and keeps no state shared with other sessions.
// A Session is not safe for concurrent use.
type Session struct {
	id         string
	mode       Mode
	catalog    *entities.Catalog
	productID  entities.ProductID
	selected   bool
	state      shared.AllocationMap
	quantities *allocation.QuantityAllocator
	portions   *allocation.PortionAllocator
	calculator *capacity.Calculator
	logger     logrus.FieldLogger
	journal    events.EventStore
	now        func() time.Time
}

// Option configures a Session
type Option func(*Session)

// WithLogger routes clamps (debug) and warnings (warn) to logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithJournal records every state change in journal under the session id
func WithJournal(journal events.EventStore) Option {
	return func(s *Session) {
		s.journal = journal
	}
}

// WithMatcher replaces the recipe matching strategy
func WithMatcher(matcher shared.RecipeMatcher) Option {
	return func(s *Session) {
		s.calculator = capacity.NewCalculator(matcher).WithPreviewLimit(s.calculator.PreviewLimit())
	}
}

// WithPreviewLimit sets the production preview size, kept within 3..5
func WithPreviewLimit(limit int) Option {
	return func(s *Session) {
		s.calculator = s.calculator.WithPreviewLimit(limit)
	}
}

// WithClock sets the time source used to flag expired preparations
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSession starts a planning session over catalog with no product selected
func NewSession(catalog *entities.Catalog, mode Mode, opts ...Option) *Session {
	s := &Session{
		id:         uuid.New().String(),
		mode:       mode,
		catalog:    catalog,
		state:      shared.NewAllocationMap(),
		quantities: allocation.NewQuantityAllocator(),
		portions:   allocation.NewPortionAllocator(),
		calculator: capacity.NewCalculator(nil),
		logger:     logging.Discard(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier, also used as the journal stream id
func (s *Session) ID() string {
	return s.id
}

// Mode returns the planning mode of the session
func (s *Session) Mode() Mode {
	return s.mode
}

// SelectedProduct returns the selected product id, if any
func (s *Session) SelectedProduct() (entities.ProductID, bool) {
	return s.productID, s.selected
}

// SelectProduct switches the session to productID. All allocation state held
// for the previous product is discarded before anything is computed for the
// new one.
func (s *Session) SelectProduct(productID entities.ProductID) dto.AllocationSnapshot {
	previous, wasSelected := s.productID, s.selected
	discarded := s.state.Size()
	stale := s.state.StaleProducts(productID)

	s.state = shared.NewAllocationMap()
	s.productID = productID
	s.selected = true

	if _, ok := s.catalog.Product(productID); !ok {
		s.selected = false
		s.productID = ""
		warning := entities.NewWarning(entities.LookupFailure, string(productID), "product %s not found", productID)
		s.logWarnings("SelectProduct", []entities.Warning{warning})
		return s.emptySnapshot(productID, []entities.Warning{warning})
	}

	payload := events.ProductSelected{ProductID: productID, DiscardedRequests: discarded, StaleProducts: stale}
	if wasSelected {
		payload.DiscardedProductID = previous
	}
	s.record(events.NewProductSelectedEvent(s.id, payload))

	s.logger.WithFields(logrus.Fields{
		"session":   s.id,
		"product":   productID,
		"discarded": discarded,
	}).Debug("product selected")

	return s.Snapshot()
}

// Apply performs one edit and returns the recomputed snapshot. Preparation
// mode expects a quantity edit, forecast mode a portion edit.
func (s *Session) Apply(cmd dto.EditCommand) dto.AllocationSnapshot {
	product, warnings, ok := s.selectedProduct(cmd.TargetID)
	if !ok {
		return s.finish("Apply", warnings)
	}

	switch s.mode {
	case ModePreparation:
		warnings = s.applyQuantity(product, cmd)
	case ModeForecast:
		warnings = s.applyPortions(product, cmd)
	}

	return s.finish("Apply", warnings)
}

// UseAll sets every preparation of the selected product to its full yield
// capacity. Only available in preparation mode.
func (s *Session) UseAll() dto.AllocationSnapshot {
	return s.bulk("UseAll", "use_all", s.quantities.UseAll)
}

// SplitEvenly sets every preparation of the selected product to half its
// full yield capacity. Only available in preparation mode.
func (s *Session) SplitEvenly() dto.AllocationSnapshot {
	return s.bulk("SplitEvenly", "split_evenly", s.quantities.SplitEvenly)
}

// Reset discards every allocation of the selected product
func (s *Session) Reset() dto.AllocationSnapshot {
	product, warnings, ok := s.selectedProduct("")
	if !ok {
		return s.finish("Reset", warnings)
	}

	s.state = s.quantities.Reset(product, s.state).State
	s.record(events.NewAllocationsResetEvent(s.id, product.ID))

	return s.finish("Reset", nil)
}

// RefreshCatalog swaps in a fresh catalog snapshot. Outstanding allocations
// are kept as they are; if they now exceed the stock the snapshot reports the
// overcommitment and the next edit reconciles.
func (s *Session) RefreshCatalog(catalog *entities.Catalog) dto.AllocationSnapshot {
	s.catalog = catalog

	snapshot := s.Snapshot()
	if s.selected {
		s.record(events.NewCatalogRefreshedEvent(s.id, events.CatalogRefreshed{
			ProductID:         s.productID,
			AvailableQuantity: snapshot.AvailableQuantity,
			Overcommitted:     snapshot.Overcommitted,
		}))
	}
	s.logWarnings("RefreshCatalog", snapshot.Warnings)
	return snapshot
}

// Snapshot recomputes the derived view of the current state. It has no side effects.
func (s *Session) Snapshot() dto.AllocationSnapshot {
	if !s.selected {
		return s.emptySnapshot("", nil)
	}

	product, ok := s.catalog.Product(s.productID)
	if !ok {
		return s.emptySnapshot(s.productID, []entities.Warning{entities.NewWarning(entities.LookupFailure, string(s.productID),
			"product %s is no longer in the catalog", s.productID)})
	}

	snapshot := s.emptySnapshot(product.ID, nil)
	snapshot.AvailableQuantity = product.AvailableQuantity

	switch s.mode {
	case ModePreparation:
		s.preparationItems(product, &snapshot)
	case ModeForecast:
		s.forecastItems(product, &snapshot)
	}

	total := s.state.TotalRawConsumed(product.ID)
	snapshot.RawConsumedTotal = total
	snapshot.RawRemaining = decimal.Max(product.AvailableQuantity.Sub(total), decimal.Zero)
	if total.GreaterThan(product.AvailableQuantity) {
		snapshot.Overcommitted = total.Sub(product.AvailableQuantity)
		snapshot.Warnings = appendUnique(snapshot.Warnings, entities.NewWarning(entities.StockUnderflow, string(product.ID),
			"allocations consume %s of %s available", total, product.AvailableQuantity))
	}

	return snapshot
}

// Journal returns the events recorded for this session, oldest first
func (s *Session) Journal() ([]events.Event, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.ReadEvents(s.id, 1)
}

func (s *Session) applyQuantity(product entities.RawProduct, cmd dto.EditCommand) []entities.Warning {
	if cmd.RequestedQuantity == nil {
		return []entities.Warning{entities.NewWarning(entities.InconsistentState, cmd.TargetID,
			"preparation planning expects a quantity edit")}
	}

	prep, ok := s.catalog.Preparation(entities.PreparationID(cmd.TargetID))
	if !ok {
		return []entities.Warning{entities.NewWarning(entities.LookupFailure, cmd.TargetID,
			"preparation %s not found", cmd.TargetID)}
	}
	if prep.SourceProductID != product.ID {
		return []entities.Warning{entities.NewWarning(entities.InconsistentState, cmd.TargetID,
			"preparation %s belongs to %s, not the selected %s", prep.ID, prep.SourceProductID, product.ID)}
	}

	requested := *cmd.RequestedQuantity
	result := s.quantities.Apply(product, prep, s.state, requested)
	s.state = result.State

	if !result.Applied.Equal(requested) {
		s.logger.WithFields(logrus.Fields{
			"session":   s.id,
			"item":      cmd.TargetID,
			"requested": requested.String(),
			"applied":   result.Applied.String(),
			"state":     s.state.String(),
		}).Debug("quantity edit clamped")
	}

	s.record(events.NewQuantityAllocatedEvent(s.id, events.AllocationEdited{
		ProductID: product.ID,
		ItemID:    cmd.TargetID,
		Requested: requested.String(),
		Applied:   result.Applied.String(),
		Warnings:  result.Warnings,
	}))

	return result.Warnings
}

func (s *Session) applyPortions(product entities.RawProduct, cmd dto.EditCommand) []entities.Warning {
	if cmd.RequestedPortions == nil {
		return []entities.Warning{entities.NewWarning(entities.InconsistentState, cmd.TargetID,
			"forecast planning expects a portion edit")}
	}

	options := allocation.ProductionOptionsFor(product.ID, s.catalog.Recipes())
	if !hasOption(options, cmd.TargetID) {
		if _, ok := s.catalog.Recipe(entities.RecipeID(cmd.TargetID)); ok {
			return []entities.Warning{entities.NewWarning(entities.InconsistentState, cmd.TargetID,
				"production %s does not use the selected %s", cmd.TargetID, product.ID)}
		}
		return []entities.Warning{entities.NewWarning(entities.LookupFailure, cmd.TargetID,
			"production %s not found", cmd.TargetID)}
	}

	requested := *cmd.RequestedPortions
	result := s.portions.Apply(product, options, s.state, cmd.TargetID, requested)
	s.state = result.State

	if result.Applied != requested {
		s.logger.WithFields(logrus.Fields{
			"session":   s.id,
			"item":      cmd.TargetID,
			"requested": requested,
			"applied":   result.Applied,
			"state":     s.state.String(),
		}).Debug("portion edit clamped")
	}

	s.record(events.NewPortionsAllocatedEvent(s.id, events.AllocationEdited{
		ProductID: product.ID,
		ItemID:    cmd.TargetID,
		Requested: decimal.NewFromInt(requested).String(),
		Applied:   decimal.NewFromInt(result.Applied).String(),
		Warnings:  result.Warnings,
	}))

	return result.Warnings
}

type bulkOperation func(entities.RawProduct, []entities.Preparation, shared.AllocationMap) allocation.QuantityResult

func (s *Session) bulk(funcName, operation string, apply bulkOperation) dto.AllocationSnapshot {
	product, warnings, ok := s.selectedProduct("")
	if !ok {
		return s.finish(funcName, warnings)
	}
	if s.mode != ModePreparation {
		return s.finish(funcName, []entities.Warning{entities.NewWarning(entities.InconsistentState, string(product.ID),
			"%s is only available when planning preparations", operation)})
	}

	result := apply(product, s.catalog.PreparationsFor(product.ID), s.state)
	s.state = result.State

	s.record(events.NewBulkAllocatedEvent(s.id, events.BulkAllocated{
		ProductID:   product.ID,
		Operation:   operation,
		RawConsumed: result.RawConsumed,
		Warnings:    result.Warnings,
	}))

	return s.finish(funcName, result.Warnings)
}

// selectedProduct resolves the selected product for an edit on itemID
func (s *Session) selectedProduct(itemID string) (entities.RawProduct, []entities.Warning, bool) {
	if !s.selected {
		return entities.RawProduct{}, []entities.Warning{entities.NewWarning(entities.InconsistentState, itemID,
			"no product selected")}, false
	}
	product, ok := s.catalog.Product(s.productID)
	if !ok {
		return entities.RawProduct{}, []entities.Warning{entities.NewWarning(entities.LookupFailure, string(s.productID),
			"product %s is no longer in the catalog", s.productID)}, false
	}
	return product, nil, true
}

// finish recomputes the snapshot and merges the warnings of the operation into it
func (s *Session) finish(funcName string, warnings []entities.Warning) dto.AllocationSnapshot {
	snapshot := s.Snapshot()
	merged := make([]entities.Warning, 0, len(warnings)+len(snapshot.Warnings))
	for _, w := range warnings {
		merged = appendUnique(merged, w)
	}
	for _, w := range snapshot.Warnings {
		merged = appendUnique(merged, w)
	}
	snapshot.Warnings = merged
	s.logWarnings(funcName, warnings)
	return snapshot
}

func (s *Session) preparationItems(product entities.RawProduct, snapshot *dto.AllocationSnapshot) {
	now := s.now()

	for _, prep := range s.catalog.PreparationsFor(product.ID) {
		item := dto.ItemAllocation{
			ItemID:          string(prep.ID),
			ItemName:        prep.Name,
			AllocatedAmount: decimal.Zero,
			RawConsumed:     decimal.Zero,
			Expired:         prep.IsExpired(now),
		}
		if request := s.state.Get(product.ID, item.ItemID); request != nil {
			item.AllocatedAmount = request.RequestedQuantity
			item.RawConsumed = request.RawConsumed
		}

		if !prep.HasValidRatio() {
			snapshot.Warnings = appendUnique(snapshot.Warnings, entities.NewWarning(entities.InvalidConversionRatio, item.ItemID,
				"conversion ratio of %s must be positive, planned with zero capacity", prep.ID))
		}

		result := s.calculator.CalculateByID(s.catalog, prep.ID, item.AllocatedAmount)
		item.AchievablePortions = result.AchievablePortions
		item.MatchingProductions = result.Productions
		for _, w := range result.Warnings {
			snapshot.Warnings = appendUnique(snapshot.Warnings, w)
		}

		snapshot.PerItem = append(snapshot.PerItem, item)
	}
}

func (s *Session) forecastItems(product entities.RawProduct, snapshot *dto.AllocationSnapshot) {
	for _, option := range allocation.ProductionOptionsFor(product.ID, s.catalog.Recipes()) {
		item := dto.ItemAllocation{
			ItemID:          option.ID,
			ItemName:        option.Name,
			AllocatedAmount: decimal.Zero,
			RawConsumed:     decimal.Zero,
		}
		if request := s.state.Get(product.ID, option.ID); request != nil {
			item.AllocatedAmount = decimal.NewFromInt(request.RequestedPortions)
			item.RawConsumed = request.RawConsumed
			item.AchievablePortions = request.RequestedPortions
		}

		if !option.Valid() {
			snapshot.Warnings = appendUnique(snapshot.Warnings, entities.NewWarning(entities.InvalidConversionRatio, option.ID,
				"per-portion requirement must be positive, got %s", option.PerPortion()))
		}

		snapshot.PerItem = append(snapshot.PerItem, item)
	}
}

func (s *Session) emptySnapshot(productID entities.ProductID, warnings []entities.Warning) dto.AllocationSnapshot {
	return dto.AllocationSnapshot{
		SessionID:         s.id,
		ProductID:         productID,
		Mode:              s.mode.String(),
		AvailableQuantity: decimal.Zero,
		RawConsumedTotal:  decimal.Zero,
		RawRemaining:      decimal.Zero,
		Overcommitted:     decimal.Zero,
		Warnings:          warnings,
		PreviewLimit:      s.calculator.PreviewLimit(),
	}
}

func (s *Session) record(event events.Event) {
	if s.journal == nil {
		return
	}
	if err := s.journal.AppendEvent(s.id, event); err != nil {
		logging.LogError(s.logger, moduleName, "record", event.Type(), s.id, err)
	}
}

func (s *Session) logWarnings(funcName string, warnings []entities.Warning) {
	for _, w := range warnings {
		logging.LogWarning(s.logger, moduleName, funcName, w.Code.String(), logrus.Fields{
			"session": s.id,
			"item":    w.ItemID,
		}, w.Message)
	}
}

// appendUnique keeps one warning per code and item
func appendUnique(warnings []entities.Warning, w entities.Warning) []entities.Warning {
	for _, existing := range warnings {
		if existing.Code == w.Code && existing.ItemID == w.ItemID {
			return warnings
		}
	}
	return append(warnings, w)
}

func hasOption(options []allocation.ProductionOption, id string) bool {
	for _, o := range options {
		if o.ID == id {
			return true
		}
	}
	return false
}
