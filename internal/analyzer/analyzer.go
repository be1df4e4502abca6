package analyzer

import (
	"context"
	"fmt"
	"log/slog"

	"dox/internal/analysis"
	"dox/internal/config"
	"dox/internal/extraction"
	"dox/internal/logging"
	"dox/internal/queue"
	"dox/internal/stage"
)

// Analyzer derives entities and facts from extracted units.
type Analyzer struct {
	store  *queue.Store
	cfg    *config.Config
	logger *slog.Logger
}

// New constructs the analyze stage handler.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Analyzer{store: store, cfg: cfg, logger: logging.WithComponent(logger, "analyzer")}
}

func (a *Analyzer) Prepare(ctx context.Context, item *queue.Item) error {
	item.SetProgress("Analyzing", "Scanning units for entities and facts", 0)
	item.ErrorMessage = ""
	return nil
}

func (a *Analyzer) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, a.logger)

	doc, err := extraction.DecodeDocument(item.UnitsJSON)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	entities := analysis.Entities(doc.Units)
	facts := analysis.Facts(doc.Units)

	if err := a.store.ReplaceEntities(ctx, item.ID, toQueueEntities(item.ID, entities)); err != nil {
		return fmt.Errorf("analyze: persist entities: %w", err)
	}
	if err := a.store.ReplaceFacts(ctx, item.ID, toQueueFacts(item.ID, facts)); err != nil {
		return fmt.Errorf("analyze: persist facts: %w", err)
	}

	item.SetProgress("Analyzing", fmt.Sprintf("Found %d entities, %d facts", len(entities), len(facts)), 100)
	logger.Info("analysis complete",
		logging.Int("entity_count", len(entities)),
		logging.Int("fact_count", len(facts)),
	)
	return nil
}

func (a *Analyzer) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy("analyzer")
}

func toQueueEntities(itemID int64, entities []analysis.Entity) []queue.Entity {
	out := make([]queue.Entity, len(entities))
	for i, entity := range entities {
		out[i] = queue.Entity{
			ItemID:  itemID,
			Kind:    entity.Kind,
			Value:   entity.Value,
			UnitIdx: entity.UnitIdx,
		}
	}
	return out
}

func toQueueFacts(itemID int64, facts []analysis.Fact) []queue.Fact {
	out := make([]queue.Fact, len(facts))
	for i, fact := range facts {
		out[i] = queue.Fact{
			ItemID:   itemID,
			Subject:  fact.Subject,
			Value:    fact.Value,
			Evidence: fact.Evidence,
			UnitIdx:  fact.UnitIdx,
		}
	}
	return out
}
