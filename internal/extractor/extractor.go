package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"dox/internal/config"
	"dox/internal/extraction"
	"dox/internal/logging"
	"dox/internal/queue"
	"dox/internal/stage"
)

// Extractor turns a queued source file into an ordered unit list.
type Extractor struct {
	store  *queue.Store
	cfg    *config.Config
	logger *slog.Logger
}

// New constructs the extract stage handler.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Extractor{store: store, cfg: cfg, logger: logging.WithComponent(logger, "extractor")}
}

func (e *Extractor) Prepare(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, e.logger)
	item.SetProgress("Extracting", "Reading source file", 0)
	item.ErrorMessage = ""
	logger.Info("starting extraction", logging.String("source_file", strings.TrimSpace(item.SourcePath)))
	return nil
}

func (e *Extractor) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, e.logger)

	source := strings.TrimSpace(item.SourcePath)
	if source == "" {
		return errors.New("extract: item has no source path")
	}
	if _, err := os.Stat(source); err != nil {
		return fmt.Errorf("extract: source file unavailable: %w", err)
	}

	doc, err := extraction.Extract(source)
	if err != nil {
		return fmt.Errorf("extract %s: %w", source, err)
	}

	encoded, err := doc.Encode()
	if err != nil {
		return err
	}
	item.UnitsJSON = encoded
	if strings.TrimSpace(item.Title) == "" {
		item.Title = doc.Title
	}
	item.SetProgress("Extracting", fmt.Sprintf("Extracted %d units", len(doc.Units)), 100)

	logger.Info("extraction complete",
		logging.Int("unit_count", len(doc.Units)),
		logging.Int("page_count", pageCount(doc.Pages)),
	)
	return nil
}

func (e *Extractor) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy("extractor")
}

func pageCount(pages map[int]int) int {
	highest := 0
	for _, page := range pages {
		if page > highest {
			highest = page
		}
	}
	return highest
}
