package exporter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dox/internal/artifacts"
	"dox/internal/chr"
	"dox/internal/config"
	"dox/internal/logging"
	"dox/internal/queue"
	"dox/internal/stage"
)

// Exporter writes run artifacts for structured items.
type Exporter struct {
	store  *queue.Store
	cfg    *config.Config
	logger *slog.Logger
}

// New constructs the export stage handler.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Exporter{store: store, cfg: cfg, logger: logging.WithComponent(logger, "exporter")}
}

func (e *Exporter) Prepare(ctx context.Context, item *queue.Item) error {
	item.SetProgress("Exporting", "Writing artifacts", 0)
	item.ErrorMessage = ""
	return nil
}

func (e *Exporter) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, e.logger)

	if strings.TrimSpace(item.ResultJSON) == "" {
		return errors.New("export: item has no structuring result")
	}
	var result chr.Result
	if err := json.Unmarshal([]byte(item.ResultJSON), &result); err != nil {
		return fmt.Errorf("export: decode result: %w", err)
	}

	dir := strings.TrimSpace(item.ArtifactDir)
	if dir == "" {
		dir = filepath.Join(e.cfg.Paths.ArtifactsDir, item.RunID)
		item.ArtifactDir = dir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: create artifact dir: %w", err)
	}

	paths := artifacts.PathsFor(dir)
	if err := artifacts.WriteRowsCSV(paths.Rows, result.Rows); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := artifacts.WriteResultJSON(paths.JSON, &result); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	item.SetProgress("Exporting", fmt.Sprintf("Wrote artifacts to %s", dir), 100)
	logger.Info("export complete",
		logging.String("artifact_dir", dir),
		logging.Int("row_count", len(result.Rows)),
	)
	return nil
}

func (e *Exporter) HealthCheck(ctx context.Context) stage.Health {
	if strings.TrimSpace(e.cfg.Paths.ArtifactsDir) == "" {
		return stage.Unhealthy("exporter", "artifacts directory not configured")
	}
	return stage.Healthy("exporter")
}
