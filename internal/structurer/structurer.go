package structurer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"dox/internal/artifacts"
	"dox/internal/chr"
	"dox/internal/config"
	"dox/internal/embedding"
	"dox/internal/extraction"
	"dox/internal/logging"
	"dox/internal/queue"
	"dox/internal/stage"
)

// Structurer runs the constellation pipeline over extracted units.
type Structurer struct {
	store    *queue.Store
	cfg      *config.Config
	logger   *slog.Logger
	pipeline *chr.Pipeline
	chain    *embedding.Chain
}

// New constructs the structure stage handler with the configured embedding
// chain: the OpenAI-compatible backend when a model is configured, always
// falling back to the deterministic hashing embedder.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Structurer {
	if logger == nil {
		logger = logging.NewNop()
	}
	stageLogger := logging.WithComponent(logger, "structurer")

	backends := make([]embedding.Backend, 0, 2)
	if strings.TrimSpace(cfg.Embedding.Model) != "" {
		remote, err := embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
		if err != nil {
			stageLogger.Warn("embedding backend misconfigured, using hashing fallback only", logging.Error(err))
		} else {
			backends = append(backends, remote)
		}
	}
	backends = append(backends, embedding.NewHashingEmbedder())

	chain := embedding.NewChain(stageLogger, backends...)
	return NewWithChain(cfg, store, stageLogger, chain)
}

// NewWithChain allows injecting the embedding chain (used in tests).
func NewWithChain(cfg *config.Config, store *queue.Store, logger *slog.Logger, chain *embedding.Chain) *Structurer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Structurer{
		store:    store,
		cfg:      cfg,
		logger:   logger,
		pipeline: chr.NewPipeline(chain, logger),
		chain:    chain,
	}
}

func (s *Structurer) Prepare(ctx context.Context, item *queue.Item) error {
	item.SetProgress("Structuring", "Embedding units", 0)
	item.ErrorMessage = ""
	if strings.TrimSpace(item.RunID) == "" {
		item.RunID = uuid.NewString()
	}
	return nil
}

func (s *Structurer) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	doc, err := extraction.DecodeDocument(item.UnitsJSON)
	if err != nil {
		return fmt.Errorf("structure: %w", err)
	}

	result, err := s.pipeline.Run(ctx, doc.Units, s.cfg.CHRParams())
	if err != nil {
		return fmt.Errorf("structure: %w", err)
	}
	chr.AttachPages(result, doc.Pages)

	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("structure: encode result: %w", err)
	}
	item.ResultJSON = string(encoded)
	item.ArtifactDir = filepath.Join(s.cfg.Paths.ArtifactsDir, item.RunID)

	// The scatter projection needs the raw embedding matrix, which is not
	// persisted; render it now rather than in the export stage.
	if err := os.MkdirAll(item.ArtifactDir, 0o755); err != nil {
		return fmt.Errorf("structure: create artifact dir: %w", err)
	}
	plotPath := artifacts.PathsFor(item.ArtifactDir).Plot
	if err := artifacts.WriteScatterPNG(plotPath, result); err != nil {
		logger.Warn("scatter plot skipped", logging.Error(err))
	}

	item.SetProgress("Structuring", fmt.Sprintf("Structured %d units into %d constellations", len(result.Rows), result.K), 100)
	logger.Info("structuring complete",
		logging.String("backend", result.Backend),
		logging.Int("anchor_count", result.K),
		logging.Float64("mhep", result.MHEP),
	)
	return nil
}

func (s *Structurer) HealthCheck(ctx context.Context) stage.Health {
	if s.chain == nil {
		return stage.Unhealthy("structurer", "no embedding chain configured")
	}
	return stage.Healthy("structurer")
}
