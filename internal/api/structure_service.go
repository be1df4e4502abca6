package api

import (
	"context"
	"log/slog"
	"strings"

	"dox/internal/chr"
	"dox/internal/config"
	"dox/internal/embedding"
	"dox/internal/logging"
)

// StructureService runs ad-hoc structuring requests without touching the
// queue. It backs the POST /api/structure/chr endpoint and the one-shot CLI
// command.
type StructureService struct {
	cfg      *config.Config
	pipeline *chr.Pipeline
}

// NewStructureService builds the service with the configured embedding chain.
func NewStructureService(cfg *config.Config, logger *slog.Logger) *StructureService {
	if logger == nil {
		logger = logging.NewNop()
	}
	svcLogger := logging.WithComponent(logger, "structure-service")

	backends := make([]embedding.Backend, 0, 2)
	if strings.TrimSpace(cfg.Embedding.Model) != "" {
		remote, err := embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
		if err != nil {
			svcLogger.Warn("embedding backend misconfigured, using hashing fallback only", logging.Error(err))
		} else {
			backends = append(backends, remote)
		}
	}
	backends = append(backends, embedding.NewHashingEmbedder())

	chain := embedding.NewChain(svcLogger, backends...)
	return NewStructureServiceWithPipeline(cfg, chr.NewPipeline(chain, svcLogger))
}

// NewStructureServiceWithPipeline allows injecting the pipeline (used in tests).
func NewStructureServiceWithPipeline(cfg *config.Config, pipeline *chr.Pipeline) *StructureService {
	return &StructureService{cfg: cfg, pipeline: pipeline}
}

// Run executes one structuring pass over the request units. Request fields
// left unset fall back to the configured defaults; a present seed is honored
// even when it is zero.
func (s *StructureService) Run(ctx context.Context, req StructureRequest) (*chr.Result, error) {
	params := s.cfg.CHRParams()
	if req.K > 0 {
		params.K = req.K
	}
	if req.Iters > 0 {
		params.Iters = req.Iters
	}
	if req.Bins > 0 {
		params.Bins = req.Bins
	}
	if req.Beta > 0 {
		params.Beta = req.Beta
	}
	if req.Seed != nil {
		params.Seed = *req.Seed
	}

	result, err := s.pipeline.Run(ctx, req.Units, params)
	if err != nil {
		return nil, err
	}
	chr.AttachPages(result, req.Pages)
	return result, nil
}
