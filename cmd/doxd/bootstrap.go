package main

import (
	"log/slog"

	"dox/internal/analyzer"
	"dox/internal/config"
	"dox/internal/exporter"
	"dox/internal/extractor"
	"dox/internal/queue"
	"dox/internal/structurer"
	"dox/internal/workflow"
)

func buildStages(cfg *config.Config, store *queue.Store, logger *slog.Logger) workflow.StageSet {
	return workflow.StageSet{
		Extractor:  extractor.New(cfg, store, logger),
		Analyzer:   analyzer.New(cfg, store, logger),
		Structurer: structurer.New(cfg, store, logger),
		Exporter:   exporter.New(cfg, store, logger),
	}
}
