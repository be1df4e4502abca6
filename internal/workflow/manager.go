package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"dox/internal/config"
	"dox/internal/logging"
	"dox/internal/queue"
	"dox/internal/stage"
)

// StageSet bundles the concrete handlers the manager orchestrates, in
// pipeline order.
type StageSet struct {
	Extractor  stage.Handler
	Analyzer   stage.Handler
	Structurer stage.Handler
	Exporter   stage.Handler
}

type pipelineStage struct {
	name             string
	handler          stage.Handler
	startStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
}

// Manager coordinates queue processing using registered stage handlers.
type Manager struct {
	cfg          *config.Config
	store        *queue.Store
	logger       *slog.Logger
	pollInterval time.Duration

	heartbeat *HeartbeatMonitor

	stages       []pipelineStage
	stageByStart map[queue.Status]pipelineStage
	statusOrder  []queue.Status

	mu       sync.RWMutex
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	lastErr  error
	lastItem *queue.Item
}

// NewManager constructs a workflow manager.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logging.WithComponent(logger, "workflow"),
		pollInterval: time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		heartbeat: NewHeartbeatMonitor(
			store,
			logger,
			time.Duration(cfg.Workflow.HeartbeatInterval)*time.Second,
			time.Duration(cfg.Workflow.HeartbeatTimeout)*time.Second,
		),
		stageByStart: make(map[queue.Status]pipelineStage),
	}
}

// ConfigureStages registers the pipeline handlers. Must be called before
// Start; nil handlers leave their stage unconfigured and items at the
// corresponding status untouched.
func (m *Manager) ConfigureStages(set StageSet) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stages = m.stages[:0]
	m.stageByStart = make(map[queue.Status]pipelineStage)
	m.statusOrder = m.statusOrder[:0]

	candidates := []pipelineStage{
		{name: "extract", handler: set.Extractor, startStatus: queue.StatusPending, processingStatus: queue.StatusExtracting, doneStatus: queue.StatusExtracted},
		{name: "analyze", handler: set.Analyzer, startStatus: queue.StatusExtracted, processingStatus: queue.StatusAnalyzing, doneStatus: queue.StatusAnalyzed},
		{name: "structure", handler: set.Structurer, startStatus: queue.StatusAnalyzed, processingStatus: queue.StatusStructuring, doneStatus: queue.StatusStructured},
		{name: "export", handler: set.Exporter, startStatus: queue.StatusStructured, processingStatus: queue.StatusExporting, doneStatus: queue.StatusCompleted},
	}
	for _, candidate := range candidates {
		if candidate.handler == nil {
			continue
		}
		m.stages = append(m.stages, candidate)
		m.stageByStart[candidate.startStatus] = candidate
		m.statusOrder = append(m.statusOrder, candidate.startStatus)
	}
}

func (m *Manager) stageForStatus(status queue.Status) (pipelineStage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stg, ok := m.stageByStart[status]
	return stg, ok
}

func deriveStageLabel(status queue.Status) string {
	switch status {
	case queue.StatusExtracting:
		return "Extracting"
	case queue.StatusAnalyzing:
		return "Analyzing"
	case queue.StatusStructuring:
		return "Structuring"
	case queue.StatusExporting:
		return "Exporting"
	case queue.StatusCompleted:
		return "Completed"
	default:
		return string(status)
	}
}
