package api_test

import (
	"testing"
	"time"

	"dox/internal/api"
	"dox/internal/queue"
	"dox/internal/stage"
	"dox/internal/workflow"
)

func TestFromQueueItem(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	item := &queue.Item{
		ID:              42,
		Title:           "quarterly report",
		SourcePath:      "/data/report.txt",
		Status:          queue.StatusStructured,
		RunID:           "run-abc",
		ArtifactDir:     "/artifacts/run-abc",
		ProgressStage:   "Structuring",
		ProgressPercent: 80,
		ProgressMessage: "almost there",
		ErrorMessage:    "",
		CreatedAt:       created,
		UpdatedAt:       created.Add(time.Minute),
	}

	dto := api.FromQueueItem(item)
	if dto.ID != 42 || dto.Title != "quarterly report" || dto.Status != "structured" {
		t.Fatalf("unexpected dto: %#v", dto)
	}
	if dto.Progress.Stage != "Structuring" || dto.Progress.Percent != 80 {
		t.Fatalf("unexpected progress: %#v", dto.Progress)
	}
	if dto.CreatedAt != "2026-03-14T09:30:00.000Z" {
		t.Fatalf("createdAt = %q", dto.CreatedAt)
	}
	if dto.UpdatedAt != "2026-03-14T09:31:00.000Z" {
		t.Fatalf("updatedAt = %q", dto.UpdatedAt)
	}
}

func TestFromQueueItemZeroTimes(t *testing.T) {
	dto := api.FromQueueItem(&queue.Item{ID: 1})
	if dto.CreatedAt != "" || dto.UpdatedAt != "" {
		t.Fatalf("zero times must render empty, got %q / %q", dto.CreatedAt, dto.UpdatedAt)
	}
}

func TestFromQueueItemNil(t *testing.T) {
	dto := api.FromQueueItem(nil)
	if dto.ID != 0 {
		t.Fatalf("expected zero dto for nil item, got %#v", dto)
	}
}

func TestFromQueueItemsEmpty(t *testing.T) {
	if out := api.FromQueueItems(nil); out != nil {
		t.Fatalf("expected nil for empty input, got %#v", out)
	}
}

func TestFromStatusSummary(t *testing.T) {
	lastItem := &queue.Item{ID: 3, Status: queue.StatusAnalyzing}
	summary := workflow.StatusSummary{
		Running:   true,
		LastError: "transient failure",
		LastItem:  lastItem,
		QueueStats: map[queue.Status]int{
			queue.StatusPending:   2,
			queue.StatusCompleted: 5,
		},
		StageHealth: map[string]stage.Health{
			"extract":   stage.Healthy("extractor"),
			"structure": stage.Unhealthy("structurer", "no embedding chain"),
			"analyze":   stage.Healthy("analyzer"),
		},
	}

	wf := api.FromStatusSummary(summary)
	if !wf.Running || wf.LastError != "transient failure" {
		t.Fatalf("unexpected workflow status: %#v", wf)
	}
	if wf.QueueStats["pending"] != 2 || wf.QueueStats["completed"] != 5 {
		t.Fatalf("unexpected queue stats: %#v", wf.QueueStats)
	}
	if wf.LastItem == nil || wf.LastItem.ID != 3 {
		t.Fatalf("unexpected last item: %#v", wf.LastItem)
	}

	// Health entries come back sorted by stage name.
	if len(wf.StageHealth) != 3 {
		t.Fatalf("expected 3 health entries, got %#v", wf.StageHealth)
	}
	wantOrder := []string{"analyze", "extract", "structure"}
	for i, name := range wantOrder {
		if wf.StageHealth[i].Name != name {
			t.Fatalf("health order = %#v, want %v", wf.StageHealth, wantOrder)
		}
	}
	if wf.StageHealth[2].Ready || wf.StageHealth[2].Detail != "no embedding chain" {
		t.Fatalf("unexpected unhealthy entry: %#v", wf.StageHealth[2])
	}
}

func TestFromHealthSummary(t *testing.T) {
	health := api.FromHealthSummary(queue.HealthSummary{Total: 7, Pending: 2, Processing: 1, Failed: 1, Completed: 3})
	if health.Total != 7 || health.Pending != 2 || health.Processing != 1 || health.Failed != 1 || health.Completed != 3 {
		t.Fatalf("unexpected health payload: %#v", health)
	}
}
