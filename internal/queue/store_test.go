package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"dox/internal/queue"
	"dox/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := store.NewDocument(ctx, "/tmp/report.txt")
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected item ID to be assigned")
	}
	if item.Status != queue.StatusPending {
		t.Fatalf("new item status = %s, want pending", item.Status)
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.SourcePath != "/tmp/report.txt" {
		t.Fatalf("unexpected fetched item: %#v", fetched)
	}
	if fetched.Title == "" {
		t.Fatal("expected a title inferred from the source path")
	}
}

func TestUpdatePersistsFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := store.NewDocument(ctx, "/tmp/doc.md")
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}

	item.Status = queue.StatusStructured
	item.RunID = "run-1"
	item.UnitsJSON = `{"title":"doc","units":["a"]}`
	item.ResultJSON = `{"k":8}`
	item.ArtifactDir = "/tmp/artifacts/run-1"
	item.SetProgress("Structuring", "done", 100)
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Status != queue.StatusStructured || fetched.RunID != "run-1" {
		t.Fatalf("unexpected persisted item: %#v", fetched)
	}
	if fetched.UnitsJSON == "" || fetched.ResultJSON == "" || fetched.ArtifactDir == "" {
		t.Fatal("expected payload columns to persist")
	}
	if fetched.ProgressPercent != 100 {
		t.Fatalf("progress percent = %f, want 100", fetched.ProgressPercent)
	}
}

func TestNextForStatusesReturnsOldest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	first, err := store.NewDocument(ctx, "/tmp/a.txt")
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}
	if _, err := store.NewDocument(ctx, "/tmp/b.txt"); err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}

	next, err := store.NextForStatuses(ctx, queue.StatusPending)
	if err != nil {
		t.Fatalf("NextForStatuses failed: %v", err)
	}
	if next == nil || next.ID != first.ID {
		t.Fatalf("expected oldest pending item %d, got %#v", first.ID, next)
	}

	none, err := store.NextForStatuses(ctx, queue.StatusExporting)
	if err != nil {
		t.Fatalf("NextForStatuses failed: %v", err)
	}
	if none != nil {
		t.Fatalf("expected no exporting items, got %#v", none)
	}
}

func TestResetStuckProcessing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	cases := []struct {
		name          string
		initialStatus queue.Status
		expected      queue.Status
	}{
		{"extracting", queue.StatusExtracting, queue.StatusPending},
		{"analyzing", queue.StatusAnalyzing, queue.StatusExtracted},
		{"structuring", queue.StatusStructuring, queue.StatusAnalyzed},
		{"exporting", queue.StatusExporting, queue.StatusStructured},
	}
	var ids []int64
	for i, tc := range cases {
		item, err := store.NewDocument(ctx, fmt.Sprintf("/tmp/doc-%d.txt", i))
		if err != nil {
			t.Fatalf("NewDocument failed: %v", err)
		}
		item.Status = tc.initialStatus
		if err := store.Update(ctx, item); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		ids = append(ids, item.ID)
	}

	count, err := store.ResetStuckProcessing(ctx)
	if err != nil {
		t.Fatalf("ResetStuckProcessing failed: %v", err)
	}
	if int(count) != len(cases) {
		t.Fatalf("expected %d items reset, got %d", len(cases), count)
	}

	for idx, tc := range cases {
		updated, err := store.GetByID(ctx, ids[idx])
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if updated.Status != tc.expected {
			t.Fatalf("%s: expected status %s, got %s", tc.name, tc.expected, updated.Status)
		}
		if updated.LastHeartbeat != nil {
			t.Fatalf("%s: expected heartbeat cleared", tc.name)
		}
	}
}

func TestReclaimStaleProcessing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	stale, err := store.NewDocument(ctx, "/tmp/stale.txt")
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}
	old := time.Now().Add(-time.Hour).UTC()
	stale.Status = queue.StatusStructuring
	stale.LastHeartbeat = &old
	if err := store.Update(ctx, stale); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fresh, err := store.NewDocument(ctx, "/tmp/fresh.txt")
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}
	now := time.Now().UTC()
	fresh.Status = queue.StatusExtracting
	fresh.LastHeartbeat = &now
	if err := store.Update(ctx, fresh); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	count, err := store.ReclaimStaleProcessing(ctx, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("ReclaimStaleProcessing failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 reclaimed item, got %d", count)
	}

	reclaimed, err := store.GetByID(ctx, stale.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if reclaimed.Status != queue.StatusPending {
		t.Fatalf("reclaimed status = %s, want pending", reclaimed.Status)
	}

	untouched, err := store.GetByID(ctx, fresh.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if untouched.Status != queue.StatusExtracting {
		t.Fatalf("fresh item status = %s, want extracting", untouched.Status)
	}
}

func TestRetryFailed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := store.NewDocument(ctx, "/tmp/broken.txt")
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}
	item.SetFailed("extraction exploded")
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	count, err := store.RetryFailed(ctx, item.ID)
	if err != nil {
		t.Fatalf("RetryFailed failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 retried item, got %d", count)
	}

	retried, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if retried.Status != queue.StatusPending {
		t.Fatalf("retried status = %s, want pending", retried.Status)
	}
	if retried.ErrorMessage != "" {
		t.Fatalf("expected error message cleared, got %q", retried.ErrorMessage)
	}
}

func TestStatsAndHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	pending, err := store.NewDocument(ctx, "/tmp/one.txt")
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}
	_ = pending

	done, err := store.NewDocument(ctx, "/tmp/two.txt")
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}
	done.Status = queue.StatusCompleted
	if err := store.Update(ctx, done); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[queue.StatusPending] != 1 || stats[queue.StatusCompleted] != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Total != 2 || health.Pending != 1 || health.Completed != 1 {
		t.Fatalf("unexpected health: %#v", health)
	}
}

func TestClearVariants(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	for i, status := range []queue.Status{queue.StatusPending, queue.StatusCompleted, queue.StatusFailed} {
		item, err := store.NewDocument(ctx, fmt.Sprintf("/tmp/clear-%d.txt", i))
		if err != nil {
			t.Fatalf("NewDocument failed: %v", err)
		}
		item.Status = status
		if err := store.Update(ctx, item); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}

	if count, err := store.ClearCompleted(ctx); err != nil || count != 1 {
		t.Fatalf("ClearCompleted = %d, %v; want 1, nil", count, err)
	}
	if count, err := store.ClearFailed(ctx); err != nil || count != 1 {
		t.Fatalf("ClearFailed = %d, %v; want 1, nil", count, err)
	}
	if count, err := store.Clear(ctx); err != nil || count != 1 {
		t.Fatalf("Clear = %d, %v; want 1, nil", count, err)
	}
}

func TestDerivedEntitiesAndFacts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := store.NewDocument(ctx, "/tmp/derived.txt")
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}

	entities := []queue.Entity{
		{ItemID: item.ID, Kind: "url", Value: "https://example.com", UnitIdx: 0},
		{ItemID: item.ID, Kind: "email", Value: "ops@example.com", UnitIdx: 2},
	}
	if err := store.ReplaceEntities(ctx, item.ID, entities); err != nil {
		t.Fatalf("ReplaceEntities failed: %v", err)
	}

	got, err := store.EntitiesForItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("EntitiesForItem failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(got))
	}

	// Replacing drops the previous generation.
	if err := store.ReplaceEntities(ctx, item.ID, entities[:1]); err != nil {
		t.Fatalf("ReplaceEntities failed: %v", err)
	}
	got, err = store.EntitiesForItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("EntitiesForItem failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entity after replace, got %d", len(got))
	}

	facts := []queue.Fact{{ItemID: item.ID, Subject: "Region", Value: "west", Evidence: "Region: west", UnitIdx: 1}}
	if err := store.ReplaceFacts(ctx, item.ID, facts); err != nil {
		t.Fatalf("ReplaceFacts failed: %v", err)
	}
	gotFacts, err := store.FactsForItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("FactsForItem failed: %v", err)
	}
	if len(gotFacts) != 1 || gotFacts[0].Subject != "Region" {
		t.Fatalf("unexpected facts: %#v", gotFacts)
	}

	// Deleting the item cascades to derived rows.
	if _, err := store.Remove(ctx, item.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	gotFacts, err = store.FactsForItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("FactsForItem failed: %v", err)
	}
	if len(gotFacts) != 0 {
		t.Fatalf("expected cascade delete of facts, got %d", len(gotFacts))
	}
}
