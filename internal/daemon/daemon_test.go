package daemon

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dox/internal/config"
	"dox/internal/extractor"
	"dox/internal/logging"
	"dox/internal/queue"
	"dox/internal/testsupport"
	"dox/internal/workflow"
)

func newTestDaemon(t *testing.T) (*Daemon, *config.Config, *queue.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t, func(cfg *config.Config) {
		// Keep HTTP out of lifecycle tests.
		cfg.Paths.APIBind = ""
	})
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()

	wf := workflow.NewManager(cfg, store, logger)
	wf.ConfigureStages(workflow.StageSet{Extractor: extractor.New(cfg, store, logger)})

	d, err := New(cfg, store, logger, wf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return d, cfg, store
}

func TestStartAndStop(t *testing.T) {
	d, cfg, _ := newTestDaemon(t)

	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer d.Stop()

	if _, err := os.Stat(filepath.Join(cfg.Paths.DataDir, "doxd.lock")); err != nil {
		t.Fatalf("lock file missing: %v", err)
	}

	status := d.Status(ctx)
	if !status.Running || !status.Workflow.Running {
		t.Fatalf("unexpected status: %#v", status)
	}
	if status.PID != os.Getpid() {
		t.Fatalf("pid = %d, want %d", status.PID, os.Getpid())
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Fatal("daemon should report stopped")
	}
}

func TestStartRejectsSecondInstance(t *testing.T) {
	first, cfg, store := newTestDaemon(t)

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer first.Stop()

	logger := logging.NewNop()
	wf := workflow.NewManager(cfg, store, logger)
	wf.ConfigureStages(workflow.StageSet{Extractor: extractor.New(cfg, store, logger)})
	second, err := New(cfg, store, logger, wf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	err = second.Start(ctx)
	if err == nil {
		second.Stop()
		t.Fatal("expected the second instance to be rejected")
	}
	if !strings.Contains(err.Error(), "already running") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStartResetsStuckItems(t *testing.T) {
	d, _, store := newTestDaemon(t)

	ctx := context.Background()
	item, err := store.NewDocument(ctx, "/tmp/stuck.txt")
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}
	item.Status = queue.StatusStructuring
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer d.Stop()

	recovered, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if recovered.Status != queue.StatusAnalyzed {
		t.Fatalf("stuck item status = %s, want analyzed", recovered.Status)
	}
}

func TestAddFileValidation(t *testing.T) {
	d, _, _ := newTestDaemon(t)
	ctx := context.Background()

	if _, err := d.AddFile(ctx, ""); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := d.AddFile(ctx, filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := d.AddFile(ctx, t.TempDir()); err == nil {
		t.Fatal("expected error for directory path")
	}

	unsupported := filepath.Join(t.TempDir(), "image.png")
	if err := os.WriteFile(unsupported, []byte("not text"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := d.AddFile(ctx, unsupported); err == nil {
		t.Fatal("expected error for unsupported extension")
	}

	supported := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(supported, []byte("# heading\n\ntext\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	item, err := d.AddFile(ctx, supported)
	if err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}
	if item.Status != queue.StatusPending {
		t.Fatalf("queued item status = %s, want pending", item.Status)
	}
}
