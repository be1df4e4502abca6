package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dox/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolvedPath, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("file should not exist")
	}
	if resolvedPath != path {
		t.Fatalf("resolved path = %q, want %q", resolvedPath, path)
	}
	if cfg.CHR.Anchors != 8 || cfg.CHR.Iterations != 30 || cfg.CHR.Bins != 8 {
		t.Fatalf("unexpected chr defaults: %#v", cfg.CHR)
	}
	if cfg.CHR.Beta != 12.0 || cfg.CHR.Seed != 42 {
		t.Fatalf("unexpected chr defaults: %#v", cfg.CHR)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %#v", cfg.Logging)
	}
	if cfg.Workflow.QueuePollInterval != 5 || cfg.Workflow.HeartbeatTimeout != 120 {
		t.Fatalf("unexpected workflow defaults: %#v", cfg.Workflow)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
artifacts_dir = "` + filepath.Join(dir, "artifacts") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"
api_bind = "127.0.0.1:9999"

[chr]
anchors = 4
iterations = 10

[logging]
format = "JSON"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected the file to be detected")
	}
	if cfg.CHR.Anchors != 4 || cfg.CHR.Iterations != 10 {
		t.Fatalf("overrides not applied: %#v", cfg.CHR)
	}
	// Unset values keep defaults.
	if cfg.CHR.Beta != 12.0 {
		t.Fatalf("beta default lost: %#v", cfg.CHR)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format not normalized: %q", cfg.Logging.Format)
	}
	if cfg.Paths.APIBind != "127.0.0.1:9999" {
		t.Fatalf("api bind = %q", cfg.Paths.APIBind)
	}
}

func TestLoadSampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config must parse: %v", err)
	}
	if !exists {
		t.Fatal("expected the sample file to be detected")
	}

	// The sample documents the shipped defaults; the two must not drift.
	defaults := config.Default()
	if cfg.CHR != defaults.CHR {
		t.Fatalf("sample chr %#v differs from defaults %#v", cfg.CHR, defaults.CHR)
	}
	if cfg.Workflow != defaults.Workflow {
		t.Fatalf("sample workflow %#v differs from defaults %#v", cfg.Workflow, defaults.Workflow)
	}
}

func TestValidateHeartbeatOrdering(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = "/tmp/data"
	cfg.Paths.ArtifactsDir = "/tmp/artifacts"
	cfg.Paths.LogDir = "/tmp/logs"
	cfg.Workflow.HeartbeatInterval = 30
	cfg.Workflow.HeartbeatTimeout = 30

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "heartbeat_timeout") {
		t.Fatalf("expected heartbeat ordering error, got %v", err)
	}
}

func TestValidateEmbeddingRequiresBaseURL(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = "/tmp/data"
	cfg.Paths.ArtifactsDir = "/tmp/artifacts"
	cfg.Paths.LogDir = "/tmp/logs"
	cfg.Embedding.Model = "nomic-embed-text"
	cfg.Embedding.BaseURL = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when a model is set without a base url")
	}
}

func TestValidateLoggingFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = "/tmp/data"
	cfg.Paths.ArtifactsDir = "/tmp/artifacts"
	cfg.Paths.LogDir = "/tmp/logs"
	cfg.Logging.Format = "xml"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown logging format")
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	expanded, err := config.ExpandPath("~/dox-test")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if expanded != filepath.Join(home, "dox-test") {
		t.Fatalf("expanded = %q, want under %q", expanded, home)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.ArtifactsDir = filepath.Join(base, "artifacts")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.ArtifactsDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %q not created: %v", dir, err)
		}
	}
}
