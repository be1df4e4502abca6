package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir is required")
	}
	if c.Paths.ArtifactsDir == "" {
		return errors.New("paths.artifacts_dir is required")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir is required")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}

	if c.Embedding.Model != "" && c.Embedding.BaseURL == "" {
		return errors.New("embedding.base_url is required when embedding.model is set")
	}

	if c.CHR.Anchors < 0 || c.CHR.Iterations < 0 || c.CHR.Bins < 0 {
		return errors.New("chr values must not be negative")
	}
	if c.CHR.Beta < 0 {
		return errors.New("chr.beta must not be negative")
	}

	if c.Workflow.HeartbeatTimeout <= c.Workflow.HeartbeatInterval {
		return fmt.Errorf("workflow.heartbeat_timeout (%d) must exceed workflow.heartbeat_interval (%d)",
			c.Workflow.HeartbeatTimeout, c.Workflow.HeartbeatInterval)
	}
	return nil
}
