package config

import "dox/internal/chr"

const (
	defaultDataDir            = "~/.local/share/dox/data"
	defaultArtifactsDir       = "~/.local/share/dox/artifacts"
	defaultLogDir             = "~/.local/share/dox/logs"
	defaultAPIBind            = "127.0.0.1:7819"
	defaultEmbeddingBaseURL   = "http://localhost:11434/v1"
	defaultEmbeddingModel     = ""
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultQueuePollInterval  = 5
	defaultErrorRetryInterval = 10
	defaultHeartbeatInterval  = 15
	defaultHeartbeatTimeout   = 120
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:      defaultDataDir,
			ArtifactsDir: defaultArtifactsDir,
			LogDir:       defaultLogDir,
			APIBind:      defaultAPIBind,
		},
		Embedding: Embedding{
			BaseURL: defaultEmbeddingBaseURL,
			Model:   defaultEmbeddingModel,
		},
		CHR: CHR{
			Anchors:    chr.DefaultAnchors,
			Iterations: chr.DefaultIterations,
			Bins:       chr.DefaultBins,
			Beta:       chr.DefaultBeta,
			Seed:       chr.DefaultSeed,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
			HeartbeatInterval:  defaultHeartbeatInterval,
			HeartbeatTimeout:   defaultHeartbeatTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// CHRParams converts the configured defaults into pipeline parameters.
func (c *Config) CHRParams() chr.Params {
	return chr.Params{
		K:     c.CHR.Anchors,
		Iters: c.CHR.Iterations,
		Bins:  c.CHR.Bins,
		Beta:  c.CHR.Beta,
		Seed:  c.CHR.Seed,
	}.Normalize()
}
