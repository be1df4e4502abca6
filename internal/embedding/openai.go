package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig captures the settings for an OpenAI-compatible embeddings
// endpoint. BaseURL may point at a local Ollama server's /v1 API.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIEmbedder produces model embeddings through the OpenAI-compatible
// embeddings API. Vectors are L2-normalized before being returned so
// downstream projections behave as cosine similarities.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
	name   string
}

// NewOpenAIEmbedder constructs the primary embedding backend.
func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, errors.New("embedding model required")
	}

	clientCfg := openai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientCfg.BaseURL = base
	}
	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		name:   "openai:" + model,
	}, nil
}

// Name identifies the backend in run results.
func (e *OpenAIEmbedder) Name() string { return e.name }

// Embed requests embeddings for all units in one call and validates the
// response shape before normalizing.
func (e *OpenAIEmbedder) Embed(ctx context.Context, units []string) ([][]float64, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: units,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(units) {
		return nil, fmt.Errorf("embeddings response: got %d rows for %d units", len(resp.Data), len(units))
	}

	vectors := make([][]float64, len(units))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(units) {
			return nil, fmt.Errorf("embeddings response: index %d out of range", item.Index)
		}
		vec := make([]float64, len(item.Embedding))
		var sum float64
		for i, x := range item.Embedding {
			vec[i] = float64(x)
			sum += float64(x) * float64(x)
		}
		if length := math.Sqrt(sum); length > hashingEpsilon {
			for i := range vec {
				vec[i] /= length
			}
		}
		vectors[item.Index] = vec
	}
	for i, vec := range vectors {
		if vec == nil {
			return nil, fmt.Errorf("embeddings response: missing row %d", i)
		}
	}
	return vectors, nil
}
