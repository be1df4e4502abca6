// Package embedding provides the text embedding backends consumed by the
// structuring pipeline.
//
// The primary backend talks to any OpenAI-compatible embeddings endpoint
// (OpenAI itself or a local Ollama server). The fallback is a fixed
// 4096-bucket feature-hashing vectorizer that needs no network or model.
// A Chain composes backends so a failed primary falls through to the next
// one; only total failure surfaces to the caller.
package embedding
