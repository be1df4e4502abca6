package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dox/internal/logging"
)

// Backend is one embedding implementation a Chain can try.
type Backend interface {
	Embed(ctx context.Context, units []string) ([][]float64, error)
	Name() string
}

// Chain tries each backend in order. A backend failure is logged and the next
// backend is tried; the caller only sees an error when every backend fails.
// The chain holds no per-call state, so a single Chain is safe to share across
// concurrent runs.
type Chain struct {
	backends []Backend
	logger   *slog.Logger
}

// NewChain composes backends into a fallback chain.
func NewChain(logger *slog.Logger, backends ...Backend) *Chain {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Chain{backends: backends, logger: logger}
}

// Embed runs the fallback chain and reports which backend produced the
// matrix alongside it.
func (c *Chain) Embed(ctx context.Context, units []string) ([][]float64, string, error) {
	if len(c.backends) == 0 {
		return nil, "", errors.New("no embedding backends configured")
	}

	var errs []error
	for _, backend := range c.backends {
		vectors, err := backend.Embed(ctx, units)
		if err == nil {
			return vectors, backend.Name(), nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
		c.logger.Warn("embedding backend failed, trying next",
			logging.String("backend", backend.Name()),
			logging.Error(err),
		)
	}
	return nil, "", fmt.Errorf("all embedding backends failed: %w", errors.Join(errs...))
}
