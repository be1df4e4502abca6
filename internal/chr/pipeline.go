package chr

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"dox/internal/logging"
)

// Embedder maps ordered unit strings to equal-length float vectors. The
// returned name identifies which backend produced the matrix; it travels with
// the call so concurrent runs cannot observe each other's backend.
type Embedder interface {
	Embed(ctx context.Context, units []string) (vectors [][]float64, backend string, err error)
}

// Pipeline runs the constellation structuring algorithm over text units.
type Pipeline struct {
	embedder Embedder
	logger   *slog.Logger
}

// NewPipeline constructs a pipeline around the supplied embedder.
func NewPipeline(embedder Embedder, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{embedder: embedder, logger: logger}
}

// Run embeds the units and executes the full relaxation, returning the run
// result snapshot. An empty unit list is rejected before any work happens.
func (p *Pipeline) Run(ctx context.Context, units []string, params Params) (*Result, error) {
	if len(units) == 0 {
		return nil, ErrNoUnits
	}
	params = params.Normalize()

	embeddings, backend, err := p.embedder.Embed(ctx, units)
	if err != nil {
		return nil, fmt.Errorf("embed units: %w", err)
	}
	if len(embeddings) != len(units) {
		return nil, fmt.Errorf("embedder returned %d rows for %d units", len(embeddings), len(units))
	}

	result := RunMatrix(embeddings, units, params)
	result.Backend = backend

	p.logger.Debug("structuring run complete",
		logging.Int("units", len(units)),
		logging.Int("anchors", params.K),
		logging.Int("iterations", params.Iters),
		logging.Float64("mhep", result.MHEP),
		logging.String("backend", result.Backend),
	)
	return result, nil
}

// RunMatrix executes the relaxation over an already-embedded matrix. Exposed
// so callers holding precomputed vectors can skip the embedding step.
func RunMatrix(embeddings [][]float64, units []string, params Params) *Result {
	params = params.Normalize()
	rng := rand.New(rand.NewSource(params.Seed))

	anchors := initAnchors(rng, embeddings, params.K)
	globalTraj := make([]float64, 0, params.Iters)
	spectralTraj := make([]float64, 0, params.Iters)

	n := len(embeddings)
	k := params.K
	projections := make([][]float64, n)
	assignments := make([][]float64, n)
	for i := range projections {
		projections[i] = make([]float64, k)
		assignments[i] = make([]float64, k)
	}
	bestResponse := make([]float64, n)
	column := make([]float64, n)

	for iter := 0; iter < params.Iters; iter++ {
		for a := range anchors {
			anchors[a] = normalized(anchors[a])
		}

		for i, row := range embeddings {
			for a, anchor := range anchors {
				projections[i][a] = dot(row, anchor)
			}
			softmaxRow(assignments[i], projections[i], params.Beta)
		}

		for a := range anchors {
			update := make([]float64, len(anchors[a]))
			for i, row := range embeddings {
				weight := assignments[i][a]
				for d, x := range row {
					update[d] += weight * x
				}
			}
			// No unit meaningfully assigned: keep the anchor as-is.
			if norm(update) >= epsilon {
				anchors[a] = normalized(update)
			}
		}

		for i := range projections {
			bestResponse[i] = maxOf(projections[i])
		}
		globalTraj = append(globalTraj, histogramEntropy(bestResponse, params.Bins))

		var spectralSum float64
		for a := 0; a < k; a++ {
			for i := range projections {
				column[i] = projections[i][a]
			}
			spectralSum += histogramEntropy(column, params.Bins)
		}
		spectralTraj = append(spectralTraj, spectralSum/float64(k))
	}

	for a := range anchors {
		anchors[a] = normalized(anchors[a])
	}

	result := &Result{
		K:               k,
		MHEP:            ConvergenceScore(globalTraj, spectralTraj),
		GlobalEntropy:   globalTraj,
		SpectralEntropy: spectralTraj,
		Embeddings:      embeddings,
		Anchors:         anchors,
	}
	if len(globalTraj) > 0 {
		result.FinalGlobalEntropy = globalTraj[len(globalTraj)-1]
		result.FinalSpectralEntropy = spectralTraj[len(spectralTraj)-1]
	}
	buildReport(result, units)
	return result
}

// ConvergenceScore derives the MHEP scalar from the two entropy
// trajectories: 50 times the sum of their relative first-to-last drops.
// Degenerate trajectories (fewer than two points, or a near-zero starting
// value) score 0. The sum is deliberately not clipped at 100; non-monotonic
// trajectories can exceed it and consumers receive the raw value.
func ConvergenceScore(global, spectral []float64) float64 {
	if len(global) < 2 || len(spectral) < 2 {
		return 0
	}
	if global[0] <= epsilon || spectral[0] <= epsilon {
		return 0
	}
	return 50 * (relativeDrop(global) + relativeDrop(spectral))
}

func relativeDrop(traj []float64) float64 {
	drop := (traj[0] - traj[len(traj)-1]) / traj[0]
	if drop < 0 {
		return 0
	}
	return drop
}

// buildReport recomputes final projections against the final anchors, hard
// assigns each unit, and ranks units by descending best response.
func buildReport(result *Result, units []string) {
	n := len(units)
	labels := make([]int, n)
	radii := make([]float64, n)

	for i, row := range result.Embeddings {
		bestAnchor := 0
		bestValue := dot(row, result.Anchors[0])
		for a := 1; a < len(result.Anchors); a++ {
			if value := dot(row, result.Anchors[a]); value > bestValue {
				bestValue = value
				bestAnchor = a
			}
		}
		labels[i] = bestAnchor
		radii[i] = bestValue
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return radii[order[a]] > radii[order[b]]
	})

	rows := make([]Row, 0, n)
	for _, idx := range order {
		rows = append(rows, Row{
			Idx:           idx,
			Constellation: labels[idx],
			Radius:        radii[idx],
			Text:          units[idx],
		})
	}

	result.Labels = labels
	result.Order = order
	result.Rows = rows
}

// AttachPages fills in each row's page number from a unit-index keyed page
// map, for sources that carry pagination. Unmapped rows keep page 0.
func AttachPages(result *Result, pages map[int]int) {
	if result == nil || len(pages) == 0 {
		return
	}
	for i := range result.Rows {
		if page, ok := pages[result.Rows[i].Idx]; ok {
			result.Rows[i].Page = page
		}
	}
}

func maxOf(values []float64) float64 {
	best := values[0]
	for _, v := range values[1:] {
		if v > best {
			best = v
		}
	}
	return best
}
