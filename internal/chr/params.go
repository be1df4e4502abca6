package chr

import "errors"

// ErrNoUnits is returned when a run is requested over an empty unit list.
// It is the one deliberate hard failure in the pipeline.
var ErrNoUnits = errors.New("chr: no units to structure")

const (
	// DefaultAnchors is the anchor count used when the caller supplies none.
	DefaultAnchors = 8
	// DefaultIterations is the relaxation round count.
	DefaultIterations = 30
	// DefaultBins is the histogram bin count for entropy estimation.
	DefaultBins = 8
	// DefaultBeta is the softmax temperature.
	DefaultBeta = 12.0
	// DefaultSeed seeds anchor sampling so runs are reproducible.
	DefaultSeed = 42
)

// epsilon guards every division and the zero-trajectory checks.
const epsilon = 1e-9

// Params holds the tunable knobs for one structuring run.
type Params struct {
	K     int
	Iters int
	Bins  int
	Beta  float64
	Seed  int64
}

// DefaultParams returns the standard parameter set.
func DefaultParams() Params {
	return Params{
		K:     DefaultAnchors,
		Iters: DefaultIterations,
		Bins:  DefaultBins,
		Beta:  DefaultBeta,
		Seed:  DefaultSeed,
	}
}

// Normalize clamps out-of-range values back to defaults.
func (p Params) Normalize() Params {
	out := p
	if out.K <= 0 {
		out.K = DefaultAnchors
	}
	if out.Iters <= 0 {
		out.Iters = DefaultIterations
	}
	if out.Bins <= 0 {
		out.Bins = DefaultBins
	}
	if out.Beta <= 0 {
		out.Beta = DefaultBeta
	}
	return out
}

// Row is one ranked report entry for a single unit.
type Row struct {
	Idx           int     `json:"idx"`
	Constellation int     `json:"constellation"`
	Radius        float64 `json:"radius"`
	Text          string  `json:"text"`
	Page          int     `json:"page"`
}

// Result is the immutable snapshot produced by one run. Embeddings and
// Anchors are retained for downstream consumers (PCA plots) but excluded
// from the serialized contract.
type Result struct {
	Backend              string    `json:"backend"`
	K                    int       `json:"k"`
	MHEP                 float64   `json:"mhep"`
	FinalGlobalEntropy   float64   `json:"final_global_entropy"`
	FinalSpectralEntropy float64   `json:"final_spectral_entropy"`
	GlobalEntropy        []float64 `json:"global_entropy"`
	SpectralEntropy      []float64 `json:"spectral_entropy"`
	Labels               []int     `json:"labels"`
	Order                []int     `json:"order"`
	Rows                 []Row     `json:"rows"`

	Embeddings [][]float64 `json:"-"`
	Anchors    [][]float64 `json:"-"`
}
