// Package chr implements the constellation structuring pipeline: it embeds
// text units, fits K unit-norm anchor vectors through a temperature-scaled
// softmax relaxation, tracks global and per-anchor response-entropy
// trajectories, and scores convergence (MHEP) from the entropy drop.
//
// The pipeline is stateless per run. Every matrix is constructed fresh for
// one invocation and discarded when it returns; concurrent runs share
// nothing. Callers inject the embedder so tests can swap backends.
package chr
