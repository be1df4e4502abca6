package chr

import "math/rand"

// initAnchors seeds k unit-norm anchors by sampling min(k, n) distinct
// embedding rows and padding with random unit vectors when the matrix has
// fewer rows than anchors. The same seed always produces the same anchors.
func initAnchors(rng *rand.Rand, embeddings [][]float64, k int) [][]float64 {
	n := len(embeddings)
	if n == 0 || k <= 0 {
		return nil
	}
	dim := len(embeddings[0])

	sampleCount := k
	if n < sampleCount {
		sampleCount = n
	}

	anchors := make([][]float64, 0, k)
	for _, idx := range rng.Perm(n)[:sampleCount] {
		anchors = append(anchors, normalized(embeddings[idx]))
	}
	for len(anchors) < k {
		anchors = append(anchors, randomUnitVector(rng, dim))
	}
	return anchors
}

func randomUnitVector(rng *rand.Rand, dim int) []float64 {
	v := make([]float64, dim)
	for {
		for i := range v {
			v[i] = rng.NormFloat64()
		}
		if norm(v) >= epsilon {
			return normalized(v)
		}
	}
}
