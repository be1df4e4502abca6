package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// HashingDim is the fixed bucket count of the fallback vectorizer.
const HashingDim = 4096

const hashingEpsilon = 1e-12

// HashingEmbedder is a deterministic feature-hashing vectorizer. Each token
// hashes to one of HashingDim buckets with a hash-derived sign, and rows are
// explicitly L2-normalized. It needs no model and never fails, which makes
// it the terminal fallback backend.
type HashingEmbedder struct{}

// NewHashingEmbedder constructs the fallback vectorizer.
func NewHashingEmbedder() *HashingEmbedder {
	return &HashingEmbedder{}
}

// Name identifies the backend in run results.
func (*HashingEmbedder) Name() string { return "hashing-4096" }

// Embed maps each unit to a HashingDim-length vector. Units with no tokens
// produce all-zero rows; the normalization denominator is epsilon-guarded so
// they stay zero instead of dividing by zero.
func (*HashingEmbedder) Embed(_ context.Context, units []string) ([][]float64, error) {
	vectors := make([][]float64, len(units))
	for i, unit := range units {
		vec := make([]float64, HashingDim)
		for _, token := range tokenize(unit) {
			bucket, sign := hashToken(token)
			vec[bucket] += sign
		}

		var sum float64
		for _, x := range vec {
			sum += x * x
		}
		if length := math.Sqrt(sum); length > hashingEpsilon {
			for j := range vec {
				vec[j] /= length
			}
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func hashToken(token string) (int, float64) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	value := h.Sum32()
	sign := 1.0
	if value&1 == 1 {
		sign = -1.0
	}
	return int(value % HashingDim), sign
}

func tokenize(text string) []string {
	normalized := norm.NFC.String(strings.ToLower(text))
	return strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
