package embedding

import (
	"context"
	"math"
	"reflect"
	"testing"
)

func TestHashingEmbedderRowsAreUnitNorm(t *testing.T) {
	embedder := NewHashingEmbedder()
	vectors, err := embedder.Embed(context.Background(), []string{
		"hello world",
		"the quick brown fox",
		"numbers 123 and words",
	})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	for i, vec := range vectors {
		if len(vec) != HashingDim {
			t.Fatalf("row %d has dimension %d, want %d", i, len(vec), HashingDim)
		}
		var sum float64
		for _, x := range vec {
			sum += x * x
		}
		if math.Abs(math.Sqrt(sum)-1) > 1e-9 {
			t.Fatalf("row %d has norm %f, want 1", i, math.Sqrt(sum))
		}
	}
}

func TestHashingEmbedderDeterministic(t *testing.T) {
	embedder := NewHashingEmbedder()
	units := []string{"alpha beta", "gamma delta"}
	first, err := embedder.Embed(context.Background(), units)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	second, err := embedder.Embed(context.Background(), units)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("embeddings differ across identical calls")
	}
}

func TestHashingEmbedderTokenlessUnitStaysZero(t *testing.T) {
	embedder := NewHashingEmbedder()
	vectors, err := embedder.Embed(context.Background(), []string{"!!! ... ---"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	for _, x := range vectors[0] {
		if x != 0 {
			t.Fatal("expected all-zero row for a unit with no tokens")
		}
	}
}

func TestHashingEmbedderCaseAndPunctuationInsensitive(t *testing.T) {
	embedder := NewHashingEmbedder()
	vectors, err := embedder.Embed(context.Background(), []string{"Hello, World!", "hello world"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if !reflect.DeepEqual(vectors[0], vectors[1]) {
		t.Fatal("tokenization should ignore case and punctuation")
	}
}
