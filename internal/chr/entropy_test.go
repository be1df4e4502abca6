package chr

import (
	"math"
	"testing"
)

func TestHistogramEntropyConstantValues(t *testing.T) {
	values := []float64{0.5, 0.5, 0.5, 0.5}
	if got := histogramEntropy(values, 8); got != 0 {
		t.Fatalf("expected zero entropy for constant values, got %f", got)
	}
}

func TestHistogramEntropySingleValue(t *testing.T) {
	if got := histogramEntropy([]float64{1.0}, 8); got != 0 {
		t.Fatalf("expected zero entropy for one value, got %f", got)
	}
}

func TestHistogramEntropyTwoBuckets(t *testing.T) {
	// Two distinct values split evenly: entropy is exactly ln(2).
	values := []float64{0, 0, 1, 1}
	got := histogramEntropy(values, 8)
	want := math.Log(2)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected ln(2)=%f, got %f", want, got)
	}
}

func TestHistogramEntropyNonNegative(t *testing.T) {
	cases := [][]float64{
		{0.1, 0.9, 0.4, 0.4, 0.2},
		{-3, -1, 0, 2, 7},
		{1e-12, 2e-12, 3e-12},
	}
	for _, values := range cases {
		if got := histogramEntropy(values, 8); got < 0 {
			t.Fatalf("entropy must be non-negative, got %f for %v", got, values)
		}
	}
}

func TestHistogramEntropyBinClamp(t *testing.T) {
	// Three distinct values with eight requested bins: the effective bucket
	// count is the distinct count, so entropy stays at most ln(3).
	values := []float64{0, 0.5, 1}
	got := histogramEntropy(values, 8)
	if got > math.Log(3)+1e-12 {
		t.Fatalf("entropy %f exceeds ln(3) for three distinct values", got)
	}
	if got <= 0 {
		t.Fatalf("expected positive entropy, got %f", got)
	}
}
