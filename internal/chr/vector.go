package chr

import "math"

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// normalized returns v scaled to unit length, or an unchanged copy when the
// norm is below epsilon (zero vectors stay zero rather than producing NaN).
func normalized(v []float64) []float64 {
	out := make([]float64, len(v))
	n := norm(v)
	if n < epsilon {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = x / n
	}
	return out
}

// softmaxRow writes the stabilized softmax of beta*row into dst.
func softmaxRow(dst, row []float64, beta float64) {
	maxVal := math.Inf(-1)
	for _, x := range row {
		if beta*x > maxVal {
			maxVal = beta * x
		}
	}
	var total float64
	for i, x := range row {
		e := math.Exp(beta*x - maxVal)
		dst[i] = e
		total += e
	}
	if total < epsilon {
		// Degenerate row: fall back to a uniform assignment.
		uniform := 1.0 / float64(len(row))
		for i := range dst {
			dst[i] = uniform
		}
		return
	}
	for i := range dst {
		dst[i] /= total
	}
}
