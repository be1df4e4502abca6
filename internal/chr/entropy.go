package chr

import "math"

// histogramEntropy estimates the Shannon entropy of values by discretizing
// them into at most bins buckets. The bucket count never exceeds the number
// of distinct values, so constant data collapses to a single bucket and the
// entropy is defined as 0.
func histogramEntropy(values []float64, bins int) float64 {
	if len(values) == 0 {
		return 0
	}

	minVal, maxVal := values[0], values[0]
	distinct := make(map[float64]struct{}, len(values))
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
		distinct[v] = struct{}{}
	}
	if len(distinct) < 2 || maxVal-minVal < epsilon {
		return 0
	}

	bucketCount := bins
	if len(distinct) < bucketCount {
		bucketCount = len(distinct)
	}
	if bucketCount < 1 {
		bucketCount = 1
	}

	counts := make([]int, bucketCount)
	width := (maxVal - minVal) / float64(bucketCount)
	for _, v := range values {
		idx := int((v - minVal) / width)
		if idx >= bucketCount {
			idx = bucketCount - 1
		}
		counts[idx]++
	}

	total := float64(len(values))
	var entropy float64
	for _, count := range counts {
		if count == 0 {
			continue
		}
		p := float64(count) / total
		entropy -= p * math.Log(p)
	}
	if entropy < 0 {
		entropy = 0
	}
	return entropy
}
