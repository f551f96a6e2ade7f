// Package stats summarises operation latencies.
package stats

import (
	"math"
	"slices"
	"time"
)

// Well-known percentile thresholds.
const (
	PercentileMedian = 0.5
	PercentileP95    = 0.95
)

// Summary describes a set of latency samples.
type Summary struct {
	Count int
	Total time.Duration
	Mean  time.Duration
	P50   time.Duration
	P95   time.Duration
	Max   time.Duration
}

// Summarize computes a Summary. The input slice is not modified.
// An empty input yields the zero Summary.
func Summarize(samples []time.Duration) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	var total time.Duration

	for _, d := range sorted {
		total += d
	}

	return Summary{
		Count: len(sorted),
		Total: total,
		Mean:  total / time.Duration(len(sorted)),
		P50:   Percentile(sorted, PercentileMedian),
		P95:   Percentile(sorted, PercentileP95),
		Max:   sorted[len(sorted)-1],
	}
}

// Percentile returns the p-th percentile of sorted using linear
// interpolation between the closest ranks. sorted must be ascending and p
// is clamped to [0, 1]. Returns 0 for an empty slice.
func Percentile(sorted []time.Duration, p float64) time.Duration {
	count := len(sorted)
	if count == 0 {
		return 0
	}

	idx := max(0, min(p, 1)) * float64(count-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))

	if lower == upper {
		return sorted[lower]
	}

	frac := idx - float64(lower)
	span := float64(sorted[upper] - sorted[lower])

	return sorted[lower] + time.Duration(math.Round(span*frac))
}
