// Package stats provides descriptive statistics over numeric samples and a
// z-score outlier filter built on top of them.
package stats

import (
	"math"
	"slices"
)

// DefaultThreshold is the number of standard deviations FilterOutliers
// tolerates when no threshold is configured.
const DefaultThreshold = 2.0

// minFilterSize is the smallest sample FilterOutliers will filter.
const minFilterSize = 3

// Summary holds descriptive statistics for a sample.
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// Calculate computes a Summary. For an empty sample it returns the zero
// Summary and false. The input slice is not reordered.
func Calculate(numbers []float64) (Summary, bool) {
	n := len(numbers)
	if n == 0 {
		return Summary{}, false
	}

	sum := 0.0
	lo, hi := numbers[0], numbers[0]
	for _, v := range numbers {
		sum += v
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	return Summary{
		Mean:   sum / float64(n),
		Median: median(numbers),
		Min:    lo,
		Max:    hi,
		Count:  n,
	}, true
}

// median sorts a copy and takes the middle element, or the mean of the two
// middle elements for an even count.
func median(numbers []float64) float64 {
	sorted := slices.Clone(numbers)
	slices.Sort(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Mean returns the arithmetic mean, or 0 for an empty sample.
func Mean(numbers []float64) float64 {
	if len(numbers) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range numbers {
		sum += v
	}
	return sum / float64(len(numbers))
}

// Variance returns the population variance (divided by N), or 0 for an
// empty sample.
func Variance(numbers []float64) float64 {
	if len(numbers) == 0 {
		return 0
	}
	m := Mean(numbers)
	sumSq := 0.0
	for _, v := range numbers {
		d := v - m
		sumSq += d * d
	}
	return sumSq / float64(len(numbers))
}

// StdDev returns the population standard deviation.
func StdDev(numbers []float64) float64 {
	return math.Sqrt(Variance(numbers))
}

// FilterOutliers keeps the values within threshold population standard
// deviations of the mean, preserving their order.
//
// Samples with fewer than three values are returned unchanged; no filtering
// is attempted on them.
func FilterOutliers(data []float64, threshold float64) []float64 {
	if len(data) < minFilterSize {
		return data
	}

	mean := Mean(data)
	limit := threshold * StdDev(data)

	filtered := make([]float64, 0, len(data))
	for _, v := range data {
		if math.Abs(v-mean) <= limit {
			filtered = append(filtered, v)
		}
	}
	return filtered
}
