package stats

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name  string
		input []float64
		want  Summary
	}{
		{
			name:  "odd count",
			input: []float64{1, 2, 3, 4, 5},
			want:  Summary{Mean: 3, Median: 3, Min: 1, Max: 5, Count: 5},
		},
		{
			name:  "even count averages middle pair",
			input: []float64{4, 1, 3, 2},
			want:  Summary{Mean: 2.5, Median: 2.5, Min: 1, Max: 4, Count: 4},
		},
		{
			name:  "single value",
			input: []float64{7},
			want:  Summary{Mean: 7, Median: 7, Min: 7, Max: 7, Count: 1},
		},
		{
			name:  "unsorted with negatives",
			input: []float64{10, -5, 0, 20, -15},
			want:  Summary{Mean: 2, Median: 0, Min: -15, Max: 20, Count: 5},
		},
		{
			name:  "spaced sample",
			input: []float64{10, 20, 30, 40, 50},
			want:  Summary{Mean: 30, Median: 30, Min: 10, Max: 50, Count: 5},
		},
		{
			name:  "fractional",
			input: []float64{0.1, 0.2, 0.3},
			want:  Summary{Mean: 0.2, Median: 0.2, Min: 0.1, Max: 0.3, Count: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Calculate(tt.input)
			require.True(t, ok)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("Calculate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCalculate_Empty(t *testing.T) {
	for _, input := range [][]float64{nil, {}} {
		got, ok := Calculate(input)
		assert.False(t, ok)
		assert.Equal(t, Summary{}, got)
	}
}

func TestCalculate_DoesNotReorderInput(t *testing.T) {
	input := []float64{5, 3, 1, 4}
	_, _ = Calculate(input)
	assert.Equal(t, []float64{5, 3, 1, 4}, input)
}

func TestVarianceAndStdDev(t *testing.T) {
	// Population variance of 2,4,4,4,5,5,7,9 is exactly 4.
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 4.0, Variance(data), 1e-12)
	assert.InDelta(t, 2.0, StdDev(data), 1e-12)

	assert.Equal(t, 0.0, Variance(nil))
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Variance([]float64{3}))
}

func TestFilterOutliers(t *testing.T) {
	tests := []struct {
		name      string
		input     []float64
		threshold float64
		want      []float64
	}{
		{
			name:      "removes single extreme value",
			input:     []float64{1, 2, 3, 4, 5, 100},
			threshold: DefaultThreshold,
			want:      []float64{1, 2, 3, 4, 5},
		},
		{
			name:      "keeps order of survivors",
			input:     []float64{5, 100, 1, 4, 2, 3},
			threshold: DefaultThreshold,
			want:      []float64{5, 1, 4, 2, 3},
		},
		{
			name:      "nothing to remove",
			input:     []float64{10, 20, 30, 40, 50},
			threshold: DefaultThreshold,
			want:      []float64{10, 20, 30, 40, 50},
		},
		{
			name:      "constant sample keeps everything",
			input:     []float64{3, 3, 3, 3},
			threshold: DefaultThreshold,
			want:      []float64{3, 3, 3, 3},
		},
		{
			// mean 5, stddev 2: 9 sits exactly 2 deviations out and is kept.
			name:      "boundary value is inclusive",
			input:     []float64{2, 4, 4, 4, 5, 5, 7, 9},
			threshold: 2,
			want:      []float64{2, 4, 4, 4, 5, 5, 7, 9},
		},
		{
			name:      "tighter threshold removes more",
			input:     []float64{2, 4, 4, 4, 5, 5, 7, 9},
			threshold: 1,
			want:      []float64{4, 4, 4, 5, 5, 7},
		},
		{
			name:      "zero threshold keeps only values at the mean",
			input:     []float64{1, 2, 3},
			threshold: 0,
			want:      []float64{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterOutliers(tt.input, tt.threshold)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("FilterOutliers() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterOutliers_ShortInputUnchanged(t *testing.T) {
	for _, input := range [][]float64{nil, {}, {1}, {1, 2}, {1, 1000}} {
		got := FilterOutliers(input, DefaultThreshold)
		assert.Equal(t, input, got)
	}
}

func TestFilterOutliers_DoesNotMutateInput(t *testing.T) {
	input := []float64{1, 2, 3, 4, 5, 100}
	_ = FilterOutliers(input, DefaultThreshold)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 100}, input)
}

func TestFilterOutliers_NaNIsDropped(t *testing.T) {
	// Malformed input is the caller's problem; NaN poisons the mean so
	// every comparison fails and nothing survives.
	got := FilterOutliers([]float64{1, 2, math.NaN()}, DefaultThreshold)
	assert.Empty(t, got)
}
