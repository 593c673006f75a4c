package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		val, lo, hi float64
		expected    float64
	}{
		{name: "within_range", val: 0.5, lo: 0, hi: 1, expected: 0.5},
		{name: "below_min", val: -1, lo: 0, hi: 1, expected: 0},
		{name: "above_max", val: 1.5, lo: 0, hi: 1, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.InDelta(t, tt.expected, Clamp(tt.val, tt.lo, tt.hi), 1e-9)
		})
	}
}

func TestMean(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0, Mean(nil), 1e-9)
	assert.InDelta(t, 0, Mean([]float64{0.5, -0.5}), 1e-9)
	assert.InDelta(t, 0.5, MeanAbs([]float64{0.5, -0.5}), 1e-9)
	assert.InDelta(t, 0, MeanAbs(nil), 1e-9)
}

func TestMeanStdDev(t *testing.T) {
	t.Parallel()

	mean, stddev := MeanStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5, mean, 1e-9)
	assert.InDelta(t, 2, stddev, 1e-9)

	mean, stddev = MeanStdDev(nil)
	assert.Zero(t, mean)
	assert.Zero(t, stddev)
}

func TestPercentile(t *testing.T) {
	t.Parallel()

	values := []float64{4, 1, 3, 2}

	assert.InDelta(t, 2.5, Median(values), 1e-9)
	assert.InDelta(t, 1, Percentile(values, 0), 1e-9)
	assert.InDelta(t, 4, Percentile(values, 1), 1e-9)
	assert.InDelta(t, 3.85, Percentile(values, PercentileP95), 1e-9)
	assert.InDelta(t, 4, Percentile(values, 2), 1e-9)
	assert.Equal(t, []float64{4, 1, 3, 2}, values, "input untouched")
	assert.Zero(t, Percentile(nil, 0.5))
}

func TestRound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want float64
	}{
		{in: 0.123456, want: 0.1235},
		{in: -0.123449, want: -0.1234},
		{in: 1.0 / 3.0, want: 0.3333},
		{in: 0, want: 0},
		{in: 0.03125, want: 0.0312},
		{in: -0.03125, want: -0.0312},
		{in: 2.675, want: 2.67},
		{in: -0.00001, want: 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, Round(tt.in, 4), 1e-12, "Round(%v, 4)", tt.in)
	}

	assert.Equal(t, 0.12, Round(0.125, 2))
	assert.Equal(t, 0.38, Round(0.375, 2))
	assert.False(t, math.Signbit(Round(-0.00001, 4)))
}

func TestMinMaxSum(t *testing.T) {
	t.Parallel()

	assert.Equal(t, -2, Min([]int{3, -2, 5}))
	assert.Equal(t, 5, Max([]int{3, -2, 5}))
	assert.Equal(t, 6, Sum([]int{3, -2, 5}))
	assert.Zero(t, Min([]float64{}))
	assert.Zero(t, Max([]float64{}))
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	s := Summarize([]float64{0.1, 0.3, 0.2})

	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 0.2, s.Mean, 1e-9)
	assert.InDelta(t, 0.2, s.Median, 1e-9)
	assert.InDelta(t, 0.1, s.Min, 1e-9)
	assert.InDelta(t, 0.3, s.Max, 1e-9)

	assert.Equal(t, Summary{}, Summarize(nil))
}
