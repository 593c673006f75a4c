// Package stats provides the descriptive statistics used for sentiment
// scores and intensities. Standard deviation is the population form (÷n).
package stats

import (
	"cmp"
	"math"
	"slices"
	"strconv"
)

// Well-known percentile thresholds.
const (
	PercentileMedian = 0.5
	PercentileP95    = 0.95
)

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	return Sum(values) / float64(len(values))
}

// MeanAbs returns the mean of the absolute values, or 0 for an empty slice.
func MeanAbs(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64

	for _, v := range values {
		sum += math.Abs(v)
	}

	return sum / float64(len(values))
}

// MeanStdDev returns the arithmetic mean and population standard deviation.
func MeanStdDev(values []float64) (mean, stddev float64) {
	count := len(values)
	if count == 0 {
		return 0, 0
	}

	mean = Mean(values)

	var sumSq float64

	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}

	return mean, math.Sqrt(sumSq / float64(count))
}

// Percentile returns the p-th percentile of values (p in [0, 1]) using
// linear interpolation. The input is not modified.
func Percentile(values []float64, p float64) float64 {
	count := len(values)
	if count == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	idx := Clamp(p, 0, 1) * float64(count-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))

	if lower == upper || upper >= count {
		return sorted[lower]
	}

	frac := idx - float64(lower)

	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// Median returns the 50th percentile of values.
func Median(values []float64) float64 {
	return Percentile(values, PercentileMedian)
}

// Round rounds v to the given number of decimal digits. Rounding applies to
// the exact binary value, so a true tie such as 0.03125 goes to the even
// digit (0.0312) and 2.675 stays below its decimal tie (2.67).
func Round(v float64, digits int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}

	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', digits, 64), 64)
	if err != nil {
		return v
	}

	if rounded == 0 {
		return 0
	}

	return rounded
}

// Clamp restricts val to the range [lo, hi].
func Clamp[T cmp.Ordered](val, lo, hi T) T {
	return max(lo, min(val, hi))
}

// Min returns the smallest element, or the zero value for an empty slice.
func Min[T cmp.Ordered](values []T) T {
	if len(values) == 0 {
		var zero T

		return zero
	}

	return slices.Min(values)
}

// Max returns the largest element, or the zero value for an empty slice.
func Max[T cmp.Ordered](values []T) T {
	if len(values) == 0 {
		var zero T

		return zero
	}

	return slices.Max(values)
}

// Sum returns the sum of all elements.
func Sum[T cmp.Ordered](values []T) T {
	var result T

	for _, v := range values {
		result += v
	}

	return result
}

// Summary describes a sample of scores.
type Summary struct {
	Count  int     `json:"count"  yaml:"count"`
	Mean   float64 `json:"mean"   yaml:"mean"`
	StdDev float64 `json:"stddev" yaml:"stddev"`
	Median float64 `json:"median" yaml:"median"`
	P95    float64 `json:"p95"    yaml:"p95"`
	Min    float64 `json:"min"    yaml:"min"`
	Max    float64 `json:"max"    yaml:"max"`
}

// Summarize computes a Summary of values.
func Summarize(values []float64) Summary {
	mean, stddev := MeanStdDev(values)

	return Summary{
		Count:  len(values),
		Mean:   mean,
		StdDev: stddev,
		Median: Median(values),
		P95:    Percentile(values, PercentileP95),
		Min:    Min(values),
		Max:    Max(values),
	}
}
