// Package aggregate reduces per-unit sentiment scores to a per-entity
// sentiment intensity: the mean absolute score.
package aggregate

import (
	"cmp"
	"maps"
	"slices"
	"strconv"

	"github.com/Sumatoshi-tech/spreadsent/pkg/alg/stats"
)

// Precision is the number of decimals kept in an intensity.
const Precision = 4

// Intensity returns the rounded mean of |score| over scores, or 0 when there
// are none. Polarity direction is ignored. Scores are summed in unit order
// so the result does not depend on map iteration.
func Intensity(scores map[string]float64) float64 {
	if len(scores) == 0 {
		return 0
	}

	values := make([]float64, 0, len(scores))
	for _, key := range slices.SortedFunc(maps.Keys(scores), compareUnits) {
		values = append(values, scores[key])
	}

	return stats.Round(stats.MeanAbs(values), Precision)
}

// compareUnits orders numeric unit keys by value ("2" before "10") and puts
// any other key after them in string order.
func compareUnits(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)

	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}

// All computes the intensity of every entity.
func All(scoresByEntity map[string]map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(scoresByEntity))

	for entity, scores := range scoresByEntity {
		out[entity] = Intensity(scores)
	}

	return out
}
