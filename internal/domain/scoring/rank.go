package scoring

import (
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// percentScale maps a ratio onto 0-100.
const percentScale = 100

// MinRank ranks values in descending order. Tied values share the smallest
// rank of their group, so a value's rank is one plus the number of strictly
// greater values.
func MinRank(values []float64) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] > values[idx[b]]
	})

	ranks := make([]int, len(values))
	for pos, i := range idx {
		if pos > 0 && values[i] == values[idx[pos-1]] {
			ranks[i] = ranks[idx[pos-1]]
			continue
		}
		ranks[i] = pos + 1
	}
	return ranks
}

// Normalize scales values to 0-100 relative to their maximum. When the
// maximum is not positive (or values is empty) every result is 0 and ok is
// false.
func Normalize(values []float64) (out []float64, ok bool) {
	out = make([]float64, len(values))
	if len(values) == 0 {
		return out, false
	}
	maxValue := floats.Max(values)
	if !(maxValue > 0) {
		return out, false
	}
	for i, v := range values {
		out[i] = v / maxValue * percentScale
	}
	return out, true
}

// TopMean returns the mean of the k largest values. k is clamped to
// [1, len(values)]; an empty input yields 0.
func TopMean(values []float64, k int) float64 {
	if len(values) == 0 {
		return 0
	}
	k = max(1, min(k, len(values)))
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return stat.Mean(sorted[len(sorted)-k:], nil)
}
