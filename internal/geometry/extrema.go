// Package geometry provides the numeric primitives shared by all pattern
// detectors: local extrema search, candle body/wick measurement and
// neckline slope validation.
package geometry

// FindLocalMaxima returns the indices of strict local maxima in values.
// Index i qualifies when no other index j within [i-window, i+window] has a
// value greater than or equal to values[i], so tied plateaus never produce
// an extremum. Indices are returned in ascending order.
func FindLocalMaxima(values []float64, window int) []int {
	var maxima []int

	for i := range values {
		if isExtremum(values, i, window, func(other, center float64) bool {
			return other >= center
		}) {
			maxima = append(maxima, i)
		}
	}

	return maxima
}

// FindLocalMinima returns the indices of strict local minima in values,
// using the mirror of the FindLocalMaxima tie rule.
func FindLocalMinima(values []float64, window int) []int {
	var minima []int

	for i := range values {
		if isExtremum(values, i, window, func(other, center float64) bool {
			return other <= center
		}) {
			minima = append(minima, i)
		}
	}

	return minima
}

// isExtremum checks whether index i dominates its window. The beats
// function reports when a neighbor disqualifies the candidate.
func isExtremum(values []float64, i, window int, beats func(other, center float64) bool) bool {
	lo := i - window
	if lo < 0 {
		lo = 0
	}
	hi := i + window
	if hi > len(values)-1 {
		hi = len(values) - 1
	}

	for j := lo; j <= hi; j++ {
		if j == i {
			continue
		}
		if beats(values[j], values[i]) {
			return false
		}
	}
	return true
}
