package normalize

import "sort"

// percentileOf returns the p-th percentile (0-100) of sorted values using
// linear interpolation between the two nearest ranks. values must be sorted
// ascending and non-empty.
func percentileOf(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}

	pos := p / 100 * float64(n-1)
	lo := int(pos)
	frac := pos - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// winsorize clips values to the [lowerPct, upperPct] percentile bounds of
// their own distribution and returns the clipped copy. One extreme outlier
// must not compress the percentile range for the rest of the universe.
func winsorize(values []float64, lowerPct, upperPct float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	lo := percentileOf(sorted, lowerPct)
	hi := percentileOf(sorted, upperPct)

	clipped := make([]float64, len(values))
	for i, v := range values {
		switch {
		case v < lo:
			clipped[i] = lo
		case v > hi:
			clipped[i] = hi
		default:
			clipped[i] = v
		}
	}
	return clipped
}

// percentileRanks returns each value's percentile rank (0-100) within the
// slice, using the midpoint convention for ties: rank = (below + 0.5*equal)/n.
func percentileRanks(values []float64) []float64 {
	n := len(values)
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	ranks := make([]float64, n)
	for i, v := range values {
		below := sort.SearchFloat64s(sorted, v)
		above := sort.Search(n, func(j int) bool { return sorted[j] > v })
		equal := above - below
		ranks[i] = (float64(below) + 0.5*float64(equal)) / float64(n) * 100
	}
	return ranks
}

// clampAbs bounds v to [-cap, cap]. cap <= 0 means unbounded.
func clampAbs(v, cap float64) float64 {
	if cap <= 0 {
		return v
	}
	if v > cap {
		return cap
	}
	if v < -cap {
		return -cap
	}
	return v
}

// medianAbs returns the median of absolute values. Used for scale detection.
func medianAbs(values []float64) float64 {
	abs := make([]float64, len(values))
	for i, v := range values {
		if v < 0 {
			abs[i] = -v
		} else {
			abs[i] = v
		}
	}
	sort.Float64s(abs)

	n := len(abs)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return abs[n/2]
	}
	return (abs[n/2-1] + abs[n/2]) / 2
}
