package cleaning

// interpolatedMedian is the continuous 50th percentile of an ascending-sorted
// slice: the middle order statistic for odd counts, the midpoint of the two
// middle order statistics for even counts. An empty slice yields 0.
func interpolatedMedian(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
