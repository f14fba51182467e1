package trackasset

import "sort"

// BracketMass finds the two masses in a sorted, ascending masses slice that
// bracket target, and the interpolation weight alpha = (target-lo)/(hi-lo)
// between them (spec.md §4.3). If target is outside the range, the nearest
// edge is returned twice with alpha 0. If masses has length 1, that single
// mass is returned twice with alpha 0 (the sub-0.1 solar mass extrapolation
// branch of spec.md §4.3 handles that case upstream).
func BracketMass(masses []float64, target float64) (lo, hi, alpha float64) {
	if len(masses) == 0 {
		return 0, 0, 0
	}
	if len(masses) == 1 {
		return masses[0], masses[0], 0
	}
	if target <= masses[0] {
		return masses[0], masses[0], 0
	}
	if target >= masses[len(masses)-1] {
		last := masses[len(masses)-1]
		return last, last, 0
	}

	// sort.Search finds the first index whose mass is >= target.
	i := sort.Search(len(masses), func(i int) bool { return masses[i] >= target })
	if masses[i] == target {
		return masses[i], masses[i], 0
	}
	lo = masses[i-1]
	hi = masses[i]
	alpha = (target - lo) / (hi - lo)
	return lo, hi, alpha
}

// NearestMetallicityBin rounds feH to the nearest of the fixed published
// bins (spec.md §4.3: "Round targetFeH to the nearest bin").
func NearestMetallicityBin(bins []float64, feH float64) float64 {
	best := bins[0]
	bestDist := absf(feH - bins[0])
	for _, b := range bins[1:] {
		d := absf(feH - b)
		if d < bestDist {
			best = b
			bestDist = d
		}
	}
	return best
}

// BinarySearchInterval performs the binary search over a monotonically
// increasing values slice that spec.md §4.3's "interpolate within a file"
// step requires: it returns the index i such that values[i] <= target <
// values[i+1], clamped to [0, len(values)-2].
func BinarySearchInterval(values []float64, target float64) int {
	n := len(values)
	if n < 2 {
		return 0
	}
	if target <= values[0] {
		return 0
	}
	if target >= values[n-1] {
		return n - 2
	}
	i := sort.Search(n, func(i int) bool { return values[i] > target })
	return i - 1
}
