package scorer

import "math"

// roundHalfAwayFromZero rounds to the nearest integer, ties away from
// zero, fixed for reproducibility across platforms per spec §4.3.
func roundHalfAwayFromZero(x float64) int {
	if x >= 0 {
		return int(math.Floor(x + 0.5))
	}
	return int(math.Ceil(x - 0.5))
}
