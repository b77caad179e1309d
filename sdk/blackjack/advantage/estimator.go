package advantage

// eorCoefficient is the per-rank effect-of-removal: the change in player
// advantage, as a fraction (0.0038 = +0.38%), from removing one card of
// that point value from the shoe. Values are the widely-published Griffin EOR
// coefficients for a 6-deck S17 game, indexed by point-value bucket
// (2..9, 10, 11 for Ace).
var eorCoefficient = map[int]float64{
	2:  0.0038,
	3:  0.0044,
	4:  0.0056,
	5:  0.0070,
	6:  0.0046,
	7:  0.0030,
	8:  0.0001,
	9:  -0.0018,
	10: -0.0046,
	11: -0.0048,
}

// fullDeckBucketCount returns how many cards of the given point-value bucket
// a single full 52-card deck contains: 16 for the 10-valued bucket
// (T/J/Q/K), 4 for every other bucket.
func fullDeckBucketCount(bucket int) float64 {
	if bucket == 10 {
		return 16
	}
	return 4
}

// ExactEstimator computes player advantage directly from the shoe's residual
// composition, weighted by per-rank effect-of-removal coefficients, rather
// than from the true-count linear approximation. It is research-only: used
// to quantify how far the linear model drifts at deep penetration, never on
// the live betting path.
//
// For each bucket, expected is how many cards of that value "should" remain
// if the residual shoe matched a full deck's proportions exactly; deviation
// is how many more than expected have already been dealt (positive when a
// bucket has been depleted faster than average). A residual shoe depleted
// in low cards — good for the player — yields a positive deviation on the
// low-value buckets, which the positive low-card EOR coefficients turn into
// a higher advantage.
func ExactEstimator(remaining map[int]int, baseEdge float64) float64 {
	total := 0
	for _, n := range remaining {
		total += n
	}
	if total == 0 {
		return -baseEdge
	}

	const fullDeckTotal = 52.0

	adv := -baseEdge
	for bucket, n := range remaining {
		expected := float64(total) * fullDeckBucketCount(bucket) / fullDeckTotal
		deviation := expected - float64(n)
		adv += eorCoefficient[bucket] * deviation
	}
	return adv
}
