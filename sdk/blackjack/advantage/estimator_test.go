package advantage

import (
	"testing"

	"github.com/lox/blackjack-advisor/sdk/blackjack/count"
)

func TestExactEstimatorFullShoeEqualsBaseEdge(t *testing.T) {
	remaining := count.DefaultComposition(6)
	got := ExactEstimator(remaining, 0.005)
	if got > -0.0049 || got < -0.0051 {
		t.Errorf("ExactEstimator(full shoe) = %f, want ~-0.005 (no deviation from expected composition)", got)
	}
}

func TestExactEstimatorRewardsLowCardDepletion(t *testing.T) {
	remaining := count.DefaultComposition(1)
	remaining[2] = 0 // all four 2s have been dealt out: a low-card-rich discard, rich-in-high residual shoe

	baseline := ExactEstimator(count.DefaultComposition(1), 0.004)
	depleted := ExactEstimator(remaining, 0.004)

	if depleted <= baseline {
		t.Errorf("ExactEstimator with low cards depleted = %f, want > baseline %f", depleted, baseline)
	}
}

func TestExactEstimatorEmptyShoeReturnsNegativeBaseEdge(t *testing.T) {
	if got := ExactEstimator(map[int]int{}, 0.004); got != -0.004 {
		t.Errorf("ExactEstimator(empty) = %f, want -0.004", got)
	}
}
