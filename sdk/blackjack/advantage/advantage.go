// Package advantage implements the rule-adjusted linear advantage model and
// the research-only exact effect-of-removal estimator.
package advantage

import "github.com/lox/blackjack-advisor/sdk/blackjack/rules"

const (
	slope        = 0.005
	baselineEdge = 0.004
)

// Linear computes the player advantage at trueCount under r:
// advantage = slope*trueCount - baselineEdge(r), with baselineEdge adjusted
// additively per rule effect, then scaled by the deck-count multiplier
// 1 + 0.1*(6/NumDecks - 1) whenever NumDecks > 0.
func Linear(trueCount float64, r rules.Rules) float64 {
	edge := baselineEdge
	if !r.DealerStandsSoft17 {
		edge += 0.0022
	}
	if r.BlackjackPayout < 1.4 {
		edge += 0.0139
	}
	if !r.DoubleAfterSplit {
		edge += 0.0014
	}
	if !r.SurrenderAllowed {
		edge += 0.0008
	}
	switch r.DoubleRestrictions {
	case rules.DoubleTenEleven:
		edge += 0.0018
	case rules.DoubleNineTenEleven:
		edge += 0.0009
	}

	adv := slope*trueCount - edge
	if r.NumDecks > 0 {
		adv *= 1 + 0.1*(6/float64(r.NumDecks)-1)
	}
	return adv
}

// BreakevenCount returns the true count at which Linear crosses zero for r,
// ignoring the deck-count multiplier (which does not shift the zero
// crossing, only its scale).
func BreakevenCount(r rules.Rules) float64 {
	edge := baselineEdge
	if !r.DealerStandsSoft17 {
		edge += 0.0022
	}
	if r.BlackjackPayout < 1.4 {
		edge += 0.0139
	}
	if !r.DoubleAfterSplit {
		edge += 0.0014
	}
	if !r.SurrenderAllowed {
		edge += 0.0008
	}
	switch r.DoubleRestrictions {
	case rules.DoubleTenEleven:
		edge += 0.0018
	case rules.DoubleNineTenEleven:
		edge += 0.0009
	}
	return edge / slope
}
