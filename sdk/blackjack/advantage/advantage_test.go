package advantage

import (
	"math"
	"testing"

	"github.com/lox/blackjack-advisor/sdk/blackjack/rules"
)

func TestLinearAtBreakevenIsZero(t *testing.T) {
	r := rules.Default()
	tc := BreakevenCount(r)
	if got := Linear(tc, r); math.Abs(got) > 1e-9 {
		t.Errorf("Linear(BreakevenCount()) = %f, want ~0", got)
	}
}

func TestLinearIncreasesWithTrueCount(t *testing.T) {
	r := rules.Default()
	low := Linear(0, r)
	high := Linear(5, r)
	if high <= low {
		t.Errorf("Linear(5) = %f should exceed Linear(0) = %f", high, low)
	}
}

func TestLinearH17WorseThanS17(t *testing.T) {
	s17 := rules.Default()
	s17.DealerStandsSoft17 = true
	h17 := rules.Default()
	h17.DealerStandsSoft17 = false

	if Linear(2, h17) >= Linear(2, s17) {
		t.Error("H17 should yield a lower (worse) player advantage than S17 at the same true count")
	}
}

func TestLinear65PayoutWorse(t *testing.T) {
	standard := rules.Default()
	standard.BlackjackPayout = 1.5
	sixFive := rules.Default()
	sixFive.BlackjackPayout = 1.2

	if Linear(2, sixFive) >= Linear(2, standard) {
		t.Error("a 6:5 blackjack payout should yield a lower player advantage than 3:2")
	}
}

func TestBreakevenCountIgnoresDeckMultiplier(t *testing.T) {
	sixDeck := rules.Default()
	sixDeck.NumDecks = 6
	oneDeck := rules.Default()
	oneDeck.NumDecks = 1

	if BreakevenCount(sixDeck) != BreakevenCount(oneDeck) {
		t.Error("BreakevenCount should not depend on NumDecks (the deck multiplier only scales, never shifts, the zero crossing)")
	}
}
