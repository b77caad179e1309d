package strategy

import (
	"github.com/lox/blackjack-advisor/sdk/blackjack/action"
	"github.com/lox/blackjack-advisor/sdk/blackjack/hand"
	"github.com/lox/blackjack-advisor/sdk/blackjack/rules"
)

// defaultChart is the hand-coded minimal chart used when a loaded strategy
// table has no entry for a key (after both the padded and un-padded lookup
// fail), and as the whole baseline when no table is loaded at all. It covers
// every two-card classification/value/dealer-up combination.
//
// dealerUp is 2..11, with 11 meaning the dealer shows an Ace.
func defaultChart(h hand.Hand, dealerUp int, r rules.Rules) action.Action {
	total := h.Total()
	numCards := h.Len()

	switch h.Classification() {
	case hand.Pair:
		return pairDefault(h, dealerUp, r, numCards)
	case hand.Soft:
		return softDefault(total, dealerUp, r, numCards)
	default:
		return hardDefault(total, dealerUp, r, numCards)
	}
}

func hardDefault(total, dealerUp int, r rules.Rules, numCards int) action.Action {
	// H17-specific surrender: 17 vs Ace surrenders only when the dealer
	// hits soft 17 (this is a rule-dependent chart cell, not a count
	// deviation — the S17 and H17 basic-strategy charts genuinely differ
	// here).
	if total == 17 && dealerUp == 11 {
		if !r.DealerStandsSoft17 && r.SurrenderAllowed && numCards == 2 {
			return action.Surrender
		}
		return action.Stand
	}

	switch {
	case total >= 17:
		return action.Stand
	case total >= 13 && total <= 16:
		if dealerUp >= 2 && dealerUp <= 6 {
			return action.Stand
		}
		return action.Hit
	case total == 12:
		if dealerUp >= 4 && dealerUp <= 6 {
			return action.Stand
		}
		return action.Hit
	case total == 11:
		if r.CanDouble(total, numCards) && dealerUp <= 10 {
			return action.Double
		}
		return action.Hit
	case total == 10:
		if r.CanDouble(total, numCards) && dealerUp <= 9 {
			return action.Double
		}
		return action.Hit
	case total == 9:
		if r.CanDouble(total, numCards) && dealerUp >= 3 && dealerUp <= 6 {
			return action.Double
		}
		return action.Hit
	default:
		return action.Hit
	}
}

func softDefault(total, dealerUp int, r rules.Rules, numCards int) action.Action {
	switch {
	case total >= 19:
		return action.Stand
	case total == 18:
		switch {
		case dealerUp >= 3 && dealerUp <= 6:
			if r.CanDouble(total, numCards) {
				return action.Double
			}
			return action.Stand
		case dealerUp == 2 || dealerUp == 7 || dealerUp == 8:
			return action.Stand
		default:
			return action.Hit
		}
	case total == 17:
		if dealerUp >= 3 && dealerUp <= 6 && r.CanDouble(total, numCards) {
			return action.Double
		}
		return action.Hit
	case total == 15 || total == 16:
		if dealerUp >= 4 && dealerUp <= 6 && r.CanDouble(total, numCards) {
			return action.Double
		}
		return action.Hit
	case total == 13 || total == 14:
		if dealerUp >= 5 && dealerUp <= 6 && r.CanDouble(total, numCards) {
			return action.Double
		}
		return action.Hit
	default:
		return action.Hit
	}
}

func pairDefault(h hand.Hand, dealerUp int, r rules.Rules, numCards int) action.Action {
	rank, _ := h.PairRank()
	value := rank.BlackjackValue()
	dasOK := r.DoubleAfterSplit

	splitIf := func(cond bool, fallback action.Action) action.Action {
		if cond && dasOK {
			return action.Split
		}
		if cond && !dasOK {
			return fallback
		}
		return fallback
	}

	switch value {
	case 11: // Aces
		return action.Split
	case 10:
		return action.Stand
	case 9:
		if dealerUp == 7 || dealerUp == 10 || dealerUp == 11 {
			return action.Stand
		}
		return action.Split
	case 8:
		return action.Split
	case 7:
		if dealerUp >= 2 && dealerUp <= 7 {
			return splitIf(true, action.Hit)
		}
		return action.Hit
	case 6:
		if dealerUp >= 2 && dealerUp <= 6 {
			return splitIf(true, action.Hit)
		}
		return action.Hit
	case 5:
		if r.CanDouble(10, numCards) && dealerUp <= 9 {
			return action.Double
		}
		return action.Hit
	case 4:
		if dealerUp == 5 || dealerUp == 6 {
			return splitIf(true, action.Hit)
		}
		return action.Hit
	case 2, 3:
		if dealerUp >= 2 && dealerUp <= 7 {
			return splitIf(true, action.Hit)
		}
		return action.Hit
	default:
		return action.Hit
	}
}
