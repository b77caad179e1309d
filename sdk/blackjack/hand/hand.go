// Package hand implements the immutable Hand value and its derived
// classification used by the strategy and deviation engines.
package hand

import (
	"fmt"

	"github.com/lox/blackjack-advisor/sdk/blackjack/card"
)

// Classification buckets a Hand for strategy-table lookup.
type Classification int

const (
	Hard Classification = iota
	Soft
	Pair
)

func (c Classification) String() string {
	switch c {
	case Hard:
		return "H"
	case Soft:
		return "S"
	case Pair:
		return "P"
	default:
		return "?"
	}
}

// Hand is an immutable ordered sequence of cards with derived blackjack
// properties. The zero value is not a valid Hand; construct with New or Add.
type Hand struct {
	cards []card.Card
}

// New constructs a Hand from its initial cards, validating the total is
// within the representable range. Busts are expressible (the driver needs to
// construct them to settle a hand) but are never used as a live decision
// state upstream of that point.
func New(cards ...card.Card) (Hand, error) {
	h := Hand{cards: append([]card.Card(nil), cards...)}
	if t := h.Total(); t < 2 || t > 31 {
		return Hand{}, fmt.Errorf("invalid hand: total %d outside [2, 31]", t)
	}
	return h, nil
}

// Add returns a new Hand with card c appended. The receiver is never
// mutated.
func (h Hand) Add(c card.Card) (Hand, error) {
	cards := make([]card.Card, len(h.cards)+1)
	copy(cards, h.cards)
	cards[len(h.cards)] = c
	return New(cards...)
}

// Cards returns a copy of the hand's cards in deal order.
func (h Hand) Cards() []card.Card {
	return append([]card.Card(nil), h.cards...)
}

// Len returns the number of cards in the hand.
func (h Hand) Len() int {
	return len(h.cards)
}

// Total returns the maximal total <= 21 if any Ace can count as 11 without
// busting, else the sum with every Ace counted as 1.
func (h Hand) Total() int {
	sum := 0
	aces := 0
	for _, c := range h.cards {
		sum += c.BlackjackValue()
		if c.Rank == card.Ace {
			aces++
		}
	}
	// Every Ace above is counted as 11; demote to 1 until we're <= 21 or out
	// of Aces to demote.
	for sum > 21 && aces > 0 {
		sum -= 10
		aces--
	}
	return sum
}

// IsSoft returns true iff at least one Ace is currently counted as 11 in the
// maximal total computed by Total.
func (h Hand) IsSoft() bool {
	sum := 0
	aces := 0
	for _, c := range h.cards {
		sum += c.BlackjackValue()
		if c.Rank == card.Ace {
			aces++
		}
	}
	softAces := aces
	for sum > 21 && softAces > 0 {
		sum -= 10
		softAces--
	}
	return softAces > 0
}

// IsPair returns true iff the hand has exactly two cards of equal rank.
func (h Hand) IsPair() bool {
	return len(h.cards) == 2 && h.cards[0].Rank == h.cards[1].Rank
}

// IsBlackjack returns true iff the hand is a natural two-card 21.
func (h Hand) IsBlackjack() bool {
	return len(h.cards) == 2 && h.Total() == 21
}

// IsBust returns true iff the hand's total exceeds 21.
func (h Hand) IsBust() bool {
	return h.Total() > 21
}

// Classification returns PAIR if IsPair, else SOFT if IsSoft, else HARD.
func (h Hand) Classification() Classification {
	switch {
	case h.IsPair():
		return Pair
	case h.IsSoft():
		return Soft
	default:
		return Hard
	}
}

// PairRank returns the rank shared by both cards and true, or (0, false) if
// the hand is not a pair.
func (h Hand) PairRank() (card.Rank, bool) {
	if !h.IsPair() {
		return 0, false
	}
	return h.cards[0].Rank, true
}

func (h Hand) String() string {
	s := ""
	for _, c := range h.cards {
		s += c.String() + " "
	}
	return fmt.Sprintf("%s(%d)", s, h.Total())
}
