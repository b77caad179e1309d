// Package shoe implements the Simulation Driver's dealing shoe: an
// N-deck, seeded, Fisher-Yates shuffled sequence of cards with a
// penetration-tracking index pointer.
package shoe

import (
	"errors"
	"math/rand/v2"

	"github.com/lox/blackjack-advisor/sdk/blackjack/card"
)

// ErrEmpty is returned by Deal when the shoe has no cards left.
var ErrEmpty = errors.New("shoe: empty")

// Shoe is a finite, ordered sequence of Cards with an index pointer,
// owned exclusively by one Simulation Driver instance.
type Shoe struct {
	numDecks int
	cards    []card.Card
	pos      int
	rng      *rand.Rand
}

// New builds a Shoe of numDecks*52 cards (every rank/suit combination
// repeated numDecks times) and shuffles it with rng.
func New(numDecks int, rng *rand.Rand) *Shoe {
	s := &Shoe{numDecks: numDecks, rng: rng}
	s.cards = make([]card.Card, 0, numDecks*52)
	for d := 0; d < numDecks; d++ {
		for _, suit := range card.AllSuits {
			for _, r := range card.AllRanks {
				s.cards = append(s.cards, card.New(r, suit))
			}
		}
	}
	s.Shuffle()
	return s
}

// Total returns the shoe's total card count (num_decks * 52).
func (s *Shoe) Total() int {
	return len(s.cards)
}

// Remaining returns the number of cards left to deal.
func (s *Shoe) Remaining() int {
	return len(s.cards) - s.pos
}

// Deal returns the next card and advances the pointer. Once the shoe is
// exhausted, Deal returns ErrEmpty; the driver treats this as fatal.
func (s *Shoe) Deal() (card.Card, error) {
	if s.pos >= len(s.cards) {
		return card.Card{}, ErrEmpty
	}
	c := s.cards[s.pos]
	s.pos++
	return c, nil
}

// Burn silently advances the pointer by n cards (clamped to the shoe's
// length) without returning them, modeling an unobserved late-entry burn.
func (s *Shoe) Burn(n int) {
	s.pos += n
	if s.pos > len(s.cards) {
		s.pos = len(s.cards)
	}
}

// NeedsShuffle reports whether the shoe's pointer has crossed the
// penetration cut.
func (s *Shoe) NeedsShuffle(cutPenetration float64) bool {
	if len(s.cards) == 0 {
		return true
	}
	return float64(s.pos)/float64(len(s.cards)) >= cutPenetration
}

// Shuffle re-shuffles every card in place via Fisher-Yates and resets the
// pointer to the start.
func (s *Shoe) Shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
	s.pos = 0
}
