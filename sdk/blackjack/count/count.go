// Package count implements the State Manager: it consumes observed cards and
// derives the running/true count and shoe penetration. It has no knowledge
// of player/dealer roles — callers must observe every physically revealed
// card, including the dealer's hole card, at the moment it is revealed.
package count

import "github.com/lox/blackjack-advisor/sdk/blackjack/card"

// Snapshot is an immutable view of the Manager's derived metrics at a point
// in time. Snapshots are always passed by value.
type Snapshot struct {
	RunningCount   int
	CardsSeen      int
	CardsRemaining int
	DecksRemaining float64
	TrueCount      float64
	Penetration    float64
}

const cardsPerDeck = 52

// Manager owns the running count and observed-card tally for one shoe.
// TotalCards is the shoe's total card count (num_decks * 52); Composition is
// the shoe's original per-value-bucket counts (2..11), used to derive
// RemainingByValue without keeping a second parallel structure.
type Manager struct {
	totalCards   int
	composition  map[int]int
	runningCount int
	cardsSeen    int
	observed     map[int]int
}

// New constructs a Manager for a shoe with totalCards cards and the given
// original per-value-bucket composition (bucket 10 covers T/J/Q/K, bucket 11
// is Ace).
func New(totalCards int, composition map[int]int) *Manager {
	return &Manager{
		totalCards:  totalCards,
		composition: composition,
		observed:    make(map[int]int, len(composition)),
	}
}

// Observe increments the running count by c's Hi-Lo tag and the observed
// tally. Must be called exactly once per physically revealed card.
func (m *Manager) Observe(c card.Card) {
	m.runningCount += c.HiLoTag()
	m.cardsSeen++
	m.observed[c.Rank.ValueBucket()]++
}

// ObserveMany observes each card in order.
func (m *Manager) ObserveMany(cards []card.Card) {
	for _, c := range cards {
		m.Observe(c)
	}
}

// Snapshot returns the current derived metrics. DecksRemaining is clamped to
// a minimum of 0.5 to prevent the true-count ratio from diverging late in
// the shoe.
func (m *Manager) Snapshot() Snapshot {
	remaining := m.totalCards - m.cardsSeen
	decksRemaining := float64(remaining) / cardsPerDeck
	if decksRemaining < 0.5 {
		decksRemaining = 0.5
	}
	return Snapshot{
		RunningCount:   m.runningCount,
		CardsSeen:      m.cardsSeen,
		CardsRemaining: remaining,
		DecksRemaining: decksRemaining,
		TrueCount:      float64(m.runningCount) / decksRemaining,
		Penetration:    float64(m.cardsSeen) / float64(m.totalCards),
	}
}

// Reset zeros the running count and observed tally, then advances
// cardsSeen by burn to model late entry: the player has not seen the burned
// cards (running count stays zero) but the shoe has been partially depleted
// (true-count dilution stays honest).
func (m *Manager) Reset(burn int) {
	m.runningCount = 0
	m.cardsSeen = burn
	m.observed = make(map[int]int, len(m.composition))
}

// RemainingByValue returns, for each point-value bucket 2..11, the number of
// cards of that value left in the shoe: the original composition minus the
// observed tally. Used only for the exact effect-of-removal estimator.
func (m *Manager) RemainingByValue() map[int]int {
	out := make(map[int]int, len(m.composition))
	for bucket, total := range m.composition {
		out[bucket] = total - m.observed[bucket]
	}
	return out
}

// DefaultComposition returns the per-value-bucket composition of a fresh
// shoe with the given number of decks: 4*numDecks cards per bucket 2..9,
// 16*numDecks in bucket 10 (T/J/Q/K), 4*numDecks Aces.
func DefaultComposition(numDecks int) map[int]int {
	comp := make(map[int]int, 10)
	for v := 2; v <= 9; v++ {
		comp[v] = 4 * numDecks
	}
	comp[10] = 16 * numDecks
	comp[11] = 4 * numDecks
	return comp
}
