package count

import (
	"testing"

	"github.com/lox/blackjack-advisor/sdk/blackjack/card"
)

func TestObserveUpdatesRunningCount(t *testing.T) {
	m := New(52, DefaultComposition(1))
	m.Observe(card.New(card.Two, card.Spades))
	m.Observe(card.New(card.King, card.Hearts))
	m.Observe(card.New(card.Seven, card.Clubs))

	snap := m.Snapshot()
	if snap.RunningCount != 0 {
		t.Errorf("RunningCount = %d, want 0 (one low, one neutral, one high card)", snap.RunningCount)
	}
	if snap.CardsSeen != 3 {
		t.Errorf("CardsSeen = %d, want 3", snap.CardsSeen)
	}
}

func TestTrueCountDividesByDecksRemaining(t *testing.T) {
	m := New(104, DefaultComposition(2))
	for i := 0; i < 52; i++ {
		m.Observe(card.New(card.Two, card.Spades))
	}
	snap := m.Snapshot()
	if snap.DecksRemaining != 1 {
		t.Fatalf("DecksRemaining = %f, want 1", snap.DecksRemaining)
	}
	if snap.TrueCount != float64(snap.RunningCount) {
		t.Errorf("TrueCount = %f, want %f (1 deck remaining)", snap.TrueCount, float64(snap.RunningCount))
	}
}

func TestDecksRemainingClampedAtHalf(t *testing.T) {
	m := New(52, DefaultComposition(1))
	for i := 0; i < 50; i++ {
		m.Observe(card.New(card.Two, card.Spades))
	}
	snap := m.Snapshot()
	if snap.DecksRemaining != 0.5 {
		t.Errorf("DecksRemaining = %f, want clamped to 0.5", snap.DecksRemaining)
	}
}

func TestResetModelsLateEntryBurn(t *testing.T) {
	m := New(312, DefaultComposition(6))
	m.Observe(card.New(card.King, card.Spades))
	m.Reset(100)

	snap := m.Snapshot()
	if snap.RunningCount != 0 {
		t.Errorf("RunningCount after Reset = %d, want 0", snap.RunningCount)
	}
	if snap.CardsSeen != 100 {
		t.Errorf("CardsSeen after Reset(100) = %d, want 100", snap.CardsSeen)
	}
	if snap.CardsRemaining != 212 {
		t.Errorf("CardsRemaining after Reset(100) = %d, want 212", snap.CardsRemaining)
	}
}

func TestRemainingByValue(t *testing.T) {
	m := New(52, DefaultComposition(1))
	m.Observe(card.New(card.Ten, card.Spades))
	m.Observe(card.New(card.Jack, card.Hearts))

	remaining := m.RemainingByValue()
	if got, want := remaining[10], 14; got != want {
		t.Errorf("remaining[10] = %d, want %d (16 - 2 observed)", got, want)
	}
	if got, want := remaining[11], 4; got != want {
		t.Errorf("remaining[11] = %d, want %d (untouched)", got, want)
	}
}

func TestDefaultCompositionScalesByDeckCount(t *testing.T) {
	comp := DefaultComposition(6)
	if comp[2] != 24 {
		t.Errorf("comp[2] = %d, want 24 (4*6)", comp[2])
	}
	if comp[10] != 96 {
		t.Errorf("comp[10] = %d, want 96 (16*6)", comp[10])
	}
	if comp[11] != 24 {
		t.Errorf("comp[11] = %d, want 24 (4*6)", comp[11])
	}
}
