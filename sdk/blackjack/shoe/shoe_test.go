package shoe

import (
	"math/rand/v2"
	"testing"

	"github.com/lox/blackjack-advisor/internal/randutil"
)

func TestNewBuildsFullShoe(t *testing.T) {
	s := New(6, randutil.New(1))
	if got, want := s.Total(), 6*52; got != want {
		t.Errorf("Total() = %d, want %d", got, want)
	}
	if got := s.Remaining(); got != s.Total() {
		t.Errorf("Remaining() = %d, want %d (fresh shoe)", got, s.Total())
	}
}

func TestDealDecrementsRemaining(t *testing.T) {
	s := New(1, randutil.New(1))
	if _, err := s.Deal(); err != nil {
		t.Fatalf("Deal() error: %v", err)
	}
	if got, want := s.Remaining(), 51; got != want {
		t.Errorf("Remaining() after one deal = %d, want %d", got, want)
	}
}

func TestDealExhaustsWithErrEmpty(t *testing.T) {
	s := New(1, randutil.New(1))
	for i := 0; i < 52; i++ {
		if _, err := s.Deal(); err != nil {
			t.Fatalf("Deal() #%d unexpectedly failed: %v", i, err)
		}
	}
	if _, err := s.Deal(); err != ErrEmpty {
		t.Errorf("Deal() on an exhausted shoe = %v, want ErrEmpty", err)
	}
}

func TestBurnAdvancesPosition(t *testing.T) {
	s := New(2, randutil.New(1))
	s.Burn(20)
	if got, want := s.Remaining(), 2*52-20; got != want {
		t.Errorf("Remaining() after Burn(20) = %d, want %d", got, want)
	}
}

func TestNeedsShuffle(t *testing.T) {
	s := New(1, randutil.New(1))
	if s.NeedsShuffle(0.75) {
		t.Error("a fresh shoe should not need a shuffle")
	}
	for i := 0; i < 40; i++ {
		if _, err := s.Deal(); err != nil {
			t.Fatalf("Deal() error: %v", err)
		}
	}
	if !s.NeedsShuffle(0.75) {
		t.Error("a shoe dealt past the cut card should need a shuffle")
	}
}

func TestShuffleResetsPositionAndPreservesComposition(t *testing.T) {
	s := New(1, randutil.New(1))
	s.Deal()
	s.Deal()
	s.Shuffle()
	if got := s.Remaining(); got != s.Total() {
		t.Errorf("Remaining() after Shuffle() = %d, want %d", got, s.Total())
	}
}

func TestNewProducesDifferentOrdersForDifferentSeeds(t *testing.T) {
	a := New(1, rand.New(rand.NewPCG(1, 1)))
	b := New(1, rand.New(rand.NewPCG(2, 2)))

	same := true
	for i := 0; i < a.Total(); i++ {
		ca, _ := a.Deal()
		cb, _ := b.Deal()
		if ca != cb {
			same = false
			break
		}
	}
	if same {
		t.Error("two shoes built from different seeds should not produce an identical deal order")
	}
}
