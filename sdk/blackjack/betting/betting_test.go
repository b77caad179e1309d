package betting

import (
	"math"
	"testing"

	"github.com/lox/blackjack-advisor/sdk/blackjack/advantage"
	"github.com/lox/blackjack-advisor/sdk/blackjack/rules"
)

func TestValidateRejectsKellyFractionOutOfRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KellyFraction = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() with kelly_fraction = 0 should return an error")
	}

	cfg = DefaultConfig()
	cfg.KellyFraction = 1.01
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() with kelly_fraction > 1 should return an error")
	}

	cfg = DefaultConfig()
	cfg.KellyFraction = 1.0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with kelly_fraction = 1.0 = %v, want nil", err)
	}
}

func TestValidateRejectsNonPositiveMaxSpread(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSpread = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() with max_spread = 0 should return an error")
	}
}

func TestValidateRejectsMaxBettingPenetrationOutOfRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBettingPenetration = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() with max_betting_penetration > 1 should return an error")
	}
}

func TestValidateAcceptsDefaultConfig(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Validate() on DefaultConfig() = %v, want nil", err)
	}
}

func TestComputeBetZeroWhenBankrollBelowTableMin(t *testing.T) {
	r := rules.Default()
	e := New(r, DefaultConfig())
	if got := e.ComputeBet(5, r.TableMin-1, 0.1); got != 0 {
		t.Errorf("ComputeBet() = %f, want 0", got)
	}
}

func TestComputeBetFlatBettingReturnsTableMin(t *testing.T) {
	r := rules.Default()
	cfg := DefaultConfig()
	cfg.FlatBetting = true
	e := New(r, cfg)
	if got := e.ComputeBet(10, 100000, 0.1); got != r.TableMin {
		t.Errorf("ComputeBet() with flat betting = %f, want %f", got, r.TableMin)
	}
}

func TestComputeBetPenetrationCutoffReturnsTableMin(t *testing.T) {
	r := rules.Default()
	cfg := DefaultConfig()
	e := New(r, cfg)
	if got := e.ComputeBet(10, 100000, cfg.MaxBettingPenetration+0.01); got != r.TableMin {
		t.Errorf("ComputeBet() past the penetration cutoff = %f, want %f", got, r.TableMin)
	}
}

func TestComputeBetNegativeAdvantageReturnsTableMin(t *testing.T) {
	r := rules.Default()
	e := New(r, DefaultConfig())
	tc := advantage.BreakevenCount(r) - 1
	if got := e.ComputeBet(tc, 100000, 0.1); got != r.TableMin {
		t.Errorf("ComputeBet() at negative advantage = %f, want table min %f", got, r.TableMin)
	}
}

func TestComputeBetNeverExceedsBankroll(t *testing.T) {
	r := rules.Default()
	e := New(r, DefaultConfig())
	bankroll := r.TableMin + 5
	if got := e.ComputeBet(20, bankroll, 0.1); got > bankroll {
		t.Errorf("ComputeBet() = %f, exceeds bankroll %f", got, bankroll)
	}
}

func TestComputeBetNeverExceedsTableMax(t *testing.T) {
	r := rules.Default()
	e := New(r, DefaultConfig())
	if got := e.ComputeBet(50, 10_000_000, 0.1); got > r.TableMax {
		t.Errorf("ComputeBet() = %f, exceeds table_max %f", got, r.TableMax)
	}
}

func TestComputeBetNeverExceedsMaxSpread(t *testing.T) {
	r := rules.Default()
	cfg := DefaultConfig()
	e := New(r, cfg)
	spreadCap := r.TableMin * cfg.MaxSpread
	if got := e.ComputeBet(20, 10_000_000, 0.1); got > spreadCap {
		t.Errorf("ComputeBet() = %f, exceeds max_spread cap %f", got, spreadCap)
	}
}

func TestComputeBetIncreasesWithTrueCount(t *testing.T) {
	r := rules.Default()
	e := New(r, DefaultConfig())
	low := e.ComputeBet(1, 100000, 0.1)
	high := e.ComputeBet(10, 100000, 0.1)
	if high <= low {
		t.Errorf("ComputeBet(tc=10) = %f should exceed ComputeBet(tc=1) = %f", high, low)
	}
}

func TestShouldBetMatchesLinearSign(t *testing.T) {
	r := rules.Default()
	e := New(r, DefaultConfig())
	tc := advantage.BreakevenCount(r)
	if e.ShouldBet(tc - 1) {
		t.Error("ShouldBet() below breakeven should be false")
	}
	if !e.ShouldBet(tc + 1) {
		t.Error("ShouldBet() above breakeven should be true")
	}
}

// TestComputeBetScenarioS6HalfKellyBetCeiling exercises spec scenario S6:
// bankroll $10,000, true_count +10, S17/3:2/DAS/surrender rules (baseline
// edge 0.004), half-Kelly, variance 1.26, table_max $5,000, max_spread 100,
// table_min $10. advantage = 0.05 - 0.004 = 0.046; half-Kelly fraction =
// 0.5*0.046/1.26 ≈ 0.018254; raw bet = bankroll*fraction ≈ $182.54, well
// within every cap, so the returned bet is that raw value rounded to cents
// (the spec text's "≈ $183" is a rounded-to-the-dollar approximation of this
// same figure).
func TestComputeBetScenarioS6HalfKellyBetCeiling(t *testing.T) {
	r := rules.Default() // table_max 5000, table_min 10, S17/3:2/DAS/surrender
	cfg := DefaultConfig()
	cfg.MaxSpread = 100
	e := New(r, cfg)

	got := e.ComputeBet(10, 10000, 0.1)
	want := 182.54
	if math.Abs(got-want) > 0.01 {
		t.Errorf("ComputeBet(S6) = %f, want %f (±0.01)", got, want)
	}
}

// TestComputeBetScenarioS7DefensiveCutoff exercises spec scenario S7: the
// same call as S6 but at penetration 0.90, past the 0.85 default cutoff,
// which must return table_min regardless of the computed Kelly bet. At
// penetration exactly 0.85 (the cutoff boundary, not past it) the bet scales
// the same as S6's.
func TestComputeBetScenarioS7DefensiveCutoff(t *testing.T) {
	r := rules.Default()
	cfg := DefaultConfig()
	cfg.MaxSpread = 100
	e := New(r, cfg)

	if got, want := e.ComputeBet(10, 10000, 0.90), r.TableMin; got != want {
		t.Errorf("ComputeBet(S7, penetration=0.90) = %f, want table_min %f", got, want)
	}

	atBoundary := e.ComputeBet(10, 10000, 0.85)
	want := 182.54
	if math.Abs(atBoundary-want) > 0.01 {
		t.Errorf("ComputeBet(S7, penetration=0.85 exactly) = %f, want %f (±0.01), same as S6", atBoundary, want)
	}
}

func TestShouldWongOut(t *testing.T) {
	r := rules.Default()
	e := New(r, DefaultConfig())
	if !e.ShouldWongOut(0, 1) {
		t.Error("ShouldWongOut(tc=0, threshold=1) should be true")
	}
	if e.ShouldWongOut(2, 1) {
		t.Error("ShouldWongOut(tc=2, threshold=1) should be false")
	}
}
