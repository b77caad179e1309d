// Package betting implements the Betting Engine: rule-adjusted advantage
// sizing via fractional Kelly, with defensive cutoffs and spread caps.
package betting

import (
	"fmt"
	"math"

	"github.com/lox/blackjack-advisor/sdk/blackjack/advantage"
	"github.com/lox/blackjack-advisor/sdk/blackjack/rules"
)

const defaultVariance = 1.26

// Config holds the Betting Engine's own configuration, owned independently
// of Rules.
type Config struct {
	KellyFraction         float64
	Variance              float64
	MaxBettingPenetration float64
	MaxSpread             float64
	FlatBetting           bool
}

// DefaultConfig returns half-Kelly sizing with a conservative penetration
// cutoff and a 1:8 spread.
func DefaultConfig() Config {
	return Config{
		KellyFraction:         0.5,
		Variance:              defaultVariance,
		MaxBettingPenetration: 0.85,
		MaxSpread:             8,
		FlatBetting:           false,
	}
}

// Validate rejects a Config that cannot be used safely, per the InvalidRules
// error kind (spec: kelly_fraction must be in (0, 1]).
func (c Config) Validate() error {
	if c.KellyFraction <= 0 || c.KellyFraction > 1 {
		return fmt.Errorf("kelly_fraction must be in (0, 1], got %f", c.KellyFraction)
	}
	if c.Variance < 0 {
		return fmt.Errorf("variance cannot be negative, got %f", c.Variance)
	}
	if c.MaxBettingPenetration <= 0 || c.MaxBettingPenetration > 1 {
		return fmt.Errorf("max_betting_penetration must be in (0, 1], got %f", c.MaxBettingPenetration)
	}
	if c.MaxSpread <= 0 {
		return fmt.Errorf("max_spread must be > 0, got %f", c.MaxSpread)
	}
	return nil
}

// Engine computes wagers for a fixed set of table Rules and betting Config.
type Engine struct {
	Rules  rules.Rules
	Config Config
}

// New constructs a betting Engine.
func New(r rules.Rules, c Config) *Engine {
	return &Engine{Rules: r, Config: c}
}

// ComputeBet implements the seven-step wager algorithm verbatim, including
// the bankroll/table_max/max_spread invariants and two-decimal rounding.
func (e *Engine) ComputeBet(trueCount, bankroll, penetration float64) float64 {
	if bankroll < e.Rules.TableMin {
		return 0
	}
	if e.Config.FlatBetting {
		return e.Rules.TableMin
	}
	if penetration > e.Config.MaxBettingPenetration {
		return e.Rules.TableMin
	}

	adv := advantage.Linear(trueCount, e.Rules)

	variance := e.Config.Variance
	if variance <= 0 {
		variance = defaultVariance
	}
	f := 0.0
	if adv > 0 {
		f = e.Config.KellyFraction * adv / variance
	}

	raw := bankroll * f
	raw = clamp(raw, e.Rules.TableMin, e.Rules.TableMax)
	maxSpreadCap := e.Rules.TableMin * e.Config.MaxSpread
	if raw > maxSpreadCap {
		raw = maxSpreadCap
	}
	if raw > bankroll {
		raw = bankroll
	}

	if adv > 0 && raw < e.Rules.TableMin {
		return e.Rules.TableMin
	}
	return round2(raw)
}

// ShouldBet reports whether the model advantage at trueCount is positive.
func (e *Engine) ShouldBet(trueCount float64) bool {
	return advantage.Linear(trueCount, e.Rules) > 0
}

// ShouldWongOut reports whether trueCount has fallen below threshold,
// signaling the simulated player should leave the table.
func (e *Engine) ShouldWongOut(trueCount, threshold float64) bool {
	return trueCount < threshold
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
