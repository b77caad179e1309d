package simulation

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/blackjack-advisor/internal/reporting"
	"github.com/lox/blackjack-advisor/sdk/blackjack/betting"
	"github.com/lox/blackjack-advisor/sdk/blackjack/deviation"
	"github.com/lox/blackjack-advisor/sdk/blackjack/engine"
	"github.com/lox/blackjack-advisor/sdk/blackjack/rules"
	"github.com/lox/blackjack-advisor/sdk/blackjack/strategy"
)

func newTestDriver(t *testing.T, seed int64, cfg Config) *Driver {
	t.Helper()
	r := rules.Default()
	eng := engine.New(strategy.Empty(), deviation.NewIndex(deviation.StandardSet()), 0)
	bet := betting.New(r, betting.DefaultConfig())
	if cfg.InitialBankroll == 0 {
		cfg.InitialBankroll = 10000
	}
	return New(r, cfg, eng, bet, seed, reporting.NullRecorder{})
}

func TestRunPlaysRequestedHandsWithAmpleBankroll(t *testing.T) {
	d := newTestDriver(t, 1, Config{UseCounting: true, UseDeviations: true})
	if err := d.Run(context.Background(), 200); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := d.Stats().Hands(); got != 200 {
		t.Errorf("Hands() = %d, want 200", got)
	}
}

func TestRunIsDeterministicForAFixedSeed(t *testing.T) {
	cfg := Config{UseCounting: true, UseDeviations: true}
	a := newTestDriver(t, 42, cfg)
	b := newTestDriver(t, 42, cfg)

	if err := a.Run(context.Background(), 100); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if err := b.Run(context.Background(), 100); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if a.Stats().Hands() != b.Stats().Hands() {
		t.Errorf("hands = %d, want %d (same seed should replay identically)", a.Stats().Hands(), b.Stats().Hands())
	}
	if a.Stats().NetProfit() != b.Stats().NetProfit() {
		t.Errorf("net profit = %f, want %f (same seed should replay identically)", a.Stats().NetProfit(), b.Stats().NetProfit())
	}
	if a.Bankroll() != b.Bankroll() {
		t.Errorf("bankroll = %f, want %f (same seed should replay identically)", a.Bankroll(), b.Bankroll())
	}
}

func TestRunDifferentSeedsDiverge(t *testing.T) {
	cfg := Config{UseCounting: true, UseDeviations: true}
	a := newTestDriver(t, 1, cfg)
	b := newTestDriver(t, 2, cfg)

	if err := a.Run(context.Background(), 300); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if err := b.Run(context.Background(), 300); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if a.Bankroll() == b.Bankroll() && a.Stats().NetProfit() == b.Stats().NetProfit() {
		t.Error("two different seeds produced an identical outcome, which is not credible over 300 hands")
	}
}

func TestRunStopsWhenBankrollExhausted(t *testing.T) {
	cfg := Config{InitialBankroll: 20, BettingStrategy: Flat}
	r := rules.Default()
	eng := engine.New(strategy.Empty(), deviation.NewIndex(deviation.StandardSet()), 0)
	betCfg := betting.DefaultConfig()
	betCfg.FlatBetting = true
	bet := betting.New(r, betCfg)
	d := New(r, cfg, eng, bet, 7, reporting.NullRecorder{})

	if err := d.Run(context.Background(), 100000); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := d.Stats().Hands(); got == 0 {
		t.Error("expected at least one hand before bankroll exhaustion")
	}
	if d.Bankroll() >= r.TableMin {
		t.Errorf("Run() stopped with bankroll %f still able to cover table min %f", d.Bankroll(), r.TableMin)
	}
}

func TestRunHonorsCancelledContextBetweenHands(t *testing.T) {
	d := newTestDriver(t, 1, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := d.Run(ctx, 10); err == nil {
		t.Error("Run() with an already-cancelled context should return an error")
	}
}

func TestHandsSkippedTracksWongOuts(t *testing.T) {
	cfg := Config{
		UseCounting:      true,
		WongOutEnabled:   true,
		WongOutThreshold: 100, // impossibly high: every shoe is wonged out after its first hand
		MinHandsPerShoe:  0,
	}
	d := newTestDriver(t, 1, cfg)
	if err := d.Run(context.Background(), 50); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if d.HandsSkipped() == 0 {
		t.Error("expected HandsSkipped() > 0 with an unreachable wong-out threshold")
	}
}

func TestDurationAdvancesWithInjectedClock(t *testing.T) {
	mock := quartz.NewMock(t)
	r := rules.Default()
	eng := engine.New(strategy.Empty(), deviation.NewIndex(deviation.StandardSet()), 0)
	bet := betting.New(r, betting.DefaultConfig())
	cfg := Config{InitialBankroll: 10000}
	d := newDriver(r, cfg, eng, bet, 1, reporting.NullRecorder{}, mock)

	if got := d.Duration(); got != 0 {
		t.Errorf("Duration() immediately after construction = %v, want 0", got)
	}

	mock.Advance(5 * time.Second).MustWait(context.Background())
	if got, want := d.Duration(), 5*time.Second; got != want {
		t.Errorf("Duration() after advancing the mock clock = %v, want %v", got, want)
	}
}
