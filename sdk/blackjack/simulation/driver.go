// Package simulation implements the Simulation Driver: a shoe-based Monte
// Carlo harness that drives the Strategy and Betting Engines through full
// hands and aggregates expectation, variance, and drawdown.
package simulation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/blackjack-advisor/internal/randutil"
	"github.com/lox/blackjack-advisor/internal/reporting"
	"github.com/lox/blackjack-advisor/internal/session"
	"github.com/lox/blackjack-advisor/sdk/blackjack/action"
	"github.com/lox/blackjack-advisor/sdk/blackjack/betting"
	"github.com/lox/blackjack-advisor/sdk/blackjack/card"
	"github.com/lox/blackjack-advisor/sdk/blackjack/count"
	"github.com/lox/blackjack-advisor/sdk/blackjack/engine"
	"github.com/lox/blackjack-advisor/sdk/blackjack/hand"
	"github.com/lox/blackjack-advisor/sdk/blackjack/rules"
	"github.com/lox/blackjack-advisor/sdk/blackjack/shoe"
	"github.com/lox/blackjack-advisor/sdk/blackjack/stats"
)

// Driver owns exactly one shoe, one State Manager, one bankroll, and one
// statistics aggregate. It is the only component holding mutable state;
// independent instances (distinct seeds, disjoint state) may be run in
// parallel, but nothing within one Driver is safe for concurrent access.
type Driver struct {
	shoe    *shoe.Shoe
	manager *count.Manager
	rules   rules.Rules
	config  Config

	engine  *engine.Engine
	betting *betting.Engine

	rng      *rand.Rand
	handIDs  *session.HandIDGenerator
	sessionID string

	bankroll     float64
	stats        *stats.Aggregate
	handsSkipped int
	handsInShoe  int

	recorder reporting.HandRecorder

	clock     quartz.Clock
	startedAt time.Time
}

// New constructs a Driver. seed fully determines the shoe shuffle order,
// the late-entry burn draws, and the hand-id stream: identical seed and
// Config reproduce byte-identical statistics and flight-recorder records
// that differ only in session_id, which is a fresh random UUID per Driver.
func New(r rules.Rules, cfg Config, eng *engine.Engine, bet *betting.Engine, seed int64, recorder reporting.HandRecorder) *Driver {
	return newDriver(r, cfg, eng, bet, seed, recorder, quartz.NewReal())
}

// newDriver is the test seam: it accepts an injectable quartz.Clock so tests
// can advance wall-clock time deterministically with quartz.NewMock instead
// of sleeping on the real one.
func newDriver(r rules.Rules, cfg Config, eng *engine.Engine, bet *betting.Engine, seed int64, recorder reporting.HandRecorder, clock quartz.Clock) *Driver {
	rng := randutil.New(seed)
	comp := count.DefaultComposition(r.NumDecks)
	totalCards := r.NumDecks * 52

	d := &Driver{
		shoe:      shoe.New(r.NumDecks, rng),
		manager:   count.New(totalCards, comp),
		rules:     r,
		config:    cfg,
		engine:    eng,
		betting:   bet,
		rng:       rng,
		handIDs:   session.NewHandIDGenerator(rng),
		sessionID: session.NewSessionID(),
		bankroll:  cfg.InitialBankroll,
		stats:     stats.NewAggregate(),
		recorder:  recorder,
		clock:     clock,
		startedAt: clock.Now(),
	}
	d.betting.Config.FlatBetting = cfg.BettingStrategy == Flat
	return d
}

// Duration returns the wall-clock time elapsed since the Driver was
// constructed, for reporting hands-per-second in the run summary.
func (d *Driver) Duration() time.Duration {
	return d.clock.Now().Sub(d.startedAt)
}

// Stats returns the driver's rolling statistics aggregate.
func (d *Driver) Stats() *stats.Aggregate { return d.stats }

// HandsSkipped returns the number of hands skipped by simulated table hops
// (wonging out).
func (d *Driver) HandsSkipped() int { return d.handsSkipped }

// Bankroll returns the driver's current bankroll.
func (d *Driver) Bankroll() float64 { return d.bankroll }

// Run plays up to hands hands, stopping early if the bankroll is exhausted
// or ctx is cancelled between hands. context.Context is honored only
// between hands — there is no mid-hand suspension point.
func (d *Driver) Run(ctx context.Context, hands int) error {
	for i := 0; i < hands; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		cont, err := d.playHand()
		if err != nil {
			return fmt.Errorf("hand %d: %w", i, err)
		}
		if !cont {
			return nil
		}
	}
	return nil
}

func (d *Driver) maybeShuffleAndBurn() {
	if d.shoe.NeedsShuffle(d.rules.Penetration) {
		d.shoe.Shuffle()
		d.manager.Reset(0)
		d.handsInShoe = 0
		d.applyLateEntry()
	}
}

func (d *Driver) applyLateEntry() {
	if !d.config.SimulateLateEntry {
		return
	}
	maxBurn := int(d.config.LateEntryMaxPen * float64(d.shoe.Total()))
	if maxBurn <= 0 {
		return
	}
	burn := d.rng.IntN(maxBurn + 1)
	d.shoe.Burn(burn)
	d.manager.Reset(burn)
}

// playHand runs one full hand per the per-hand protocol and state machine.
// It returns false if the simulation should stop (bankroll exhausted).
func (d *Driver) playHand() (bool, error) {
	// Step 1: penetration cut + optional late entry.
	d.maybeShuffleAndBurn()

	// Step 2: wonging.
	for {
		snap := d.manager.Snapshot()
		if d.config.WongOutEnabled && d.handsInShoe > 0 && d.handsInShoe >= d.config.MinHandsPerShoe &&
			snap.TrueCount < d.config.WongOutThreshold {
			d.handsSkipped++
			d.shoe.Shuffle()
			d.manager.Reset(0)
			d.handsInShoe = 0
			d.applyLateEntry()
			continue
		}
		break
	}

	snap := d.manager.Snapshot()
	bettingTrueCount := snap.TrueCount
	if !d.config.UseCounting {
		bettingTrueCount = 0
	}

	// Step 3: wager.
	bet := d.computeBet(bettingTrueCount, snap.Penetration)
	if bet <= 0 {
		return false, nil
	}
	if bet > d.bankroll {
		bet = d.bankroll
	}
	if bet <= 0 {
		return false, nil
	}
	d.handsInShoe++

	// Step 4: deal.
	playerCards, err := d.dealN(2)
	if err != nil {
		return false, err
	}
	dealerUpCard, err := d.deal()
	if err != nil {
		return false, err
	}
	dealerHole, err := d.deal()
	if err != nil {
		return false, err
	}

	playerHand, err := hand.New(playerCards...)
	if err != nil {
		return false, err
	}
	d.manager.ObserveMany(playerCards)
	d.manager.Observe(dealerUpCard)

	dealerUp := dealerUpCard.BlackjackValue()
	firstSnap := d.manager.Snapshot()

	var decision engine.DecisionResult
	var firstTotal int
	haveFirstDecision := false
	recordDecision := func(r engine.DecisionResult, total int) {
		if !haveFirstDecision {
			decision = r
			firstTotal = total
			haveFirstDecision = true
		}
	}

	// Step 5: naturals.
	if playerHand.IsBlackjack() {
		d.manager.Observe(dealerHole)
		dealerHand, err := hand.New(dealerUpCard, dealerHole)
		if err != nil {
			return false, err
		}
		if dealerHand.IsBlackjack() {
			return d.settle(bet, stats.Push, 0, firstSnap.TrueCount, engine.DecisionResult{}, dealerUp, playerHand.Total(), nil)
		}
		payout := bet * d.rules.BlackjackPayout
		return d.settle(bet, stats.Blackjack, payout, firstSnap.TrueCount, engine.DecisionResult{}, dealerUp, playerHand.Total(), nil)
	}

	currentBet := bet
	actions := make([]action.Action, 0, 4)

	// Step 6: play loop.
	for {
		act := d.engine.Decide(playerHand, dealerUp, d.manager.Snapshot(), d.rules, d.config.UseDeviations)
		recordDecision(act, playerHand.Total())
		actions = append(actions, act.Action)

		switch act.Action {
		case action.Stand:
			goto dealerTurn
		case action.Hit:
			c, err := d.deal()
			if err != nil {
				return false, err
			}
			d.manager.Observe(c)
			playerHand, err = playerHand.Add(c)
			if err != nil {
				return false, err
			}
			if playerHand.IsBust() {
				return d.settle(currentBet, stats.Bust, -currentBet, firstSnap.TrueCount, decision, dealerUp, firstTotal, actions)
			}
		case action.Double:
			currentBet *= 2
			c, err := d.deal()
			if err != nil {
				return false, err
			}
			d.manager.Observe(c)
			playerHand, err = playerHand.Add(c)
			if err != nil {
				return false, err
			}
			if playerHand.IsBust() {
				return d.settle(currentBet, stats.Bust, -currentBet, firstSnap.TrueCount, decision, dealerUp, firstTotal, actions)
			}
			goto dealerTurn
		case action.Surrender:
			d.manager.Observe(dealerHole)
			return d.settle(currentBet, stats.Surrendered, -currentBet/2, firstSnap.TrueCount, decision, dealerUp, firstTotal, actions)
		case action.Split:
			// Single-split approximation: deal and observe one card and
			// continue the same hand as if HIT. True multi-hand split
			// settlement is out of scope for the validation harness.
			c, err := d.deal()
			if err != nil {
				return false, err
			}
			d.manager.Observe(c)
			playerHand, err = playerHand.Add(c)
			if err != nil {
				return false, err
			}
			if playerHand.IsBust() {
				return d.settle(currentBet, stats.Bust, -currentBet, firstSnap.TrueCount, decision, dealerUp, firstTotal, actions)
			}
		}
	}

dealerTurn:
	// Step 7: reveal + dealer draws.
	d.manager.Observe(dealerHole)
	dealerHand, err := hand.New(dealerUpCard, dealerHole)
	if err != nil {
		return false, err
	}
	for dealerShouldHit(dealerHand, d.rules) {
		c, err := d.deal()
		if err != nil {
			return false, err
		}
		d.manager.Observe(c)
		dealerHand, err = dealerHand.Add(c)
		if err != nil {
			return false, err
		}
	}

	// Step 8: settle.
	switch {
	case dealerHand.IsBust():
		return d.settle(currentBet, stats.Win, currentBet, firstSnap.TrueCount, decision, dealerUp, firstTotal, actions)
	case playerHand.Total() > dealerHand.Total():
		return d.settle(currentBet, stats.Win, currentBet, firstSnap.TrueCount, decision, dealerUp, firstTotal, actions)
	case playerHand.Total() == dealerHand.Total():
		return d.settle(currentBet, stats.Push, 0, firstSnap.TrueCount, decision, dealerUp, firstTotal, actions)
	default:
		return d.settle(currentBet, stats.Loss, -currentBet, firstSnap.TrueCount, decision, dealerUp, firstTotal, actions)
	}
}

// dealerShouldHit implements the dealer's fixed drawing rule: hit while
// total < 17, and on soft 17 hit only if the rules specify H17.
func dealerShouldHit(h hand.Hand, r rules.Rules) bool {
	total := h.Total()
	if total < 17 {
		return true
	}
	if total == 17 && h.IsSoft() && !r.DealerStandsSoft17 {
		return true
	}
	return false
}

func (d *Driver) computeBet(trueCount, penetration float64) float64 {
	return d.betting.ComputeBet(trueCount, d.bankroll, penetration)
}

func (d *Driver) deal() (card.Card, error) {
	return d.shoe.Deal()
}

func (d *Driver) dealN(n int) ([]card.Card, error) {
	cards := make([]card.Card, 0, n)
	for i := 0; i < n; i++ {
		c, err := d.shoe.Deal()
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func (d *Driver) settle(bet float64, outcome stats.Outcome, net, trueCountAtStart float64, decision engine.DecisionResult, dealerUp, playerTotal int, actions []action.Action) (bool, error) {
	d.bankroll += net
	d.stats.Record(stats.HandStats{
		Outcome:          outcome,
		Bet:              bet,
		Payout:           bet + net,
		Net:              net,
		Actions:          actions,
		TrueCountAtStart: trueCountAtStart,
	})

	if d.config.LogJSON && d.recorder != nil {
		var devID *string
		if decision.DeviationID != "" {
			id := decision.DeviationID
			devID = &id
		}
		trace := reporting.HandTrace{
			SessionID: d.sessionID,
			ConfigID:  d.config.ConfigID,
			HandID:    d.handIDs.Next(),
			ShoeState: reporting.ShoeState{
				CardsRemaining: d.shoe.Remaining(),
				TrueCount:      roundTo2(trueCountAtStart),
			},
			Decision: reporting.DecisionContext{
				PlayerTotal:    playerTotal,
				DealerUp:       dealerUpString(dealerUp),
				ActionTaken:    decision.Action.String(),
				BaselineAction: decision.Baseline.String(),
				DeviationID:    devID,
				TrueCount:      trueCountAtStart,
				Deviated:       decision.Deviated,
			},
			Outcome: reporting.OutcomeRecord{
				PnL:    roundTo2(net),
				Result: outcome.String(),
			},
		}
		if err := d.recorder.Record(trace); err != nil {
			return false, fmt.Errorf("record hand trace: %w", err)
		}
	}

	return d.bankroll >= d.rules.TableMin, nil
}

func dealerUpString(v int) string {
	if v == 11 {
		return "A"
	}
	return fmt.Sprintf("%d", v)
}

func roundTo2(v float64) float64 {
	return float64(int(v*100+sign(v)*0.5)) / 100
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
