// Package engine implements the Strategy Engine: the surrender -> split ->
// deviation -> baseline pipeline that turns a hand, dealer up-card, and
// count snapshot into a playing decision.
package engine

import (
	"github.com/lox/blackjack-advisor/sdk/blackjack/action"
	"github.com/lox/blackjack-advisor/sdk/blackjack/count"
	"github.com/lox/blackjack-advisor/sdk/blackjack/deviation"
	"github.com/lox/blackjack-advisor/sdk/blackjack/hand"
	"github.com/lox/blackjack-advisor/sdk/blackjack/rules"
	"github.com/lox/blackjack-advisor/sdk/blackjack/strategy"
)

// DecisionResult is the full record of one decision, including the
// counterfactual baseline needed for ablation logging.
type DecisionResult struct {
	Action       action.Action
	Baseline     action.Action
	DeviationID  string
	TrueCount    float64
	Deviated     bool
}

// Engine owns the immutable baseline table and deviation index built at
// construction. It never mutates either after New returns.
type Engine struct {
	table      *strategy.Table
	deviations *deviation.Index
	margin     float64
}

// New constructs an Engine from a baseline table and deviation index. margin
// is the confidence buffer applied to every deviation comparison (spec
// default 0.0).
func New(table *strategy.Table, deviations *deviation.Index, margin float64) *Engine {
	return &Engine{table: table, deviations: deviations, margin: margin}
}

// Decide runs the six-step pipeline and returns the resulting DecisionResult.
// It is a pure function of its arguments plus the Engine's immutable
// construction-time state: no clocks, no randomness, no I/O. Same inputs
// always produce a bit-identical DecisionResult.
func (e *Engine) Decide(h hand.Hand, dealerUp int, snap count.Snapshot, r rules.Rules, useDeviations bool) DecisionResult {
	baseline := e.table.Lookup(h, dealerUp, r)

	if !useDeviations {
		return e.finalize(h, DecisionResult{Action: baseline, Baseline: baseline, TrueCount: snap.TrueCount})
	}

	if r.SurrenderAllowed && h.Len() == 2 {
		if act, id, ok := deviation.Check(e.deviations, h, dealerUp, snap.TrueCount, e.margin, true); ok {
			return e.finalize(h, DecisionResult{
				Action: act, Baseline: baseline, DeviationID: id,
				TrueCount: snap.TrueCount, Deviated: true,
			})
		}
	}

	if h.IsPair() {
		if act, id, ok := deviation.Check(e.deviations, h, dealerUp, snap.TrueCount, e.margin, false); ok && act == action.Split {
			return e.finalize(h, DecisionResult{
				Action: act, Baseline: baseline, DeviationID: id,
				TrueCount: snap.TrueCount, Deviated: true,
			})
		}
		if baseline == action.Split {
			return e.finalize(h, DecisionResult{Action: action.Split, Baseline: baseline, TrueCount: snap.TrueCount})
		}
	}

	if act, id, ok := deviation.Check(e.deviations, h, dealerUp, snap.TrueCount, e.margin, false); ok {
		return e.finalize(h, DecisionResult{
			Action: act, Baseline: baseline, DeviationID: id,
			TrueCount: snap.TrueCount, Deviated: true,
		})
	}

	return e.finalize(h, DecisionResult{Action: baseline, Baseline: baseline, TrueCount: snap.TrueCount})
}

// finalize applies the three post-decision validation/degradation rules.
func (e *Engine) finalize(h hand.Hand, d DecisionResult) DecisionResult {
	switch d.Action {
	case action.Double:
		if h.Len() > 2 {
			d.Action = action.Hit
		}
	case action.Split:
		if !h.IsPair() {
			d.Action = action.Hit
		}
	case action.Surrender:
		if h.Len() > 2 {
			d.Action = action.Hit
		}
	}
	return d
}
