// Package stats implements the rolling expectation/variance/drawdown
// accumulator the Simulation Driver updates after every settled hand.
package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack-advisor/sdk/blackjack/action"
)

// Outcome is the settlement result of one hand.
type Outcome int

const (
	Win Outcome = iota
	Loss
	Push
	Blackjack
	Surrendered
	Bust
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "WIN"
	case Loss:
		return "LOSS"
	case Push:
		return "PUSH"
	case Blackjack:
		return "BLACKJACK"
	case Surrendered:
		return "SURRENDER"
	case Bust:
		return "BUST"
	default:
		return "UNKNOWN"
	}
}

// HandStats is the per-hand settlement record the driver feeds into
// Aggregate.
type HandStats struct {
	Outcome          Outcome
	Bet              float64
	Payout           float64
	Net              float64
	Actions          []action.Action
	TrueCountAtStart float64
}

// BucketStats accumulates outcomes for one true-count bucket.
type BucketStats struct {
	Hands   int
	NetSum  float64
	WagerSum float64
}

// EVPercent returns this bucket's net profit as a percentage of total wager.
func (b BucketStats) EVPercent() float64 {
	if b.WagerSum == 0 {
		return 0
	}
	return b.NetSum / b.WagerSum * 100
}

// Aggregate is the rolling statistics accumulator: mean/variance/stddev/
// stderr, a rolling-peak max drawdown, and a true-count-bucketed breakdown.
// Adapted from the teacher lineage's statistics accumulator, generalized
// from per-hand BB units to per-hand blackjack bet units.
type Aggregate struct {
	hands        int
	totalWagered float64
	netProfit    float64
	evSum        float64
	evSumSq      float64

	peak        float64
	runningNet  float64
	maxDrawdown float64

	outcomeCounts map[Outcome]int
	byTrueCount   map[int]*BucketStats
}

// NewAggregate constructs an empty Aggregate.
func NewAggregate() *Aggregate {
	return &Aggregate{
		outcomeCounts: make(map[Outcome]int),
		byTrueCount:   make(map[int]*BucketStats),
	}
}

// Record folds one settled hand into the aggregate. ev is the hand's net
// result expressed as a fraction of the bet (net / bet), the sample used for
// standard-error computation.
func (a *Aggregate) Record(h HandStats) {
	a.hands++
	a.totalWagered += h.Bet
	a.netProfit += h.Net
	a.outcomeCounts[h.Outcome]++

	ev := 0.0
	if h.Bet != 0 {
		ev = h.Net / h.Bet
	}
	a.evSum += ev
	a.evSumSq += ev * ev

	a.runningNet += h.Net
	if a.runningNet > a.peak {
		a.peak = a.runningNet
	}
	if drawdown := a.peak - a.runningNet; drawdown > a.maxDrawdown {
		a.maxDrawdown = drawdown
	}

	bucket := int(math.Round(h.TrueCountAtStart))
	b, ok := a.byTrueCount[bucket]
	if !ok {
		b = &BucketStats{}
		a.byTrueCount[bucket] = b
	}
	b.Hands++
	b.NetSum += h.Net
	b.WagerSum += h.Bet
}

// Merge folds another Aggregate's totals into a, as if every hand recorded
// by other had been recorded by a directly. Used to combine the independent
// per-worker aggregates from a parallel Monte Carlo run into one report;
// drawdown is combined conservatively by taking the larger of the two,
// since the two workers' running-net series were never actually
// interleaved.
func (a *Aggregate) Merge(other *Aggregate) {
	if other == nil {
		return
	}
	a.hands += other.hands
	a.totalWagered += other.totalWagered
	a.netProfit += other.netProfit
	a.evSum += other.evSum
	a.evSumSq += other.evSumSq

	if other.maxDrawdown > a.maxDrawdown {
		a.maxDrawdown = other.maxDrawdown
	}

	for outcome, n := range other.outcomeCounts {
		a.outcomeCounts[outcome] += n
	}
	for bucket, b := range other.byTrueCount {
		dst, ok := a.byTrueCount[bucket]
		if !ok {
			dst = &BucketStats{}
			a.byTrueCount[bucket] = dst
		}
		dst.Hands += b.Hands
		dst.NetSum += b.NetSum
		dst.WagerSum += b.WagerSum
	}
}

// Hands returns the number of recorded hands.
func (a *Aggregate) Hands() int { return a.hands }

// TotalWagered returns the cumulative amount wagered.
func (a *Aggregate) TotalWagered() float64 { return a.totalWagered }

// NetProfit returns the cumulative net profit.
func (a *Aggregate) NetProfit() float64 { return a.netProfit }

// EVPercent returns net_profit / total_wagered * 100, the post-run summary
// metric.
func (a *Aggregate) EVPercent() float64 {
	if a.totalWagered == 0 {
		return 0
	}
	return a.netProfit / a.totalWagered * 100
}

// Mean returns the sample mean of per-hand EV (net/bet).
func (a *Aggregate) Mean() float64 {
	if a.hands == 0 {
		return 0
	}
	return a.evSum / float64(a.hands)
}

// Variance returns the population variance of per-hand EV (sum of squared
// deviations divided by n, not n-1); it is 0 for fewer than two hands.
func (a *Aggregate) Variance() float64 {
	if a.hands < 2 {
		return 0
	}
	mean := a.Mean()
	return a.evSumSq/float64(a.hands) - mean*mean
}

// StdDev returns the square root of Variance (the population standard
// deviation of per-hand EV).
func (a *Aggregate) StdDev() float64 {
	v := a.Variance()
	if v < 0 {
		v = 0
	}
	return math.Sqrt(v)
}

// StdError returns the standard error of the mean EV: stddev / sqrt(n).
func (a *Aggregate) StdError() float64 {
	if a.hands == 0 {
		return 0
	}
	return a.StdDev() / math.Sqrt(float64(a.hands))
}

// MaxDrawdown returns the largest peak-to-trough decline in cumulative net
// profit observed so far.
func (a *Aggregate) MaxDrawdown() float64 {
	return a.maxDrawdown
}

// WinRate returns the fraction of hands that resulted in WIN or BLACKJACK.
func (a *Aggregate) WinRate() float64 {
	if a.hands == 0 {
		return 0
	}
	wins := a.outcomeCounts[Win] + a.outcomeCounts[Blackjack]
	return float64(wins) / float64(a.hands)
}

// AverageBet returns total_wagered / hands.
func (a *Aggregate) AverageBet() float64 {
	if a.hands == 0 {
		return 0
	}
	return a.totalWagered / float64(a.hands)
}

// ByTrueCount returns the true-count-bucketed breakdown, keyed by the
// rounded true count at the start of each hand.
func (a *Aggregate) ByTrueCount() map[int]BucketStats {
	out := make(map[int]BucketStats, len(a.byTrueCount))
	for k, v := range a.byTrueCount {
		out[k] = *v
	}
	return out
}

// SortedTrueCountBuckets returns the ByTrueCount keys in ascending order, so
// callers can iterate deterministically for reporting.
func (a *Aggregate) SortedTrueCountBuckets() []int {
	keys := make([]int, 0, len(a.byTrueCount))
	for k := range a.byTrueCount {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Validate reports an error when the hand count or totalWagered is
// negative. Net profit is accumulated incrementally and is not re-checked
// against the individual hands.
func (a *Aggregate) Validate() error {
	if a.hands < 0 || a.totalWagered < 0 {
		return fmt.Errorf("stats: corrupt aggregate, hands=%d totalWagered=%f", a.hands, a.totalWagered)
	}
	return nil
}
