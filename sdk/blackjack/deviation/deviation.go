// Package deviation implements the indexed collection of count-threshold
// strategy overrides: the Illustrious 18 playing deviations and the Fab 4
// surrender deviations, plus support for loading a user-supplied set from
// the external JSON format.
package deviation

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/lox/blackjack-advisor/sdk/blackjack/action"
	"github.com/lox/blackjack-advisor/sdk/blackjack/hand"
)

// Direction is the comparison direction for a deviation's threshold.
type Direction string

const (
	AtOrAbove Direction = "AT_OR_ABOVE"
	Below     Direction = "BELOW"
)

// Deviation is a single index-strategy override: at a hand classification,
// value, and dealer up-card, deviate from baseline once the true count
// crosses Threshold in Direction.
type Deviation struct {
	ID             string
	Classification hand.Classification
	HandValue      int
	DealerUp       int
	Threshold      float64
	Direction      Direction
	Action         action.Action
	Priority       int
}

// fires reports whether the deviation's predicate is satisfied by trueCount,
// after subtracting margin per the confidence-margin mechanism: margin
// always reduces the trueCount used for comparison, which makes AT_OR_ABOVE
// deviations fire less readily and BELOW deviations fire more readily. Both
// effects are the conservative direction (lean toward the less aggressive
// play under an uncertain count), so no further symmetry correction is
// applied.
func (d Deviation) fires(trueCount, margin float64) bool {
	adjusted := trueCount - margin
	switch d.Direction {
	case AtOrAbove:
		return adjusted >= d.Threshold
	case Below:
		return adjusted < d.Threshold
	default:
		return false
	}
}

type indexKey struct {
	classification hand.Classification
	handValue      int
	dealerUp       int
}

// Index is the Deviation Engine: a flat vector of deviations plus a
// composite-key index into priority-descending sub-lists.
type Index struct {
	all []Deviation
	idx map[indexKey][]Deviation
}

// NewIndex builds an Index from a set of deviations, sorting each bucket by
// descending priority so the highest-priority entry fires first.
func NewIndex(deviations []Deviation) *Index {
	idx := &Index{
		all: append([]Deviation(nil), deviations...),
		idx: make(map[indexKey][]Deviation),
	}
	for _, d := range deviations {
		k := indexKey{d.Classification, d.HandValue, d.DealerUp}
		idx.idx[k] = append(idx.idx[k], d)
	}
	for k := range idx.idx {
		bucket := idx.idx[k]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Priority > bucket[j].Priority
		})
		idx.idx[k] = bucket
	}
	return idx
}

// All returns every deviation held by the index, in load order.
func (idx *Index) All() []Deviation {
	return append([]Deviation(nil), idx.all...)
}

// Check looks up deviations for h's classification/value against dealerUp,
// restricted to SURRENDER-resulting deviations when restrictToSurrender is
// true, and returns the first (highest-priority) one whose predicate fires
// at trueCount with the given confidence margin.
func Check(idx *Index, h hand.Hand, dealerUp int, trueCount, margin float64, restrictToSurrender bool) (action.Action, string, bool) {
	handValue := h.Total()
	if h.IsPair() {
		if rank, ok := h.PairRank(); ok {
			handValue = rank.BlackjackValue()
			if rank.BlackjackValue() == 11 {
				handValue = 11
			}
		}
	}
	k := indexKey{h.Classification(), handValue, dealerUp}
	for _, d := range idx.idx[k] {
		if restrictToSurrender && d.Action != action.Surrender {
			continue
		}
		if !restrictToSurrender && d.Action == action.Surrender {
			continue
		}
		if d.fires(trueCount, margin) {
			return d.Action, d.ID, true
		}
	}
	return 0, "", false
}

// wireDeviation mirrors the external JSON format from the strategy/deviation
// external interfaces contract.
type wireDeviation struct {
	ID      string `json:"id"`
	Trigger struct {
		Type     string `json:"type"`
		Value    int    `json:"value"`
		Dealer   int    `json:"dealer"`
	} `json:"trigger"`
	Rule struct {
		Threshold float64 `json:"threshold"`
		Direction string  `json:"direction"`
		Action    string  `json:"action"`
	} `json:"rule"`
	Priority int `json:"priority"`
}

// LoadSetJSON parses the external ordered-list deviation-set format.
// Malformed entries (missing required field, unknown type/direction/action)
// are skipped and reported as warnings; well-formed entries are always
// returned even if some records were skipped.
func LoadSetJSON(r io.Reader) ([]Deviation, []error) {
	var wire []wireDeviation
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, []error{fmt.Errorf("decode deviation set: %w", err)}
	}

	var out []Deviation
	var warnings []error
	for i, w := range wire {
		d, err := w.toDeviation()
		if err != nil {
			warnings = append(warnings, fmt.Errorf("deviation[%d] %q: %w", i, w.ID, err))
			continue
		}
		out = append(out, d)
	}
	return out, warnings
}

func (w wireDeviation) toDeviation() (Deviation, error) {
	if w.ID == "" {
		return Deviation{}, fmt.Errorf("missing id")
	}
	var cls hand.Classification
	switch w.Trigger.Type {
	case "HARD":
		cls = hand.Hard
	case "SOFT":
		cls = hand.Soft
	case "PAIR":
		cls = hand.Pair
	default:
		return Deviation{}, fmt.Errorf("unknown trigger type %q", w.Trigger.Type)
	}

	var dir Direction
	switch w.Rule.Direction {
	case string(AtOrAbove):
		dir = AtOrAbove
	case string(Below):
		dir = Below
	default:
		return Deviation{}, fmt.Errorf("unknown direction %q", w.Rule.Direction)
	}

	act, ok := action.Parse(w.Rule.Action)
	if !ok {
		return Deviation{}, fmt.Errorf("unknown action %q", w.Rule.Action)
	}

	return Deviation{
		ID:             w.ID,
		Classification: cls,
		HandValue:      w.Trigger.Value,
		DealerUp:       w.Trigger.Dealer,
		Threshold:      w.Rule.Threshold,
		Direction:      dir,
		Action:         act,
		Priority:       w.Priority,
	}, nil
}
