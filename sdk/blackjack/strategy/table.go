// Package strategy implements the baseline strategy lookup: an O(1)
// composite-key table mapping hand classification and dealer up-card to an
// action token, resolved against Rules at lookup time.
package strategy

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lox/blackjack-advisor/sdk/blackjack/action"
	"github.com/lox/blackjack-advisor/sdk/blackjack/hand"
	"github.com/lox/blackjack-advisor/sdk/blackjack/rules"
)

// Table is the baseline strategy lookup, loaded once at engine
// initialization and never mutated afterward.
type Table struct {
	metadata map[string]string
	entries  map[string]BaselineAction

	onMissing func(key string)
	warned    map[string]struct{}
}

// OnMissing registers a callback invoked the first time a given composite
// key falls through to the default chart. Guarded by a plain map rather
// than sync.Once-per-key: the Strategy Engine is single-threaded, per the
// concurrency model, so no locking is required.
func (t *Table) OnMissing(f func(key string)) {
	t.onMissing = f
}

// Empty returns a Table with no entries, so every lookup falls straight
// through to the hand-coded default chart. Useful when no external
// strategy-table document is supplied.
func Empty() *Table {
	return &Table{entries: make(map[string]BaselineAction)}
}

// wireTable mirrors the external strategy-table document format: a
// metadata section plus a tables section mapping composite keys to action
// tokens.
type wireTable struct {
	Metadata map[string]string `json:"metadata"`
	Tables   map[string]string `json:"tables"`
}

// LoadJSON parses a strategy-table document. Unknown action tokens are
// rejected outright — a strategy document with a typo'd token must fail
// loudly at startup, not silently degrade per-hand.
func LoadJSON(r io.Reader) (*Table, error) {
	var wire wireTable
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode strategy table: %w", err)
	}

	entries := make(map[string]BaselineAction, len(wire.Tables))
	for key, tok := range wire.Tables {
		b, err := parseToken(tok)
		if err != nil {
			return nil, fmt.Errorf("strategy table entry %q: %w", key, err)
		}
		entries[key] = b
	}

	return &Table{metadata: wire.Metadata, entries: entries}, nil
}

// classificationLetter returns the single-letter classification token used
// by the composite key format.
func classificationLetter(c hand.Classification) string {
	switch c {
	case hand.Hard:
		return "H"
	case hand.Soft:
		return "S"
	case hand.Pair:
		return "P"
	default:
		return "?"
	}
}

// handKeyValue returns the hand-value component of the composite key: the
// total for HARD/SOFT, the paired rank's blackjack value for PAIR.
func handKeyValue(h hand.Hand) int {
	if rank, ok := h.PairRank(); ok {
		return rank.BlackjackValue()
	}
	return h.Total()
}

// paddedKey builds the primary composite key: the dealer-up component is
// always zero-padded to two digits, but the hand-value component is
// zero-padded only for PAIR hands (keyed by paired rank) — H/S totals are
// left unpadded, per the document's key format.
func paddedKey(c hand.Classification, value, dealerUp int) string {
	if c == hand.Pair {
		return fmt.Sprintf("%s_%02d:%02d", classificationLetter(c), value, dealerUp)
	}
	return fmt.Sprintf("%s_%d:%02d", classificationLetter(c), value, dealerUp)
}

func unpaddedKey(c hand.Classification, value, dealerUp int) string {
	return fmt.Sprintf("%s_%d:%d", classificationLetter(c), value, dealerUp)
}

// Lookup resolves the baseline Action for h against dealerUp under r. It
// tries the zero-padded key, then the un-padded key, then falls back to the
// hand-coded default chart.
func (t *Table) Lookup(h hand.Hand, dealerUp int, r rules.Rules) action.Action {
	cls := h.Classification()
	value := handKeyValue(h)

	if b, ok := t.entries[paddedKey(cls, value, dealerUp)]; ok {
		return b.Resolve(r, h.Total(), h.Len())
	}
	if b, ok := t.entries[unpaddedKey(cls, value, dealerUp)]; ok {
		return b.Resolve(r, h.Total(), h.Len())
	}

	if t.onMissing != nil {
		key := paddedKey(cls, value, dealerUp)
		if t.warned == nil {
			t.warned = make(map[string]struct{})
		}
		if _, seen := t.warned[key]; !seen {
			t.warned[key] = struct{}{}
			t.onMissing(key)
		}
	}
	return defaultChart(h, dealerUp, r)
}

// MissingKeys reports, for diagnostic/logging purposes, whether h/dealerUp
// would fall through to the hand-coded default chart under this table.
func (t *Table) MissingKeys(h hand.Hand, dealerUp int) (string, bool) {
	cls := h.Classification()
	value := handKeyValue(h)
	padded := paddedKey(cls, value, dealerUp)
	if _, ok := t.entries[padded]; ok {
		return "", false
	}
	if _, ok := t.entries[unpaddedKey(cls, value, dealerUp)]; ok {
		return "", false
	}
	return padded, true
}
