// Package rules describes the table-rules record that parameterizes
// strategy-lookup resolution, the advantage model, and the betting engine.
//
// Rules documents are authored by hand between simulation runs, so they are
// loaded from HCL the way the teacher lineage loads its server/table
// configuration (see internal/server/config.go in the retrieved corpus),
// rather than from a programmatic API.
package rules

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// DoubleRestriction constrains which two-card totals may double down.
type DoubleRestriction string

const (
	DoubleAnyTwo        DoubleRestriction = "ANY_TWO"
	DoubleNineTenEleven DoubleRestriction = "NINE_TEN_ELEVEN"
	DoubleTenEleven     DoubleRestriction = "TEN_ELEVEN"
)

// Rules is a flat record describing every table rule affecting strategy and
// edge, per the data model's Rules definition.
type Rules struct {
	NumDecks            int               `hcl:"num_decks"`
	Penetration         float64           `hcl:"penetration"`
	DealerStandsSoft17  bool              `hcl:"dealer_stands_soft_17"`
	DoubleAfterSplit    bool              `hcl:"double_after_split"`
	SurrenderAllowed    bool              `hcl:"surrender_allowed"`
	DoubleRestrictions  DoubleRestriction `hcl:"double_restrictions"`
	BlackjackPayout     float64           `hcl:"blackjack_payout"`
	TableMin            float64           `hcl:"table_min"`
	TableMax            float64           `hcl:"table_max"`
	MaxSplits           int               `hcl:"max_splits"`
	ResplitAces         bool              `hcl:"resplit_aces"`
	HitSplitAces        bool              `hcl:"hit_split_aces"`
	DealerPeeks         bool              `hcl:"dealer_peeks"`
}

// Default returns a conservative, widely-used rule set: 6 decks, S17, DAS,
// late surrender, 3:2 blackjack payout, 75% penetration.
func Default() Rules {
	return Rules{
		NumDecks:           6,
		Penetration:        0.75,
		DealerStandsSoft17: true,
		DoubleAfterSplit:   true,
		SurrenderAllowed:   true,
		DoubleRestrictions: DoubleAnyTwo,
		BlackjackPayout:    1.5,
		TableMin:           10,
		TableMax:           5000,
		MaxSplits:          3,
		ResplitAces:        false,
		HitSplitAces:       false,
		DealerPeeks:        true,
	}
}

// Validate rejects a Rules record that cannot be used safely, per the
// InvalidRules error kind.
func (r Rules) Validate() error {
	if r.NumDecks < 1 || r.NumDecks > 8 {
		return fmt.Errorf("num_decks must be in 1..8, got %d", r.NumDecks)
	}
	if r.Penetration <= 0 || r.Penetration > 1 {
		return fmt.Errorf("penetration must be in (0, 1], got %f", r.Penetration)
	}
	switch r.DoubleRestrictions {
	case DoubleAnyTwo, DoubleNineTenEleven, DoubleTenEleven:
	default:
		return fmt.Errorf("invalid double_restrictions: %q", r.DoubleRestrictions)
	}
	if r.BlackjackPayout <= 0 {
		return fmt.Errorf("blackjack_payout must be > 0, got %f", r.BlackjackPayout)
	}
	if r.TableMin < 0 {
		return fmt.Errorf("table_min must be >= 0, got %f", r.TableMin)
	}
	if r.TableMax < r.TableMin {
		return fmt.Errorf("table_max (%f) must be >= table_min (%f)", r.TableMax, r.TableMin)
	}
	if r.MaxSplits < 0 {
		return fmt.Errorf("max_splits cannot be negative, got %d", r.MaxSplits)
	}
	return nil
}

// CanDouble reports whether a two-card total may legally double down under
// the current restriction.
func (r Rules) CanDouble(total int, numCards int) bool {
	if numCards != 2 {
		return false
	}
	switch r.DoubleRestrictions {
	case DoubleTenEleven:
		return total == 10 || total == 11
	case DoubleNineTenEleven:
		return total >= 9 && total <= 11
	default:
		return true
	}
}

// Load parses an HCL rules document from path. A missing file yields
// Default(). A present file must specify every field explicitly (booleans
// default to false in HCL, so partial-merge-by-zero-value would silently
// turn an omitted "true" rule into "false"); the result is validated before
// it is returned.
func Load(path string) (Rules, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return Rules{}, fmt.Errorf("parse rules file: %s", diags.Error())
	}

	var parsed Rules
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return Rules{}, fmt.Errorf("decode rules file: %s", diags.Error())
	}

	if err := parsed.Validate(); err != nil {
		return Rules{}, fmt.Errorf("invalid rules document %s: %w", path, err)
	}
	return parsed, nil
}
