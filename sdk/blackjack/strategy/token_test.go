package strategy

import (
	"testing"

	"github.com/lox/blackjack-advisor/sdk/blackjack/action"
	"github.com/lox/blackjack-advisor/sdk/blackjack/rules"
)

func TestDirectIgnoresRules(t *testing.T) {
	b := Direct(action.Stand)
	if got := b.Resolve(rules.Default(), 20, 2); got != action.Stand {
		t.Errorf("Resolve() = %v, want STAND", got)
	}
}

func TestParseTokenDoubleLegalFallsBackToHit(t *testing.T) {
	b, err := parseToken("Dh")
	if err != nil {
		t.Fatalf("parseToken(\"Dh\") error: %v", err)
	}

	r := rules.Default()
	r.DoubleRestrictions = rules.DoubleTenEleven
	if got := b.Resolve(r, 9, 2); got != action.Hit {
		t.Errorf("Resolve(total=9, restricted to 10/11) = %v, want HIT (double illegal)", got)
	}
	if got := b.Resolve(r, 10, 2); got != action.Double {
		t.Errorf("Resolve(total=10, restricted to 10/11) = %v, want DOUBLE (double legal)", got)
	}
}

func TestParseTokenSurrenderLegalRequiresTwoCards(t *testing.T) {
	b, err := parseToken("Rh")
	if err != nil {
		t.Fatalf("parseToken(\"Rh\") error: %v", err)
	}

	r := rules.Default()
	r.SurrenderAllowed = true
	if got := b.Resolve(r, 16, 3); got != action.Hit {
		t.Errorf("Resolve(numCards=3) = %v, want HIT (surrender only legal on the first two cards)", got)
	}
	if got := b.Resolve(r, 16, 2); got != action.Surrender {
		t.Errorf("Resolve(numCards=2) = %v, want SURRENDER", got)
	}

	r.SurrenderAllowed = false
	if got := b.Resolve(r, 16, 2); got != action.Hit {
		t.Errorf("Resolve() with surrender disallowed by rules = %v, want HIT", got)
	}
}

func TestParseTokenSplitDASLegal(t *testing.T) {
	b, err := parseToken("Ph")
	if err != nil {
		t.Fatalf("parseToken(\"Ph\") error: %v", err)
	}

	r := rules.Default()
	r.DoubleAfterSplit = false
	if got := b.Resolve(r, 16, 2); got != action.Hit {
		t.Errorf("Resolve() without DAS = %v, want HIT", got)
	}

	r.DoubleAfterSplit = true
	if got := b.Resolve(r, 16, 2); got != action.Split {
		t.Errorf("Resolve() with DAS = %v, want SPLIT", got)
	}
}

func TestParseTokenRejectsUnknown(t *testing.T) {
	if _, err := parseToken("ZZ"); err == nil {
		t.Error("parseToken(\"ZZ\") should return an error")
	}
}
