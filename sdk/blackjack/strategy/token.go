package strategy

import (
	"fmt"

	"github.com/lox/blackjack-advisor/sdk/blackjack/action"
	"github.com/lox/blackjack-advisor/sdk/blackjack/rules"
)

// BaselineAction is the resolved form of a strategy-table token: either a
// Direct action, or a Conditional pair (primary if the condition holds under
// the current Rules, else fallback). This is the re-architecture of the
// dynamic rule-dependent token strings (Dh, Rs, Ph, ...) described in the
// design notes: resolution happens once, here, against a concrete Rules
// value, rather than by carrying rule-dependent strings downstream.
type BaselineAction struct {
	primary  action.Action
	fallback action.Action
	cond     condition
}

type condition int

const (
	condNone condition = iota
	condDoubleLegal
	condSurrenderLegal
	condDASLegal
)

// Direct wraps an unconditional action token.
func Direct(a action.Action) BaselineAction {
	return BaselineAction{primary: a, cond: condNone}
}

// Resolve returns the final Action for the given rules and hand shape.
func (b BaselineAction) Resolve(r rules.Rules, total, numCards int) action.Action {
	switch b.cond {
	case condDoubleLegal:
		if r.CanDouble(total, numCards) {
			return b.primary
		}
		return b.fallback
	case condSurrenderLegal:
		if r.SurrenderAllowed && numCards == 2 {
			return b.primary
		}
		return b.fallback
	case condDASLegal:
		if r.DoubleAfterSplit {
			return b.primary
		}
		return b.fallback
	default:
		return b.primary
	}
}

// parseToken resolves an external wire token into a BaselineAction, per the
// strategy-table format's action-token semantics.
func parseToken(tok string) (BaselineAction, error) {
	switch tok {
	case "STAND":
		return Direct(action.Stand), nil
	case "HIT":
		return Direct(action.Hit), nil
	case "SPLIT":
		return Direct(action.Split), nil
	case "DOUBLE":
		return Direct(action.Double), nil
	case "SURRENDER":
		return Direct(action.Surrender), nil
	case "Dh":
		return BaselineAction{primary: action.Double, fallback: action.Hit, cond: condDoubleLegal}, nil
	case "Ds":
		return BaselineAction{primary: action.Double, fallback: action.Stand, cond: condDoubleLegal}, nil
	case "Rh":
		return BaselineAction{primary: action.Surrender, fallback: action.Hit, cond: condSurrenderLegal}, nil
	case "Rs":
		return BaselineAction{primary: action.Surrender, fallback: action.Stand, cond: condSurrenderLegal}, nil
	case "Rp":
		return BaselineAction{primary: action.Surrender, fallback: action.Split, cond: condSurrenderLegal}, nil
	case "Ph":
		return BaselineAction{primary: action.Split, fallback: action.Hit, cond: condDASLegal}, nil
	case "Pd":
		return BaselineAction{primary: action.Split, fallback: action.Double, cond: condDASLegal}, nil
	default:
		return BaselineAction{}, fmt.Errorf("unknown action token %q", tok)
	}
}
