package deviation

import (
	"github.com/lox/blackjack-advisor/sdk/blackjack/action"
	"github.com/lox/blackjack-advisor/sdk/blackjack/hand"
)

// StandardSet returns the Illustrious 18 playing deviations and the Fab 4
// surrender deviations as Go data, per the Deviation Engine's "specified as
// data, not code" requirement. Priorities follow the conventional teaching
// order (earlier-listed, more valuable deviations rank higher).
func StandardSet() []Deviation {
	return append(illustrious18(), fab4()...)
}

func illustrious18() []Deviation {
	return []Deviation{
		{ID: "16v10", Classification: hand.Hard, HandValue: 16, DealerUp: 10, Threshold: 0, Direction: AtOrAbove, Action: action.Stand, Priority: 18},
		{ID: "15v10", Classification: hand.Hard, HandValue: 15, DealerUp: 10, Threshold: 4, Direction: AtOrAbove, Action: action.Stand, Priority: 17},
		{ID: "10v10", Classification: hand.Hard, HandValue: 10, DealerUp: 10, Threshold: 4, Direction: AtOrAbove, Action: action.Double, Priority: 16},
		{ID: "12v3", Classification: hand.Hard, HandValue: 12, DealerUp: 3, Threshold: 2, Direction: AtOrAbove, Action: action.Stand, Priority: 15},
		{ID: "12v2", Classification: hand.Hard, HandValue: 12, DealerUp: 2, Threshold: 3, Direction: AtOrAbove, Action: action.Stand, Priority: 14},
		{ID: "11vA", Classification: hand.Hard, HandValue: 11, DealerUp: 11, Threshold: 1, Direction: AtOrAbove, Action: action.Double, Priority: 13},
		{ID: "9v2", Classification: hand.Hard, HandValue: 9, DealerUp: 2, Threshold: 1, Direction: AtOrAbove, Action: action.Double, Priority: 12},
		{ID: "10vA", Classification: hand.Hard, HandValue: 10, DealerUp: 11, Threshold: 4, Direction: AtOrAbove, Action: action.Double, Priority: 11},
		{ID: "9v7", Classification: hand.Hard, HandValue: 9, DealerUp: 7, Threshold: 3, Direction: AtOrAbove, Action: action.Double, Priority: 10},
		{ID: "16v9", Classification: hand.Hard, HandValue: 16, DealerUp: 9, Threshold: 5, Direction: AtOrAbove, Action: action.Stand, Priority: 9},
		{ID: "13v2", Classification: hand.Hard, HandValue: 13, DealerUp: 2, Threshold: -1, Direction: Below, Action: action.Hit, Priority: 8},
		{ID: "12v4", Classification: hand.Hard, HandValue: 12, DealerUp: 4, Threshold: 0, Direction: Below, Action: action.Hit, Priority: 7},
		{ID: "13v3", Classification: hand.Hard, HandValue: 13, DealerUp: 3, Threshold: -2, Direction: Below, Action: action.Hit, Priority: 6},
		{ID: "12v5", Classification: hand.Hard, HandValue: 12, DealerUp: 5, Threshold: -2, Direction: Below, Action: action.Hit, Priority: 5},
		{ID: "12v6", Classification: hand.Hard, HandValue: 12, DealerUp: 6, Threshold: -1, Direction: Below, Action: action.Hit, Priority: 4},
		{ID: "13v10", Classification: hand.Pair, HandValue: 10, DealerUp: 10, Threshold: 5, Direction: AtOrAbove, Action: action.Split, Priority: 3},
		{ID: "20v5", Classification: hand.Pair, HandValue: 10, DealerUp: 5, Threshold: 5, Direction: AtOrAbove, Action: action.Split, Priority: 2},
		{ID: "20v6", Classification: hand.Pair, HandValue: 10, DealerUp: 6, Threshold: 4, Direction: AtOrAbove, Action: action.Split, Priority: 1},
	}
}

func fab4() []Deviation {
	return []Deviation{
		{ID: "fab4-14v10", Classification: hand.Hard, HandValue: 14, DealerUp: 10, Threshold: 3, Direction: AtOrAbove, Action: action.Surrender, Priority: 4},
		{ID: "fab4-15v10", Classification: hand.Hard, HandValue: 15, DealerUp: 10, Threshold: 0, Direction: AtOrAbove, Action: action.Surrender, Priority: 3},
		{ID: "fab4-15v9", Classification: hand.Hard, HandValue: 15, DealerUp: 9, Threshold: 2, Direction: AtOrAbove, Action: action.Surrender, Priority: 2},
		{ID: "fab4-15vA", Classification: hand.Hard, HandValue: 15, DealerUp: 11, Threshold: 1, Direction: AtOrAbove, Action: action.Surrender, Priority: 1},
	}
}
