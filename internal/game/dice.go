package game

import (
	"fmt"
	"slices"
)

// DiceRoll holds the two rolled values and the move budget derived from them.
// MovesLeft is always a sub-multiset of Moves.
type DiceRoll struct {
	Values    [2]int `json:"values"`
	Moves     []int  `json:"moves"`
	MovesLeft []int  `json:"movesLeft"`
}

// Roll draws two dice from src.
func Roll(src RandomSource) *DiceRoll {
	return NewDiceRoll(src.Get(DefaultDieSides), src.Get(DefaultDieSides))
}

// NewDiceRoll builds a roll from known values. Values are stored highest first and
// doubles are played four times.
func NewDiceRoll(a, b int) *DiceRoll {
	if a < b {
		a, b = b, a
	}
	d := &DiceRoll{Values: [2]int{a, b}}
	if a == b {
		d.Moves = []int{a, a, a, a}
	} else {
		d.Moves = []int{a, b}
	}
	d.MovesLeft = slices.Clone(d.Moves)
	return d
}

func (d *DiceRoll) IsDouble() bool {
	return d.Values[0] == d.Values[1]
}

// MarkPlayed removes one occurrence of move from the remaining budget.
func (d *DiceRoll) MarkPlayed(move int) error {
	i := slices.Index(d.MovesLeft, move)
	if i < 0 {
		return fmt.Errorf("%w: %d not in %v", ErrNoSuchMove, move, d.MovesLeft)
	}
	d.MovesLeft = slices.Delete(d.MovesLeft, i, i+1)
	return nil
}

func (d *DiceRoll) HasMovesLeft() bool {
	return len(d.MovesLeft) > 0
}

func (d *DiceRoll) HasMove(move int) bool {
	return slices.Contains(d.MovesLeft, move)
}

// ResetMoves restores the full budget, used when a player takes back the moves
// made this turn.
func (d *DiceRoll) ResetMoves() {
	d.MovesLeft = slices.Clone(d.Moves)
}

// Distinct returns the distinct remaining values, highest first.
func (d *DiceRoll) Distinct() []int {
	out := slices.Clone(d.MovesLeft)
	slices.Sort(out)
	out = slices.Compact(out)
	slices.Reverse(out)
	return out
}
