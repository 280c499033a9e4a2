package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollDoublesExpandToFourMoves(t *testing.T) {
	d := Roll(&scriptedRandom{values: []int{4, 4}})

	assert.Equal(t, [2]int{4, 4}, d.Values)
	assert.Equal(t, []int{4, 4, 4, 4}, d.Moves)
	assert.Len(t, d.MovesLeft, 4)
	assert.True(t, d.IsDouble())
}

func TestRollSortsValuesDescending(t *testing.T) {
	d := Roll(&scriptedRandom{values: []int{2, 5}})

	assert.Equal(t, [2]int{5, 2}, d.Values)
	assert.Equal(t, []int{5, 2}, d.Moves)
	assert.Equal(t, []int{5, 2}, d.MovesLeft)
	assert.False(t, d.IsDouble())
}

func TestMarkPlayedDepletesDoubles(t *testing.T) {
	d := NewDiceRoll(4, 4)

	for i := 0; i < 3; i++ {
		require.NoError(t, d.MarkPlayed(4))
	}
	assert.Equal(t, []int{4}, d.MovesLeft)
	assert.True(t, d.HasMovesLeft())

	require.NoError(t, d.MarkPlayed(4))
	assert.Empty(t, d.MovesLeft)
	assert.False(t, d.HasMovesLeft())

	assert.ErrorIs(t, d.MarkPlayed(4), ErrNoSuchMove)
	assert.Equal(t, []int{4, 4, 4, 4}, d.Moves, "moves must not change")
}

func TestMarkPlayedRejectsValuesNotRolled(t *testing.T) {
	d := NewDiceRoll(6, 1)

	for v := 0; v <= 7; v++ {
		before := len(d.MovesLeft)
		err := d.MarkPlayed(v)
		if v == 6 || v == 1 {
			require.NoError(t, err)
			assert.Equal(t, before-1, len(d.MovesLeft))
			d.ResetMoves()
			continue
		}
		assert.ErrorIs(t, err, ErrNoSuchMove, "value %d", v)
		assert.Equal(t, before, len(d.MovesLeft))
	}
}

func TestRollBudgetSizeForEveryFacePair(t *testing.T) {
	for a := 1; a <= 6; a++ {
		for b := 1; b <= 6; b++ {
			d := Roll(&scriptedRandom{values: []int{a, b}})
			want := 2
			if a == b {
				want = 4
			}
			assert.Len(t, d.MovesLeft, want, "%d-%d", a, b)
			assert.GreaterOrEqual(t, d.Values[0], d.Values[1])
		}
	}
}

func TestResetMovesRestoresBudget(t *testing.T) {
	d := NewDiceRoll(3, 5)
	require.NoError(t, d.MarkPlayed(3))
	assert.False(t, d.HasMove(3))

	d.ResetMoves()
	assert.True(t, d.HasMove(3))
	assert.Equal(t, d.Moves, d.MovesLeft)

	// the restored budget is a copy
	require.NoError(t, d.MarkPlayed(5))
	assert.Equal(t, []int{5, 3}, d.Moves)
}

func TestDistinctValues(t *testing.T) {
	assert.Equal(t, []int{2}, NewDiceRoll(2, 2).Distinct())
	assert.Equal(t, []int{6, 1}, NewDiceRoll(1, 6).Distinct())
}

func TestMathRandomStaysInRange(t *testing.T) {
	var r MathRandom
	for i := 0; i < 1000; i++ {
		v := r.Get(0)
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, DefaultDieSides)
	}
	for i := 0; i < 100; i++ {
		assert.Equal(t, 1, r.Get(1))
	}
}
