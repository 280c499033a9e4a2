package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedRandom replays values in order and wraps around.
type scriptedRandom struct {
	values []int
	next   int
}

func (r *scriptedRandom) Get(max int) int {
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}

// flatRule puts two pieces of each color on opposite ends of the board.
type flatRule struct {
	points int
}

func (r flatRule) Name() string   { return "Flat" }
func (r flatRule) MaxPoints() int { return r.points }

func (r flatRule) Initialize(s *BoardState) {
	s.Initialize(r.points)
}

func (r flatRule) ResetState(s *BoardState) {
	s.Clear()
	_ = s.PlaceN(Point(0), Light, 2)
	_ = s.PlaceN(Point(r.points-1), Dark, 2)
}

func newTestSession(t *testing.T) (*Session, *Player, *Player) {
	t.Helper()
	s := NewSession("g1", flatRule{points: 24})
	p1 := NewPlayer("p1", "Ann")
	p2 := NewPlayer("p2", "Bo")
	require.NoError(t, s.AddHostPlayer(p1))
	require.NoError(t, s.AddGuestPlayer(p2))
	return s, p1, p2
}
