package rules

import (
	"math/rand/v2"
	"testing"

	"github.com/justinabrahms/atbackgammon/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedDice struct {
	values []int
	i      int
}

func (f *fixedDice) Get(int) int {
	v := f.values[f.i%len(f.values)]
	f.i++
	return v
}

type seededDice struct{ rng *rand.Rand }

func (s seededDice) Get(max int) int { return s.rng.IntN(max) + 1 }

// newGame returns a started game where light (the host) owns the turn and has
// rolled a and b.
func newGame(t *testing.T, e Engine, a, b int) (*game.Session, *game.Player, *game.Player) {
	t.Helper()
	s := game.NewSession("g1", e)
	light := game.NewPlayer("p1", "Ann")
	dark := game.NewPlayer("p2", "Bo")
	require.NoError(t, s.AddHostPlayer(light))
	require.NoError(t, s.AddGuestPlayer(dark))
	require.NoError(t, s.Start())
	require.NoError(t, s.AdvanceTurn(light))
	_, err := s.RollDice(&fixedDice{values: []int{a, b}})
	require.NoError(t, err)
	return s, light, dark
}

func countAt(t *testing.T, s *game.BoardState, pos int, c game.Color) int {
	t.Helper()
	n, err := s.CountAt(pos, c)
	require.NoError(t, err)
	return n
}

func TestBgCasualStartingLayout(t *testing.T) {
	s := game.NewSession("g1", NewBgCasual())

	expected := map[game.Color]map[int]int{
		game.Light: {23: 2, 12: 5, 7: 3, 5: 5},
		game.Dark:  {0: 2, 11: 5, 16: 3, 18: 5},
	}
	for c, points := range expected {
		for pos, n := range points {
			assert.Equal(t, n, countAt(t, s.State, pos, c), "%s on %d", c, pos)
		}
		assert.Equal(t, 15, s.State.Count(c))
	}
	require.NoError(t, s.State.Verify())
}

func TestNackgammonStartingLayout(t *testing.T) {
	s := game.NewSession("g1", NewNackgammon())

	assert.Equal(t, 2, countAt(t, s.State, 22, game.Light))
	assert.Equal(t, 2, countAt(t, s.State, 1, game.Dark))
	assert.Equal(t, 4, countAt(t, s.State, 5, game.Light))
	assert.Equal(t, 15, s.State.Count(game.Light))
	assert.Equal(t, 15, s.State.Count(game.Dark))
}

func TestResetStateIsRepeatable(t *testing.T) {
	e := NewBgCasual()
	state := &game.BoardState{}
	e.Initialize(state)
	e.ResetState(state)
	e.ResetState(state)

	assert.Equal(t, 15, state.Count(game.Light))
	require.NoError(t, state.Verify())
}

func TestBadLayoutPanics(t *testing.T) {
	broken := &Backgammon{name: "Broken", layout: []stack{{25, 1}}}
	assert.Panics(t, func() { game.NewSession("g1", broken) })
}

func TestUndoRestoresBoardAndDice(t *testing.T) {
	e := NewBgCasual()
	s, light, _ := newGame(t, e, 3, 1)
	before := s.State.Snapshot()

	_, err := e.ApplyMove(s, light, game.Point(7), 3)
	require.NoError(t, err)
	_, err = e.ApplyMove(s, light, game.Point(5), 1)
	require.NoError(t, err)
	assert.False(t, s.HasMoreMoves())

	require.NoError(t, s.UndoTurn())
	assert.Equal(t, before, s.State.Snapshot())
	assert.Equal(t, []int{3, 1}, s.TurnDice.MovesLeft)
	require.NoError(t, s.State.Verify())

	_, err = e.ApplyMove(s, light, game.Point(12), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, countAt(t, s.State, 9, game.Light))
}

func TestApplyOrdinaryMove(t *testing.T) {
	e := NewBgCasual()
	s, light, _ := newGame(t, e, 3, 1)

	actions, err := e.ApplyMove(s, light, game.Point(12), 3)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, game.ActionMove, actions[0].Type)
	assert.Equal(t, game.Point(9), actions[0].To)
	assert.Equal(t, 3, actions[0].Value)

	assert.Equal(t, 1, countAt(t, s.State, 9, game.Light))
	assert.Equal(t, 4, countAt(t, s.State, 12, game.Light))
	assert.Equal(t, []int{1}, s.TurnDice.MovesLeft)
	require.NoError(t, s.State.Verify())
}

func TestBlockedPointLeavesStateUntouched(t *testing.T) {
	e := NewBgCasual()
	s, light, _ := newGame(t, e, 5, 2)

	_, err := e.ApplyMove(s, light, game.Point(23), 5)
	assert.ErrorIs(t, err, ErrIllegalMove)
	assert.Equal(t, 2, countAt(t, s.State, 23, game.Light))
	assert.Equal(t, []int{5, 2}, s.TurnDice.MovesLeft)
}

func TestApplyMoveGuards(t *testing.T) {
	e := NewBgCasual()
	s, light, dark := newGame(t, e, 6, 4)

	_, err := e.ApplyMove(s, dark, game.Point(0), 6)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = e.ApplyMove(s, light, game.Point(12), 3)
	assert.ErrorIs(t, err, game.ErrNoSuchMove)

	_, err = e.ApplyMove(s, light, game.Point(0), 6)
	assert.ErrorIs(t, err, ErrIllegalMove, "dark owns point 0")

	_, err = e.ApplyMove(s, light, game.Outside(game.Light), 6)
	assert.ErrorIs(t, err, ErrIllegalMove)

	_, err = e.ApplyMove(s, light, game.Point(30), 6)
	assert.ErrorIs(t, err, game.ErrOutOfRange)

	require.NoError(t, s.ConfirmTurn())
	_, err = e.ApplyMove(s, light, game.Point(12), 6)
	assert.ErrorIs(t, err, game.ErrTurnConfirmed)
}

func TestHitSendsSinglePieceToBar(t *testing.T) {
	e := NewBgCasual()
	s, light, _ := newGame(t, e, 3, 1)
	s.State.Clear()
	require.NoError(t, s.State.PlaceN(game.Point(10), game.Light, 2))
	require.NoError(t, s.State.PlaceN(game.Point(7), game.Dark, 1))
	require.NoError(t, s.State.PlaceN(game.Point(20), game.Dark, 2))

	actions, err := e.ApplyMove(s, light, game.Point(10), 3)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, game.ActionHit, actions[0].Type)
	assert.Equal(t, game.Dark, actions[0].Piece.Color)
	assert.Equal(t, game.Bar(game.Dark), actions[0].To)
	assert.Equal(t, game.ActionMove, actions[1].Type)

	assert.Equal(t, 1, s.State.BarCount(game.Dark))
	top, err := s.State.TopColor(7)
	require.NoError(t, err)
	assert.Equal(t, game.Light, top)
	require.NoError(t, s.State.Verify())
}

func TestBarPiecesMustEnterFirst(t *testing.T) {
	e := NewBgCasual()
	s, light, _ := newGame(t, e, 2, 1)
	s.State.Clear()
	require.NoError(t, s.State.PlaceN(game.Bar(game.Light), game.Light, 1))
	require.NoError(t, s.State.PlaceN(game.Point(12), game.Light, 1))
	require.NoError(t, s.State.PlaceN(game.Point(23), game.Dark, 2))

	_, err := e.ApplyMove(s, light, game.Point(12), 2)
	assert.ErrorIs(t, err, ErrIllegalMove)

	// a 1 would enter on point 23, which dark holds
	_, err = e.ApplyMove(s, light, game.Bar(game.Light), 1)
	assert.ErrorIs(t, err, ErrIllegalMove)

	assert.Equal(t, []LegalMove{{From: game.Bar(game.Light), Value: 2}}, e.LegalMoves(s, light))

	actions, err := e.ApplyMove(s, light, game.Bar(game.Light), 2)
	require.NoError(t, err)
	assert.Equal(t, game.ActionRecover, actions[0].Type)
	assert.Equal(t, game.Point(22), actions[0].To)
	assert.Equal(t, 0, s.State.BarCount(game.Light))
}

func TestDarkEntersFromItsSide(t *testing.T) {
	e := NewBgCasual()
	s, light, dark := newGame(t, e, 1, 1)
	require.NoError(t, s.ConfirmTurn())
	require.NoError(t, s.AdvanceTurn(dark))
	_, err := s.RollDice(&fixedDice{values: []int{4, 2}})
	require.NoError(t, err)

	s.State.Clear()
	require.NoError(t, s.State.PlaceN(game.Bar(game.Dark), game.Dark, 1))
	require.NoError(t, s.State.PlaceN(game.Point(10), game.Light, 1))

	actions, err := e.ApplyMove(s, dark, game.Bar(game.Dark), 4)
	require.NoError(t, err)
	assert.Equal(t, game.Point(3), actions[0].To)
	assert.Empty(t, e.LegalMoves(s, light))
}

func TestBearOff(t *testing.T) {
	e := NewBgCasual()
	s, light, dark := newGame(t, e, 6, 1)
	s.State.Clear()
	require.NoError(t, s.State.PlaceN(game.Point(3), game.Light, 1))
	require.NoError(t, s.State.PlaceN(game.Point(0), game.Light, 1))
	require.NoError(t, s.State.PlaceN(game.Point(12), game.Dark, 1))

	// a 6 bears off from the 4 point since nothing sits further back
	actions, err := e.ApplyMove(s, light, game.Point(3), 6)
	require.NoError(t, err)
	assert.Equal(t, game.ActionBear, actions[0].Type)
	assert.Equal(t, game.Outside(game.Light), actions[0].To)
	assert.False(t, s.IsOver())

	_, err = e.ApplyMove(s, light, game.Point(0), 1)
	require.NoError(t, err)

	assert.True(t, s.IsOver())
	assert.Same(t, light, s.Winner)
	assert.Equal(t, 1, light.Stats.Wins)
	assert.Equal(t, 1, dark.Stats.Losses)
	assert.Equal(t, 2, s.State.OutsideCount(game.Light))
	require.NoError(t, s.State.Verify())
}

func TestBearOffRestrictions(t *testing.T) {
	e := NewBgCasual()

	t.Run("pieces outside home", func(t *testing.T) {
		s, light, _ := newGame(t, e, 1, 2)
		s.State.Clear()
		require.NoError(t, s.State.PlaceN(game.Point(0), game.Light, 1))
		require.NoError(t, s.State.PlaceN(game.Point(10), game.Light, 1))

		_, err := e.ApplyMove(s, light, game.Point(0), 1)
		assert.ErrorIs(t, err, ErrIllegalMove)
	})

	t.Run("larger die with pieces behind", func(t *testing.T) {
		s, light, _ := newGame(t, e, 5, 3)
		s.State.Clear()
		require.NoError(t, s.State.PlaceN(game.Point(5), game.Light, 1))
		require.NoError(t, s.State.PlaceN(game.Point(1), game.Light, 1))

		_, err := e.ApplyMove(s, light, game.Point(1), 5)
		assert.ErrorIs(t, err, ErrIllegalMove)

		_, err = e.ApplyMove(s, light, game.Point(5), 5)
		require.NoError(t, err)
		top, _ := s.State.TopColor(0)
		assert.Equal(t, game.Light, top)
	})

	t.Run("dark bears off past point 23", func(t *testing.T) {
		s, light, dark := newGame(t, e, 1, 1)
		require.NoError(t, s.ConfirmTurn())
		require.NoError(t, s.AdvanceTurn(dark))
		_, err := s.RollDice(&fixedDice{values: []int{2, 1}})
		require.NoError(t, err)
		s.State.Clear()
		require.NoError(t, s.State.PlaceN(game.Point(22), game.Dark, 1))
		require.NoError(t, s.State.PlaceN(game.Point(3), game.Light, 1))

		actions, err := e.ApplyMove(s, dark, game.Point(22), 2)
		require.NoError(t, err)
		assert.Equal(t, game.ActionBear, actions[0].Type)
		assert.True(t, s.IsOver())
		assert.Same(t, dark, s.Winner)
		assert.Equal(t, 1, light.Stats.Losses)
	})
}

func TestLegalMovesEmptyWhenNotRolled(t *testing.T) {
	e := NewBgCasual()
	s := game.NewSession("g1", e)
	p := game.NewPlayer("p1", "Ann")
	require.NoError(t, s.AddHostPlayer(p))
	assert.Empty(t, e.LegalMoves(s, p))
	assert.False(t, HasLegalMoves(e, s, p))
}

// Random legal play keeps the board consistent and only ever spends rolled
// values.
func TestRandomPlayoutConservesPieces(t *testing.T) {
	for _, e := range []Engine{NewBgCasual(), NewNackgammon()} {
		t.Run(e.Name(), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(7, 11))
			dice := seededDice{rng: rng}

			s := game.NewSession("g1", e)
			light := game.NewPlayer("p1", "Ann")
			dark := game.NewPlayer("p2", "Bo")
			require.NoError(t, s.AddHostPlayer(light))
			require.NoError(t, s.AddGuestPlayer(dark))
			require.NoError(t, s.Start())
			require.NoError(t, s.AdvanceTurn(light))

			for turn := 0; turn < 2000 && !s.IsOver(); turn++ {
				_, err := s.RollDice(dice)
				require.NoError(t, err)
				p := s.TurnPlayer

				for s.HasMoreMoves() && !s.IsOver() {
					moves := e.LegalMoves(s, p)
					if len(moves) == 0 {
						break
					}
					m := moves[rng.IntN(len(moves))]
					before := len(s.TurnDice.MovesLeft)
					_, err := e.ApplyMove(s, p, m.From, m.Value)
					require.NoError(t, err)
					require.Equal(t, before-1, len(s.TurnDice.MovesLeft))
					require.NoError(t, s.State.Verify())
					require.Equal(t, 15, s.State.Count(game.Light))
					require.Equal(t, 15, s.State.Count(game.Dark))
				}
				if s.IsOver() {
					break
				}
				require.NoError(t, s.ConfirmTurn())
				require.NoError(t, s.AdvanceTurn(s.Opponent(p)))
			}

			require.True(t, s.IsOver(), "game should finish")
			winner := s.Winner
			require.NotNil(t, winner)
			assert.Equal(t, 15, s.State.OutsideCount(s.ColorOf(winner)))
			assert.Empty(t, winner.GameID, "finished games release their players")
		})
	}
}
