package rules

import (
	"fmt"

	"github.com/justinabrahms/atbackgammon/internal/game"
)

const (
	boardPoints = 24
	homePoints  = 6
)

// stack is a starting stack described by pip number (24 is the far end, 1 the
// deepest point of the home board) as seen by the side that owns it.
type stack struct {
	pip   int
	count int
}

// Backgammon implements the common movement rules of the backgammon family on a
// 24-point board. Light travels toward point 0 and bears off below it, Dark
// travels toward point 23 and bears off above it.
//
// Rolls are played one die at a time. The rule set does not force the use of
// both dice or of the larger die.
type Backgammon struct {
	name   string
	layout []stack
}

// NewBgCasual is standard backgammon.
func NewBgCasual() *Backgammon {
	return &Backgammon{
		name:   "RuleBgCasual",
		layout: []stack{{24, 2}, {13, 5}, {8, 3}, {6, 5}},
	}
}

// NewNackgammon uses Nackgammon's starting position.
func NewNackgammon() *Backgammon {
	return &Backgammon{
		name:   "RuleBgNackgammon",
		layout: []stack{{24, 2}, {23, 2}, {13, 4}, {8, 3}, {6, 4}},
	}
}

func (b *Backgammon) Name() string   { return b.name }
func (b *Backgammon) MaxPoints() int { return boardPoints }

func (b *Backgammon) Initialize(state *game.BoardState) {
	state.Initialize(boardPoints)
}

func (b *Backgammon) ResetState(state *game.BoardState) {
	state.Clear()
	for _, c := range []game.Color{game.Light, game.Dark} {
		for _, st := range b.layout {
			if err := state.PlaceN(game.Point(pipToPoint(c, st.pip)), c, st.count); err != nil {
				panic(fmt.Sprintf("rule %s: bad layout entry %+v: %v", b.name, st, err))
			}
		}
	}
}

// pipToPoint converts a pip number seen from c into a board index.
func pipToPoint(c game.Color, pip int) int {
	if c == game.Light {
		return pip - 1
	}
	return boardPoints - pip
}

// pointToPip is the inverse of pipToPoint.
func pointToPip(c game.Color, pos int) int {
	if c == game.Light {
		return pos + 1
	}
	return boardPoints - pos
}

func isHome(c game.Color, pos int) bool {
	return pointToPip(c, pos) <= homePoints
}

func allHome(state *game.BoardState, c game.Color) bool {
	if state.BarCount(c) > 0 {
		return false
	}
	for pos := 0; pos < state.PositionCount(); pos++ {
		if isHome(c, pos) {
			continue
		}
		if n, _ := state.CountAt(pos, c); n > 0 {
			return false
		}
	}
	return true
}

// piecesBehind reports whether c has pieces on home points with a higher pip
// than pip.
func piecesBehind(state *game.BoardState, c game.Color, pip int) bool {
	for p := pip + 1; p <= homePoints; p++ {
		if n, _ := state.CountAt(pipToPoint(c, p), c); n > 0 {
			return true
		}
	}
	return false
}

type movePlan struct {
	kind game.MoveActionType
	from game.Location
	to   game.Location
	hit  bool
}

func illegal(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalMove, fmt.Sprintf(format, args...))
}

// plan validates a single move without touching the state.
func (b *Backgammon) plan(state *game.BoardState, c game.Color, from game.Location, value int) (movePlan, error) {
	if value < 1 || value > game.DefaultDieSides {
		return movePlan{}, illegal("die value %d", value)
	}

	var pl movePlan
	pl.from = from

	switch from.Kind {
	case game.KindBar:
		if from.Color != c {
			return movePlan{}, illegal("cannot enter %s pieces", from.Color)
		}
		if state.BarCount(c) == 0 {
			return movePlan{}, illegal("no %s pieces on the bar", c)
		}
		pl.kind = game.ActionRecover
		pl.to = game.Point(pipToPoint(c, boardPoints+1-value))

	case game.KindPoint:
		if state.BarCount(c) > 0 {
			return movePlan{}, illegal("pieces on the bar must enter first")
		}
		top, err := state.TopColor(from.Index)
		if err != nil {
			return movePlan{}, err
		}
		if top != c {
			return movePlan{}, illegal("no %s piece on point %d", c, from.Index)
		}
		pip := pointToPip(c, from.Index) - value
		if pip < 1 {
			if !allHome(state, c) {
				return movePlan{}, illegal("cannot bear off before all pieces are home")
			}
			if pip < 0 && piecesBehind(state, c, pointToPip(c, from.Index)) {
				return movePlan{}, illegal("die %d is larger than needed while pieces remain behind", value)
			}
			pl.kind = game.ActionBear
			pl.to = game.Outside(c)
			return pl, nil
		}
		pl.kind = game.ActionMove
		pl.to = game.Point(pipToPoint(c, pip))

	default:
		return movePlan{}, illegal("cannot move from %s", from)
	}

	opponents, err := state.CountAt(pl.to.Index, c.Opposite())
	if err != nil {
		return movePlan{}, err
	}
	switch {
	case opponents >= 2:
		return movePlan{}, illegal("point %d is blocked", pl.to.Index)
	case opponents == 1:
		pl.hit = true
	}
	return pl, nil
}

func (b *Backgammon) ApplyMove(s *game.Session, p *game.Player, from game.Location, value int) ([]game.MoveAction, error) {
	if err := s.CheckTurnOpen(); err != nil {
		return nil, err
	}
	if !s.IsPlayerTurn(p) {
		return nil, ErrNotYourTurn
	}
	if !s.HasMove(value) {
		return nil, fmt.Errorf("%w: %d", game.ErrNoSuchMove, value)
	}

	c := s.TurnColor()
	pl, err := b.plan(s.State, c, from, value)
	if err != nil {
		return nil, err
	}
	if err := s.ConsumeMove(value); err != nil {
		return nil, err
	}

	var actions []game.MoveAction
	if pl.hit {
		victim, err := s.State.Move(pl.to, game.Bar(c.Opposite()))
		if err != nil {
			return nil, err
		}
		actions = append(actions, game.MoveAction{
			Type:  game.ActionHit,
			Piece: victim,
			From:  pl.to,
			To:    game.Bar(c.Opposite()),
		})
	}
	piece, err := s.State.Move(pl.from, pl.to)
	if err != nil {
		return nil, err
	}
	actions = append(actions, game.MoveAction{
		Type:  pl.kind,
		Piece: piece,
		From:  pl.from,
		To:    pl.to,
		Value: value,
	})

	if s.State.OutsideCount(c) == s.State.Count(c) {
		if err := s.Finish(s.TurnPlayer); err != nil {
			return actions, err
		}
	}
	return actions, nil
}

func (b *Backgammon) LegalMoves(s *game.Session, p *game.Player) []LegalMove {
	if s.CheckTurnOpen() != nil || !s.IsPlayerTurn(p) {
		return nil
	}
	c := s.TurnColor()

	sources := []game.Location{game.Bar(c)}
	for pos := 0; pos < s.State.PositionCount(); pos++ {
		if top, _ := s.State.TopColor(pos); top == c {
			sources = append(sources, game.Point(pos))
		}
	}

	var moves []LegalMove
	for _, v := range s.TurnDice.Distinct() {
		for _, from := range sources {
			if _, err := b.plan(s.State, c, from, v); err == nil {
				moves = append(moves, LegalMove{From: from, Value: v})
			}
		}
	}
	return moves
}
