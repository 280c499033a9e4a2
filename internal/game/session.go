package game

import "fmt"

// Rule is the part of a rule set the session needs: board geometry and the
// starting layout.
type Rule interface {
	Name() string
	MaxPoints() int
	// Initialize must allocate MaxPoints empty points on the state.
	Initialize(state *BoardState)
	ResetState(state *BoardState)
}

// Session is a running game between a host and a guest.
//
// A session does no locking. Callers must serialize mutations against a single
// session; queries do not mutate and may run concurrently with each other.
type Session struct {
	ID       string      `json:"id"`
	Host     *Player     `json:"host"`
	Guest    *Player     `json:"guest"`
	Players  []*Player   `json:"-"`
	RuleName string      `json:"ruleName"`
	State    *BoardState `json:"-"`
	Status   Status      `json:"status"`

	TurnPlayer    *Player   `json:"-"`
	TurnDice      *DiceRoll `json:"turnDice"`
	TurnConfirmed bool      `json:"turnConfirmed"`
	Winner        *Player   `json:"-"`

	// turnStart is the board as it was when the current turn's dice were rolled.
	turnStart *BoardState
}

// NewSession creates a session whose board is initialized and laid out by rule.
func NewSession(id string, rule Rule) *Session {
	s := &Session{
		ID:       id,
		RuleName: rule.Name(),
		State:    &BoardState{},
		Status:   StatusNew,
	}
	rule.Initialize(s.State)
	rule.ResetState(s.State)
	return s
}

func (s *Session) AddHostPlayer(p *Player) error {
	if err := s.checkJoinable(p); err != nil {
		return err
	}
	if s.Host != nil {
		return fmt.Errorf("%w: game %s already has a host", ErrSlotOccupied, s.ID)
	}
	if samePlayer(s.Guest, p) {
		return fmt.Errorf("%w: player %s is already the guest", ErrSlotOccupied, p.ID)
	}
	s.Host = p
	s.Players = append(s.Players, p)
	p.bind(s.ID, s.RuleName, Light)
	return nil
}

func (s *Session) AddGuestPlayer(p *Player) error {
	if err := s.checkJoinable(p); err != nil {
		return err
	}
	if s.Guest != nil {
		return fmt.Errorf("%w: game %s already has a guest", ErrSlotOccupied, s.ID)
	}
	if samePlayer(s.Host, p) {
		return fmt.Errorf("%w: player %s is already the host", ErrSlotOccupied, p.ID)
	}
	s.Guest = p
	s.Players = append(s.Players, p)
	p.bind(s.ID, s.RuleName, Dark)
	return nil
}

// checkJoinable rejects nil players and players bound to a different game. A
// player's color is per game, so one player cannot sit in two games at once.
func (s *Session) checkJoinable(p *Player) error {
	if p == nil {
		return ErrNilPlayer
	}
	if p.GameID != "" && p.GameID != s.ID {
		return fmt.Errorf("%w: player %s is in game %s", ErrPlayerBusy, p.ID, p.GameID)
	}
	return nil
}

// Start moves a new game with both players bound into the started state. It does
// not elect the first turn player; see AdvanceTurn.
func (s *Session) Start() error {
	if s.Status != StatusNew {
		return ErrAlreadyStarted
	}
	if s.Host == nil || s.Guest == nil {
		return ErrMissingPlayers
	}
	s.Status = StatusStarted
	return nil
}

func (s *Session) HasStarted() bool {
	return s.Status == StatusStarted || s.Status == StatusFinished
}

func (s *Session) IsOver() bool {
	return s.Status == StatusFinished
}

func (s *Session) IsHost(p *Player) bool {
	return samePlayer(s.Host, p)
}

func (s *Session) HasGuestJoined() bool {
	return s.Guest != nil
}

// IsParticipant reports whether p is the host or the guest.
func (s *Session) IsParticipant(p *Player) bool {
	return samePlayer(s.Host, p) || samePlayer(s.Guest, p)
}

func (s *Session) IsPlayerTurn(p *Player) bool {
	return samePlayer(s.TurnPlayer, p)
}

func (s *Session) IsColorTurn(c Color) bool {
	return c.valid() && s.TurnColor() == c
}

// ColorOf returns the color p plays in this game: Light for the host, Dark for the
// guest and NoColor for anyone else. It does not depend on the player's current
// binding, which is cleared when the game ends.
func (s *Session) ColorOf(p *Player) Color {
	switch {
	case samePlayer(s.Host, p):
		return Light
	case samePlayer(s.Guest, p):
		return Dark
	}
	return NoColor
}

// TurnColor is the color of the turn player, or NoColor before the first turn.
func (s *Session) TurnColor() Color {
	return s.ColorOf(s.TurnPlayer)
}

func (s *Session) DiceWasRolled() bool {
	return s.TurnDice != nil
}

func (s *Session) HasMoreMoves() bool {
	return s.TurnDice != nil && s.TurnDice.HasMovesLeft()
}

func (s *Session) HasMove(value int) bool {
	return s.TurnDice != nil && s.TurnDice.HasMove(value)
}

// Opponent returns the other participant, or nil if p is not in the game.
func (s *Session) Opponent(p *Player) *Player {
	switch {
	case samePlayer(s.Host, p):
		return s.Guest
	case samePlayer(s.Guest, p):
		return s.Host
	}
	return nil
}

// PlayerByColor returns the participant playing c.
func (s *Session) PlayerByColor(c Color) *Player {
	switch c {
	case Light:
		return s.Host
	case Dark:
		return s.Guest
	}
	return nil
}

// member returns the session's own pointer for p.
func (s *Session) member(p *Player) *Player {
	switch {
	case samePlayer(s.Host, p):
		return s.Host
	case samePlayer(s.Guest, p):
		return s.Guest
	default:
		return nil
	}
}

func (s *Session) checkInPlay() error {
	switch s.Status {
	case StatusNew:
		return ErrNotStarted
	case StatusFinished:
		return ErrGameOver
	}
	return nil
}

// CheckTurnOpen returns nil when the turn player may still move: the game is in
// play, dice are rolled and the turn is not confirmed.
func (s *Session) CheckTurnOpen() error {
	if err := s.checkInPlay(); err != nil {
		return err
	}
	if s.TurnPlayer == nil {
		return ErrNoTurnPlayer
	}
	if s.TurnDice == nil {
		return ErrDiceNotRolled
	}
	if s.TurnConfirmed {
		return ErrTurnConfirmed
	}
	return nil
}

// RollDice rolls for the current turn player. Dice can be rolled once per turn.
func (s *Session) RollDice(src RandomSource) (*DiceRoll, error) {
	if err := s.checkInPlay(); err != nil {
		return nil, err
	}
	if s.TurnPlayer == nil {
		return nil, ErrNoTurnPlayer
	}
	if s.TurnDice != nil {
		return nil, ErrDiceAlreadyRolled
	}
	s.TurnDice = Roll(src)
	s.turnStart = s.State.Clone()
	s.TurnPlayer.recordRoll(s.TurnDice)
	return s.TurnDice, nil
}

// ConsumeMove spends one die value of the current roll. Rules call this when they
// apply a move; ErrNoSuchMove means the rule tried to play an unavailable value.
func (s *Session) ConsumeMove(value int) error {
	if err := s.CheckTurnOpen(); err != nil {
		return err
	}
	return s.TurnDice.MarkPlayed(value)
}

// UndoTurn takes back every move made since the dice were rolled. The roll itself
// stands: the board returns to its state at the roll and the full move budget is
// available again.
func (s *Session) UndoTurn() error {
	if err := s.CheckTurnOpen(); err != nil {
		return err
	}
	if s.turnStart == nil {
		return ErrDiceNotRolled
	}
	s.State = s.turnStart.Clone()
	s.TurnDice.ResetMoves()
	return nil
}

// ConfirmTurn locks in the moves made this turn. Ownership of the turn does not
// change until AdvanceTurn is called.
func (s *Session) ConfirmTurn() error {
	if err := s.CheckTurnOpen(); err != nil {
		return err
	}
	s.TurnConfirmed = true
	return nil
}

// AdvanceTurn hands the turn to next and clears the per-turn state. A turn in
// progress must have been confirmed first.
func (s *Session) AdvanceTurn(next *Player) error {
	if err := s.checkInPlay(); err != nil {
		return err
	}
	next = s.member(next)
	if next == nil {
		return ErrNotParticipant
	}
	if s.TurnPlayer != nil && !s.TurnConfirmed {
		return ErrTurnNotConfirmed
	}
	s.TurnPlayer = next
	s.TurnDice = nil
	s.TurnConfirmed = false
	s.turnStart = nil
	return nil
}

// Finish ends the game and releases both players for other games. A nil winner
// ends it without a result.
func (s *Session) Finish(winner *Player) error {
	if err := s.checkInPlay(); err != nil {
		return err
	}
	if winner != nil {
		if winner = s.member(winner); winner == nil {
			return ErrNotParticipant
		}
	}
	s.Status = StatusFinished
	s.turnStart = nil
	for _, p := range s.Players {
		if p.GameID == s.ID {
			p.Unbind()
		}
	}
	if winner == nil {
		return nil
	}
	s.Winner = winner
	winner.Stats.Wins++
	if loser := s.Opponent(winner); loser != nil {
		loser.Stats.Losses++
	}
	return nil
}
