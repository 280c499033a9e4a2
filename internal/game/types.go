package game

import "errors"

// Color identifies which side a piece belongs to.
type Color int

const (
	NoColor Color = iota - 1
	Light
	Dark
)

func (c Color) String() string {
	switch c {
	case Light:
		return "light"
	case Dark:
		return "dark"
	default:
		return "none"
	}
}

// Opposite returns the other side. NoColor has no opposite.
func (c Color) Opposite() Color {
	switch c {
	case Light:
		return Dark
	case Dark:
		return Light
	default:
		return NoColor
	}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	if string(b) == "none" {
		*c = NoColor
		return nil
	}
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Color) valid() bool {
	return c == Light || c == Dark
}

// ParseColor accepts "light" or "dark".
func ParseColor(s string) (Color, error) {
	switch s {
	case "light":
		return Light, nil
	case "dark":
		return Dark, nil
	default:
		return NoColor, errors.New("unknown color: " + s)
	}
}

type Status string

const (
	StatusNew      Status = "new"
	StatusStarted  Status = "started"
	StatusFinished Status = "finished"
)

var (
	ErrSlotOccupied      = errors.New("player slot already occupied")
	ErrNilPlayer         = errors.New("player is nil")
	ErrPlayerBusy        = errors.New("player is already in another game")
	ErrAlreadyStarted    = errors.New("game already started")
	ErrOutOfRange        = errors.New("position out of range")
	ErrNoSuchMove        = errors.New("no such move")
	ErrMissingPlayers    = errors.New("game needs a host and a guest")
	ErrNotStarted        = errors.New("game has not started")
	ErrGameOver          = errors.New("game is over")
	ErrNotParticipant    = errors.New("player is not part of this game")
	ErrNoTurnPlayer      = errors.New("no player owns the turn")
	ErrDiceNotRolled     = errors.New("dice have not been rolled")
	ErrDiceAlreadyRolled = errors.New("dice already rolled this turn")
	ErrTurnConfirmed     = errors.New("turn already confirmed")
	ErrTurnNotConfirmed  = errors.New("turn not confirmed")
	ErrEmptyContainer    = errors.New("no piece to move")
	ErrInvalidLocation   = errors.New("invalid location")
)
