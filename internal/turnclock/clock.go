// Package turnclock tracks how long the current turn player has been thinking.
// Enforcement is left to the caller: the clock only reports violations.
package turnclock

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrUnknownGame = errors.New("no turn recorded for game")
	ErrDisabled    = errors.New("turn clock disabled")
)

// Violation describes a turn that ran past its deadline.
type Violation struct {
	GameID        string    `json:"gameId"`
	PlayerID      string    `json:"playerId"`
	TurnStartedAt time.Time `json:"turnStartedAt"`
	DeadlineAt    time.Time `json:"deadlineAt"`
	ViolationType string    `json:"violationType"` // "timeout"
}

type turn struct {
	playerID  string
	startedAt time.Time
}

// Clock keeps the start of the current turn for every game.
type Clock struct {
	limit time.Duration

	mu    sync.RWMutex
	turns map[string]turn // gameID -> current turn
}

// New creates a clock with the given time per turn. A zero limit disables it.
func New(limit time.Duration) *Clock {
	return &Clock{
		limit: limit,
		turns: make(map[string]turn),
	}
}

func (c *Clock) Enabled() bool {
	return c.limit > 0
}

func (c *Clock) Limit() time.Duration {
	return c.limit
}

// StartTurn records that playerID now owns the turn in gameID.
func (c *Clock) StartTurn(gameID, playerID string, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns[gameID] = turn{playerID: playerID, startedAt: at}
}

// Forget drops a finished game.
func (c *Clock) Forget(gameID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.turns, gameID)
}

func (c *Clock) current(gameID string) (turn, error) {
	if !c.Enabled() {
		return turn{}, ErrDisabled
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.turns[gameID]
	if !ok {
		return turn{}, fmt.Errorf("%w: %s", ErrUnknownGame, gameID)
	}
	return t, nil
}

// CheckViolation returns a violation if the turn in gameID is overdue at now,
// and nil otherwise.
func (c *Clock) CheckViolation(gameID string, now time.Time) (*Violation, error) {
	t, err := c.current(gameID)
	if err != nil {
		return nil, err
	}
	deadline := t.startedAt.Add(c.limit)
	if !now.After(deadline) {
		return nil, nil
	}
	return &Violation{
		GameID:        gameID,
		PlayerID:      t.playerID,
		TurnStartedAt: t.startedAt,
		DeadlineAt:    deadline,
		ViolationType: "timeout",
	}, nil
}

// Remaining returns the time left in the current turn, never negative.
func (c *Clock) Remaining(gameID string, now time.Time) (time.Duration, error) {
	t, err := c.current(gameID)
	if err != nil {
		return 0, err
	}
	remaining := t.startedAt.Add(c.limit).Sub(now)
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

// FormatRemaining renders a duration for players, e.g. "2 minutes, 5 seconds".
func FormatRemaining(remaining time.Duration) string {
	if remaining <= 0 {
		return "Time expired"
	}

	hours := int(remaining.Hours())
	minutes := int(remaining.Minutes()) % 60
	seconds := int(remaining.Seconds()) % 60

	if hours > 0 {
		if minutes > 0 {
			return fmt.Sprintf("%d hours, %d minutes", hours, minutes)
		}
		return fmt.Sprintf("%d hours", hours)
	}

	if minutes > 0 {
		if seconds > 0 {
			return fmt.Sprintf("%d minutes, %d seconds", minutes, seconds)
		}
		return fmt.Sprintf("%d minutes", minutes)
	}

	return fmt.Sprintf("%d seconds", seconds)
}
