package record

import (
	"fmt"

	"github.com/justinabrahms/atbackgammon/internal/game"
	"github.com/justinabrahms/atbackgammon/internal/rules"
)

// recordedDice hands out the values of one recorded roll.
type recordedDice struct {
	values []int
}

func (d *recordedDice) Get(int) int {
	v := d.values[0]
	d.values = d.values[1:]
	return v
}

// Replay plays the record against a fresh session of the same rule. Player names
// are not recorded and equal the player ids.
func (r *Record) Replay(registry *rules.Registry) (*game.Session, error) {
	engine, err := registry.Lookup(r.RuleName)
	if err != nil {
		return nil, err
	}

	s := game.NewSession(r.GameID, engine)
	if err := s.AddHostPlayer(game.NewPlayer(r.HostID, r.HostID)); err != nil {
		return nil, err
	}
	if err := s.AddGuestPlayer(game.NewPlayer(r.GuestID, r.GuestID)); err != nil {
		return nil, err
	}

	player := func(id string) (*game.Player, error) {
		switch id {
		case r.HostID:
			return s.Host, nil
		case r.GuestID:
			return s.Guest, nil
		}
		return nil, fmt.Errorf("%w: %s", game.ErrNotParticipant, id)
	}

	for i, e := range r.Entries {
		if err := replayEntry(s, engine, e, player); err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, e.Type, err)
		}
	}
	if err := s.State.Verify(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return s, nil
}

func replayEntry(s *game.Session, engine rules.Engine, e Entry, player func(string) (*game.Player, error)) error {
	switch e.Type {
	case EntryStart:
		return s.Start()
	case EntryUndo:
		return s.UndoTurn()
	case EntryConfirm:
		return s.ConfirmTurn()
	case EntryRoll:
		_, err := s.RollDice(&recordedDice{values: e.Dice[:]})
		return err
	}

	if e.Type == EntryFinish && e.PlayerID == "" {
		return s.Finish(nil)
	}
	p, err := player(e.PlayerID)
	if err != nil {
		return err
	}
	switch e.Type {
	case EntryTurn:
		return s.AdvanceTurn(p)
	case EntryMove:
		_, err := engine.ApplyMove(s, p, e.From, e.Value)
		return err
	case EntryFinish:
		return s.Finish(p)
	}
	return fmt.Errorf("%w: unknown entry type %q", ErrCorrupt, e.Type)
}
