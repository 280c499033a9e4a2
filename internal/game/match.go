package game

import "fmt"

// Match stages a host and guest before a rule and board exist.
type Match struct {
	ID       string    `json:"id"`
	Host     *Player   `json:"host"`
	Guest    *Player   `json:"guest"`
	Players  []*Player `json:"-"`
	RuleName string    `json:"ruleName"`
}

func NewMatch(id, ruleName string) *Match {
	return &Match{ID: id, RuleName: ruleName}
}

func (m *Match) AddHost(p *Player) error {
	if m.Host != nil {
		return fmt.Errorf("%w: match %s host", ErrSlotOccupied, m.ID)
	}
	m.Host = p
	m.Players = append(m.Players, p)
	return nil
}

func (m *Match) AddGuest(p *Player) error {
	if m.Guest != nil {
		return fmt.Errorf("%w: match %s guest", ErrSlotOccupied, m.ID)
	}
	m.Guest = p
	m.Players = append(m.Players, p)
	return nil
}

// IsReady reports whether both slots are bound.
func (m *Match) IsReady() bool {
	return m.Host != nil && m.Guest != nil
}
