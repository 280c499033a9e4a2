package game

// PlayerStats are cumulative across games.
type PlayerStats struct {
	Wins    int `json:"wins"`
	Losses  int `json:"losses"`
	Rolls   int `json:"rolls"`
	Doubles int `json:"doubles"`
}

// DoublesRatio is the share of rolls that were doubles, in [0, 1].
func (s PlayerStats) DoublesRatio() float64 {
	if s.Rolls == 0 {
		return 0
	}
	return float64(s.Doubles) / float64(s.Rolls)
}

// Player outlives games. GameID and RuleName refer to the game the player is
// currently bound to and are lookup keys only.
type Player struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	GameID   string      `json:"gameId,omitempty"`
	RuleName string      `json:"ruleName,omitempty"`
	Color    Color       `json:"color"`
	Stats    PlayerStats `json:"stats"`
}

func NewPlayer(id, name string) *Player {
	return &Player{ID: id, Name: name, Color: NoColor}
}

func (p *Player) bind(gameID, ruleName string, c Color) {
	p.GameID = gameID
	p.RuleName = ruleName
	p.Color = c
}

// Unbind detaches the player from their current game.
func (p *Player) Unbind() {
	p.bind("", "", NoColor)
}

func (p *Player) recordRoll(d *DiceRoll) {
	p.Stats.Rolls++
	if d.IsDouble() {
		p.Stats.Doubles++
	}
}

func samePlayer(a, b *Player) bool {
	return a != nil && b != nil && a.ID == b.ID
}
