package web

import (
	"net/http"

	"github.com/justinabrahms/atbackgammon/internal/game"
	"github.com/justinabrahms/atbackgammon/internal/rules"
	"github.com/justinabrahms/atbackgammon/internal/turnclock"
)

type PlayerView struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	GameID       string           `json:"gameId,omitempty"`
	Color        game.Color       `json:"color"`
	Stats        game.PlayerStats `json:"stats"`
	DoublesRatio float64          `json:"doublesRatio"`
}

func newPlayerView(p game.Player) PlayerView {
	return PlayerView{
		ID:           p.ID,
		Name:         p.Name,
		GameID:       p.GameID,
		Color:        p.Color,
		Stats:        p.Stats,
		DoublesRatio: p.Stats.DoublesRatio(),
	}
}

// PlayerInfo identifies a player inside match and game views.
type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func playerInfo(p *game.Player) *PlayerInfo {
	if p == nil {
		return nil
	}
	return &PlayerInfo{ID: p.ID, Name: p.Name}
}

type MatchView struct {
	ID       string      `json:"id"`
	RuleName string      `json:"ruleName"`
	Host     *PlayerInfo `json:"host"`
	Guest    *PlayerInfo `json:"guest"`
	Ready    bool        `json:"ready"`
}

func newMatchView(m *game.Match) MatchView {
	return MatchView{
		ID:       m.ID,
		RuleName: m.RuleName,
		Host:     playerInfo(m.Host),
		Guest:    playerInfo(m.Guest),
		Ready:    m.IsReady(),
	}
}

// TurnView is the game as seen by one of its players.
type TurnView struct {
	PlayerID      string            `json:"playerId"`
	Color         game.Color        `json:"color"`
	IsHost        bool              `json:"isHost"`
	IsPlayerTurn  bool              `json:"isPlayerTurn"`
	DiceWasRolled bool              `json:"diceWasRolled"`
	HasMoreMoves  bool              `json:"hasMoreMoves"`
	LegalMoves    []rules.LegalMove `json:"legalMoves"`
}

type GameView struct {
	ID            string         `json:"id"`
	RuleName      string         `json:"ruleName"`
	Status        game.Status    `json:"status"`
	Host          *PlayerInfo    `json:"host"`
	Guest         *PlayerInfo    `json:"guest"`
	Light         *PlayerInfo    `json:"light,omitempty"`
	Dark          *PlayerInfo    `json:"dark,omitempty"`
	TurnPlayer    *PlayerInfo    `json:"turnPlayer,omitempty"`
	TurnColor     game.Color     `json:"turnColor"`
	Dice          *game.DiceRoll `json:"dice,omitempty"`
	TurnConfirmed bool           `json:"turnConfirmed"`
	Winner        *PlayerInfo    `json:"winner,omitempty"`
	Board         game.Snapshot  `json:"board"`
	TimeRemaining string         `json:"timeRemaining,omitempty"`
	You           *TurnView      `json:"you,omitempty"`
}

func copyDice(d *game.DiceRoll) game.DiceRoll {
	c := *d
	c.Moves = append([]int{}, d.Moves...)
	c.MovesLeft = append([]int{}, d.MovesLeft...)
	return c
}

// newGameView must be called while the session is locked.
func (s *Service) newGameView(sess *game.Session, rule rules.Engine, playerID string) GameView {
	view := GameView{
		ID:            sess.ID,
		RuleName:      sess.RuleName,
		Status:        sess.Status,
		Host:          playerInfo(sess.Host),
		Guest:         playerInfo(sess.Guest),
		Light:         playerInfo(sess.PlayerByColor(game.Light)),
		Dark:          playerInfo(sess.PlayerByColor(game.Dark)),
		TurnPlayer:    playerInfo(sess.TurnPlayer),
		TurnColor:     sess.TurnColor(),
		TurnConfirmed: sess.TurnConfirmed,
		Winner:        playerInfo(sess.Winner),
		Board:         sess.State.Snapshot(),
	}
	if sess.TurnDice != nil {
		dice := copyDice(sess.TurnDice)
		view.Dice = &dice
	}
	if sess.HasStarted() && !sess.IsOver() {
		if remaining, err := s.clock.Remaining(sess.ID, s.now()); err == nil {
			view.TimeRemaining = turnclock.FormatRemaining(remaining)
		}
	}

	if p, err := participant(sess, playerID); err == nil {
		view.You = &TurnView{
			PlayerID:      p.ID,
			Color:         sess.ColorOf(p),
			IsHost:        sess.IsHost(p),
			IsPlayerTurn:  sess.IsPlayerTurn(p),
			DiceWasRolled: sess.DiceWasRolled(),
			HasMoreMoves:  sess.HasMoreMoves(),
			LegalMoves:    rule.LegalMoves(sess, p),
		}
	}
	return view
}

// GameSummary is a game listed for spectating.
type GameSummary struct {
	GameID         string             `json:"gameId"`
	RuleName       string             `json:"ruleName"`
	Status         game.Status        `json:"status"`
	Host           *PlayerInfo        `json:"host"`
	Guest          *PlayerInfo        `json:"guest"`
	TurnPlayer     *PlayerInfo        `json:"turnPlayer,omitempty"`
	Borne          map[game.Color]int `json:"borneOff"`
	SpectatorCount int                `json:"spectatorCount"`
}

// GetActiveGamesHandler lists games that have not finished. ?all=true includes
// finished games.
func (s *Service) GetActiveGamesHandler(w http.ResponseWriter, r *http.Request) {
	all := r.URL.Query().Get("all") == "true"

	games := []GameSummary{}
	s.store.EachGame(func(sess *game.Session, _ rules.Engine) {
		if sess.IsOver() && !all {
			return
		}
		games = append(games, GameSummary{
			GameID:     sess.ID,
			RuleName:   sess.RuleName,
			Status:     sess.Status,
			Host:       playerInfo(sess.Host),
			Guest:      playerInfo(sess.Guest),
			TurnPlayer: playerInfo(sess.TurnPlayer),
			Borne: map[game.Color]int{
				game.Light: sess.State.OutsideCount(game.Light),
				game.Dark:  sess.State.OutsideCount(game.Dark),
			},
		})
	})
	if s.hub != nil {
		for i := range games {
			games[i].SpectatorCount = s.hub.ClientCount(games[i].GameID)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
		"total": len(games),
	})
}
