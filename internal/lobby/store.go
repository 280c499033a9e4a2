// Package lobby keeps players, matches and running games in memory and serializes
// every mutation of a game.
package lobby

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/justinabrahms/atbackgammon/internal/game"
	"github.com/justinabrahms/atbackgammon/internal/rules"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrMatchNotFound  = errors.New("match not found")
	ErrGameNotFound   = errors.New("game not found")
	ErrDuplicateID    = errors.New("id already in use")
)

type playerEntry struct {
	mu     sync.Mutex
	player *game.Player
}

type gameEntry struct {
	mu      sync.Mutex
	session *game.Session
	rule    rules.Engine
	// participants are locked in id order after mu
	participants []*playerEntry
}

// Store is an in-memory registry.
//
// Games are mutated only inside Update, which holds the game's lock and the locks
// of both participants, so a player's stats never change under a concurrent read.
type Store struct {
	mu      sync.RWMutex
	players map[string]*playerEntry
	matches map[string]*game.Match
	games   map[string]*gameEntry
}

func NewStore() *Store {
	return &Store{
		players: make(map[string]*playerEntry),
		matches: make(map[string]*game.Match),
		games:   make(map[string]*gameEntry),
	}
}

func (s *Store) AddPlayer(p *game.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.players[p.ID]; exists {
		return fmt.Errorf("%w: player %s", ErrDuplicateID, p.ID)
	}
	s.players[p.ID] = &playerEntry{player: p}
	return nil
}

func (s *Store) playerEntry(id string) (*playerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	return e, nil
}

// Player returns a copy of the player.
func (s *Store) Player(id string) (game.Player, error) {
	e, err := s.playerEntry(id)
	if err != nil {
		return game.Player{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.player, nil
}

func (s *Store) AddMatch(m *game.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.matches[m.ID]; exists {
		return fmt.Errorf("%w: match %s", ErrDuplicateID, m.ID)
	}
	s.matches[m.ID] = m
	return nil
}

// UpdateMatch runs fn with exclusive access to the match. playerIDs are resolved
// to the stored players first.
func (s *Store) UpdateMatch(id string, fn func(m *game.Match, players []*game.Player) error, playerIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.matches[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	players := make([]*game.Player, 0, len(playerIDs))
	for _, pid := range playerIDs {
		e, ok := s.players[pid]
		if !ok {
			return fmt.Errorf("%w: %s", ErrPlayerNotFound, pid)
		}
		players = append(players, e.player)
	}
	return fn(m, players)
}

// RemoveMatch drops a match once its game exists.
func (s *Store) RemoveMatch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
}

// CreateGame builds a session with build while the match and both players are
// locked, and registers it under the session id.
func (s *Store) CreateGame(matchID string, build func(m *game.Match) (*game.Session, rules.Engine, error)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.matches[matchID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}

	var participants []*playerEntry
	for _, p := range m.Players {
		e, ok := s.players[p.ID]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrPlayerNotFound, p.ID)
		}
		participants = append(participants, e)
	}
	sort.Slice(participants, func(i, j int) bool {
		return participants[i].player.ID < participants[j].player.ID
	})
	unlock := lockAll(participants)
	defer unlock()

	session, rule, err := build(m)
	if err != nil {
		return "", err
	}
	if _, exists := s.games[session.ID]; exists {
		for _, p := range session.Players {
			p.Unbind()
		}
		return "", fmt.Errorf("%w: game %s", ErrDuplicateID, session.ID)
	}
	s.games[session.ID] = &gameEntry{session: session, rule: rule, participants: participants}
	delete(s.matches, matchID)
	return session.ID, nil
}

func lockAll(entries []*playerEntry) func() {
	for _, e := range entries {
		e.mu.Lock()
	}
	return func() {
		for i := len(entries) - 1; i >= 0; i-- {
			entries[i].mu.Unlock()
		}
	}
}

func (s *Store) gameEntry(id string) (*gameEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return e, nil
}

// Update runs fn with exclusive access to the game and its players. Calls for the
// same game never overlap.
func (s *Store) Update(gameID string, fn func(sess *game.Session, rule rules.Engine) error) error {
	e, err := s.gameEntry(gameID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	unlock := lockAll(e.participants)
	defer unlock()

	return fn(e.session, e.rule)
}

// View is Update for callers that only read. fn must not mutate.
func (s *Store) View(gameID string, fn func(sess *game.Session, rule rules.Engine)) error {
	return s.Update(gameID, func(sess *game.Session, rule rules.Engine) error {
		fn(sess, rule)
		return nil
	})
}

// EachGame calls fn for every game in id order, one game at a time.
func (s *Store) EachGame(fn func(sess *game.Session, rule rules.Engine)) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)

	for _, id := range ids {
		// games removed in between are skipped
		_ = s.View(id, fn)
	}
}

func (s *Store) RemoveGame(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}
