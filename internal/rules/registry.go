// Package rules holds the rule sets a game can be played with and the registry
// used to look them up by name.
package rules

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/justinabrahms/atbackgammon/internal/game"
)

var (
	ErrUnknownRule     = errors.New("unknown rule")
	ErrDuplicateRule   = errors.New("rule already registered")
	ErrInvalidRuleName = errors.New("invalid rule name")
	ErrIllegalMove     = errors.New("illegal move")
	ErrNotYourTurn     = errors.New("not your turn")
)

// Engine is a rule set: board geometry plus move application.
type Engine interface {
	game.Rule

	// ApplyMove moves one piece of the turn player from the given location by
	// value and spends that value from the session's dice. On error neither the
	// board nor the dice change.
	ApplyMove(s *game.Session, p *game.Player, from game.Location, value int) ([]game.MoveAction, error)

	// LegalMoves lists every single move the player could make right now.
	LegalMoves(s *game.Session, p *game.Player) []LegalMove
}

// LegalMove is a playable (location, die value) pair.
type LegalMove struct {
	From  game.Location `json:"from"`
	Value int           `json:"value"`
}

// HasLegalMoves reports whether p can make at least one move.
func HasLegalMoves(e Engine, s *game.Session, p *game.Player) bool {
	return len(e.LegalMoves(s, p)) > 0
}

var unsafeChars = regexp.MustCompile(`[^-_A-Za-z0-9]`)

// SanitizeName strips everything but letters, digits, '-' and '_'.
func SanitizeName(name string) string {
	return unsafeChars.ReplaceAllString(name, "")
}

// Registry maps sanitized names to rule sets. It is filled at startup and safe
// for concurrent lookups.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Engine
}

func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Engine)}
}

// DefaultRegistry contains every bundled rule set.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, e := range []Engine{NewBgCasual(), NewNackgammon()} {
		if err := r.Register(e); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *Registry) Register(e Engine) error {
	name := e.Name()
	if name == "" || SanitizeName(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidRuleName, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRule, name)
	}
	r.rules[name] = e
	return nil
}

// Lookup sanitizes name before resolving it.
func (r *Registry) Lookup(name string) (Engine, error) {
	clean := SanitizeName(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.rules[clean]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, clean)
	}
	return e, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rules))
	for n := range r.rules {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
