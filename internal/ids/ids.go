// Package ids allocates identifiers for players, matches and games.
package ids

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Allocator hands out unique ids. Implementations are safe for concurrent use.
type Allocator interface {
	Next() string
}

// UUID allocates random version 4 UUIDs.
type UUID struct{}

func (UUID) Next() string {
	return uuid.NewString()
}

// Sequence allocates prefix-1, prefix-2, ... and never reuses a value. It is meant
// for tests and single-process tools where readable ids help.
type Sequence struct {
	prefix string
	n      atomic.Uint64
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) Next() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.n.Add(1))
}
