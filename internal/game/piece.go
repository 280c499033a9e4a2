package game

import (
	"fmt"
	"slices"
)

// Piece is a single checker. Only BoardState creates pieces, and a piece lives in
// exactly one container at a time.
type Piece struct {
	ID    int   `json:"id"`
	Color Color `json:"color"`
}

func (p *Piece) String() string {
	return fmt.Sprintf("%s#%d", p.Color, p.ID)
}

// Stack is a last-in-first-out container of pieces. Index 0 is the top, the most
// recently placed piece. Stacks are read-only outside of BoardState.
type Stack struct {
	pieces []*Piece // top at the end
}

func (s *Stack) Len() int {
	return len(s.pieces)
}

// Peek returns the top piece or nil.
func (s *Stack) Peek() *Piece {
	if len(s.pieces) == 0 {
		return nil
	}
	return s.pieces[len(s.pieces)-1]
}

// At returns the piece i positions below the top, or nil if out of range.
func (s *Stack) At(i int) *Piece {
	if i < 0 || i >= len(s.pieces) {
		return nil
	}
	return s.pieces[len(s.pieces)-1-i]
}

// Pieces returns a copy of the stack contents ordered top first.
func (s *Stack) Pieces() []*Piece {
	out := make([]*Piece, len(s.pieces))
	for i := range s.pieces {
		out[i] = s.At(i)
	}
	return out
}

func (s *Stack) count(c Color) int {
	n := 0
	for _, p := range s.pieces {
		if p.Color == c {
			n++
		}
	}
	return n
}

func (s *Stack) push(p *Piece) {
	s.pieces = append(s.pieces, p)
}

func (s *Stack) pop() *Piece {
	p := s.Peek()
	if p == nil {
		return nil
	}
	s.pieces[len(s.pieces)-1] = nil
	s.pieces = s.pieces[:len(s.pieces)-1]
	return p
}

func (s *Stack) clone() *Stack {
	return &Stack{pieces: slices.Clone(s.pieces)}
}

func (s *Stack) reset() {
	for i := range s.pieces {
		s.pieces[i] = nil
	}
	s.pieces = s.pieces[:0]
}
