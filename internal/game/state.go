package game

import "fmt"

type LocationKind string

const (
	KindPoint   LocationKind = "point"
	KindBar     LocationKind = "bar"
	KindOutside LocationKind = "outside"
)

// Location addresses one container of a BoardState. Index is used by points,
// Color by bar and outside.
type Location struct {
	Kind  LocationKind `json:"kind"`
	Index int          `json:"index"`
	Color Color        `json:"color"`
}

func Point(i int) Location { return Location{Kind: KindPoint, Index: i, Color: NoColor} }

func Bar(c Color) Location { return Location{Kind: KindBar, Color: c} }

func Outside(c Color) Location { return Location{Kind: KindOutside, Color: c} }

func (l Location) String() string {
	if l.Kind == KindPoint {
		return fmt.Sprintf("point %d", l.Index)
	}
	return fmt.Sprintf("%s %s", l.Color, l.Kind)
}

// BoardState holds every container on the board and the registry of pieces.
// The union of a color's containers always equals that color's registry.
type BoardState struct {
	points  []*Stack
	bar     [2]*Stack
	outside [2]*Stack
	pieces  [2]map[int]*Piece

	nextPieceID int
}

// NewBoardState returns a state with positionCount empty points.
func NewBoardState(positionCount int) *BoardState {
	s := &BoardState{}
	s.Initialize(positionCount)
	return s
}

// Initialize allocates positionCount empty points, empty bars and outsides, and
// empty registries. Any previous contents are discarded.
func (s *BoardState) Initialize(positionCount int) {
	if positionCount < 0 {
		positionCount = 0
	}
	s.points = make([]*Stack, positionCount)
	for i := range s.points {
		s.points[i] = &Stack{}
	}
	for c := range s.bar {
		s.bar[c] = &Stack{}
		s.outside[c] = &Stack{}
		s.pieces[c] = make(map[int]*Piece)
	}
	s.nextPieceID = 1
}

// Clear empties every container and registry in place and resets the piece id
// counter. The number of points is kept.
func (s *BoardState) Clear() {
	for _, p := range s.points {
		p.reset()
	}
	s.ensureContainers()
	for c := range s.bar {
		s.bar[c].reset()
		s.outside[c].reset()
		s.pieces[c] = make(map[int]*Piece)
	}
	s.nextPieceID = 1
}

func (s *BoardState) PositionCount() int {
	return len(s.points)
}

func (s *BoardState) point(pos int) (*Stack, error) {
	if pos < 0 || pos >= len(s.points) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, pos, len(s.points))
	}
	return s.points[pos], nil
}

// CountAt returns how many pieces of color c sit on point pos.
func (s *BoardState) CountAt(pos int, c Color) (int, error) {
	st, err := s.point(pos)
	if err != nil {
		return 0, err
	}
	return st.count(c), nil
}

func (s *BoardState) IsFree(pos int) (bool, error) {
	st, err := s.point(pos)
	if err != nil {
		return false, err
	}
	return st.Len() == 0, nil
}

// TopColor returns the color of the top piece on pos, or NoColor if it is empty.
func (s *BoardState) TopColor(pos int) (Color, error) {
	st, err := s.point(pos)
	if err != nil {
		return NoColor, err
	}
	if top := st.Peek(); top != nil {
		return top.Color, nil
	}
	return NoColor, nil
}

func (s *BoardState) ensureContainers() {
	for c := range s.bar {
		if s.bar[c] == nil {
			s.bar[c] = &Stack{}
		}
		if s.outside[c] == nil {
			s.outside[c] = &Stack{}
		}
		if s.pieces[c] == nil {
			s.pieces[c] = make(map[int]*Piece)
		}
	}
	if s.nextPieceID < 1 {
		s.nextPieceID = 1
	}
}

// Stack returns the read-only container at loc.
func (s *BoardState) Stack(loc Location) (*Stack, error) {
	s.ensureContainers()
	switch loc.Kind {
	case KindPoint:
		return s.point(loc.Index)
	case KindBar:
		if !loc.Color.valid() {
			return nil, fmt.Errorf("%w: bar without color", ErrInvalidLocation)
		}
		return s.bar[loc.Color], nil
	case KindOutside:
		if !loc.Color.valid() {
			return nil, fmt.Errorf("%w: outside without color", ErrInvalidLocation)
		}
		return s.outside[loc.Color], nil
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrInvalidLocation, loc.Kind)
	}
}

// Place creates a new piece of color c, registers it and pushes it onto loc.
func (s *BoardState) Place(loc Location, c Color) (*Piece, error) {
	if !c.valid() {
		return nil, fmt.Errorf("%w: cannot place piece of color %s", ErrInvalidLocation, c)
	}
	st, err := s.Stack(loc)
	if err != nil {
		return nil, err
	}
	p := &Piece{ID: s.nextPieceID, Color: c}
	s.nextPieceID++
	s.pieces[c][p.ID] = p
	st.push(p)
	return p, nil
}

// PlaceN places n pieces of color c on loc.
func (s *BoardState) PlaceN(loc Location, c Color, n int) error {
	for i := 0; i < n; i++ {
		if _, err := s.Place(loc, c); err != nil {
			return err
		}
	}
	return nil
}

// Move transfers the top piece of from onto to and returns it.
func (s *BoardState) Move(from, to Location) (*Piece, error) {
	src, err := s.Stack(from)
	if err != nil {
		return nil, err
	}
	dst, err := s.Stack(to)
	if err != nil {
		return nil, err
	}
	if src.Len() == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrEmptyContainer, from)
	}
	p := src.pop()
	dst.push(p)
	return p, nil
}

// Registered reports whether a piece with this id exists for color c.
func (s *BoardState) Registered(c Color, id int) bool {
	if !c.valid() {
		return false
	}
	_, ok := s.pieces[c][id]
	return ok
}

// Count returns the number of registered pieces of color c.
func (s *BoardState) Count(c Color) int {
	if !c.valid() {
		return 0
	}
	return len(s.pieces[c])
}

// BarCount and OutsideCount are shorthands used by rules.
func (s *BoardState) BarCount(c Color) int {
	if !c.valid() {
		return 0
	}
	s.ensureContainers()
	return s.bar[c].Len()
}

func (s *BoardState) OutsideCount(c Color) int {
	if !c.valid() {
		return 0
	}
	s.ensureContainers()
	return s.outside[c].Len()
}

// Verify checks piece conservation and single ownership.
func (s *BoardState) Verify() error {
	s.ensureContainers()
	seen := make(map[int]Location)
	counted := [2]int{}

	visit := func(loc Location, st *Stack) error {
		for _, p := range st.pieces {
			if prev, dup := seen[p.ID]; dup {
				return fmt.Errorf("piece %s owned by both %s and %s", p, prev, loc)
			}
			seen[p.ID] = loc
			if !s.Registered(p.Color, p.ID) {
				return fmt.Errorf("piece %s at %s is not registered", p, loc)
			}
			counted[p.Color]++
		}
		return nil
	}

	for i, st := range s.points {
		if err := visit(Point(i), st); err != nil {
			return err
		}
	}
	for _, c := range []Color{Light, Dark} {
		if err := visit(Bar(c), s.bar[c]); err != nil {
			return err
		}
		if err := visit(Outside(c), s.outside[c]); err != nil {
			return err
		}
	}
	for _, c := range []Color{Light, Dark} {
		if counted[c] != len(s.pieces[c]) {
			return fmt.Errorf("%s: %d pieces on board, %d registered", c, counted[c], len(s.pieces[c]))
		}
	}
	return nil
}

// Clone returns an independent copy of the board. Pieces are immutable and shared
// between the copies.
func (s *BoardState) Clone() *BoardState {
	s.ensureContainers()
	c := &BoardState{
		points:      make([]*Stack, len(s.points)),
		nextPieceID: s.nextPieceID,
	}
	for i, st := range s.points {
		c.points[i] = st.clone()
	}
	for color := range s.bar {
		c.bar[color] = s.bar[color].clone()
		c.outside[color] = s.outside[color].clone()
		c.pieces[color] = make(map[int]*Piece, len(s.pieces[color]))
		for id, p := range s.pieces[color] {
			c.pieces[color][id] = p
		}
	}
	return c
}

// PointSnapshot is a serializable view of one point.
type PointSnapshot struct {
	Position int   `json:"position"`
	Color    Color `json:"color"`
	Count    int   `json:"count"`
}

// Snapshot summarizes the board for display.
type Snapshot struct {
	Points  []PointSnapshot `json:"points"`
	Bar     map[Color]int   `json:"bar"`
	Outside map[Color]int   `json:"outside"`
}

func (s *BoardState) Snapshot() Snapshot {
	snap := Snapshot{
		Points:  make([]PointSnapshot, 0, len(s.points)),
		Bar:     map[Color]int{Light: s.BarCount(Light), Dark: s.BarCount(Dark)},
		Outside: map[Color]int{Light: s.OutsideCount(Light), Dark: s.OutsideCount(Dark)},
	}
	for i, st := range s.points {
		ps := PointSnapshot{Position: i, Color: NoColor, Count: st.Len()}
		if top := st.Peek(); top != nil {
			ps.Color = top.Color
		}
		snap.Points = append(snap.Points, ps)
	}
	return snap
}
