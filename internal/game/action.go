package game

// MoveActionType is owned by rules. The values below are shared by most rule sets;
// rules may define their own.
type MoveActionType string

const (
	ActionMove    MoveActionType = "move"
	ActionRecover MoveActionType = "recover"
	ActionHit     MoveActionType = "hit"
	ActionBear    MoveActionType = "bear"
)

// MoveAction is one board change produced by applying a move.
type MoveAction struct {
	Type  MoveActionType `json:"type"`
	Piece *Piece         `json:"piece,omitempty"`
	From  Location       `json:"from"`
	To    Location       `json:"to"`
	Value int            `json:"value,omitempty"`
}
