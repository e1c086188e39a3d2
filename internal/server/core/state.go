// FILE: chesscore/internal/server/core/state.go
package core

// Phase is the turn controller state
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSelected
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSelected:
		return "selected"
	default:
		return "unknown"
	}
}
