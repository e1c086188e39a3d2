// FILE: chesscore/internal/server/game/piece.go
package game

import (
	"chesscore/internal/server/core"
)

// Piece is a live piece. Square is authoritative; the occupancy grid is derived from it.
type Piece struct {
	ID     int            `json:"id"`
	Kind   core.PieceKind `json:"kind"`
	Color  core.Color     `json:"color"`
	Square core.Square    `json:"square"`
	Origin core.Square    `json:"origin"`

	// Castled is only meaningful for kings
	Castled bool `json:"castled,omitempty"`
}

// Moved reports whether the piece has left its original square. A piece that
// returns to its origin counts as unmoved again.
func (p *Piece) Moved() bool {
	return p.Square != p.Origin
}

func (p *Piece) Value() int {
	return p.Kind.Value()
}

// forward is the pawn rank direction, fixed by the half of the board it started on
func (p *Piece) forward() int {
	if p.Origin.Rank < core.BoardSize/2 {
		return 1
	}
	return -1
}

func (p *Piece) String() string {
	return p.Color.String() + " " + p.Kind.String() + " " + p.Square.String()
}
