// FILE: chesscore/internal/server/game/side.go
package game

import (
	"chesscore/internal/server/core"
)

// Side owns the live pieces of one color and its accumulated score
type Side struct {
	Color  core.Color
	Pieces []*Piece
	Score  int
}

func newSide(color core.Color) *Side {
	return &Side{Color: color}
}

// PieceAt returns the side's piece on sq, if any
func (s *Side) PieceAt(sq core.Square) (*Piece, bool) {
	for _, p := range s.Pieces {
		if p.Square == sq {
			return p, true
		}
	}
	return nil, false
}

// King returns the side's king, if it has one
func (s *Side) King() (*Piece, bool) {
	for _, p := range s.Pieces {
		if p.Kind == core.King {
			return p, true
		}
	}
	return nil, false
}

func (s *Side) owns(p *Piece) bool {
	for _, q := range s.Pieces {
		if q == p {
			return true
		}
	}
	return false
}

// remove drops a captured piece. Kings are never removed.
func (s *Side) remove(p *Piece) bool {
	if p.Kind == core.King {
		return false
	}
	for i, q := range s.Pieces {
		if q == p {
			s.Pieces = append(s.Pieces[:i], s.Pieces[i+1:]...)
			return true
		}
	}
	return false
}

// Material sums the value of the side's capturable pieces
func (s *Side) Material() int {
	total := 0
	for _, p := range s.Pieces {
		if p.Kind.Capturable() {
			total += p.Value()
		}
	}
	return total
}
