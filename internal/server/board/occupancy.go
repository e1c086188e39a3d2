// FILE: chesscore/internal/server/board/occupancy.go
package board

import (
	"chesscore/internal/server/core"
)

// Occupant is the content of one cell. The zero value is an empty square.
type Occupant struct {
	Color core.Color     `json:"color"`
	Kind  core.PieceKind `json:"kind"`
}

func (o Occupant) Empty() bool {
	return o.Kind == core.KindNone
}

// Occupancy is a derived lookup from square to occupant. It is rebuilt from the
// live pieces before every query and is never patched incrementally.
type Occupancy struct {
	cells [core.BoardSize][core.BoardSize]Occupant
}

// Reset clears every cell to empty
func (o *Occupancy) Reset() {
	o.cells = [core.BoardSize][core.BoardSize]Occupant{}
}

// Record writes an occupant at sq
func (o *Occupancy) Record(sq core.Square, color core.Color, kind core.PieceKind) error {
	if err := sq.Validate(); err != nil {
		return err
	}
	o.cells[sq.Rank][sq.File] = Occupant{Color: color, Kind: kind}
	return nil
}

// At returns the occupant of sq, or the empty Occupant
func (o *Occupancy) At(sq core.Square) (Occupant, error) {
	if err := sq.Validate(); err != nil {
		return Occupant{}, err
	}
	return o.cells[sq.Rank][sq.File], nil
}

// ColorAt returns core.ColorNone for empty squares
func (o *Occupancy) ColorAt(sq core.Square) (core.Color, error) {
	occ, err := o.At(sq)
	return occ.Color, err
}

// KindAt returns core.KindNone for empty squares
func (o *Occupancy) KindAt(sq core.Square) (core.PieceKind, error) {
	occ, err := o.At(sq)
	return occ.Kind, err
}

// IsEmpty reports whether an in-bounds square holds no piece
func (o *Occupancy) IsEmpty(sq core.Square) bool {
	occ, err := o.At(sq)
	return err == nil && occ.Empty()
}

// Count returns the number of occupied cells
func (o *Occupancy) Count() int {
	n := 0
	for r := range o.cells {
		for f := range o.cells[r] {
			if !o.cells[r][f].Empty() {
				n++
			}
		}
	}
	return n
}
