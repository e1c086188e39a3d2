// FILE: chesscore/internal/server/game/movegen.go
package game

import (
	"chesscore/internal/server/board"
	"chesscore/internal/server/core"
)

type direction struct{ df, dr int }

var (
	orthogonal = [...]direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	diagonal   = [...]direction{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	neighbours = [...]direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}, {1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	knightHops = [...]direction{{1, 2}, {-1, 2}, {1, -2}, {-1, -2}, {2, 1}, {2, -1}, {-2, 1}, {-2, -1}}
)

// Destinations returns the squares p may move to on occ, without castling.
// occ must reflect the current piece positions.
func Destinations(p *Piece, occ *board.Occupancy) []core.Square {
	switch p.Kind {
	case core.Pawn:
		return pawnDestinations(p, occ)
	case core.Rook:
		return slide(p, occ, orthogonal[:], nil)
	case core.Bishop:
		return slide(p, occ, diagonal[:], nil)
	case core.Knight:
		return step(p, occ, knightHops[:])
	case core.Queen:
		out := slide(p, occ, orthogonal[:], nil)
		return slide(p, occ, diagonal[:], out)
	case core.King:
		return step(p, occ, neighbours[:])
	default:
		return nil
	}
}

func pawnDestinations(p *Piece, occ *board.Occupancy) []core.Square {
	var out []core.Square
	dir := p.forward()

	one := p.Square.Offset(0, dir)
	if occ.IsEmpty(one) {
		out = append(out, one)
		if !p.Moved() {
			two := one.Offset(0, dir)
			if occ.IsEmpty(two) {
				out = append(out, two)
			}
		}
	}

	// Diagonals only ever capture
	for _, df := range [...]int{1, -1} {
		sq := p.Square.Offset(df, dir)
		if enemyAt(p, occ, sq) {
			out = append(out, sq)
		}
	}

	return out
}

// slide applies the sliding-ray protocol along each direction: empty squares
// are included, the first occupied square ends the ray and is included only
// when it holds an enemy piece.
func slide(p *Piece, occ *board.Occupancy, dirs []direction, out []core.Square) []core.Square {
	for _, d := range dirs {
		for sq := p.Square.Offset(d.df, d.dr); sq.Valid(); sq = sq.Offset(d.df, d.dr) {
			cell, _ := occ.At(sq)
			if cell.Empty() {
				out = append(out, sq)
				continue
			}
			if cell.Color != p.Color {
				out = append(out, sq)
			}
			break
		}
	}
	return out
}

// step checks each fixed offset independently; nothing blocks a jump
func step(p *Piece, occ *board.Occupancy, offsets []direction) []core.Square {
	var out []core.Square
	for _, d := range offsets {
		sq := p.Square.Offset(d.df, d.dr)
		if !sq.Valid() {
			continue
		}
		if cell, _ := occ.At(sq); cell.Empty() || cell.Color != p.Color {
			out = append(out, sq)
		}
	}
	return out
}

func enemyAt(p *Piece, occ *board.Occupancy, sq core.Square) bool {
	cell, err := occ.At(sq)
	return err == nil && !cell.Empty() && cell.Color != p.Color
}

func containsSquare(set []core.Square, sq core.Square) bool {
	for _, s := range set {
		if s == sq {
			return true
		}
	}
	return false
}
