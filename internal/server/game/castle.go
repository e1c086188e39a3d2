// FILE: chesscore/internal/server/game/castle.go
package game

import (
	"chesscore/internal/server/core"
)

// castleDestinations returns the two-square king hops currently available.
// Only the transit squares between king and rook are tested for attack; the
// king's own square and its landing square are not.
func (g *Game) castleDestinations(k *Piece) []core.Square {
	if k.Kind != core.King || k.Moved() || k.Castled {
		return nil
	}
	// Rooks only count on the four corners
	if k.Origin.Rank != 0 && k.Origin.Rank != core.BoardSize-1 {
		return nil
	}

	own := g.side(k.Color)
	var attacked map[core.Square]bool
	var out []core.Square

	for _, corner := range [...]int{0, core.BoardSize - 1} {
		rookSq := core.Sq(corner, k.Origin.Rank)
		rook, ok := own.PieceAt(rookSq)
		if !ok || rook.Kind != core.Rook || rook.Origin != rookSq || rook.Moved() {
			continue
		}

		dir := 1
		if corner < k.Square.File {
			dir = -1
		}

		// The hop must land on a transit square
		var transit []core.Square
		for f := k.Square.File + dir; f != corner; f += dir {
			transit = append(transit, core.Sq(f, k.Square.Rank))
		}
		if len(transit) < 2 {
			continue
		}

		empty := true
		for _, sq := range transit {
			if !g.occ.IsEmpty(sq) {
				empty = false
				break
			}
		}
		if !empty {
			continue
		}

		if attacked == nil {
			attacked = g.attackedBy(core.OppositeColor(k.Color))
		}
		safe := true
		for _, sq := range transit {
			if attacked[sq] {
				safe = false
				break
			}
		}
		if !safe {
			continue
		}

		out = append(out, k.Square.Offset(2*dir, 0))
	}

	return out
}

func isCastleHop(p *Piece, dest core.Square) bool {
	if p.Kind != core.King || dest.Rank != p.Square.Rank {
		return false
	}
	df := dest.File - p.Square.File
	return df == 2 || df == -2
}
