// FILE: chesscore/internal/server/game/check.go
package game

import (
	"chesscore/internal/server/core"
)

// attackedBy is the union of the destination sets of every piece of color.
// Castling hops are left out: they never land on an occupied square, and
// generating them here would recurse between the two kings.
func (g *Game) attackedBy(color core.Color) map[core.Square]bool {
	set := make(map[core.Square]bool)
	for _, p := range g.side(color).Pieces {
		for _, sq := range Destinations(p, &g.occ) {
			set[sq] = true
		}
	}
	return set
}

// InCheck reports whether color's king stands on a square some opposing piece
// could move to. A side without a king is never in check.
func (g *Game) InCheck(color core.Color) bool {
	g.refresh()
	k, ok := g.side(color).King()
	if !ok {
		return false
	}
	return g.attackedBy(core.OppositeColor(color))[k.Square]
}

// Attacked reports whether sq appears in any destination set of color's pieces
func (g *Game) Attacked(sq core.Square, color core.Color) (bool, error) {
	if err := sq.Validate(); err != nil {
		return false, err
	}
	g.refresh()
	return g.attackedBy(color)[sq], nil
}
