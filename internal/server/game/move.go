// FILE: chesscore/internal/server/game/move.go
package game

import (
	"fmt"

	"chesscore/internal/server/core"
)

// MoveResult records a completed move
type MoveResult struct {
	Piece    core.PieceKind `json:"piece"`
	Color    core.Color     `json:"color"`
	From     core.Square    `json:"from"`
	To       core.Square    `json:"to"`
	Captured core.PieceKind `json:"captured,omitempty"`
	Points   int            `json:"points,omitempty"`
	Castle   bool           `json:"castle,omitempty"`
	Number   int            `json:"number"`
}

// AttemptMove moves p to dest if dest is in p's freshly generated destination
// set. An enemy on dest is captured and its value credited to the mover, unless
// it is a king, in which case the move is refused. On success the active side
// swaps and the selection is cleared; on failure nothing changes.
func (g *Game) AttemptMove(p *Piece, dest core.Square) (MoveResult, error) {
	if err := dest.Validate(); err != nil {
		return MoveResult{}, err
	}
	if p == nil {
		return MoveResult{}, ErrUnknownPiece
	}
	if p.Color != g.active || !g.side(g.active).owns(p) {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrNotYourPiece, p)
	}

	g.refresh()
	if !containsSquare(g.destinations(p), dest) {
		return MoveResult{}, fmt.Errorf("%w: %s to %s", ErrIllegalMove, p, dest)
	}

	opp := g.side(core.OppositeColor(p.Color))
	victim, capture := opp.PieceAt(dest)
	if capture && !victim.Kind.Capturable() {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrKingCapture, dest)
	}

	res := MoveResult{
		Piece:  p.Kind,
		Color:  p.Color,
		From:   p.Square,
		To:     dest,
		Castle: isCastleHop(p, dest),
	}

	if capture {
		opp.remove(victim)
		res.Captured = victim.Kind
		res.Points = victim.Value()
		g.side(p.Color).Score += res.Points
	}

	p.Square = dest
	if res.Castle {
		p.Castled = true
	}

	g.moveCount++
	res.Number = g.moveCount
	g.lastResult = &res
	g.selected = nil
	g.active = core.OppositeColor(g.active)
	g.refresh()

	return res, nil
}
