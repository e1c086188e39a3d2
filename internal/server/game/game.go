// FILE: chesscore/internal/server/game/game.go
package game

import (
	"fmt"
	"sort"

	"chesscore/internal/server/board"
	"chesscore/internal/server/core"
)

// Game is the whole mutable state of one match. It is not safe for concurrent
// use; callers serialise access.
type Game struct {
	occ        board.Occupancy
	sides      map[core.Color]*Side
	active     core.Color
	selected   *Piece
	players    map[core.Color]*core.Player
	moveCount  int
	lastResult *MoveResult
}

// Outcome describes what one HandleSquare event did
type Outcome struct {
	Selected *Piece
	Move     *MoveResult
}

// New creates a game in the standard opening layout with white to move
func New(whitePlayer, blackPlayer *core.Player) *Game {
	g, err := NewFromPlacement(board.StandardSetup(), core.ColorWhite, whitePlayer, blackPlayer)
	if err != nil {
		panic(err)
	}
	return g
}

// NewFromPlacement creates a game from an arbitrary setup. Every piece starts on
// its original square.
func NewFromPlacement(placements []board.Placement, turn core.Color, whitePlayer, blackPlayer *core.Player) (*Game, error) {
	if turn != core.ColorWhite && turn != core.ColorBlack {
		return nil, fmt.Errorf("%w: no side to move", ErrInvalidSetup)
	}

	g := &Game{
		sides: map[core.Color]*Side{
			core.ColorWhite: newSide(core.ColorWhite),
			core.ColorBlack: newSide(core.ColorBlack),
		},
		active: turn,
		players: map[core.Color]*core.Player{
			core.ColorWhite: whitePlayer,
			core.ColorBlack: blackPlayer,
		},
	}

	seen := make(map[core.Square]bool, len(placements))
	for i, pl := range placements {
		if err := pl.Square.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSetup, err)
		}
		if seen[pl.Square] {
			return nil, fmt.Errorf("%w: two pieces on %s", ErrInvalidSetup, pl.Square)
		}
		side, ok := g.sides[pl.Color]
		if !ok || pl.Kind == core.KindNone {
			return nil, fmt.Errorf("%w: bad piece on %s", ErrInvalidSetup, pl.Square)
		}
		if pl.Kind == core.King {
			if _, dup := side.King(); dup {
				return nil, fmt.Errorf("%w: second %s king", ErrInvalidSetup, pl.Color.Name())
			}
		}
		seen[pl.Square] = true
		side.Pieces = append(side.Pieces, &Piece{
			ID:     i + 1,
			Kind:   pl.Kind,
			Color:  pl.Color,
			Square: pl.Square,
			Origin: pl.Square,
		})
	}

	g.refresh()
	return g, nil
}

// refresh rebuilds the occupancy grid from the live pieces. It runs before
// every legality query so the grid can never be stale.
func (g *Game) refresh() {
	g.occ.Reset()
	for _, color := range [...]core.Color{core.ColorWhite, core.ColorBlack} {
		for _, p := range g.sides[color].Pieces {
			// Live pieces are always on the board
			_ = g.occ.Record(p.Square, p.Color, p.Kind)
		}
	}
}

func (g *Game) side(c core.Color) *Side {
	return g.sides[c]
}

// Side returns the side for color
func (g *Game) Side(c core.Color) (*Side, bool) {
	s, ok := g.sides[c]
	return s, ok
}

func (g *Game) ActiveSide() core.Color {
	return g.active
}

func (g *Game) Score(c core.Color) int {
	if s, ok := g.sides[c]; ok {
		return s.Score
	}
	return 0
}

func (g *Game) Phase() core.Phase {
	if g.selected != nil {
		return core.PhaseSelected
	}
	return core.PhaseIdle
}

func (g *Game) Selected() (*Piece, bool) {
	return g.selected, g.selected != nil
}

func (g *Game) MoveCount() int {
	return g.moveCount
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

func (g *Game) GetPlayer(color core.Color) *core.Player {
	return g.players[color]
}

// Occupant returns what stands on sq
func (g *Game) Occupant(sq core.Square) (board.Occupant, error) {
	return g.occ.At(sq)
}

// Occupancy exposes the grid for read-only rendering
func (g *Game) Occupancy() *board.Occupancy {
	return &g.occ
}

// PieceAt returns the piece of either side on sq
func (g *Game) PieceAt(sq core.Square) (*Piece, bool, error) {
	if err := sq.Validate(); err != nil {
		return nil, false, err
	}
	for _, s := range g.sides {
		if p, ok := s.PieceAt(sq); ok {
			return p, true, nil
		}
	}
	return nil, false, nil
}

// SelectAt selects the active side's piece on sq. On failure the current
// selection is left as it was.
func (g *Game) SelectAt(sq core.Square) (*Piece, error) {
	if err := sq.Validate(); err != nil {
		return nil, err
	}
	g.refresh()
	p, ok := g.side(g.active).PieceAt(sq)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotSelectable, sq)
	}
	g.selected = p
	return p, nil
}

// Deselect drops the current selection
func (g *Game) Deselect() {
	g.selected = nil
}

// Target attempts to move the selected piece to sq. The selection is dropped
// whether or not the move succeeds.
func (g *Game) Target(sq core.Square) (MoveResult, error) {
	p := g.selected
	if p == nil {
		return MoveResult{}, ErrNoSelection
	}
	g.selected = nil
	return g.AttemptMove(p, sq)
}

// HandleSquare feeds one square event through the turn state machine: in the
// idle phase it selects, in the selected phase it targets.
func (g *Game) HandleSquare(sq core.Square) (Outcome, error) {
	if g.selected == nil {
		p, err := g.SelectAt(sq)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Selected: p}, nil
	}

	res, err := g.Target(sq)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Move: &res}, nil
}

// LegalDestinations returns p's destination set, castling included, ordered by rank then file
func (g *Game) LegalDestinations(p *Piece) ([]core.Square, error) {
	if p == nil || !g.side(p.Color).owns(p) {
		return nil, ErrUnknownPiece
	}
	g.refresh()
	dests := g.destinations(p)
	SortSquares(dests)
	return dests, nil
}

// destinations expects a fresh grid
func (g *Game) destinations(p *Piece) []core.Square {
	out := Destinations(p, &g.occ)
	if p.Kind == core.King {
		out = append(out, g.castleDestinations(p)...)
	}
	return out
}

// SortSquares orders squares by rank, then file
func SortSquares(sqs []core.Square) {
	sort.Slice(sqs, func(i, j int) bool {
		if sqs[i].Rank != sqs[j].Rank {
			return sqs[i].Rank < sqs[j].Rank
		}
		return sqs[i].File < sqs[j].File
	})
}

// ASCII renders the board, marking the current selection and its destinations
func (g *Game) ASCII() string {
	g.refresh()
	if g.selected == nil {
		return g.occ.ToASCII(nil)
	}
	sq := g.selected.Square
	return g.occ.ToASCII(&board.Highlight{
		Selected: &sq,
		Targets:  g.destinations(g.selected),
	})
}

// FEN returns the placement field of the current board
func (g *Game) FEN() string {
	g.refresh()
	return g.occ.FEN()
}
