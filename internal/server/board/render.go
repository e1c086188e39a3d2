// FILE: chesscore/internal/server/board/render.go
package board

import (
	"fmt"
	"strings"

	"chesscore/internal/server/core"

	"github.com/corentings/chess/v2"
)

// Highlight marks the selected square and its destinations in ToASCII output
type Highlight struct {
	Selected *core.Square
	Targets  []core.Square
}

// ToASCII creates an ASCII representation of the grid, rank 8 on top.
// Selected pieces are followed by '<', destinations by '*'.
func (o *Occupancy) ToASCII(hl *Highlight) string {
	marks := make(map[core.Square]byte)
	if hl != nil {
		for _, sq := range hl.Targets {
			marks[sq] = '*'
		}
		if hl.Selected != nil {
			marks[*hl.Selected] = '<'
		}
	}

	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := core.BoardSize - 1; r >= 0; r-- {
		sb.WriteString(fmt.Sprintf("%d ", r+1))
		for f := 0; f < core.BoardSize; f++ {
			sq := core.Sq(f, r)
			cell := o.cells[r][f]
			mark, marked := marks[sq]
			switch {
			case cell.Empty() && marked:
				sb.WriteByte(mark)
				sb.WriteByte(' ')
			case marked:
				sb.WriteByte(cell.Kind.Letter(cell.Color))
				sb.WriteByte(mark)
			default:
				sb.WriteByte(cell.Kind.Letter(cell.Color))
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r+1))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}

// FEN returns the piece placement field for the current grid
func (o *Occupancy) FEN() string {
	m := make(map[chess.Square]chess.Piece)
	for r := 0; r < core.BoardSize; r++ {
		for f := 0; f < core.BoardSize; f++ {
			cell := o.cells[r][f]
			if cell.Empty() {
				continue
			}
			m[chess.NewSquare(chess.File(f), chess.Rank(r))] = chess.NewPiece(pieceType(cell.Kind), pieceColor(cell.Color))
		}
	}
	return chess.NewBoard(m).String()
}

func pieceType(k core.PieceKind) chess.PieceType {
	switch k {
	case core.Pawn:
		return chess.Pawn
	case core.Rook:
		return chess.Rook
	case core.Knight:
		return chess.Knight
	case core.Bishop:
		return chess.Bishop
	case core.Queen:
		return chess.Queen
	case core.King:
		return chess.King
	default:
		return chess.NoPieceType
	}
}

func pieceColor(c core.Color) chess.Color {
	if c == core.ColorWhite {
		return chess.White
	}
	return chess.Black
}
