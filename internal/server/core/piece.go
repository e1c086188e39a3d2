// FILE: chesscore/internal/server/core/piece.go
package core

import "math"

// PieceKind is the closed set of piece kinds. KindNone marks an empty square.
type PieceKind byte

const (
	KindNone PieceKind = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
)

// KingValue stands in for the king's unbounded worth; kings are never captured
const KingValue = math.MaxInt32

// Kinds lists every real piece kind
var Kinds = [...]PieceKind{Pawn, Rook, Knight, Bishop, Queen, King}

func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Rook:
		return "rook"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// Value returns the points credited for capturing a piece of this kind
func (k PieceKind) Value() int {
	switch k {
	case Pawn:
		return 1
	case Knight, Bishop:
		return 3
	case Rook:
		return 5
	case Queen:
		return 9
	case King:
		return KingValue
	default:
		return 0
	}
}

func (k PieceKind) Capturable() bool {
	return k != King && k != KindNone
}

// Letter returns the FEN letter for the kind in the given color
func (k PieceKind) Letter(c Color) byte {
	var l byte
	switch k {
	case Pawn:
		l = 'p'
	case Rook:
		l = 'r'
	case Knight:
		l = 'n'
	case Bishop:
		l = 'b'
	case Queen:
		l = 'q'
	case King:
		l = 'k'
	default:
		return '.'
	}
	if c == ColorWhite {
		l -= 'a' - 'A'
	}
	return l
}

// KindFromLetter is the inverse of Letter
func KindFromLetter(l byte) (PieceKind, Color, bool) {
	color := ColorBlack
	if l >= 'A' && l <= 'Z' {
		color = ColorWhite
		l += 'a' - 'A'
	}
	switch l {
	case 'p':
		return Pawn, color, true
	case 'r':
		return Rook, color, true
	case 'n':
		return Knight, color, true
	case 'b':
		return Bishop, color, true
	case 'q':
		return Queen, color, true
	case 'k':
		return King, color, true
	default:
		return KindNone, ColorNone, false
	}
}
