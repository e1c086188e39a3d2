// FILE: chesscore/internal/server/core/square.go
package core

import (
	"errors"
	"fmt"
)

// BoardSize is the width and height of the grid
const BoardSize = 8

// ErrInvalidSquare reports a coordinate outside the 8x8 grid
var ErrInvalidSquare = errors.New("invalid square")

// Square is a (file, rank) coordinate. File 0 is "a", rank 0 is "1".
type Square struct {
	File int `json:"file"`
	Rank int `json:"rank"`
}

func Sq(file, rank int) Square {
	return Square{File: file, Rank: rank}
}

func (s Square) Valid() bool {
	return s.File >= 0 && s.File < BoardSize && s.Rank >= 0 && s.Rank < BoardSize
}

// Validate returns an error wrapping ErrInvalidSquare for out-of-bounds squares
func (s Square) Validate() error {
	if !s.Valid() {
		return fmt.Errorf("%w: (%d,%d)", ErrInvalidSquare, s.File, s.Rank)
	}
	return nil
}

// Offset returns the square shifted by (df, dr); the result may be off-board
func (s Square) Offset(df, dr int) Square {
	return Square{File: s.File + df, Rank: s.Rank + dr}
}

func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.File, s.Rank)
	}
	return fmt.Sprintf("%c%c", 'a'+s.File, '1'+s.Rank)
}

// ParseSquare reads algebraic notation such as "e2"
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	f, r := s[0], s[1]
	if f >= 'A' && f <= 'H' {
		f += 'a' - 'A'
	}
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return Square{File: int(f - 'a'), Rank: int(r - '1')}, nil
}
