// FILE: chesscore/internal/server/board/placement.go
package board

import (
	"errors"
	"fmt"
	"strings"

	"chesscore/internal/server/core"
)

const (
	// StartingPlacement is the standard layout, white on ranks 1-2
	StartingPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"
)

// ErrInvalidPlacement reports a malformed placement string
var ErrInvalidPlacement = errors.New("invalid placement")

// Placement is one piece in a setup
type Placement struct {
	Square core.Square
	Color  core.Color
	Kind   core.PieceKind
}

// ParsePlacement reads the piece placement field of a FEN string. Any fields
// after the first are ignored.
func ParsePlacement(fen string) ([]Placement, error) {
	parts := strings.Fields(fen)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPlacement)
	}

	rows := strings.Split(parts[0], "/")
	if len(rows) != core.BoardSize {
		return nil, fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidPlacement, len(rows))
	}

	var out []Placement
	for i, row := range rows {
		rank := core.BoardSize - 1 - i
		file := 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			kind, color, ok := core.KindFromLetter(ch)
			if !ok {
				return nil, fmt.Errorf("%w: unknown piece %q in rank %d", ErrInvalidPlacement, ch, rank+1)
			}
			if file >= core.BoardSize {
				return nil, fmt.Errorf("%w: too many pieces in rank %d", ErrInvalidPlacement, rank+1)
			}
			out = append(out, Placement{Square: core.Sq(file, rank), Color: color, Kind: kind})
			file++
		}
		if file != core.BoardSize {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidPlacement, rank+1, file)
		}
	}

	return out, nil
}

// StandardSetup returns the 32-piece opening layout
func StandardSetup() []Placement {
	out, err := ParsePlacement(StartingPlacement)
	if err != nil {
		panic(err)
	}
	return out
}
