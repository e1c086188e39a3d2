// FILE: chesscore/internal/client/display/board.go
package display

import (
	"fmt"
	"io"
	"strings"
)

// RenderBoard renders an ASCII board with colored pieces.
// '*' marks a reachable square of the selected piece and '<' trails the selected piece.
func RenderBoard(w io.Writer, asciiBoard string) {
	lines := strings.Split(asciiBoard, "\n")

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		isFileLine := (i == 0) || (i == 9)

		for _, char := range line {
			switch {
			case char >= 'a' && char <= 'h' && isFileLine:
				fmt.Fprintf(w, "%s%c%s", Cyan, char, Reset)
			case char >= 'A' && char <= 'Z':
				fmt.Fprintf(w, "%s%c%s", Blue, char, Reset)
			case char >= 'a' && char <= 'z' && !isFileLine:
				fmt.Fprintf(w, "%s%c%s", Red, char, Reset)
			case char == '*':
				fmt.Fprintf(w, "%s%c%s", Green, char, Reset)
			case char == '<':
				fmt.Fprintf(w, "%s%c%s", Yellow, char, Reset)
			case char >= '1' && char <= '8':
				fmt.Fprintf(w, "%s%c%s", Cyan, char, Reset)
			default:
				fmt.Fprintf(w, "%c", char)
			}
		}
		fmt.Fprintln(w)
	}
}

// ColorForTurn returns colored turn indicator
func ColorForTurn(turn string) string {
	if turn == "w" {
		return Blue + "White" + Reset
	}
	return Red + "Black" + Reset
}
