// FILE: chesscore/internal/client/display/format.go
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// PrettyPrintJSON prints formatted JSON
func PrettyPrintJSON(w io.Writer, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "%sError formatting JSON: %s%s\n", Red, err.Error(), Reset)
		return
	}
	fmt.Fprintln(w, string(data))
}

// Squares joins square names for a single line of output
func Squares(squares []string) string {
	if len(squares) == 0 {
		return "none"
	}
	return strings.Join(squares, " ")
}
