// FILE: chesscore/internal/server/core/core.go
package core

type Color byte

const (
	ColorNone Color = iota
	ColorWhite
	ColorBlack
)

func (c Color) String() string {
	switch c {
	case ColorWhite:
		return "w"
	case ColorBlack:
		return "b"
	default:
		return "-"
	}
}

// Name returns the long form used in terminal output
func (c Color) Name() string {
	switch c {
	case ColorWhite:
		return "White"
	case ColorBlack:
		return "Black"
	default:
		return "None"
	}
}

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// ParseColor accepts "w"/"white" and "b"/"black"
func ParseColor(s string) (Color, bool) {
	switch s {
	case "w", "white":
		return ColorWhite, true
	case "b", "black":
		return ColorBlack, true
	default:
		return ColorNone, false
	}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	parsed, ok := ParseColor(string(b))
	if !ok {
		*c = ColorNone
		return nil
	}
	*c = parsed
	return nil
}
