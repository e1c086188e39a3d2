package board

import (
	"errors"
	"strings"
	"testing"

	"chesscore/internal/server/core"

	"github.com/google/go-cmp/cmp"
)

func TestOccupancyResetAndRecord(t *testing.T) {
	var o Occupancy

	if err := o.Record(core.Sq(0, 0), core.ColorWhite, core.Rook); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := o.Record(core.Sq(0, 3), core.ColorBlack, core.Pawn); err != nil {
		t.Fatalf("Record: %v", err)
	}

	t.Run("recorded cells", func(t *testing.T) {
		got, err := o.At(core.Sq(0, 0))
		if err != nil {
			t.Fatalf("At: %v", err)
		}
		if diff := cmp.Diff(Occupant{Color: core.ColorWhite, Kind: core.Rook}, got); diff != "" {
			t.Errorf("At(a1) mismatch (-want +got):\n%s", diff)
		}
		if c, _ := o.ColorAt(core.Sq(0, 3)); c != core.ColorBlack {
			t.Errorf("ColorAt(a4) = %v; want b", c)
		}
		if k, _ := o.KindAt(core.Sq(0, 3)); k != core.Pawn {
			t.Errorf("KindAt(a4) = %v; want pawn", k)
		}
	})

	t.Run("empty sentinel", func(t *testing.T) {
		got, err := o.At(core.Sq(4, 4))
		if err != nil {
			t.Fatalf("At: %v", err)
		}
		if !got.Empty() || got.Color != core.ColorNone {
			t.Errorf("At(e5) = %+v; want empty", got)
		}
	})

	t.Run("count", func(t *testing.T) {
		if n := o.Count(); n != 2 {
			t.Errorf("Count() = %d; want 2", n)
		}
	})

	t.Run("reset clears all", func(t *testing.T) {
		o.Reset()
		if n := o.Count(); n != 0 {
			t.Errorf("Count() after Reset = %d; want 0", n)
		}
	})
}

func TestOccupancyInvalidSquare(t *testing.T) {
	var o Occupancy
	bad := []core.Square{{File: -1, Rank: 0}, {File: 8, Rank: 0}, {File: 0, Rank: -1}, {File: 3, Rank: 8}}

	for _, sq := range bad {
		if _, err := o.At(sq); !errors.Is(err, core.ErrInvalidSquare) {
			t.Errorf("At(%v) error = %v; want ErrInvalidSquare", sq, err)
		}
		if err := o.Record(sq, core.ColorWhite, core.Pawn); !errors.Is(err, core.ErrInvalidSquare) {
			t.Errorf("Record(%v) error = %v; want ErrInvalidSquare", sq, err)
		}
		if o.IsEmpty(sq) {
			t.Errorf("IsEmpty(%v) = true; want false for off-board", sq)
		}
	}
}

func TestParsePlacement(t *testing.T) {
	t.Run("standard setup", func(t *testing.T) {
		ps := StandardSetup()
		if len(ps) != 32 {
			t.Fatalf("len = %d; want 32", len(ps))
		}
		want := map[core.Square]Placement{
			core.Sq(0, 0): {core.Sq(0, 0), core.ColorWhite, core.Rook},
			core.Sq(4, 0): {core.Sq(4, 0), core.ColorWhite, core.King},
			core.Sq(3, 7): {core.Sq(3, 7), core.ColorBlack, core.Queen},
			core.Sq(6, 6): {core.Sq(6, 6), core.ColorBlack, core.Pawn},
			core.Sq(1, 1): {core.Sq(1, 1), core.ColorWhite, core.Pawn},
		}
		got := make(map[core.Square]Placement)
		for _, p := range ps {
			if _, ok := want[p.Square]; ok {
				got[p.Square] = p
			}
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("placement mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("full FEN accepted", func(t *testing.T) {
		ps, err := ParsePlacement("8/8/8/8/8/8/8/R3K3 w - - 0 1")
		if err != nil {
			t.Fatalf("ParsePlacement: %v", err)
		}
		if len(ps) != 2 {
			t.Errorf("len = %d; want 2", len(ps))
		}
	})

	errCases := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"seven ranks", "8/8/8/8/8/8/8"},
		{"short rank", "7/8/8/8/8/8/8/8"},
		{"long rank", "9/8/8/8/8/8/8/8"},
		{"unknown piece", "x7/8/8/8/8/8/8/8"},
		{"overflow", "8p/8/8/8/8/8/8/8"},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParsePlacement(tc.fen); !errors.Is(err, ErrInvalidPlacement) {
				t.Errorf("ParsePlacement(%q) error = %v; want ErrInvalidPlacement", tc.fen, err)
			}
		})
	}
}

func TestRender(t *testing.T) {
	var o Occupancy
	for _, p := range StandardSetup() {
		if err := o.Record(p.Square, p.Color, p.Kind); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	t.Run("FEN", func(t *testing.T) {
		if got := o.FEN(); got != StartingPlacement {
			t.Errorf("FEN() = %q; want %q", got, StartingPlacement)
		}
	})

	t.Run("FEN round trip", func(t *testing.T) {
		for _, fen := range []string{"8/8/8/8/8/8/8/8", "8/8/8/8/p7/8/8/R7", "r3k2r/8/8/8/8/8/8/R3K2R", "4k3/8/8/3Q4/8/8/8/4K3"} {
			ps, err := ParsePlacement(fen)
			if err != nil {
				t.Fatalf("ParsePlacement(%q): %v", fen, err)
			}
			var grid Occupancy
			for _, p := range ps {
				if err := grid.Record(p.Square, p.Color, p.Kind); err != nil {
					t.Fatalf("Record: %v", err)
				}
			}
			if got := grid.FEN(); got != fen {
				t.Errorf("FEN() = %q; want %q", got, fen)
			}
		}
	})

	t.Run("ASCII", func(t *testing.T) {
		lines := strings.Split(o.ToASCII(nil), "\n")
		if len(lines) != 10 {
			t.Fatalf("got %d lines; want 10", len(lines))
		}
		if lines[1] != "8 r n b q k b n r  8" {
			t.Errorf("rank 8 = %q", lines[1])
		}
		if lines[8] != "1 R N B Q K B N R  1" {
			t.Errorf("rank 1 = %q", lines[8])
		}
	})

	t.Run("ASCII highlight", func(t *testing.T) {
		sel := core.Sq(1, 0)
		hl := &Highlight{Selected: &sel, Targets: []core.Square{core.Sq(0, 2), core.Sq(2, 2)}}
		lines := strings.Split(o.ToASCII(hl), "\n")
		if lines[6] != "3 * . * . . . . .  3" {
			t.Errorf("rank 3 = %q", lines[6])
		}
		if !strings.HasPrefix(lines[8], "1 R N<") {
			t.Errorf("rank 1 = %q", lines[8])
		}
	})
}
