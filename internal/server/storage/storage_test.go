package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "chess.db"), false)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func flush(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func TestRecordAndQuery(t *testing.T) {
	s := newTestStore(t)
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	game := GameRecord{
		GameID:        "g1",
		InitialFEN:    "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",
		InitialTurn:   "w",
		WhitePlayerID: "pw",
		BlackPlayerID: "pb",
		StartTimeUTC:  start,
	}
	moves := []MoveRecord{
		{GameID: "g1", MoveNumber: 1, FromSquare: "e2", ToSquare: "e4", Piece: "pawn",
			FENAfterMove: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR", PlayerColor: "w", MoveTimeUTC: start.Add(time.Second)},
		{GameID: "g1", MoveNumber: 2, FromSquare: "d7", ToSquare: "d5", Piece: "pawn",
			FENAfterMove: "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR", PlayerColor: "b", MoveTimeUTC: start.Add(2 * time.Second)},
		{GameID: "g1", MoveNumber: 3, FromSquare: "e4", ToSquare: "d5", Piece: "pawn", Captured: "pawn", Points: 1,
			FENAfterMove: "rnbqkbnr/ppp1pppp/8/3P4/8/8/PPPP1PPP/RNBQKBNR", PlayerColor: "w", MoveTimeUTC: start.Add(3 * time.Second)},
	}

	if err := s.RecordNewGame(game); err != nil {
		t.Fatalf("RecordNewGame: %v", err)
	}
	for _, m := range moves {
		if err := s.RecordMove(m); err != nil {
			t.Fatalf("RecordMove: %v", err)
		}
	}
	end := start.Add(time.Minute)
	if err := s.RecordGameEnd("g1", end); err != nil {
		t.Fatalf("RecordGameEnd: %v", err)
	}
	flush(t, s)

	t.Run("games by id", func(t *testing.T) {
		got, err := s.QueryGames("g1", "")
		if err != nil {
			t.Fatalf("QueryGames: %v", err)
		}
		want := game
		want.EndTimeUTC = &end
		if diff := cmp.Diff([]GameRecord{want}, got, cmpopts.EquateApproxTime(time.Second)); diff != "" {
			t.Errorf("games mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("games by player", func(t *testing.T) {
		for _, player := range []string{"pw", "pb", "*"} {
			got, err := s.QueryGames("*", player)
			if err != nil {
				t.Fatalf("QueryGames: %v", err)
			}
			if len(got) != 1 {
				t.Errorf("QueryGames(*, %s) = %d games; want 1", player, len(got))
			}
		}
		got, err := s.QueryGames("", "nobody")
		if err != nil {
			t.Fatalf("QueryGames: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("QueryGames for unknown player = %d games; want 0", len(got))
		}
	})

	t.Run("moves in order", func(t *testing.T) {
		got, err := s.QueryMoves("g1")
		if err != nil {
			t.Fatalf("QueryMoves: %v", err)
		}
		if diff := cmp.Diff(moves, got,
			cmpopts.IgnoreFields(MoveRecord{}, "MoveID"),
			cmpopts.EquateApproxTime(time.Second),
		); diff != "" {
			t.Errorf("moves mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestDegradedStoreDropsWrites(t *testing.T) {
	s := newTestStore(t)

	if err := s.RecordNewGame(GameRecord{GameID: "g1", InitialFEN: "8/8/8/8/8/8/8/8", InitialTurn: "w",
		WhitePlayerID: "pw", BlackPlayerID: "pb", StartTimeUTC: time.Now()}); err != nil {
		t.Fatalf("RecordNewGame: %v", err)
	}

	// The second insert of the same move number violates the unique constraint
	move := MoveRecord{GameID: "g1", MoveNumber: 1, FromSquare: "a2", ToSquare: "a3",
		Piece: "pawn", FENAfterMove: "8/8/8/8/8/8/8/8", PlayerColor: "w", MoveTimeUTC: time.Now()}
	for range 2 {
		if err := s.RecordMove(move); err != nil {
			t.Fatalf("RecordMove: %v", err)
		}
	}

	deadline := time.Now().Add(5 * time.Second)
	for s.IsHealthy() {
		if time.Now().After(deadline) {
			t.Fatal("store still healthy after failed write")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := s.RecordNewGame(GameRecord{GameID: "g2", InitialTurn: "w"}); !errors.Is(err, ErrDegraded) {
		t.Errorf("RecordNewGame on degraded store error = %v; want ErrDegraded", err)
	}
	if err := s.Flush(context.Background()); !errors.Is(err, ErrDegraded) {
		t.Errorf("Flush on degraded store error = %v; want ErrDegraded", err)
	}
}

func TestFlushReturnsWhenWriteFails(t *testing.T) {
	s := newTestStore(t)

	// The failing write and the flush barrier are both queued while the
	// store still reports healthy
	failing := func(*sql.Tx) error { return errors.New("disk full") }
	if err := s.enqueue("bad", failing); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := s.Flush(ctx); !errors.Is(err, ErrDegraded) {
		t.Errorf("Flush error = %v; want ErrDegraded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Flush took %v; want it to return once the queue is handled", elapsed)
	}
}

func TestClosedStore(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "chess.db"), false)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	if err := s.RecordNewGame(GameRecord{GameID: "g1", InitialTurn: "w", StartTimeUTC: time.Now()}); err != nil {
		t.Fatalf("RecordNewGame: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := s.Flush(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Flush after Close error = %v; want ErrClosed", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Flush after Close blocked")
	}
	if err := s.RecordMove(MoveRecord{GameID: "g1", MoveNumber: 1}); !errors.Is(err, ErrClosed) {
		t.Errorf("RecordMove after Close error = %v; want ErrClosed", err)
	}
}

func TestCloseAppliesQueuedWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")
	s, err := NewStore(path, false)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	for _, id := range []string{"g1", "g2", "g3"} {
		if err := s.RecordNewGame(GameRecord{GameID: id, InitialTurn: "w", StartTimeUTC: time.Now()}); err != nil {
			t.Fatalf("RecordNewGame: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewStore(path, false)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.QueryGames("", "")
	if err != nil {
		t.Fatalf("QueryGames: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d games after Close; want 3", len(got))
	}
}

func TestDeleteDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")
	s, err := NewStore(path, false)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	if err := s.DeleteDB(); err != nil {
		t.Fatalf("DeleteDB: %v", err)
	}
	if matches, _ := filepath.Glob(path); len(matches) != 0 {
		t.Errorf("database file still present: %v", matches)
	}
}
