package session

import (
	"testing"

	"chesscore/internal/client/api"
	"chesscore/internal/server/core"
)

func TestSeatTokenFollowsTurn(t *testing.T) {
	s := &Session{}
	s.SetGame("g1")
	s.Update(&api.GameResponse{
		GameID: "g1",
		Turn:   "w",
		Seats:  &core.SeatsResponse{White: "wt", Black: "bt"},
	})

	if got := s.SeatToken(); got != "wt" {
		t.Errorf("white to move: token = %q", got)
	}

	// later responses carry no seats; tokens are kept
	s.Update(&api.GameResponse{GameID: "g1", Turn: "b", MoveCount: 1})
	if got := s.SeatToken(); got != "bt" {
		t.Errorf("black to move: token = %q", got)
	}
	if s.LastMoveCount != 1 {
		t.Errorf("LastMoveCount = %d", s.LastMoveCount)
	}
}

func TestSeatTokenSingleSeat(t *testing.T) {
	s := &Session{CurrentGame: "g1", BlackToken: "bt"}
	s.Update(&api.GameResponse{GameID: "g1", Turn: "w"})

	if got := s.SeatToken(); got != "bt" {
		t.Errorf("token = %q, want the only seat held", got)
	}
}

func TestSetGameForgetsSeats(t *testing.T) {
	s := &Session{CurrentGame: "g1", WhiteToken: "wt", BlackToken: "bt", LastMoveCount: 4}

	s.SetGame("g1")
	if s.WhiteToken == "" {
		t.Fatal("re-selecting the same game must keep seats")
	}

	s.SetGame("g2")
	if s.WhiteToken != "" || s.BlackToken != "" || s.LastMoveCount != 0 {
		t.Errorf("seats not cleared: %+v", s)
	}
}
