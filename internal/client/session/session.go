// FILE: chesscore/internal/client/session/session.go
// Package session holds the terminal client's state between commands.
package session

import (
	"chesscore/internal/client/api"
)

type Session struct {
	APIBaseURL       string
	Client           *api.Client
	CurrentGame      string
	CurrentGameState *api.GameResponse
	// Seat tokens returned at creation; either may be empty for a joined game
	WhiteToken    string
	BlackToken    string
	LastMoveCount int
	Verbose       bool
}

// SetGame makes gameID current and forgets the previous game's seats
func (s *Session) SetGame(gameID string) {
	if gameID != s.CurrentGame {
		s.WhiteToken, s.BlackToken = "", ""
		s.CurrentGameState = nil
		s.LastMoveCount = 0
	}
	s.CurrentGame = gameID
}

// Update records the latest game state seen by the client
func (s *Session) Update(state *api.GameResponse) {
	if state == nil {
		return
	}
	s.CurrentGameState = state
	s.LastMoveCount = state.MoveCount
	if state.Seats != nil {
		s.WhiteToken = state.Seats.White
		s.BlackToken = state.Seats.Black
	}
}

// SeatToken returns the token of the side to move, falling back to the only held seat
func (s *Session) SeatToken() string {
	if s.CurrentGameState != nil {
		switch s.CurrentGameState.Turn {
		case "w":
			if s.WhiteToken != "" {
				return s.WhiteToken
			}
		case "b":
			if s.BlackToken != "" {
				return s.BlackToken
			}
		}
	}
	if s.WhiteToken != "" {
		return s.WhiteToken
	}
	return s.BlackToken
}

// Clear drops the current game
func (s *Session) Clear() {
	s.SetGame("")
}
