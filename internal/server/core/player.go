// FILE: chesscore/internal/server/core/player.go
package core

import (
	"github.com/google/uuid"
)

// Player identifies the holder of one side's seat in a game
type Player struct {
	ID    string `json:"id"`
	Color Color  `json:"color"`
}

// PlayersResponse for API responses
type PlayersResponse struct {
	White *Player `json:"white"`
	Black *Player `json:"black"`
}

// NewPlayer creates a Player with a fresh ID
func NewPlayer(color Color) *Player {
	return &Player{
		ID:    uuid.New().String(),
		Color: color,
	}
}
