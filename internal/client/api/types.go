// FILE: chesscore/internal/client/api/types.go
package api

import (
	"fmt"

	"chesscore/internal/server/core"
)

// Server payloads are shared with the server's core package
type (
	GameResponse         = core.GameResponse
	BoardResponse        = core.BoardResponse
	SquareResponse       = core.SquareResponse
	DestinationsResponse = core.DestinationsResponse
	SelectResponse       = core.SelectResponse
	CheckResponse        = core.CheckResponse
	CreateGameRequest    = core.CreateGameRequest
	MoveInfo             = core.MoveInfo
)

type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Games   int    `json:"games"`
	Storage string `json:"storage,omitempty"`
}

// Error is a non-2xx reply from the server
type Error struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Code)
}
