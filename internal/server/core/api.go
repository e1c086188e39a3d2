// FILE: chesscore/internal/server/core/api.go
package core

// Request types

type CreateGameRequest struct {
	FEN  string `json:"fen,omitempty" validate:"omitempty,max=100,placement"` // piece placement field of a FEN
	Turn string `json:"turn,omitempty" validate:"omitempty,oneof=w b"`
}

type SquareRequest struct {
	Square string `json:"square" validate:"required,square"`
}

type MoveRequest struct {
	From string `json:"from" validate:"required,square"`
	To   string `json:"to" validate:"required,square"`
}

// Response types

type GameResponse struct {
	GameID    string          `json:"gameId"`
	FEN       string          `json:"fen"`
	Turn      string          `json:"turn"`  // "w" or "b"
	Phase     string          `json:"phase"` // "idle" or "selected"
	Selected  string          `json:"selected,omitempty"`
	Scores    ScoreResponse   `json:"scores"`
	Material  ScoreResponse   `json:"material"`          // point value of each side's pieces still in play
	InCheck   string          `json:"inCheck,omitempty"` // color whose king is attacked
	MoveCount int             `json:"moveCount"`
	Players   PlayersResponse `json:"players"`
	LastMove  *MoveInfo       `json:"lastMove,omitempty"`
	Seats     *SeatsResponse  `json:"seats,omitempty"` // only on creation
}

type ScoreResponse struct {
	White int `json:"white"`
	Black int `json:"black"`
}

type MoveInfo struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Piece       string `json:"piece"`
	PlayerColor string `json:"playerColor"` // "w" or "b"
	Captured    string `json:"captured,omitempty"`
	Points      int    `json:"points,omitempty"`
	Castle      bool   `json:"castle,omitempty"`
}

type SeatsResponse struct {
	White string `json:"white"`
	Black string `json:"black"`
}

type SquareResponse struct {
	Square string `json:"square"`
	Color  string `json:"color,omitempty"`
	Piece  string `json:"piece,omitempty"`
	Empty  bool   `json:"empty"`
	// Colors with at least one piece that could move to the square
	AttackedBy []string `json:"attackedBy,omitempty"`
}

type DestinationsResponse struct {
	Square       string   `json:"square"`
	Piece        string   `json:"piece"`
	Destinations []string `json:"destinations"`
}

type SelectResponse struct {
	Selected     string       `json:"selected,omitempty"`
	Destinations []string     `json:"destinations,omitempty"`
	Game         GameResponse `json:"game"`
}

type CheckResponse struct {
	White bool `json:"white"`
	Black bool `json:"black"`
}

type BoardResponse struct {
	FEN   string `json:"fen"`
	Board string `json:"board"` // ASCII representation
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
