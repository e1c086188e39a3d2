// FILE: chesscore/internal/server/core/error.go
package core

// Error codes
const (
	ErrGameNotFound      = "GAME_NOT_FOUND"
	ErrInvalidMove       = "INVALID_MOVE"
	ErrInvalidSquareCode = "INVALID_SQUARE"
	ErrNotSelectable     = "NOT_SELECTABLE"
	ErrNoSelection       = "NO_SELECTION"
	ErrKingCapture       = "KING_CAPTURE"
	ErrNotYourTurn       = "NOT_YOUR_TURN"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInvalidFEN        = "INVALID_FEN"
	ErrInternalError     = "INTERNAL_ERROR"
	ErrUnauthorized      = "UNAUTHORIZED"
)
