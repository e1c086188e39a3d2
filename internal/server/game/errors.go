// FILE: chesscore/internal/server/game/errors.go
package game

import "errors"

var (
	ErrIllegalMove   = errors.New("illegal move")
	ErrKingCapture   = errors.New("kings cannot be captured")
	ErrNotSelectable = errors.New("square holds no piece of the active side")
	ErrNoSelection   = errors.New("no piece selected")
	ErrNotYourPiece  = errors.New("piece does not belong to the active side")
	ErrUnknownPiece  = errors.New("piece is not in play")
	ErrInvalidSetup  = errors.New("invalid setup")
)
