// FILE: chesscore/internal/server/processor/command.go
package processor

import (
	"chesscore/internal/server/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdGetGame
	CmdDeleteGame
	CmdGetBoard
	CmdGetSquare
	CmdGetDestinations
	CmdSelect
	CmdTarget
	CmdMakeMove
	CmdGetCheck
	CmdClick
	CmdDeselect
)

// Command is a unified structure for all processor operations
type Command struct {
	Type   CommandType
	GameID string     // For game-specific commands
	Seat   core.Color // Side the caller holds a seat for; ColorNone skips the turn check
	Args   any        // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateGameCommand(req core.CreateGameRequest) Command {
	return Command{
		Type: CmdCreateGame,
		Args: req,
	}
}

func NewGetGameCommand(gameID string) Command {
	return Command{
		Type:   CmdGetGame,
		GameID: gameID,
	}
}

func NewDeleteGameCommand(gameID string) Command {
	return Command{
		Type:   CmdDeleteGame,
		GameID: gameID,
	}
}

func NewGetBoardCommand(gameID string) Command {
	return Command{
		Type:   CmdGetBoard,
		GameID: gameID,
	}
}

func NewGetSquareCommand(gameID, square string) Command {
	return Command{
		Type:   CmdGetSquare,
		GameID: gameID,
		Args:   core.SquareRequest{Square: square},
	}
}

func NewGetDestinationsCommand(gameID, square string) Command {
	return Command{
		Type:   CmdGetDestinations,
		GameID: gameID,
		Args:   core.SquareRequest{Square: square},
	}
}

func NewSelectCommand(gameID string, seat core.Color, req core.SquareRequest) Command {
	return Command{
		Type:   CmdSelect,
		GameID: gameID,
		Seat:   seat,
		Args:   req,
	}
}

func NewTargetCommand(gameID string, seat core.Color, req core.SquareRequest) Command {
	return Command{
		Type:   CmdTarget,
		GameID: gameID,
		Seat:   seat,
		Args:   req,
	}
}

func NewMakeMoveCommand(gameID string, seat core.Color, req core.MoveRequest) Command {
	return Command{
		Type:   CmdMakeMove,
		GameID: gameID,
		Seat:   seat,
		Args:   req,
	}
}

func NewGetCheckCommand(gameID string) Command {
	return Command{
		Type:   CmdGetCheck,
		GameID: gameID,
	}
}

// NewClickCommand feeds a square to the turn controller
func NewClickCommand(gameID string, seat core.Color, req core.SquareRequest) Command {
	return Command{
		Type:   CmdClick,
		GameID: gameID,
		Seat:   seat,
		Args:   req,
	}
}

func NewDeselectCommand(gameID string, seat core.Color) Command {
	return Command{
		Type:   CmdDeselect,
		GameID: gameID,
		Seat:   seat,
	}
}
