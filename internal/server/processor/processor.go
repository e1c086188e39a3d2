// FILE: chesscore/internal/server/processor/processor.go
package processor

import (
	"errors"
	"fmt"
	"strings"

	"chesscore/internal/server/board"
	"chesscore/internal/server/core"
	"chesscore/internal/server/game"
	"chesscore/internal/server/service"

	"github.com/apex/log"
)

var errNotYourTurn = errors.New("not your turn")

// Processor translates API commands into game events run through the service
type Processor struct {
	svc *service.Service
}

// New creates a processor bound to svc
func New(svc *service.Service) *Processor {
	return &Processor{svc: svc}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdGetSquare:
		return p.handleGetSquare(cmd)
	case CmdGetDestinations:
		return p.handleGetDestinations(cmd)
	case CmdSelect:
		return p.handleSelect(cmd)
	case CmdTarget:
		return p.handleTarget(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdGetCheck:
		return p.handleGetCheck(cmd)
	case CmdClick:
		return p.handleClick(cmd)
	case CmdDeselect:
		return p.handleDeselect(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	turn := core.ColorWhite
	if args.Turn != "" {
		if turn, ok = core.ParseColor(args.Turn); !ok {
			return p.errorResponse("turn must be w or b", core.ErrInvalidRequest)
		}
	}

	gameID, err := p.svc.CreateGame(strings.TrimSpace(args.FEN), turn)
	if err != nil {
		return p.failure(err)
	}

	white, black, err := p.svc.IssueSeatTokens(gameID)
	if err != nil {
		log.WithError(err).WithField("game", gameID).Error("seat tokens not issued")
		if delErr := p.svc.DeleteGame(gameID); delErr != nil {
			log.WithError(delErr).WithField("game", gameID).Warn("seatless game not removed")
		}
		return p.errorResponse("failed to issue seat tokens", core.ErrInternalError)
	}

	response, err := p.snapshot(gameID)
	if err != nil {
		return p.failure(err)
	}
	response.Seats = &core.SeatsResponse{White: white, Black: black}

	return ProcessorResponse{
		Success: true,
		Data:    response,
	}
}

// snapshot reads the game state under the game lock
func (p *Processor) snapshot(gameID string) (core.GameResponse, error) {
	var response core.GameResponse
	err := p.svc.Do(gameID, func(g *game.Game) error {
		response = buildGameResponse(gameID, g)
		return nil
	})
	return response, err
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	response, err := p.snapshot(cmd.GameID)
	if err != nil {
		return p.failure(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    response,
	}
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.failure(err)
	}

	return ProcessorResponse{
		Success: true,
	}
}

func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	var response core.BoardResponse
	err := p.svc.Do(cmd.GameID, func(g *game.Game) error {
		response = core.BoardResponse{
			FEN:   g.FEN(),
			Board: g.ASCII(),
		}
		return nil
	})
	if err != nil {
		return p.failure(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    response,
	}
}

func (p *Processor) handleGetSquare(cmd Command) ProcessorResponse {
	sq, resp, ok := p.squareArg(cmd)
	if !ok {
		return resp
	}

	var response core.SquareResponse
	err := p.svc.Do(cmd.GameID, func(g *game.Game) error {
		occ, err := g.Occupant(sq)
		if err != nil {
			return err
		}
		response = squareResponse(sq, occ)
		for _, c := range []core.Color{core.ColorWhite, core.ColorBlack} {
			hit, err := g.Attacked(sq, c)
			if err != nil {
				return err
			}
			if hit {
				response.AttackedBy = append(response.AttackedBy, c.String())
			}
		}
		return nil
	})
	if err != nil {
		return p.failure(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    response,
	}
}

func (p *Processor) handleGetDestinations(cmd Command) ProcessorResponse {
	sq, resp, ok := p.squareArg(cmd)
	if !ok {
		return resp
	}

	var response core.DestinationsResponse
	err := p.svc.Do(cmd.GameID, func(g *game.Game) error {
		piece, found, err := g.PieceAt(sq)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s is empty", game.ErrNotSelectable, sq)
		}
		dests, err := g.LegalDestinations(piece)
		if err != nil {
			return err
		}
		response = core.DestinationsResponse{
			Square:       sq.String(),
			Piece:        piece.Kind.String(),
			Destinations: squareNames(dests),
		}
		return nil
	})
	if err != nil {
		return p.failure(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    response,
	}
}

func (p *Processor) handleSelect(cmd Command) ProcessorResponse {
	sq, resp, ok := p.squareArg(cmd)
	if !ok {
		return resp
	}

	var response core.SelectResponse
	err := p.svc.Do(cmd.GameID, func(g *game.Game) error {
		if err := checkSeat(cmd.Seat, g); err != nil {
			return err
		}
		piece, err := g.SelectAt(sq)
		if err != nil {
			return err
		}
		dests, err := g.LegalDestinations(piece)
		if err != nil {
			return err
		}
		response = core.SelectResponse{
			Selected:     sq.String(),
			Destinations: squareNames(dests),
			Game:         buildGameResponse(cmd.GameID, g),
		}
		return nil
	})
	if err != nil {
		return p.failure(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    response,
	}
}

// handleClick feeds one square to the turn controller: it selects when idle
// and targets when a piece is already selected
func (p *Processor) handleClick(cmd Command) ProcessorResponse {
	sq, resp, ok := p.squareArg(cmd)
	if !ok {
		return resp
	}

	var response core.SelectResponse
	err := p.svc.Do(cmd.GameID, func(g *game.Game) error {
		if err := checkSeat(cmd.Seat, g); err != nil {
			return err
		}
		out, err := g.HandleSquare(sq)
		if err != nil {
			return err
		}
		if out.Selected != nil {
			dests, err := g.LegalDestinations(out.Selected)
			if err != nil {
				return err
			}
			response.Selected = out.Selected.Square.String()
			response.Destinations = squareNames(dests)
		}
		response.Game = buildGameResponse(cmd.GameID, g)
		return nil
	})
	if err != nil {
		return p.failure(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    response,
	}
}

func (p *Processor) handleDeselect(cmd Command) ProcessorResponse {
	var response core.GameResponse
	err := p.svc.Do(cmd.GameID, func(g *game.Game) error {
		if err := checkSeat(cmd.Seat, g); err != nil {
			return err
		}
		g.Deselect()
		response = buildGameResponse(cmd.GameID, g)
		return nil
	})
	if err != nil {
		return p.failure(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    response,
	}
}

func (p *Processor) handleTarget(cmd Command) ProcessorResponse {
	sq, resp, ok := p.squareArg(cmd)
	if !ok {
		return resp
	}

	return p.move(cmd, func(g *game.Game) (game.MoveResult, error) {
		return g.Target(sq)
	})
}

func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}
	from, err := core.ParseSquare(strings.TrimSpace(args.From))
	if err != nil {
		return p.failure(err)
	}
	to, err := core.ParseSquare(strings.TrimSpace(args.To))
	if err != nil {
		return p.failure(err)
	}

	return p.move(cmd, func(g *game.Game) (game.MoveResult, error) {
		piece, found, err := g.PieceAt(from)
		if err != nil {
			return game.MoveResult{}, err
		}
		if !found {
			return game.MoveResult{}, fmt.Errorf("%w: %s is empty", game.ErrNotSelectable, from)
		}
		return g.AttemptMove(piece, to)
	})
}

// move runs a turn-changing event and reports the resulting game
func (p *Processor) move(cmd Command, apply func(*game.Game) (game.MoveResult, error)) ProcessorResponse {
	var response core.GameResponse
	err := p.svc.Do(cmd.GameID, func(g *game.Game) error {
		if err := checkSeat(cmd.Seat, g); err != nil {
			return err
		}
		if _, err := apply(g); err != nil {
			return err
		}
		response = buildGameResponse(cmd.GameID, g)
		return nil
	})
	if err != nil {
		return p.failure(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    response,
	}
}

func (p *Processor) handleGetCheck(cmd Command) ProcessorResponse {
	var response core.CheckResponse
	err := p.svc.Do(cmd.GameID, func(g *game.Game) error {
		response = core.CheckResponse{
			White: g.InCheck(core.ColorWhite),
			Black: g.InCheck(core.ColorBlack),
		}
		return nil
	})
	if err != nil {
		return p.failure(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    response,
	}
}

func (p *Processor) squareArg(cmd Command) (core.Square, ProcessorResponse, bool) {
	args, ok := cmd.Args.(core.SquareRequest)
	if !ok {
		return core.Square{}, p.errorResponse("invalid arguments", core.ErrInvalidRequest), false
	}
	sq, err := core.ParseSquare(strings.TrimSpace(args.Square))
	if err != nil {
		return core.Square{}, p.failure(err), false
	}
	return sq, ProcessorResponse{}, true
}

// checkSeat rejects events from a seat whose side is not to move
func checkSeat(seat core.Color, g *game.Game) error {
	if seat != core.ColorNone && seat != g.ActiveSide() {
		return fmt.Errorf("%w: %s to move", errNotYourTurn, g.ActiveSide().Name())
	}
	return nil
}

// failure maps a domain error onto an API error code
func (p *Processor) failure(err error) ProcessorResponse {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return p.errorResponse("game not found", core.ErrGameNotFound)
	case errors.Is(err, service.ErrTooManyGames):
		return p.errorResponse(err.Error(), core.ErrRateLimitExceeded)
	case errors.Is(err, board.ErrInvalidPlacement), errors.Is(err, game.ErrInvalidSetup):
		return p.errorResponse(err.Error(), core.ErrInvalidFEN)
	case errors.Is(err, core.ErrInvalidSquare):
		return p.errorResponse(err.Error(), core.ErrInvalidSquareCode)
	case errors.Is(err, errNotYourTurn):
		return p.errorResponse(err.Error(), core.ErrNotYourTurn)
	case errors.Is(err, game.ErrKingCapture):
		return p.errorResponse(err.Error(), core.ErrKingCapture)
	case errors.Is(err, game.ErrIllegalMove):
		return p.errorResponse(err.Error(), core.ErrInvalidMove)
	case errors.Is(err, game.ErrNotSelectable), errors.Is(err, game.ErrNotYourPiece):
		return p.errorResponse(err.Error(), core.ErrNotSelectable)
	case errors.Is(err, game.ErrNoSelection):
		return p.errorResponse(err.Error(), core.ErrNoSelection)
	default:
		log.WithError(err).Error("unexpected processor error")
		return p.errorResponse("internal error", core.ErrInternalError)
	}
}

func (p *Processor) errorResponse(message string, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}
