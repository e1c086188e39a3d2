// FILE: chesscore/internal/server/http/handler.go
package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"chesscore/internal/server/core"
	"chesscore/internal/server/processor"
	"chesscore/internal/server/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const rateLimitRate = 10 // req/sec

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

// Config tunes the fiber app
type Config struct {
	DevMode   bool
	AccessLog bool
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, cfg Config) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          35 * time.Second, // above the long-poll wait
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: true,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	maxReq := rateLimitRate
	if cfg.DevMode {
		maxReq = rateLimitRate * 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:        maxReq,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			if xff := c.Get("X-Forwarded-For"); xff != "" {
				if idx := strings.Index(xff, ","); idx != -1 {
					return strings.TrimSpace(xff[:idx])
				}
				return xff
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	seat := SeatRequired(svc.ValidateSeatToken)

	api.Post("/games", h.CreateGame)
	api.Get("/games/:gameId", h.GetGame)
	api.Delete("/games/:gameId", h.DeleteGame)
	api.Get("/games/:gameId/board", h.GetBoard)
	api.Get("/games/:gameId/check", h.GetCheck)
	api.Get("/games/:gameId/squares/:square", h.GetSquare)
	api.Get("/games/:gameId/squares/:square/destinations", h.GetDestinations)
	api.Post("/games/:gameId/select", seat, h.Select)
	api.Post("/games/:gameId/target", seat, h.Target)
	api.Post("/games/:gameId/moves", seat, h.MakeMove)
	api.Post("/games/:gameId/click", seat, h.Click)
	api.Post("/games/:gameId/deselect", seat, h.Deselect)

	return app
}

// contentTypeValidator ensures POST requests have application/json
func contentTypeValidator(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		contentType := c.Get("Content-Type")
		if contentType != "application/json" && contentType != "" {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// statusFor maps processor error codes to HTTP status codes
func statusFor(code string) int {
	switch code {
	case core.ErrGameNotFound:
		return fiber.StatusNotFound
	case core.ErrNotYourTurn, core.ErrUnauthorized:
		return fiber.StatusForbidden
	case core.ErrRateLimitExceeded:
		return fiber.StatusTooManyRequests
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

func respond(c *fiber.Ctx, resp processor.ProcessorResponse, okStatus int) error {
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	if resp.Data == nil {
		return c.SendStatus(okStatus)
	}
	return c.Status(okStatus).JSON(resp.Data)
}

func badGameID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
		Error:   "invalid game ID format",
		Code:    core.ErrInvalidRequest,
		Details: "game ID must be a valid UUID",
	})
}

// validatedBody returns the request struct parsed by validationMiddleware
func validatedBody[T any](c *fiber.Ctx) (T, error) {
	var zero T
	if validated, ok := c.Locals("validated").(bool); !ok || !validated {
		return zero, fiber.NewError(fiber.StatusInternalServerError, "validation bypass detected")
	}
	body, ok := c.Locals("validatedBody").(*T)
	if !ok || body == nil {
		return zero, fiber.NewError(fiber.StatusInternalServerError, "validation data missing")
	}
	return *body, nil
}

// seatColor returns the color granted by the seat middleware
func seatColor(c *fiber.Ctx) core.Color {
	color, _ := c.Locals("seatColor").(core.Color)
	return color
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"games":   h.svc.GameCount(),
		"storage": h.svc.GetStorageHealth(),
	})
}

// CreateGame sets up a game and returns it with both seat tokens
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, err := validatedBody[core.CreateGameRequest](c)
	if err != nil {
		return err
	}

	return respond(c, h.proc.Execute(processor.NewCreateGameCommand(req)), fiber.StatusCreated)
}

// GetGame returns the game state. With wait=true and the caller's last known
// moveCount, the request is held until a move is made or the wait times out.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return badGameID(c)
	}

	resp := h.proc.Execute(processor.NewGetGameCommand(gameID))
	if c.Query("wait", "false") != "true" || !resp.Success {
		return respond(c, resp, fiber.StatusOK)
	}

	moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
	if err != nil {
		moveCount = -1
	}

	if current := resp.Data.(core.GameResponse).MoveCount; current != moveCount {
		return respond(c, resp, fiber.StatusOK)
	}

	ctx := c.Context()
	notify, err := h.svc.RegisterWait(ctx, gameID, moveCount)
	if err != nil {
		// Deleted since the first read
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	}

	select {
	case <-notify:
		// State changed, timed out or game deleted
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	case <-ctx.Done():
		return nil
	}
}

// DeleteGame ends and cleans up a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return badGameID(c)
	}

	return respond(c, h.proc.Execute(processor.NewDeleteGameCommand(gameID)), fiber.StatusNoContent)
}

// GetBoard returns ASCII representation of the board with the current selection marked
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return badGameID(c)
	}

	return respond(c, h.proc.Execute(processor.NewGetBoardCommand(gameID)), fiber.StatusOK)
}

func (h *HTTPHandler) GetCheck(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return badGameID(c)
	}

	return respond(c, h.proc.Execute(processor.NewGetCheckCommand(gameID)), fiber.StatusOK)
}

func (h *HTTPHandler) GetSquare(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return badGameID(c)
	}

	return respond(c, h.proc.Execute(processor.NewGetSquareCommand(gameID, c.Params("square"))), fiber.StatusOK)
}

func (h *HTTPHandler) GetDestinations(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return badGameID(c)
	}

	return respond(c, h.proc.Execute(processor.NewGetDestinationsCommand(gameID, c.Params("square"))), fiber.StatusOK)
}

// Select picks up a piece of the side to move
func (h *HTTPHandler) Select(c *fiber.Ctx) error {
	req, err := validatedBody[core.SquareRequest](c)
	if err != nil {
		return err
	}

	cmd := processor.NewSelectCommand(c.Params("gameId"), seatColor(c), req)
	return respond(c, h.proc.Execute(cmd), fiber.StatusOK)
}

// Target sends the selected piece to a square
func (h *HTTPHandler) Target(c *fiber.Ctx) error {
	req, err := validatedBody[core.SquareRequest](c)
	if err != nil {
		return err
	}

	cmd := processor.NewTargetCommand(c.Params("gameId"), seatColor(c), req)
	return respond(c, h.proc.Execute(cmd), fiber.StatusOK)
}

// MakeMove moves the piece on From to To in one request
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	req, err := validatedBody[core.MoveRequest](c)
	if err != nil {
		return err
	}

	cmd := processor.NewMakeMoveCommand(c.Params("gameId"), seatColor(c), req)
	return respond(c, h.proc.Execute(cmd), fiber.StatusOK)
}

// Click selects a piece when nothing is selected and otherwise sends the
// selection to the square, like a click on the board
func (h *HTTPHandler) Click(c *fiber.Ctx) error {
	req, err := validatedBody[core.SquareRequest](c)
	if err != nil {
		return err
	}

	cmd := processor.NewClickCommand(c.Params("gameId"), seatColor(c), req)
	return respond(c, h.proc.Execute(cmd), fiber.StatusOK)
}

// Deselect drops the current selection without a move
func (h *HTTPHandler) Deselect(c *fiber.Ctx) error {
	cmd := processor.NewDeselectCommand(c.Params("gameId"), seatColor(c))
	return respond(c, h.proc.Execute(cmd), fiber.StatusOK)
}
