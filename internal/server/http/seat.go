// FILE: chesscore/internal/server/http/seat.go
package http

import (
	"errors"
	"strings"

	"chesscore/internal/server/core"
	"chesscore/internal/server/service"

	"github.com/gofiber/fiber/v2"
)

// SeatValidator resolves a seat token for a game to the color it may play
type SeatValidator func(gameID, token string) (core.Color, error)

// SeatRequired rejects requests without a valid seat token for the game in
// the path and stores the seat color in Locals("seatColor").
func SeatRequired(validate SeatValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		gameID := c.Params("gameId")
		if !isValidUUID(gameID) {
			return badGameID(c)
		}

		header := c.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
				Error:   "seat token required",
				Code:    core.ErrUnauthorized,
				Details: "send Authorization: Bearer <seat token>",
			})
		}

		color, err := validate(gameID, strings.TrimSpace(token))
		if errors.Is(err, service.ErrGameNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
				Error: "game not found",
				Code:  core.ErrGameNotFound,
			})
		}
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
				Error:   "invalid seat token",
				Code:    core.ErrUnauthorized,
				Details: err.Error(),
			})
		}

		c.Locals("seatColor", color)
		return c.Next()
	}
}
