// FILE: chesscore/internal/server/http/validator.go
package http

import (
	"fmt"
	"reflect"
	"strings"

	"chesscore/internal/server/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Tags are fixed at compile time; registration only fails on empty tags
	_ = v.RegisterValidation("square", validateSquare)
	_ = v.RegisterValidation("placement", validatePlacement)
	return v
}

// validateSquare accepts algebraic squares a1 through h8
func validateSquare(fl validator.FieldLevel) bool {
	_, err := core.ParseSquare(fl.Field().String())
	return err == nil
}

// validatePlacement screens the character set of a FEN placement field; the
// structure is checked when the game is built.
func validatePlacement(fl validator.FieldLevel) bool {
	fields := strings.Fields(fl.Field().String())
	if len(fields) == 0 {
		return false
	}
	for _, r := range fields[0] {
		if !strings.ContainsRune("rnbqkpRNBQKP12345678/", r) {
			return false
		}
	}
	return true
}

func validationMiddleware(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Next()
	}

	// Determine request type based on path
	path := c.Path()
	var requestType any

	switch {
	case strings.HasSuffix(path, "/games"):
		requestType = &core.CreateGameRequest{}
	case strings.HasSuffix(path, "/select"), strings.HasSuffix(path, "/target"), strings.HasSuffix(path, "/click"):
		requestType = &core.SquareRequest{}
	case strings.HasSuffix(path, "/moves"):
		requestType = &core.MoveRequest{}
	default:
		return c.Next()
	}

	// An empty body is a request with every field at its default
	if len(c.Body()) > 0 {
		if err := c.BodyParser(requestType); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
				Error:   "invalid request body",
				Code:    core.ErrInvalidRequest,
				Details: err.Error(),
			})
		}
	}

	if errs := validate.Struct(requestType); errs != nil {
		var details strings.Builder
		for _, err := range errs.(validator.ValidationErrors) {
			if details.Len() > 0 {
				details.WriteString("; ")
			}
			switch err.Tag() {
			case "required":
				details.WriteString(fmt.Sprintf("%s is required", err.Field()))
			case "oneof":
				details.WriteString(fmt.Sprintf("%s must be one of [%s]", err.Field(), err.Param()))
			case "max":
				if err.Type().Kind() == reflect.String {
					details.WriteString(fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param()))
				} else {
					details.WriteString(fmt.Sprintf("%s must be at most %s", err.Field(), err.Param()))
				}
			case "square":
				details.WriteString(fmt.Sprintf("%s must be a square from a1 to h8", err.Field()))
			case "placement":
				details.WriteString(fmt.Sprintf("%s must be a FEN piece placement", err.Field()))
			default:
				details.WriteString(fmt.Sprintf("%s failed %s validation", err.Field(), err.Tag()))
			}
		}

		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: details.String(),
		})
	}

	// Store validated body for handler use
	c.Locals("validatedBody", requestType)
	c.Locals("validated", true)

	return c.Next()
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
