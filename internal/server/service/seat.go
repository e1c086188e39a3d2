// FILE: chesscore/internal/server/service/seat.go
package service

import (
	"errors"
	"fmt"
	"time"

	"chesscore/internal/server/core"
	"chesscore/internal/server/game"

	"github.com/lixenwraith/auth"
)

// DefaultSeatTTL bounds how long a seat token stays valid
const DefaultSeatTTL = 24 * time.Hour

var (
	// ErrBadSeatToken is returned for tokens that fail validation or belong to another game
	ErrBadSeatToken = errors.New("invalid seat token")
	ErrNoSeatSecret = errors.New("no seat secret configured")
)

// seatIssuer signs per-side move rights. The token subject is the seat's
// player ID; the game ID and color travel as claims.
type seatIssuer struct {
	secret []byte
	ttl    time.Duration
}

func newSeatIssuer(secret []byte, ttl time.Duration) seatIssuer {
	if ttl <= 0 {
		ttl = DefaultSeatTTL
	}
	return seatIssuer{secret: secret, ttl: ttl}
}

// IssueSeatTokens returns a signed token for each side of a game
func (s *Service) IssueSeatTokens(gameID string) (white, black string, err error) {
	err = s.Do(gameID, func(g *game.Game) error {
		var issueErr error
		if white, issueErr = s.seats.issue(gameID, g.GetPlayer(core.ColorWhite)); issueErr != nil {
			return issueErr
		}
		black, issueErr = s.seats.issue(gameID, g.GetPlayer(core.ColorBlack))
		return issueErr
	})
	return white, black, err
}

// ValidateSeatToken returns the color the token may move for in gameID
func (s *Service) ValidateSeatToken(gameID, token string) (core.Color, error) {
	playerID, claims, err := auth.ValidateHS256Token(s.seats.secret, token)
	if err != nil {
		return core.ColorNone, fmt.Errorf("%w: %w", ErrBadSeatToken, err)
	}

	if id, _ := claims["game"].(string); id != gameID {
		return core.ColorNone, fmt.Errorf("%w: token is for another game", ErrBadSeatToken)
	}
	raw, _ := claims["color"].(string)
	color, ok := core.ParseColor(raw)
	if !ok {
		return core.ColorNone, fmt.Errorf("%w: missing color", ErrBadSeatToken)
	}

	// The seat must still belong to the same player
	err = s.Do(gameID, func(g *game.Game) error {
		if p := g.GetPlayer(color); p == nil || p.ID != playerID {
			return fmt.Errorf("%w: seat holder changed", ErrBadSeatToken)
		}
		return nil
	})
	if err != nil {
		return core.ColorNone, err
	}

	return color, nil
}

func (si seatIssuer) issue(gameID string, p *core.Player) (string, error) {
	if len(si.secret) == 0 {
		return "", ErrNoSeatSecret
	}
	if p == nil {
		return "", fmt.Errorf("no player in seat")
	}
	claims := map[string]any{
		"game":  gameID,
		"color": p.Color.String(),
	}
	return auth.GenerateHS256Token(si.secret, p.ID, claims, si.ttl)
}
