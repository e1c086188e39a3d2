// FILE: chesscore/internal/server/service/service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chesscore/internal/server/board"
	"chesscore/internal/server/core"
	"chesscore/internal/server/game"
	"chesscore/internal/server/storage"

	"github.com/apex/log"
	"github.com/google/uuid"
)

const (
	// MaxGames caps the number of live games held in memory
	MaxGames = 1000
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrTooManyGames = errors.New("game limit reached")
)

// Config holds service settings
type Config struct {
	SeatSecret  []byte
	SeatTTL     time.Duration
	WaitTimeout time.Duration
}

// Service owns the live games. Every event on a game runs under that game's
// lock, so each game sees one serialised stream of events.
type Service struct {
	games  map[string]*entry
	mu     sync.RWMutex
	store  *storage.Store
	seats  seatIssuer
	waiter *WaitRegistry
}

type entry struct {
	mu sync.Mutex
	g  *game.Game
}

// New creates a new service instance with optional storage
func New(store *storage.Store, cfg Config) *Service {
	return &Service{
		games:  make(map[string]*entry),
		store:  store,
		seats:  newSeatIssuer(cfg.SeatSecret, cfg.SeatTTL),
		waiter: NewWaitRegistry(cfg.WaitTimeout),
	}
}

// CreateGame sets up a game from a placement string ("" for the standard
// layout) and returns its ID.
func (s *Service) CreateGame(placement string, turn core.Color) (string, error) {
	if placement == "" {
		placement = board.StartingPlacement
	}
	if turn == core.ColorNone {
		turn = core.ColorWhite
	}

	ps, err := board.ParsePlacement(placement)
	if err != nil {
		return "", err
	}

	white, black := core.NewPlayer(core.ColorWhite), core.NewPlayer(core.ColorBlack)
	g, err := game.NewFromPlacement(ps, turn, white, black)
	if err != nil {
		return "", err
	}
	// Read before the game is published to other goroutines
	fen, pieces := g.FEN(), g.Occupancy().Count()

	s.mu.Lock()
	if len(s.games) >= MaxGames {
		s.mu.Unlock()
		return "", ErrTooManyGames
	}
	id := uuid.New().String()
	for s.games[id] != nil {
		id = uuid.New().String()
	}
	s.games[id] = &entry{g: g}
	s.mu.Unlock()

	if s.store != nil {
		record := storage.GameRecord{
			GameID:        id,
			InitialFEN:    fen,
			InitialTurn:   turn.String(),
			WhitePlayerID: white.ID,
			BlackPlayerID: black.ID,
			StartTimeUTC:  time.Now().UTC(),
		}
		if err := s.store.RecordNewGame(record); err != nil {
			log.WithError(err).WithField("game", id).Warn("game not recorded")
		}
	}

	log.WithFields(log.Fields{"game": id, "turn": turn.String(), "pieces": pieces}).Info("game created")
	return id, nil
}

// Do runs fn with exclusive access to the game. If fn completes a move, waiters
// are notified and the move is appended to the audit log.
func (s *Service) Do(gameID string, fn func(*game.Game) error) error {
	e, err := s.lookup(gameID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.g.MoveCount()
	fnErr := fn(e.g)
	if after := e.g.MoveCount(); after != before {
		s.afterMove(gameID, e.g)
	}
	return fnErr
}

func (s *Service) afterMove(gameID string, g *game.Game) {
	res := g.LastResult()
	if res == nil {
		return
	}

	log.WithFields(log.Fields{
		"game":     gameID,
		"move":     res.Number,
		"from":     res.From.String(),
		"to":       res.To.String(),
		"captured": res.Captured.String(),
	}).Debug("move applied")

	if s.store != nil {
		record := storage.MoveRecord{
			GameID:       gameID,
			MoveNumber:   res.Number,
			FromSquare:   res.From.String(),
			ToSquare:     res.To.String(),
			Piece:        res.Piece.String(),
			Points:       res.Points,
			Castle:       res.Castle,
			FENAfterMove: g.FEN(),
			PlayerColor:  res.Color.String(),
			MoveTimeUTC:  time.Now().UTC(),
		}
		if res.Captured != core.KindNone {
			record.Captured = res.Captured.String()
		}
		if err := s.store.RecordMove(record); err != nil {
			log.WithError(err).WithField("game", gameID).Warn("move not recorded")
		}
	}

	s.waiter.NotifyGame(gameID, g.MoveCount())
}

// DeleteGame removes a game and releases anyone waiting on it
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	_, ok := s.games[gameID]
	delete(s.games, gameID)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	s.waiter.RemoveGame(gameID)

	if s.store != nil {
		if err := s.store.RecordGameEnd(gameID, time.Now().UTC()); err != nil {
			log.WithError(err).WithField("game", gameID).Warn("game end not recorded")
		}
	}

	log.WithField("game", gameID).Info("game deleted")
	return nil
}

// GameCount returns the number of live games
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

func (s *Service) lookup(gameID string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return e, nil
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// RegisterWait parks a client until the game moves past moveCount. The count
// is compared under the game lock, so a move that lands before registration
// releases the client at once instead of after the wait timeout.
func (s *Service) RegisterWait(ctx context.Context, gameID string, moveCount int) (<-chan struct{}, error) {
	var notify <-chan struct{}
	err := s.Do(gameID, func(g *game.Game) error {
		notify = s.waiter.RegisterWait(ctx, gameID, moveCount)
		if current := g.MoveCount(); current != moveCount {
			s.waiter.NotifyGame(gameID, current)
		}
		return nil
	})
	return notify, err
}

// Shutdown gracefully shuts down the service
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	s.games = make(map[string]*entry)
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}
