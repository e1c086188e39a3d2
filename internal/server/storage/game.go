// FILE: chesscore/internal/server/storage/game.go
package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// RecordNewGame asynchronously records a new game
func (s *Store) RecordNewGame(record GameRecord) error {
	return s.enqueue("game", func(tx *sql.Tx) error {
		query := `INSERT INTO games (
			game_id, initial_fen, initial_turn,
			white_player_id, black_player_id, start_time_utc
		) VALUES (?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.InitialFEN, record.InitialTurn,
			record.WhitePlayerID, record.BlackPlayerID, record.StartTimeUTC,
		)
		return err
	})
}

// RecordMove asynchronously records a move
func (s *Store) RecordMove(record MoveRecord) error {
	return s.enqueue("move", func(tx *sql.Tx) error {
		query := `INSERT INTO moves (
			game_id, move_number, from_square, to_square, piece,
			captured, points, castle, fen_after_move, player_color, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.MoveNumber, record.FromSquare, record.ToSquare, record.Piece,
			record.Captured, record.Points, record.Castle, record.FENAfterMove,
			record.PlayerColor, record.MoveTimeUTC,
		)
		return err
	})
}

// RecordGameEnd asynchronously stamps the end time of a game
func (s *Store) RecordGameEnd(gameID string, at time.Time) error {
	return s.enqueue("game end", func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE games SET end_time_utc = ? WHERE game_id = ?`, at, gameID)
		return err
	})
}

// QueryGames retrieves games with optional filtering. An empty or "*" filter matches everything.
func (s *Store) QueryGames(gameID, playerID string) ([]GameRecord, error) {
	query := `SELECT
		game_id, initial_fen, initial_turn,
		white_player_id, black_player_id,
		start_time_utc, end_time_utc
	FROM games WHERE 1=1`

	var args []any

	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}

	if playerID != "" && playerID != "*" {
		query += " AND (white_player_id = ? OR black_player_id = ?)"
		args = append(args, playerID, playerID)
	}

	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		var end sql.NullTime
		err := rows.Scan(
			&g.GameID, &g.InitialFEN, &g.InitialTurn,
			&g.WhitePlayerID, &g.BlackPlayerID,
			&g.StartTimeUTC, &end,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if end.Valid {
			t := end.Time
			g.EndTimeUTC = &t
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}

// QueryMoves returns the moves of one game in play order
func (s *Store) QueryMoves(gameID string) ([]MoveRecord, error) {
	rows, err := s.db.Query(`SELECT
		move_id, game_id, move_number, from_square, to_square, piece,
		captured, points, castle, fen_after_move, player_color, move_time_utc
	FROM moves WHERE game_id = ? ORDER BY move_number`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(
			&m.MoveID, &m.GameID, &m.MoveNumber, &m.FromSquare, &m.ToSquare, &m.Piece,
			&m.Captured, &m.Points, &m.Castle, &m.FENAfterMove, &m.PlayerColor, &m.MoveTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return moves, nil
}
