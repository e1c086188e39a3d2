// FILE: chesscore/internal/server/storage/schema.go
package storage

import "time"

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID        string     `db:"game_id"`
	InitialFEN    string     `db:"initial_fen"`
	InitialTurn   string     `db:"initial_turn"`
	WhitePlayerID string     `db:"white_player_id"`
	BlackPlayerID string     `db:"black_player_id"`
	StartTimeUTC  time.Time  `db:"start_time_utc"`
	EndTimeUTC    *time.Time `db:"end_time_utc"` // nil while the game is live
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID       int64     `db:"move_id"`
	GameID       string    `db:"game_id"`
	MoveNumber   int       `db:"move_number"`
	FromSquare   string    `db:"from_square"`
	ToSquare     string    `db:"to_square"`
	Piece        string    `db:"piece"`
	Captured     string    `db:"captured"` // empty when nothing was taken
	Points       int       `db:"points"`
	Castle       bool      `db:"castle"`
	FENAfterMove string    `db:"fen_after_move"`
	PlayerColor  string    `db:"player_color"`
	MoveTimeUTC  time.Time `db:"move_time_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	initial_fen TEXT NOT NULL,
	initial_turn TEXT NOT NULL CHECK(initial_turn IN ('w', 'b')),
	white_player_id TEXT NOT NULL,
	black_player_id TEXT NOT NULL,
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	end_time_utc DATETIME
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	from_square TEXT NOT NULL,
	to_square TEXT NOT NULL,
	piece TEXT NOT NULL,
	captured TEXT NOT NULL DEFAULT '',
	points INTEGER NOT NULL DEFAULT 0,
	castle INTEGER NOT NULL DEFAULT 0,
	fen_after_move TEXT NOT NULL,
	player_color TEXT NOT NULL CHECK(player_color IN ('w', 'b')),
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_white_player ON games(white_player_id);
CREATE INDEX IF NOT EXISTS idx_games_black_player ON games(black_player_id);
`
