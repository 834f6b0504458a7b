// Package storage provides SQLite-based persistence for match results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-tabletop/internal/multiplayer"
)

// Store manages the SQLite database connection for match persistence.
type Store struct {
	db *sql.DB
}

// PlayerResult is one seat's final standing in an archived match.
type PlayerResult struct {
	Seat     int
	Name     string
	Score    int
	Position int
}

// MatchRecord represents a completed local match.
type MatchRecord struct {
	ID        int64
	GameID    string
	Seed      int64
	Preset    string
	Turns     int
	Duration  int // Duration in seconds
	Winner    string
	Players   []PlayerResult
	CreatedAt time.Time
}

// OnlineMatchResult represents the outcome of an online match.
type OnlineMatchResult struct {
	ID             int64
	MatchID        string
	GameID         string
	Player1Session string
	Player2Session string
	Score1         int
	Score2         int
	WinnerSession  string // Empty if draw or disconnect
	EndReason      string // "completed", "disconnect", "cancelled"
	Duration       int    // Duration in seconds
	CreatedAt      time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			preset TEXT NOT NULL DEFAULT '',
			turns INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			winner TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_game_id ON matches(game_id);
		CREATE INDEX IF NOT EXISTS idx_matches_recent ON matches(game_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS match_players (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id INTEGER NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
			seat INTEGER NOT NULL,
			name TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			position INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_match_players_match ON match_players(match_id);
		CREATE INDEX IF NOT EXISTS idx_match_players_name ON match_players(name);

		CREATE TABLE IF NOT EXISTS online_matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			player1_session TEXT NOT NULL,
			player2_session TEXT NOT NULL,
			score1 INTEGER NOT NULL DEFAULT 0,
			score2 INTEGER NOT NULL DEFAULT 0,
			winner_session TEXT,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_online_matches_game_id ON online_matches(game_id);
		CREATE INDEX IF NOT EXISTS idx_online_matches_player1 ON online_matches(player1_session);
		CREATE INDEX IF NOT EXISTS idx_online_matches_player2 ON online_matches(player2_session);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTimestamp converts a scanned created_at value to time.Time.
// The driver returns either time.Time or a string depending on how the
// column was written.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveMatch archives a completed match together with its standings.
// Returns the ID of the inserted match row.
func (s *Store) SaveMatch(rec MatchRecord) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO matches (game_id, seed, preset, turns, duration_secs, winner)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.GameID, rec.Seed, rec.Preset, rec.Turns, rec.Duration, rec.Winner,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	for _, p := range rec.Players {
		if _, err := tx.Exec(
			`INSERT INTO match_players (match_id, seat, name, score, position)
			 VALUES (?, ?, ?, ?, ?)`,
			id, p.Seat, p.Name, p.Score, p.Position,
		); err != nil {
			return 0, fmt.Errorf("storage: cannot save match player: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit match: %w", err)
	}

	return id, nil
}

// matchPlayers loads the standings rows for a match, in seat order.
func (s *Store) matchPlayers(matchID int64) ([]PlayerResult, error) {
	rows, err := s.db.Query(
		`SELECT seat, name, score, position
		 FROM match_players
		 WHERE match_id = ?
		 ORDER BY seat ASC`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match players: %w", err)
	}
	defer rows.Close()

	var players []PlayerResult
	for rows.Next() {
		var p PlayerResult
		if err := rows.Scan(&p.Seat, &p.Name, &p.Score, &p.Position); err != nil {
			return nil, fmt.Errorf("storage: cannot scan player row: %w", err)
		}
		players = append(players, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return players, nil
}

// RecentMatches retrieves the most recent matches for the given game,
// standings included. Results are ordered newest first.
func (s *Store) RecentMatches(gameID string, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, seed, preset, turns, duration_secs, winner, created_at
		 FROM matches
		 WHERE game_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		var rec MatchRecord
		var createdAt any
		if err := rows.Scan(&rec.ID, &rec.GameID, &rec.Seed, &rec.Preset, &rec.Turns, &rec.Duration, &rec.Winner, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		rec.CreatedAt = parseTimestamp(createdAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	for i := range records {
		players, err := s.matchPlayers(records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Players = players
	}

	return records, nil
}

// MatchByID retrieves one archived match with its standings.
// Returns nil if no match exists with that ID.
func (s *Store) MatchByID(id int64) (*MatchRecord, error) {
	var rec MatchRecord
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, game_id, seed, preset, turns, duration_secs, winner, created_at
		 FROM matches
		 WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.GameID, &rec.Seed, &rec.Preset, &rec.Turns, &rec.Duration, &rec.Winner, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}

	rec.CreatedAt = parseTimestamp(createdAt)

	players, err := s.matchPlayers(rec.ID)
	if err != nil {
		return nil, err
	}
	rec.Players = players

	return &rec, nil
}

// BestScore returns the highest winning score recorded for the given game.
// Returns 0 if no matches exist.
func (s *Store) BestScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		`SELECT MAX(mp.score)
		 FROM match_players mp
		 JOIN matches m ON m.id = mp.match_id
		 WHERE m.game_id = ?`,
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearMatches deletes all archived matches for the given game.
func (s *Store) ClearMatches(gameID string) error {
	_, err := s.db.Exec(
		`DELETE FROM match_players
		 WHERE match_id IN (SELECT id FROM matches WHERE game_id = ?)`,
		gameID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot clear match players: %w", err)
	}

	if _, err := s.db.Exec("DELETE FROM matches WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear matches: %w", err)
	}
	return nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	Matches    int
	HighScore  int
	AvgWinning float64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE((SELECT MAX(mp.score) FROM match_players mp JOIN matches m2 ON m2.id = mp.match_id WHERE m2.game_id = ?), 0)
		 FROM matches WHERE game_id = ?`,
		gameID, gameID,
	).Scan(&stats.Matches, &stats.HighScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	var avg sql.NullFloat64
	err = s.db.QueryRow(
		`SELECT AVG(mp.score)
		 FROM match_players mp
		 JOIN matches m ON m.id = mp.match_id
		 WHERE m.game_id = ? AND mp.name = m.winner`,
		gameID,
	).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get winning average: %w", err)
	}
	if avg.Valid {
		stats.AvgWinning = avg.Float64
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM matches WHERE game_id = ? ORDER BY created_at DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}

// PlayerTally aggregates results by player name across archived matches.
type PlayerTally struct {
	Name      string
	Matches   int
	Wins      int
	BestScore int
}

// PlayerTallies returns per-player aggregates for a game, ordered by
// wins then best score.
func (s *Store) PlayerTallies(gameID string, limit int) ([]PlayerTally, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT mp.name,
		        COUNT(*) AS matches,
		        SUM(CASE WHEN mp.name = m.winner THEN 1 ELSE 0 END) AS wins,
		        MAX(mp.score) AS best
		 FROM match_players mp
		 JOIN matches m ON m.id = mp.match_id
		 WHERE m.game_id = ?
		 GROUP BY mp.name
		 ORDER BY wins DESC, best DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player tallies: %w", err)
	}
	defer rows.Close()

	var tallies []PlayerTally
	for rows.Next() {
		var t PlayerTally
		if err := rows.Scan(&t.Name, &t.Matches, &t.Wins, &t.BestScore); err != nil {
			return nil, fmt.Errorf("storage: cannot scan tally row: %w", err)
		}
		tallies = append(tallies, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return tallies, nil
}

// SaveOnlineMatch records the result of an online match.
// Returns the ID of the inserted record.
func (s *Store) SaveOnlineMatch(result OnlineMatchResult) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO online_matches
		 (match_id, game_id, player1_session, player2_session, score1, score2, winner_session, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.MatchID,
		result.GameID,
		result.Player1Session,
		result.Player2Session,
		result.Score1,
		result.Score2,
		result.WinnerSession,
		result.EndReason,
		result.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save online match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// OnlineMatchByID retrieves an online match by its match ID.
func (s *Store) OnlineMatchByID(matchID string) (*OnlineMatchResult, error) {
	var result OnlineMatchResult
	var createdAt any
	var winnerSession sql.NullString

	err := s.db.QueryRow(
		`SELECT id, match_id, game_id, player1_session, player2_session,
		        score1, score2, winner_session, end_reason, duration_secs, created_at
		 FROM online_matches
		 WHERE match_id = ?`,
		matchID,
	).Scan(
		&result.ID,
		&result.MatchID,
		&result.GameID,
		&result.Player1Session,
		&result.Player2Session,
		&result.Score1,
		&result.Score2,
		&winnerSession,
		&result.EndReason,
		&result.Duration,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query online match: %w", err)
	}

	if winnerSession.Valid {
		result.WinnerSession = winnerSession.String
	}
	result.CreatedAt = parseTimestamp(createdAt)

	return &result, nil
}

// RecentOnlineMatches retrieves the most recent online matches.
func (s *Store) RecentOnlineMatches(limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, match_id, game_id, player1_session, player2_session,
		        score1, score2, winner_session, end_reason, duration_secs, created_at
		 FROM online_matches
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query online matches: %w", err)
	}
	defer rows.Close()

	var results []OnlineMatchResult
	for rows.Next() {
		var result OnlineMatchResult
		var createdAt any
		var winnerSession sql.NullString

		if err := rows.Scan(
			&result.ID,
			&result.MatchID,
			&result.GameID,
			&result.Player1Session,
			&result.Player2Session,
			&result.Score1,
			&result.Score2,
			&winnerSession,
			&result.EndReason,
			&result.Duration,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		if winnerSession.Valid {
			result.WinnerSession = winnerSession.String
		}
		result.CreatedAt = parseTimestamp(createdAt)

		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// PlayerMatchHistory retrieves online match history for a specific session.
func (s *Store) PlayerMatchHistory(sessionID string, limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, match_id, game_id, player1_session, player2_session,
		        score1, score2, winner_session, end_reason, duration_secs, created_at
		 FROM online_matches
		 WHERE player1_session = ? OR player2_session = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		sessionID, sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player matches: %w", err)
	}
	defer rows.Close()

	var results []OnlineMatchResult
	for rows.Next() {
		var result OnlineMatchResult
		var createdAt any
		var winnerSession sql.NullString

		if err := rows.Scan(
			&result.ID,
			&result.MatchID,
			&result.GameID,
			&result.Player1Session,
			&result.Player2Session,
			&result.Score1,
			&result.Score2,
			&winnerSession,
			&result.EndReason,
			&result.Duration,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		if winnerSession.Valid {
			result.WinnerSession = winnerSession.String
		}
		result.CreatedAt = parseTimestamp(createdAt)

		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver.
// This adapter allows the coordinator to save match results without direct storage dependency.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	result := OnlineMatchResult{
		MatchID:        data.MatchID,
		GameID:         data.GameID,
		Player1Session: data.Player1Session,
		Player2Session: data.Player2Session,
		Score1:         data.Score1,
		Score2:         data.Score2,
		WinnerSession:  data.WinnerSession,
		EndReason:      data.EndReason,
		Duration:       data.DurationSecs,
	}
	_, err := s.SaveOnlineMatch(result)
	return err
}

// Ensure Store implements MatchResultSaver
var _ multiplayer.MatchResultSaver = (*Store)(nil)
