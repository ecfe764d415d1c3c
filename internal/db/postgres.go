// Package db persists retired players' final scores and serves the
// leaderboard read-back: a thin wrapper around a pgxpool.Pool with
// Connect/Close/InitSchema plus one method per query, using prepared
// statement parameters ($1, $2, ...) rather than string interpolation
// throughout.
package db

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is one row of the retired_players table. JSON tags match the
// leaderboard response shape: play time is stored in milliseconds but
// surfaced under "playTime" in seconds, matching the fetch contract.
type Record struct {
	ID       uuid.UUID `json:"-"`
	Name     string    `json:"name"`
	Score    int       `json:"score"`
	PlayTime float64   `json:"playTime"`
}

// PostgresStore wraps the connection pool used for the leaderboard.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect opens the pool and verifies connectivity with a ping.
func Connect(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping failed: %w", err)
	}
	log.Println("connected to leaderboard database")
	return &PostgresStore{pool: pool}, nil
}

// Close releases the pool's connections.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema creates the retired_players table and its leaderboard index
// if they do not already exist. Corrected from the source DDL, which
// dropped commas between column and index definitions.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS retired_players (
			id UUID PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			score INTEGER NOT NULL,
			play_time_ms INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS retired_players_leaderboard_idx
			ON retired_players (score DESC, play_time_ms, name);
	`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("schema init: %w", err)
	}
	log.Println("leaderboard schema ready")
	return nil
}

// RecordRetired inserts one retired player's final tally. Per the error
// handling design, the caller logs and swallows a failure here, the
// player is still evicted from the live registry regardless of whether
// the row made it to disk.
func (s *PostgresStore) RecordRetired(ctx context.Context, name string, score int, playTimeMs int64) error {
	const sql = `INSERT INTO retired_players (id, name, score, play_time_ms) VALUES ($1, $2, $3, $4)`
	_, err := s.pool.Exec(ctx, sql, uuid.New(), name, score, playTimeMs)
	return err
}

// maxRecordsLimit caps FetchRecords so a client can't force an
// unbounded scan of the leaderboard table.
const maxRecordsLimit = 100

// FetchRecords returns up to limit rows starting at offset, ordered by
// score desc, then play time asc, then name asc, the tie-break order
// fixed by the persisted-state contract. limit is clamped to
// maxRecordsLimit. Play time is converted from the stored milliseconds
// to seconds at this boundary, per the fetch contract.
func (s *PostgresStore) FetchRecords(ctx context.Context, offset, limit int) ([]Record, error) {
	if limit <= 0 || limit > maxRecordsLimit {
		limit = maxRecordsLimit
	}
	if offset < 0 {
		offset = 0
	}

	const sql = `
		SELECT id, name, score, play_time_ms
		FROM retired_players
		ORDER BY score DESC, play_time_ms ASC, name ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := s.pool.Query(ctx, sql, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var playTimeMs int
		if err := rows.Scan(&r.ID, &r.Name, &r.Score, &playTimeMs); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.PlayTime = float64(playTimeMs) / 1000.0
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
