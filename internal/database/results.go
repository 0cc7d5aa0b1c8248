// Package database persists finished match results to Postgres. Persistence
// is optional; the server runs fully in-memory without a configured DSN.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// MatchResult is one finished game.
type MatchResult struct {
	GameID     uuid.UUID
	RoomID     string
	Rounds     int
	WinnerID   uuid.UUID
	WinnerName string
	Totals     map[string]int
	FinishedAt time.Time
}

// ResultStore writes match results through a pgx connection pool.
type ResultStore struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

// Connect opens a pool against the DSN, verifies it with a ping, and ensures
// the results table exists.
func Connect(ctx context.Context, dsn string, logger *logrus.Logger) (*ResultStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &ResultStore{pool: pool, logger: logger}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *ResultStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS match_results (
			game_id     UUID PRIMARY KEY,
			room_id     TEXT NOT NULL,
			rounds      INT NOT NULL,
			winner_id   UUID NOT NULL,
			winner_name TEXT NOT NULL,
			totals      JSONB NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure match_results table: %w", err)
	}
	return nil
}

// SaveResult inserts one finished game. Duplicate game IDs are ignored so a
// retried callback cannot double-record.
func (s *ResultStore) SaveResult(ctx context.Context, res MatchResult) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO match_results (game_id, room_id, rounds, winner_id, winner_name, totals, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (game_id) DO NOTHING
	`, res.GameID, res.RoomID, res.Rounds, res.WinnerID, res.WinnerName, res.Totals, res.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert match result: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"game":   res.GameID,
		"room":   res.RoomID,
		"winner": res.WinnerName,
	}).Info("match result saved")
	return nil
}

// Close releases the connection pool.
func (s *ResultStore) Close() {
	s.pool.Close()
}
