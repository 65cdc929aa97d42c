package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"minesweeper/internal/domain"
)

// SQLiteBestTimeStore stores best times in a SQLite file. The driver is
// registered by internal/db.
type SQLiteBestTimeStore struct {
	db *sql.DB
}

func NewSQLiteBestTimeStore(db *sql.DB) *SQLiteBestTimeStore {
	return &SQLiteBestTimeStore{db: db}
}

// InitializeTables applies the embedded schema.
func (s *SQLiteBestTimeStore) InitializeTables(ctx context.Context) error {
	migrations, err := Migrations()
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
	}
	return nil
}

func (s *SQLiteBestTimeStore) Get(ctx context.Context, difficulty string) (int, error) {
	var seconds int
	err := s.db.QueryRowContext(ctx,
		`SELECT seconds FROM best_times WHERE difficulty = ?`,
		difficulty,
	).Scan(&seconds)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultBestTime, nil
	}
	if err != nil {
		return 0, err
	}
	return seconds, nil
}

func (s *SQLiteBestTimeStore) SetIfLower(ctx context.Context, difficulty string, seconds int) (bool, error) {
	ok, err := checkCandidate(seconds)
	if err != nil || !ok {
		return false, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO best_times (difficulty, seconds, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (difficulty) DO UPDATE
		 SET seconds = excluded.seconds, updated_at = excluded.updated_at
		 WHERE best_times.seconds > excluded.seconds`,
		difficulty, seconds,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *SQLiteBestTimeStore) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM best_times`)
	return err
}

func (s *SQLiteBestTimeStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
