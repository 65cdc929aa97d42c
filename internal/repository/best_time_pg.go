package repository

import (
	"context"
	"errors"
	"fmt"

	"minesweeper/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BestTimeRepository stores best times in PostgreSQL.
type BestTimeRepository struct {
	db *pgxpool.Pool
}

func NewBestTimeRepository(db *pgxpool.Pool) *BestTimeRepository {
	return &BestTimeRepository{db: db}
}

// Migrate applies the embedded schema.
func (r *BestTimeRepository) Migrate(ctx context.Context) error {
	migrations, err := Migrations()
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := r.db.Exec(ctx, m.SQL); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
	}
	return nil
}

func (r *BestTimeRepository) Get(ctx context.Context, difficulty string) (int, error) {
	var seconds int
	err := r.db.QueryRow(ctx,
		`SELECT seconds FROM best_times WHERE difficulty = $1`,
		difficulty,
	).Scan(&seconds)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DefaultBestTime, nil
	}
	if err != nil {
		return 0, err
	}
	return seconds, nil
}

// SetIfLower upserts in one statement; the conflict branch only fires when
// the stored time is higher, so concurrent writers cannot raise a record.
func (r *BestTimeRepository) SetIfLower(ctx context.Context, difficulty string, seconds int) (bool, error) {
	ok, err := checkCandidate(seconds)
	if err != nil || !ok {
		return false, err
	}
	tag, err := r.db.Exec(ctx,
		`INSERT INTO best_times (difficulty, seconds, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (difficulty) DO UPDATE
		 SET seconds = EXCLUDED.seconds, updated_at = EXCLUDED.updated_at
		 WHERE best_times.seconds > EXCLUDED.seconds`,
		difficulty, seconds,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BestTimeRepository) Reset(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM best_times`)
	return err
}

func (r *BestTimeRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
