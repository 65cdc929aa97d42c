package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"minesweeper/internal/domain"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// ErrInvalidSeconds is returned for negative times.
var ErrInvalidSeconds = errors.New("best time must not be negative")

// BestTimeStore persists the best completion time per difficulty. Absent
// records read as domain.DefaultBestTime and a record never increases.
type BestTimeStore interface {
	Get(ctx context.Context, difficulty string) (int, error)
	// SetIfLower stores seconds only when strictly below the current value
	// and reports whether it did.
	SetIfLower(ctx context.Context, difficulty string, seconds int) (bool, error)
	// Reset removes every record.
	Reset(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Migrations returns the schema files in apply order.
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, err
	}
	var out []Migration
	for _, e := range entries {
		b, err := migrationFS.ReadFile("migrations/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", e.Name(), err)
		}
		out = append(out, Migration{Name: e.Name(), SQL: string(b)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Migration - one schema file
type Migration struct {
	Name string
	SQL  string
}

// GetAll reads the record of every difficulty in presets.
func GetAll(ctx context.Context, store BestTimeStore, presets *domain.Presets) ([]domain.BestTime, error) {
	all := presets.All()
	out := make([]domain.BestTime, 0, len(all))
	for _, d := range all {
		secs, err := store.Get(ctx, d.Name)
		if err != nil {
			return nil, fmt.Errorf("get best time for %s: %w", d.Name, err)
		}
		out = append(out, domain.BestTime{Difficulty: d.Name, Seconds: secs})
	}
	return out, nil
}

// checkCandidate validates seconds and tells whether it can ever be a record.
func checkCandidate(seconds int) (bool, error) {
	if seconds < 0 {
		return false, ErrInvalidSeconds
	}
	return seconds < domain.DefaultBestTime, nil
}
