package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"minesweeper/internal/logger"
)

// OpenSQLite opens the database file at path, creating it if needed.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// the file is only opened on first use
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// one writer at a time
	sqlDB.SetMaxOpenConns(1)

	logger.Info("sqlite opened", "path", path)
	return sqlDB, nil
}
