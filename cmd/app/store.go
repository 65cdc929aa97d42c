package main

import (
	"context"
	"fmt"

	"minesweeper/internal/config"
	"minesweeper/internal/db"
	"minesweeper/internal/repository"

	redis "github.com/redis/go-redis/v9"
)

// backend is the opened best-time store plus whatever must be closed with it.
type backend struct {
	store   repository.BestTimeStore
	redis   *redis.Client
	closers []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	b := &backend{}

	// a configured Redis also backs the rate limiter
	if cfg.RedisAddr != "" {
		client, err := db.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			if cfg.BestTimeStore == config.StoreRedis {
				return nil, err
			}
		} else {
			b.redis = client
			b.closers = append(b.closers, func() { _ = client.Close() })
		}
	}

	switch cfg.BestTimeStore {
	case config.StoreMemory:
		b.store = repository.NewMemoryBestTimeStore()
	case config.StorePostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		repo := repository.NewBestTimeRepository(pool)
		if err := repo.Migrate(ctx); err != nil {
			b.Close()
			return nil, err
		}
		b.store = repo
	case config.StoreRedis:
		b.store = repository.NewRedisBestTimeStore(b.redis, "")
	case config.StoreSQLite:
		sqlDB, err := db.OpenSQLite(ctx, cfg.DBPath)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = sqlDB.Close() })
		store := repository.NewSQLiteBestTimeStore(sqlDB)
		if err := store.InitializeTables(ctx); err != nil {
			b.Close()
			return nil, err
		}
		b.store = store
	default:
		b.Close()
		return nil, fmt.Errorf("unknown best time store %q", cfg.BestTimeStore)
	}
	return b, nil
}
