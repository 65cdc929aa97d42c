package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"minesweeper/internal/logger"

	"github.com/joho/godotenv"
)

// Best-time store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreSQLite   = "sqlite"
)

type Config struct {
	AppPort       string
	LogLevel      string
	LogJSON       bool
	AllowedOrigin string

	// Rate limiting of /api/v1
	APIRateLimit  int
	APIRateWindow time.Duration

	// Game
	DifficultySet     string
	DefaultDifficulty string
	TickInterval      time.Duration

	// Best-time persistence
	BestTimeStore string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DBPath        string
}

// Load reads .env (if present) and the process environment. Missing values
// required by the selected store backend are fatal.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:           getEnv("APP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogJSON:           os.Getenv("LOG_JSON") == "true",
		AllowedOrigin:     os.Getenv("ALLOWED_ORIGIN"),
		DifficultySet:     getEnv("DIFFICULTY_SET", "standard"),
		DefaultDifficulty: strings.ToLower(getEnv("DEFAULT_DIFFICULTY", "beginner")),
		TickInterval:      time.Second,
		APIRateLimit:      120,
		APIRateWindow:     time.Minute,
		BestTimeStore:     strings.ToLower(getEnv("BEST_TIME_STORE", StoreMemory)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		DBPath:            os.Getenv("DB_PATH"),
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RedisDB = n
		}
	}

	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.APIRateLimit = n
		}
	}
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.APIRateWindow = time.Duration(n) * time.Second
		}
	}

	// only useful for demos and tests; the timer contract is one tick per second
	if v := os.Getenv("TICK_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TickInterval = time.Duration(n) * time.Millisecond
		}
	}

	switch cfg.BestTimeStore {
	case StoreMemory:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			logger.Fatal("DATABASE_URL is not set", "store", cfg.BestTimeStore)
		}
	case StoreRedis:
		if cfg.RedisAddr == "" {
			logger.Fatal("REDIS_ADDR is not set", "store", cfg.BestTimeStore)
		}
	case StoreSQLite:
		if cfg.DBPath == "" {
			logger.Fatal("DB_PATH is not set", "store", cfg.BestTimeStore)
		}
	default:
		logger.Fatal("unknown BEST_TIME_STORE", "store", cfg.BestTimeStore)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
