package repository

import (
	"context"
	"errors"

	"minesweeper/internal/domain"

	redis "github.com/redis/go-redis/v9"
)

// DefaultBestTimeKey is the hash holding difficulty -> seconds.
const DefaultBestTimeKey = "minesweeper:best_times"

// compare-and-set in one round trip
var setIfLowerScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], ARGV[1])
if cur and tonumber(cur) <= tonumber(ARGV[2]) then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
return 1
`)

// RedisBestTimeStore stores best times in a Redis hash.
type RedisBestTimeStore struct {
	client *redis.Client
	key    string
}

// NewRedisBestTimeStore uses key, or DefaultBestTimeKey when empty.
func NewRedisBestTimeStore(client *redis.Client, key string) *RedisBestTimeStore {
	if key == "" {
		key = DefaultBestTimeKey
	}
	return &RedisBestTimeStore{client: client, key: key}
}

func (s *RedisBestTimeStore) Get(ctx context.Context, difficulty string) (int, error) {
	v, err := s.client.HGet(ctx, s.key, difficulty).Int()
	if errors.Is(err, redis.Nil) {
		return domain.DefaultBestTime, nil
	}
	if err != nil {
		return 0, err
	}
	return v, nil
}

func (s *RedisBestTimeStore) SetIfLower(ctx context.Context, difficulty string, seconds int) (bool, error) {
	ok, err := checkCandidate(seconds)
	if err != nil || !ok {
		return false, err
	}
	n, err := setIfLowerScript.Run(ctx, s.client, []string{s.key}, difficulty, seconds).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *RedisBestTimeStore) Reset(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

func (s *RedisBestTimeStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
