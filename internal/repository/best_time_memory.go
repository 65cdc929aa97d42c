package repository

import (
	"context"
	"sync"

	"minesweeper/internal/domain"
)

// MemoryBestTimeStore keeps records for the life of the process.
type MemoryBestTimeStore struct {
	mu    sync.Mutex
	times map[string]int
}

func NewMemoryBestTimeStore() *MemoryBestTimeStore {
	return &MemoryBestTimeStore{times: make(map[string]int)}
}

func (s *MemoryBestTimeStore) Get(_ context.Context, difficulty string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.times[difficulty]; ok {
		return v, nil
	}
	return domain.DefaultBestTime, nil
}

func (s *MemoryBestTimeStore) SetIfLower(_ context.Context, difficulty string, seconds int) (bool, error) {
	ok, err := checkCandidate(seconds)
	if err != nil || !ok {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, exists := s.times[difficulty]; exists && cur <= seconds {
		return false, nil
	}
	s.times[difficulty] = seconds
	return true, nil
}

func (s *MemoryBestTimeStore) Reset(context.Context) error {
	s.mu.Lock()
	s.times = make(map[string]int)
	s.mu.Unlock()
	return nil
}

func (s *MemoryBestTimeStore) Ping(context.Context) error { return nil }
