package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"minesweeper/internal/domain"
)

// exerciseStore runs the shared BestTimeStore contract against s, which must
// start empty.
func exerciseStore(t *testing.T, s BestTimeStore) {
	t.Helper()
	ctx := context.Background()

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	got, err := s.Get(ctx, domain.Beginner)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != domain.DefaultBestTime {
		t.Fatalf("empty store returned %d; want %d", got, domain.DefaultBestTime)
	}

	steps := []struct {
		seconds int
		updated bool
		stored  int
	}{
		{domain.DefaultBestTime, false, domain.DefaultBestTime},
		{120, true, 120},
		{120, false, 120},
		{150, false, 120},
		{45, true, 45},
		{0, true, 0},
		{1, false, 0},
	}
	for _, st := range steps {
		updated, err := s.SetIfLower(ctx, domain.Beginner, st.seconds)
		if err != nil {
			t.Fatalf("SetIfLower(%d): %v", st.seconds, err)
		}
		if updated != st.updated {
			t.Fatalf("SetIfLower(%d) updated = %v; want %v", st.seconds, updated, st.updated)
		}
		got, err := s.Get(ctx, domain.Beginner)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got != st.stored {
			t.Fatalf("after SetIfLower(%d) stored = %d; want %d", st.seconds, got, st.stored)
		}
	}

	if _, err := s.SetIfLower(ctx, domain.Expert, -1); !errors.Is(err, ErrInvalidSeconds) {
		t.Fatalf("negative seconds err = %v; want ErrInvalidSeconds", err)
	}

	if got, _ := s.Get(ctx, domain.Expert); got != domain.DefaultBestTime {
		t.Fatalf("records leak across difficulties: expert = %d", got)
	}

	if _, err := s.SetIfLower(ctx, domain.Advanced, 300); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	for _, d := range []string{domain.Beginner, domain.Advanced} {
		if got, _ := s.Get(ctx, d); got != domain.DefaultBestTime {
			t.Fatalf("%s after reset = %d; want %d", d, got, domain.DefaultBestTime)
		}
	}
}

// concurrent writers must leave the minimum behind
func exerciseConcurrentSet(t *testing.T, s BestTimeStore) {
	t.Helper()
	ctx := context.Background()

	var wg sync.WaitGroup
	for secs := 200; secs > 100; secs-- {
		wg.Add(1)
		go func(secs int) {
			defer wg.Done()
			if _, err := s.SetIfLower(ctx, domain.Expert, secs); err != nil {
				t.Errorf("SetIfLower(%d): %v", secs, err)
			}
		}(secs)
	}
	wg.Wait()

	if got, _ := s.Get(ctx, domain.Expert); got != 101 {
		t.Fatalf("stored = %d; want 101", got)
	}
}

func TestMemoryBestTimeStore(t *testing.T) {
	exerciseStore(t, NewMemoryBestTimeStore())
	exerciseConcurrentSet(t, NewMemoryBestTimeStore())
}

func TestGetAll(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryBestTimeStore()
	if _, err := s.SetIfLower(ctx, domain.Advanced, 77); err != nil {
		t.Fatal(err)
	}

	all, err := GetAll(ctx, s, domain.StandardPresets())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	want := []domain.BestTime{
		{Difficulty: domain.Beginner, Seconds: domain.DefaultBestTime},
		{Difficulty: domain.Advanced, Seconds: 77},
		{Difficulty: domain.Expert, Seconds: domain.DefaultBestTime},
	}
	if len(all) != len(want) {
		t.Fatalf("GetAll = %v; want %v", all, want)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Fatalf("GetAll[%d] = %v; want %v", i, all[i], want[i])
		}
	}
	if !all[1].HasRecord() || all[0].HasRecord() {
		t.Fatalf("HasRecord mismatch: %v", all)
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	ms, err := Migrations()
	if err != nil {
		t.Fatalf("Migrations: %v", err)
	}
	if len(ms) == 0 || ms[0].Name != "001_best_times.sql" {
		t.Fatalf("migrations = %v", ms)
	}
}
