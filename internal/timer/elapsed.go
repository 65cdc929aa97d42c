package timer

import (
	"context"
	"sync"
	"time"

	"minesweeper/internal/domain"
	"minesweeper/internal/event"
	"minesweeper/internal/logger"
)

// MaxSeconds caps the elapsed counter.
const MaxSeconds = domain.DefaultBestTime

const reportTimeout = 2 * time.Second

// Recorder receives a finished game's time.
type Recorder interface {
	SetIfLower(ctx context.Context, difficulty string, seconds int) (bool, error)
}

// Elapsed counts seconds from game_start to game_end and reports the count
// to a Recorder on win.
type Elapsed struct {
	mu         sync.Mutex
	seconds    int
	running    bool
	difficulty string
	source     Source
	recorder   Recorder
	sub        *event.Subscription
}

// NewElapsed registers a timer for one session. recorder may be nil.
func NewElapsed(bus *event.Bus, difficulty string, source Source, recorder Recorder) *Elapsed {
	e := &Elapsed{
		difficulty: difficulty,
		source:     source,
		recorder:   recorder,
	}
	e.sub = bus.Subscribe("elapsed_timer", event.Handlers{
		event.GameStart: func(event.Event) error { e.start(); return nil },
		event.GameEnd:   func(event.Event) error { e.stop(); return nil },
		event.Win:       func(event.Event) error { e.report(); return nil },
	})
	return e
}

func (e *Elapsed) start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()
	e.source.Start(e.tick)
}

func (e *Elapsed) stop() {
	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
	e.source.Stop()
}

func (e *Elapsed) tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running || e.seconds >= MaxSeconds {
		return
	}
	e.seconds++
}

// Seconds returns the current count.
func (e *Elapsed) Seconds() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seconds
}

// Running reports whether the timer is counting.
func (e *Elapsed) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

func (e *Elapsed) report() {
	if e.recorder == nil {
		return
	}
	seconds := e.Seconds()

	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	updated, err := e.recorder.SetIfLower(ctx, e.difficulty, seconds)
	if err != nil {
		logger.Warn("failed to record best time", "difficulty", e.difficulty, "seconds", seconds, "error", err)
		return
	}
	if updated {
		logger.Info("new best time", "difficulty", e.difficulty, "seconds", seconds)
	}
}

// Close stops the tick source and detaches from the bus.
func (e *Elapsed) Close() {
	e.sub.Unsubscribe()
	e.stop()
}
