package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"minesweeper/internal/domain"
	"minesweeper/internal/event"
	"minesweeper/internal/game"
	"minesweeper/internal/logger"
	"minesweeper/internal/metrics"
	"minesweeper/internal/repository"
	"minesweeper/internal/timer"

	"github.com/google/uuid"
)

var (
	ErrStaleSession      = errors.New("session is no longer current")
	ErrOutOfRange        = errors.New("coordinates out of range")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrRunnerClosed      = errors.New("runner closed")
)

// SourceFactory returns a fresh tick source for each session.
type SourceFactory func() timer.Source

// RunnerOptions configures a Runner. Presets and Store are required.
type RunnerOptions struct {
	Presets           *domain.Presets
	DefaultDifficulty string
	Store             repository.BestTimeStore
	// NewSource defaults to a one-second timer.Ticker.
	NewSource SourceFactory
	// Seed for board generation; zero seeds from the clock.
	Seed int64
}

// session is everything bound to one board.
type session struct {
	game    *game.Game
	elapsed *timer.Elapsed
	counter *game.MineCounter
	metrics *metrics.Listener
}

func (s *session) close() {
	s.game.Close()
	s.elapsed.Close()
	s.counter.Close()
	s.metrics.Close()
}

// Runner owns the bus and the current session. All player actions go through
// it and are serialised by its mutex.
type Runner struct {
	mu        sync.Mutex
	bus       *event.Bus
	store     repository.BestTimeStore
	factory   *game.Factory
	newGame   func(bus *event.Bus, difficulty string) (*game.Game, error)
	newSource SourceFactory
	last      string
	cur       *session
	sub       *event.Subscription
	closed    bool
}

// NewRunner starts a runner with a fresh session of the default difficulty.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Presets == nil || opts.Store == nil {
		return nil, errors.New("runner needs presets and a store")
	}
	if opts.NewSource == nil {
		opts.NewSource = func() timer.Source { return timer.NewTicker(time.Second) }
	}
	def := opts.DefaultDifficulty
	if def == "" {
		def = domain.Beginner
	}
	if _, ok := opts.Presets.Get(def); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDifficulty, def)
	}

	r := &Runner{
		bus:       event.New(),
		store:     opts.Store,
		factory:   game.NewFactory(opts.Presets, opts.Seed),
		newSource: opts.NewSource,
		last:      def,
	}
	r.newGame = r.factory.CreateGame
	// new_game is only published by NewGame, which holds mu
	r.sub = r.bus.Subscribe("runner", event.Handlers{
		event.NewGame: func(ev event.Event) error {
			return r.replaceSession(ev.Difficulty)
		},
	})
	if err := r.replaceSession(def); err != nil {
		return nil, err
	}
	return r, nil
}

// Bus exposes the event bus for read-only listeners such as the websocket hub.
func (r *Runner) Bus() *event.Bus {
	return r.bus
}

func (r *Runner) Presets() *domain.Presets {
	return r.factory.Presets()
}

// replaceSession builds a session for difficulty and swaps it in. The
// current session is only torn down once the new one exists. Callers hold mu.
func (r *Runner) replaceSession(difficulty string) error {
	if difficulty == "" {
		difficulty = r.last
	}
	d, ok := r.factory.Presets().Get(difficulty)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDifficulty, difficulty)
	}

	g, err := r.newGame(r.bus, d.Name)
	if err != nil {
		return fmt.Errorf("create %s game: %w", d.Name, err)
	}
	elapsed := timer.NewElapsed(r.bus, d.Name, r.newSource(), r.store)
	next := &session{
		game:    g,
		elapsed: elapsed,
		counter: game.NewMineCounter(r.bus, d.Mines),
		metrics: metrics.NewListener(r.bus, d.Name, elapsed.Seconds),
	}
	if r.cur != nil {
		r.cur.close()
	}
	r.cur = next
	r.last = d.Name
	logger.Info("new session", "session_id", g.ID().String(), "difficulty", d.Name)
	return nil
}

// Snapshot is the externally visible session state.
type Snapshot struct {
	SessionID      string            `json:"session_id"`
	Difficulty     domain.Difficulty `json:"difficulty"`
	State          game.State        `json:"state"`
	ElapsedSeconds int               `json:"elapsed_seconds"`
	MinesRemaining int               `json:"mines_remaining"`
	Board          [][]game.CellView `json:"board"`
}

func (r *Runner) snapshot() Snapshot {
	s := r.cur
	return Snapshot{
		SessionID:      s.game.ID().String(),
		Difficulty:     s.game.Difficulty(),
		State:          s.game.State(),
		ElapsedSeconds: s.elapsed.Seconds(),
		MinesRemaining: s.counter.Remaining(),
		Board:          s.game.Snapshot(),
	}
}

// NewGame replaces the current session. An empty difficulty reuses the last one.
func (r *Runner) NewGame(difficulty string) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return Snapshot{}, ErrRunnerClosed
	}
	if difficulty != "" {
		if _, ok := r.factory.Presets().Get(difficulty); !ok {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownDifficulty, difficulty)
		}
	}
	if err := r.bus.Publish(event.NewGameRequest(difficulty)); err != nil {
		return Snapshot{}, err
	}
	return r.snapshot(), nil
}

// check validates the session id and coordinates. Callers hold mu.
func (r *Runner) check(id uuid.UUID, row, col int) error {
	if r.closed {
		return ErrRunnerClosed
	}
	if id != r.cur.game.ID() {
		return ErrStaleSession
	}
	if !r.cur.game.Board().InBounds(row, col) {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, row, col)
	}
	return nil
}

// Reveal asks the session to open (row, col).
func (r *Runner) Reveal(id uuid.UUID, row, col int) (Snapshot, error) {
	return r.publishAction(id, event.At(event.Reveal, row, col))
}

// Chord asks the session to open the neighbours of (row, col).
func (r *Runner) Chord(id uuid.UUID, row, col int) (Snapshot, error) {
	return r.publishAction(id, event.At(event.RevealNeighbors, row, col))
}

func (r *Runner) publishAction(id uuid.UUID, ev event.Event) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(id, ev.Row, ev.Col); err != nil {
		return Snapshot{}, err
	}
	if err := r.bus.Publish(ev); err != nil {
		logger.Error("action failed", "event", ev.String(), "error", err)
		return r.snapshot(), err
	}
	return r.snapshot(), nil
}

// ToggleFlag cycles the mark on (row, col).
func (r *Runner) ToggleFlag(id uuid.UUID, row, col int) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(id, row, col); err != nil {
		return Snapshot{}, err
	}
	if _, err := r.cur.game.ToggleFlag(row, col); err != nil {
		return r.snapshot(), err
	}
	return r.snapshot(), nil
}

// State returns the current session snapshot.
func (r *Runner) State() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// BestTimes reads the record of every preset.
func (r *Runner) BestTimes(ctx context.Context) ([]domain.BestTime, error) {
	return repository.GetAll(ctx, r.store, r.factory.Presets())
}

// ResetBestTimes clears every record.
func (r *Runner) ResetBestTimes(ctx context.Context) error {
	if err := r.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset best times: %w", err)
	}
	logger.Info("best times reset")
	return nil
}

// Ping checks the best-time store.
func (r *Runner) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

// Close tears down the current session and detaches from the bus.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.sub.Unsubscribe()
	if r.cur != nil {
		r.cur.close()
	}
}
