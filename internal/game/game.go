package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync/atomic"

	"minesweeper/internal/domain"
	"minesweeper/internal/event"
	"minesweeper/internal/logger"

	"github.com/google/uuid"
)

// State of a session.
type State int

const (
	NotStarted State = iota
	InProgress
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// IsTerminal reports Won or Lost.
func (s State) IsTerminal() bool {
	return s == Won || s == Lost
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Game is one session: a board plus the NotStarted -> InProgress -> Won|Lost
// state machine. It publishes lifecycle events on the bus and listens for
// reveal and chord requests until Close.
//
// Game is not safe for concurrent use; the caller serialises actions.
type Game struct {
	id         uuid.UUID
	difficulty domain.Difficulty
	board      *Board
	state      State
	bus        *event.Bus
	sub        *event.Subscription
	closed     atomic.Bool
	log        *slog.Logger
}

// New generates a board for d and registers the game on bus.
func New(bus *event.Bus, d domain.Difficulty, rng *rand.Rand) (*Game, error) {
	board, err := NewRandomBoard(d.Rows, d.Cols, d.Mines, rng)
	if err != nil {
		return nil, err
	}
	return NewWithBoard(bus, d, board), nil
}

// NewWithBoard registers a game around a prepared board. The board's real
// dimensions win over the ones in d.
func NewWithBoard(bus *event.Bus, d domain.Difficulty, board *Board) *Game {
	d.Rows, d.Cols, d.Mines = board.Rows(), board.Cols(), board.Mines()
	g := &Game{
		id:         uuid.New(),
		difficulty: d,
		board:      board,
		bus:        bus,
	}
	g.log = logger.With("game", g.id.String(), "difficulty", d.Name)
	g.sub = bus.Subscribe("game:"+g.id.String(), event.Handlers{
		event.Reveal: func(ev event.Event) error {
			if g.closed.Load() {
				return fmt.Errorf("game %s: %w", g.id, event.ErrListenerGone)
			}
			return g.Reveal(ev.Row, ev.Col)
		},
		event.RevealNeighbors: func(ev event.Event) error {
			if g.closed.Load() {
				return fmt.Errorf("game %s: %w", g.id, event.ErrListenerGone)
			}
			return g.Chord(ev.Row, ev.Col)
		},
	})
	g.log.Debug("game created", "rows", d.Rows, "cols", d.Cols, "mines", d.Mines)
	return g
}

func (g *Game) ID() uuid.UUID                 { return g.id }
func (g *Game) Difficulty() domain.Difficulty { return g.difficulty }
func (g *Game) State() State                  { return g.state }
func (g *Game) Board() *Board                 { return g.board }

// Close detaches the game from the bus. Further actions are ignored.
func (g *Game) Close() {
	if g.closed.CompareAndSwap(false, true) {
		g.sub.Unsubscribe()
	}
}

func (g *Game) acceptsActions() bool {
	return !g.closed.Load() && !g.state.IsTerminal()
}

// Reveal opens (r, c). The first reveal or chord starts the game. Listener
// errors are returned but never undo the move.
func (g *Game) Reveal(r, c int) error {
	if !g.acceptsActions() {
		return nil
	}
	startErr := g.start()
	return errors.Join(startErr, g.settle(g.board.Reveal(r, c)))
}

// Chord reveals the neighbours of a revealed numbered cell when its flag
// count matches.
func (g *Game) Chord(r, c int) error {
	if !g.acceptsActions() {
		return nil
	}
	startErr := g.start()
	return errors.Join(startErr, g.settle(g.board.RevealNeighbors(r, c)))
}

// ToggleFlag cycles the mark on (r, c). Flagging does not start the game.
func (g *Game) ToggleFlag(r, c int) (FlagResult, error) {
	if !g.acceptsActions() {
		return FlagResult{}, nil
	}
	res := g.board.ToggleFlag(r, c)
	switch {
	case res.Marked():
		return res, g.bus.Publish(event.Of(event.MineMarked))
	case res.Unmarked():
		return res, g.bus.Publish(event.Of(event.MineUnmarked))
	}
	return res, nil
}

func (g *Game) start() error {
	if g.state != NotStarted {
		return nil
	}
	// state first: game_start listeners may already send actions back in
	g.state = InProgress
	g.log.Info("game started")
	return g.bus.Publish(event.Of(event.GameStart))
}

// settle moves to a terminal state when the last action decided the game.
func (g *Game) settle(res RevealResult) error {
	switch {
	case res.Detonated:
		g.state = Lost
		g.board.FinalizeLoss(res.At.Row, res.At.Col)
		g.log.Info("game lost", "row", res.At.Row, "col", res.At.Col)
		return errors.Join(
			g.bus.Publish(event.At(event.GameOver, res.At.Row, res.At.Col)),
			g.bus.Publish(event.Of(event.GameEnd)),
		)
	case g.board.CheckWin():
		g.state = Won
		g.board.FinalizeWin()
		g.log.Info("game won")
		return errors.Join(
			g.bus.Publish(event.Event{Kind: event.Win, Difficulty: g.difficulty.Name}),
			g.bus.Publish(event.Of(event.GameEnd)),
		)
	}
	return nil
}

// Snapshot returns the visible board; everything is shown once the game is over.
func (g *Game) Snapshot() [][]CellView {
	return g.board.Snapshot(g.state.IsTerminal())
}
