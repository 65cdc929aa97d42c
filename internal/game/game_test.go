package game

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"minesweeper/internal/domain"
	"minesweeper/internal/event"
)

type recorder struct {
	events []event.Event
	sub    *event.Subscription
}

func record(bus *event.Bus) *recorder {
	r := &recorder{}
	handlers := make(event.Handlers)
	for _, k := range event.Kinds() {
		handlers[k] = func(ev event.Event) error {
			r.events = append(r.events, ev)
			return nil
		}
	}
	r.sub = bus.Subscribe("recorder", handlers)
	return r
}

// kinds returns what was recorded apart from the reveal requests themselves.
func (r *recorder) kinds() []event.Kind {
	var out []event.Kind
	for _, ev := range r.events {
		if ev.Kind == event.Reveal || ev.Kind == event.RevealNeighbors {
			continue
		}
		out = append(out, ev.Kind)
	}
	return out
}

func (r *recorder) reset() { r.events = nil }

var twoByTwo = domain.Difficulty{Name: "tiny", Rows: 2, Cols: 2, Mines: 1}

func newTestGame(t *testing.T, bus *event.Bus, field [][]int) *Game {
	t.Helper()
	g := NewWithBoard(bus, twoByTwo, mustBoard(t, field))
	t.Cleanup(g.Close)
	return g
}

func TestGameLoss(t *testing.T) {
	bus := event.New()
	g := newTestGame(t, bus, fieldWithMines(2, 2, Coord{0, 0}))
	rec := record(bus)

	if g.State() != NotStarted {
		t.Fatalf("state = %v; want not_started", g.State())
	}
	if err := g.Reveal(1, 1); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if g.State() != InProgress {
		t.Fatalf("state = %v; want in_progress", g.State())
	}
	if got, want := rec.kinds(), []event.Kind{event.GameStart}; !reflect.DeepEqual(got, want) {
		t.Fatalf("events = %v; want %v", got, want)
	}

	rec.reset()
	if err := g.Reveal(0, 0); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if g.State() != Lost {
		t.Fatalf("state = %v; want lost", g.State())
	}
	if got, want := rec.kinds(), []event.Kind{event.GameOver, event.GameEnd}; !reflect.DeepEqual(got, want) {
		t.Fatalf("events = %v; want %v", got, want)
	}
	if ev := rec.events[0]; ev.Row != 0 || ev.Col != 0 {
		t.Fatalf("game_over at (%d,%d); want (0,0)", ev.Row, ev.Col)
	}
	if g.Board().Cell(0, 0).Marker() != Detonated {
		t.Fatalf("exploded mine not marked")
	}

	rec.reset()
	_ = g.Reveal(0, 1)
	_, _ = g.ToggleFlag(1, 0)
	if len(rec.events) != 0 || g.Board().Cell(0, 1).IsRevealed() {
		t.Fatalf("terminal game accepted an action: %v", rec.events)
	}
}

func TestGameWin(t *testing.T) {
	bus := event.New()
	g := newTestGame(t, bus, fieldWithMines(2, 2, Coord{0, 0}))
	rec := record(bus)

	var stateAtWin State
	bus.Subscribe("probe", event.Handlers{event.Win: func(event.Event) error {
		stateAtWin = g.State()
		return nil
	}})

	for _, c := range []Coord{{0, 1}, {1, 0}, {1, 1}} {
		if err := g.Reveal(c.Row, c.Col); err != nil {
			t.Fatalf("reveal %v: %v", c, err)
		}
	}
	if g.State() != Won {
		t.Fatalf("state = %v; want won", g.State())
	}
	if stateAtWin != Won {
		t.Fatalf("state seen by win listener = %v; want won", stateAtWin)
	}
	want := []event.Kind{event.GameStart, event.Win, event.GameEnd}
	if got := rec.kinds(); !reflect.DeepEqual(got, want) {
		t.Fatalf("events = %v; want %v", got, want)
	}
	for _, ev := range rec.events {
		if ev.Kind == event.Win && ev.Difficulty != "tiny" {
			t.Fatalf("win difficulty = %q; want tiny", ev.Difficulty)
		}
	}
	if g.Board().Cell(0, 0).Marker() != CorrectFlag {
		t.Fatalf("mine not marked as correctly flagged on win")
	}
}

func TestFlagDoesNotStartGame(t *testing.T) {
	bus := event.New()
	g := newTestGame(t, bus, fieldWithMines(2, 2, Coord{0, 0}))
	rec := record(bus)

	res, err := g.ToggleFlag(0, 0)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !res.Marked() {
		t.Fatalf("first toggle did not mark")
	}
	_, _ = g.ToggleFlag(0, 0)
	_, _ = g.ToggleFlag(0, 0)

	if g.State() != NotStarted {
		t.Fatalf("state = %v; flags must not start the game", g.State())
	}
	want := []event.Kind{event.MineMarked, event.MineUnmarked}
	if got := rec.kinds(); !reflect.DeepEqual(got, want) {
		t.Fatalf("events = %v; want %v", got, want)
	}
}

func TestGameHandlesBusRequests(t *testing.T) {
	bus := event.New()
	// * 1 0
	// 1 1 0
	// 0 0 0
	g := NewWithBoard(bus, domain.Difficulty{Name: "small"}, mustBoard(t, fieldWithMines(3, 3, Coord{0, 0})))
	defer g.Close()

	if err := bus.Publish(event.At(event.Reveal, 1, 1)); err != nil {
		t.Fatalf("publish reveal: %v", err)
	}
	if !g.Board().Cell(1, 1).IsRevealed() {
		t.Fatalf("reveal request not applied")
	}
	if _, err := g.ToggleFlag(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := bus.Publish(event.At(event.RevealNeighbors, 1, 1)); err != nil {
		t.Fatalf("publish chord: %v", err)
	}
	if g.State() != Won {
		t.Fatalf("state = %v; want won after chord", g.State())
	}
	if d := g.Difficulty(); d.Rows != 3 || d.Cols != 3 || d.Mines != 1 {
		t.Fatalf("difficulty = %+v; want board dimensions", d)
	}
}

func TestClosedGameIgnoresRequests(t *testing.T) {
	bus := event.New()
	g := NewWithBoard(bus, twoByTwo, mustBoard(t, fieldWithMines(2, 2, Coord{0, 0})))
	g.Close()
	g.Close()

	if err := bus.Publish(event.At(event.Reveal, 1, 1)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if g.Board().Cell(1, 1).IsRevealed() || g.State() != NotStarted {
		t.Fatalf("closed game reacted to a request")
	}
	if bus.Len() != 0 {
		t.Fatalf("closed game still subscribed")
	}
}

func TestListenerErrorDoesNotUndoMove(t *testing.T) {
	bus := event.New()
	g := newTestGame(t, bus, fieldWithMines(2, 2, Coord{0, 0}))
	boom := errors.New("listener failed")
	bus.Subscribe("failing", event.Handlers{event.GameStart: func(event.Event) error { return boom }})

	err := g.Reveal(1, 1)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v; want listener error", err)
	}
	if !g.Board().Cell(1, 1).IsRevealed() {
		t.Fatalf("move not applied")
	}
}

func TestMineCounter(t *testing.T) {
	bus := event.New()
	g := NewWithBoard(bus, twoByTwo, mustBoard(t, fieldWithMines(2, 3, Coord{0, 0}, Coord{1, 2})))
	defer g.Close()
	mc := NewMineCounter(bus, g.Board().Mines())
	defer mc.Close()

	if mc.Remaining() != 2 {
		t.Fatalf("remaining = %d; want 2", mc.Remaining())
	}
	_, _ = g.ToggleFlag(0, 0)
	_, _ = g.ToggleFlag(0, 1)
	_, _ = g.ToggleFlag(0, 2)
	if mc.Remaining() != -1 {
		t.Fatalf("remaining = %d; want -1 after over-flagging", mc.Remaining())
	}
	_, _ = g.ToggleFlag(0, 1) // -> question
	if mc.Remaining() != 0 {
		t.Fatalf("remaining = %d; want 0", mc.Remaining())
	}

	_ = bus.Publish(event.Of(event.Win))
	if mc.Remaining() != 0 {
		t.Fatalf("remaining after win = %d; want 0", mc.Remaining())
	}
}

func TestFactory(t *testing.T) {
	f := NewFactory(domain.StandardPresets(), 1)
	bus := event.New()

	g, err := f.CreateGame(bus, "Expert")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	defer g.Close()
	b := g.Board()
	if b.Rows() != 16 || b.Cols() != 30 || b.Mines() != 99 {
		t.Fatalf("expert board = %dx%d/%d", b.Rows(), b.Cols(), b.Mines())
	}

	if _, err := f.CreateGame(bus, "nightmare"); err == nil {
		t.Fatalf("unknown difficulty accepted")
	}
}

func TestNewRejectsInvalidDifficulty(t *testing.T) {
	_, err := New(event.New(), domain.Difficulty{Name: "bad", Rows: 2, Cols: 2, Mines: 4}, rand.New(rand.NewSource(1)))
	var perr *InvalidBoardParamsError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v; want *InvalidBoardParamsError", err)
	}
}
