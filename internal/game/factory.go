package game

import (
	"fmt"
	"math/rand"
	"time"

	"minesweeper/internal/domain"
	"minesweeper/internal/event"
)

// Factory creates games for named difficulties. It is not safe for
// concurrent use.
type Factory struct {
	presets *domain.Presets
	rng     *rand.Rand
}

// NewFactory builds a factory over presets. A zero seed seeds from the clock.
func NewFactory(presets *domain.Presets, seed int64) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{presets: presets, rng: rand.New(rand.NewSource(seed))}
}

func (f *Factory) Presets() *domain.Presets {
	return f.presets
}

// CreateGame starts a fresh game for the named difficulty on bus.
func (f *Factory) CreateGame(bus *event.Bus, difficulty string) (*Game, error) {
	d, ok := f.presets.Get(difficulty)
	if !ok {
		return nil, fmt.Errorf("unknown difficulty: %s", difficulty)
	}
	return New(bus, d, f.rng)
}
