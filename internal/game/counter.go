package game

import (
	"sync"

	"minesweeper/internal/event"
)

// MineCounter tracks the remaining-mines display: total mines minus mine
// flags, forced to zero on a win. It may go negative when the player
// over-flags.
type MineCounter struct {
	mu        sync.Mutex
	remaining int
	sub       *event.Subscription
}

func NewMineCounter(bus *event.Bus, mines int) *MineCounter {
	mc := &MineCounter{remaining: mines}
	mc.sub = bus.Subscribe("mine_counter", event.Handlers{
		event.MineMarked:   func(event.Event) error { mc.add(-1); return nil },
		event.MineUnmarked: func(event.Event) error { mc.add(1); return nil },
		event.Win: func(event.Event) error {
			mc.mu.Lock()
			mc.remaining = 0
			mc.mu.Unlock()
			return nil
		},
	})
	return mc
}

func (mc *MineCounter) add(delta int) {
	mc.mu.Lock()
	mc.remaining += delta
	mc.mu.Unlock()
}

func (mc *MineCounter) Remaining() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.remaining
}

func (mc *MineCounter) Close() {
	mc.sub.Unsubscribe()
}
