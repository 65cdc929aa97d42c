package timer

import (
	"sync"
	"time"
)

// Source drives a callback periodically. Start while running and Stop while
// stopped are no-ops.
type Source interface {
	Start(fn func())
	Stop()
}

// Ticker is a Source backed by time.Ticker. A tick that races Stop may still
// fire once; consumers must tolerate that.
type Ticker struct {
	interval time.Duration
	mu       sync.Mutex
	stop     chan struct{}
}

func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Ticker{interval: interval}
}

func (t *Ticker) Start(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return
	}
	t.stop = make(chan struct{})
	go t.run(t.stop, fn)
}

func (t *Ticker) run(stop <-chan struct{}, fn func()) {
	tk := time.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case <-stop:
			return
		case <-tk.C:
			fn()
		}
	}
}

func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop == nil {
		return
	}
	close(t.stop)
	t.stop = nil
}

// Running reports whether the ticker is started.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}
