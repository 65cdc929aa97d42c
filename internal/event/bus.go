package event

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"minesweeper/internal/logger"
)

// ErrListenerGone is returned (possibly wrapped) by a handler whose owner has
// been torn down. Publish drops such errors.
var ErrListenerGone = errors.New("event: listener gone")

// Handler reacts to one event.
type Handler func(Event) error

// Handlers maps the kinds a listener cares about to its callbacks.
type Handlers map[Kind]Handler

// Subscription is one listener's registration. It stays live until
// Unsubscribe is called.
type Subscription struct {
	bus      *Bus
	name     string
	handlers Handlers
	active   atomic.Bool
}

// Name returns the label the subscription was registered with.
func (s *Subscription) Name() string { return s.name }

// Active reports whether the subscription still receives events.
func (s *Subscription) Active() bool { return s.active.Load() }

// Unsubscribe removes the subscription. Safe to call more than once and from
// inside a handler; once it returns no further events are delivered, even to
// a publish that is already in progress.
func (s *Subscription) Unsubscribe() {
	if !s.active.CompareAndSwap(true, false) {
		return
	}
	s.bus.remove(s)
}

// Bus is a synchronous publish/subscribe channel. Delivery follows
// registration order. No lock is held while handlers run, so handlers may
// publish, subscribe and unsubscribe freely.
type Bus struct {
	mu   sync.Mutex
	subs []*Subscription
}

func New() *Bus {
	return &Bus{}
}

// Subscribe registers handlers under name. The map is copied.
func (b *Bus) Subscribe(name string, handlers Handlers) *Subscription {
	s := &Subscription{
		bus:      b,
		name:     name,
		handlers: make(Handlers, len(handlers)),
	}
	for k, h := range handlers {
		if h != nil {
			s.handlers[k] = h
		}
	}
	s.active.Store(true)

	b.mu.Lock()
	b.subs = append(b.subs, s)
	b.mu.Unlock()
	return s
}

func (b *Bus) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, cur := range b.subs {
		if cur == s {
			// copy instead of in-place splice: snapshots taken by running
			// publishes may still alias the old backing array
			next := make([]*Subscription, 0, len(b.subs)-1)
			next = append(next, b.subs[:i]...)
			b.subs = append(next, b.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish delivers ev to every live subscription that handles ev.Kind.
// A handler error does not stop delivery to the remaining listeners; errors
// other than ErrListenerGone are joined and returned.
func (b *Bus) Publish(ev Event) error {
	b.mu.Lock()
	snapshot := b.subs
	b.mu.Unlock()

	var errs []error
	for _, s := range snapshot {
		if !s.active.Load() {
			continue
		}
		h, ok := s.handlers[ev.Kind]
		if !ok {
			continue
		}
		if err := h(ev); err != nil {
			if errors.Is(err, ErrListenerGone) {
				logger.Debug("event: dropped delivery to torn down listener", "listener", s.name, "event", ev.String())
				continue
			}
			errs = append(errs, fmt.Errorf("%s handling %s: %w", s.name, ev, err))
		}
	}
	return errors.Join(errs...)
}
