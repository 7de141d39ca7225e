// Package events is a small synchronous publish/subscribe bus used to
// tell the UI layer that the draft or the sync status changed.
package events

import (
	"sort"
	"sync"
)

// Kind identifies an event.
type Kind string

const (
	// DraftUpdated fires after the local draft is written or cleared.
	DraftUpdated Kind = "draft-updated"
	// SyncStatusChanged fires after load, publish or discard changes the
	// relation between working state and baseline.
	SyncStatusChanged Kind = "sync-status-changed"
	// WorkingStateChanged fires after any mutation of the working state.
	WorkingStateChanged Kind = "working-state-changed"
)

// Event is delivered to subscribers.
type Event struct {
	Kind Kind
	// Pending is true when the working state differs from the baseline.
	// Only set for SyncStatusChanged.
	Pending bool
}

// Handler receives events on the publisher's goroutine.
type Handler func(Event)

// Notifier is what producers depend on.
type Notifier interface {
	Notify(Event)
}

// Bus fans events out to subscribers. The zero value is ready to use.
type Bus struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = make(map[int]Handler)
	}
	id := b.next
	b.next++
	b.handlers[id] = h
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
	}
}

// Notify delivers ev to every subscriber in subscription order. The lock
// is released first, so handlers may subscribe or unsubscribe.
func (b *Bus) Notify(ev Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	ids := make([]int, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	hs := make(map[int]Handler, len(b.handlers))
	for id, h := range b.handlers {
		hs[id] = h
	}
	b.mu.RUnlock()

	sort.Ints(ids)
	for _, id := range ids {
		hs[id](ev)
	}
}

// Discard drops every event.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Event) {}
