package events

import (
	"sync"
)

// Event names emitted by the backend.
const (
	EventSyncCompleted     = "sync.completed"
	EventItemLinked        = "item.linked"
	EventItemLoginRequired = "item.login_required"
)

// Event is one named occurrence with an arbitrary payload.
type Event struct {
	Name    string
	Payload interface{}
}

// Handler receives events for a name it subscribed to. Handlers run on
// their own goroutine and must do their own synchronization.
type Handler func(event Event)

// Bridge delivers named events to registered observers. Delivery is
// at-most-once and fire-and-forget: an event emitted while no observer is
// registered for its name is dropped. Subscription and emission are safe
// to call concurrently.
type Bridge struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]Handler
}

func NewBridge() *Bridge {
	return &Bridge{
		subs: make(map[string]map[int]Handler),
	}
}

// Subscribe registers a handler for an event name and returns a function
// that removes the registration. Unsubscribing twice is harmless.
func (b *Bridge) Subscribe(name string, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	if b.subs[name] == nil {
		b.subs[name] = make(map[int]Handler)
	}
	b.subs[name][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[name], id)
	}
}

// Emit delivers the event to every handler currently subscribed to its
// name. The emitter never blocks on handlers.
func (b *Bridge) Emit(name string, payload interface{}) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[name]))
	for _, handler := range b.subs[name] {
		handlers = append(handlers, handler)
	}
	b.mu.RUnlock()

	event := Event{Name: name, Payload: payload}
	for _, handler := range handlers {
		go handler(event)
	}
}
