package events

import (
	"context"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription. Publication
// is fire-and-forget from the engine's perspective; delivery, retry and
// failure handling belong to subscribers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(name Name, handler EventHandler)
}

// inMemoryDispatcher is a simple synchronous dispatcher.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	listeners map[Name][]EventHandler
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{
		listeners: make(map[Name][]EventHandler),
	}
}

// Publish synchronously invokes handlers for the given event.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.EventName]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		// a failing handler does not stop delivery to other subscribers
		_ = handler(ctx, event)
	}
	return nil
}

// Subscribe registers a handler for the given event name.
func (d *inMemoryDispatcher) Subscribe(name Name, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[name] = append(d.listeners[name], handler)
}
