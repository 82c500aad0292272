// Package events provides in-process pub/sub for rental domain events.
// Delivery is synchronous and best-effort; correctness of the lifecycle
// never depends on a subscriber being attached.
package events

import (
	"sync"
	"time"
)

// Event type names emitted by the rental service and the lifecycle engine.
const (
	RentalPaid      = "rental.paid"
	RentalActivated = "rental.activated"
	RentalCompleted = "rental.completed"
	RentalCancelled = "rental.cancelled"
	MachineFreed    = "machine.freed"
)

// Event is a lightweight domain event.
type Event struct {
	Type      string
	RentalID  string
	MachineID string
	At        time.Time
}

// Handler reacts to an event.
type Handler func(event Event)

// Bus provides in-process pub/sub for events.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeAll registers a handler for every known event type.
func (b *Bus) SubscribeAll(handler Handler) {
	for _, t := range []string{RentalPaid, RentalActivated, RentalCompleted, RentalCancelled, MachineFreed} {
		b.Subscribe(t, handler)
	}
}

// Publish notifies subscribers of the event type.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		handler(event)
	}
}
