package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Wildcard registers a handler for every event type.
const Wildcard = "*"

// HandlerFunc handles a domain event.
type HandlerFunc func(ctx context.Context, event DomainEvent) error

// Publisher accepts domain events.
type Publisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, event DomainEvent) error

func (f PublisherFunc) Publish(ctx context.Context, event DomainEvent) error { return f(ctx, event) }

// Discard is a Publisher that drops every event.
var Discard Publisher = PublisherFunc(func(context.Context, DomainEvent) error { return nil })

type namedHandler struct {
	name    string
	handler HandlerFunc
}

// Dispatcher fans events out to registered handlers. Every handler runs
// even if an earlier one fails; failures are joined into one error.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]namedHandler
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]namedHandler)}
}

// Register adds handler for the given event types. Use Wildcard for all.
func (d *Dispatcher) Register(name string, handler HandlerFunc, eventTypes ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range eventTypes {
		d.handlers[t] = append(d.handlers[t], namedHandler{name: name, handler: handler})
	}
}

// HasHandlers reports whether any handler would receive eventType.
func (d *Dispatcher) HasHandlers(eventType string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[eventType]) > 0 || len(d.handlers[Wildcard]) > 0
}

// Publish dispatches event to the handlers of its type, then to wildcard
// handlers.
func (d *Dispatcher) Publish(ctx context.Context, event DomainEvent) error {
	d.mu.RLock()
	hs := append([]namedHandler(nil), d.handlers[event.EventType()]...)
	hs = append(hs, d.handlers[Wildcard]...)
	d.mu.RUnlock()

	var errs []error
	for _, h := range hs {
		if err := h.handler(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("handler %s failed for event %s: %w", h.name, event.EventType(), err))
		}
	}
	return errors.Join(errs...)
}
