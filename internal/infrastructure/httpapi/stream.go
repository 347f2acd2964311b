package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/felixgeelhaar/nihulit/pkg/domain/access"
	"github.com/felixgeelhaar/nihulit/pkg/domain/events"
)

// EventStream fans domain events out to Server-Sent Events clients.
// Register Handle on the dispatcher to feed it.
type EventStream struct {
	mu      sync.RWMutex
	clients map[chan events.DomainEvent]struct{}
}

func NewEventStream() *EventStream {
	return &EventStream{clients: make(map[chan events.DomainEvent]struct{})}
}

// Handle delivers event to every connected client. Slow clients miss
// events instead of blocking the publisher.
func (s *EventStream) Handle(_ context.Context, event events.DomainEvent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.clients {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (s *EventStream) subscribe() chan events.DomainEvent {
	ch := make(chan events.DomainEvent, 64)
	s.mu.Lock()
	s.clients[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

func (s *EventStream) unsubscribe(ch chan events.DomainEvent) {
	s.mu.Lock()
	delete(s.clients, ch)
	s.mu.Unlock()
}

// Clients returns the number of connected clients.
func (s *EventStream) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// streamEvents serves GET /api/v1/events. ?types=a,b limits the event
// types; task events are only sent for projects the user can view.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	types := make(map[string]bool)
	if q := r.URL.Query().Get("types"); q != "" {
		for _, t := range strings.Split(q, ",") {
			types[strings.TrimSpace(t)] = true
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := s.svc.Events.subscribe()
	defer s.svc.Events.unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-ch:
			if len(types) > 0 && !types[event.EventType()] {
				continue
			}
			if !s.visible(ctx, event) {
				continue
			}
			data, err := json.Marshal(event)
			if err != nil {
				s.logger.Warn("encode event", "type", event.EventType(), "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.EventType(), data)
			flusher.Flush()
		}
	}
}

func (s *Server) visible(ctx context.Context, event events.DomainEvent) bool {
	if event.AggregateType() != events.AggregateTypeTask {
		return true
	}
	u, ok := access.UserFrom(ctx)
	if !ok || u.Role.IsAdmin() {
		return true
	}
	t, err := s.svc.Task.Task(event.AggregateID())
	if err != nil {
		return false
	}
	return access.CanView(u, t.ProjectID)
}
