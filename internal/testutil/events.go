package testutil

import (
	"context"
	"sync"

	"github.com/alanyang/llm-roles/internal/domain/event"
)

// EventRecorder is an eventbus.Handler sink that records every delivered event.
// It is safe for concurrent use.
type EventRecorder struct {
	mu     sync.Mutex
	Events []event.Event
}

func (r *EventRecorder) Handle(_ context.Context, e event.Event) {
	r.mu.Lock()
	r.Events = append(r.Events, e)
	r.mu.Unlock()
}

// Types returns the recorded event types in delivery order.
func (r *EventRecorder) Types() []event.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Type, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}

func (r *EventRecorder) Reset() {
	r.mu.Lock()
	r.Events = nil
	r.mu.Unlock()
}
