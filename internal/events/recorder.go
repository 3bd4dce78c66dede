package events

import (
	"context"
	"sync"
)

// Recorded is one event captured by a Recorder.
type Recorded struct {
	RoutingKey string
	Event      AuthorityEvent
}

// Recorder keeps published events in memory. Tests use it to assert on the
// events emitted by the lifecycle manager.
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
	Err    error
}

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, routingKey string, evt AuthorityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, Recorded{RoutingKey: routingKey, Event: evt})

	return r.Err
}

// Close implements Publisher.
func (r *Recorder) Close() error { return nil }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Recorded, len(r.events))
	copy(out, r.events)

	return out
}

// Keys returns the routing keys in publish order.
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.RoutingKey)
	}

	return out
}
