package events

import (
	"context"
	"sync"

	"github.com/iliyamo/gig-marketplace/internal/queue"
)

// Recorder keeps published events in memory.  Tests use it to assert on
// what a handler emitted.
type Recorder struct {
	mu     sync.Mutex
	events []queue.Event
}

func (r *Recorder) Publish(_ context.Context, ev queue.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []queue.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]queue.Event(nil), r.events...)
}

// Types returns the kinds of the recorded events in publish order.
func (r *Recorder) Types() []string {
	var out []string
	for _, ev := range r.Events() {
		out = append(out, ev.EventType())
	}
	return out
}
