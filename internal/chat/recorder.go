package chat

import (
	"context"
	"sync"
)

// Recorder is an in-memory Model that keeps every event and change. It is
// safe to read from other goroutines while the engine writes to it.
type Recorder struct {
	mu      sync.Mutex
	events  []Event
	changes []Change
	wake    chan struct{}
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{wake: make(chan struct{})}
}

func (r *Recorder) Broadcast(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.signal()
	r.mu.Unlock()
}

func (r *Recorder) Notify(ch Change) {
	r.mu.Lock()
	r.changes = append(r.changes, ch)
	r.signal()
	r.mu.Unlock()
}

// signal wakes every waiter; callers hold r.mu.
func (r *Recorder) signal() {
	close(r.wake)
	r.wake = make(chan struct{})
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Changes returns a copy of the recorded changes.
func (r *Recorder) Changes() []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Change(nil), r.changes...)
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.changes = nil
	r.mu.Unlock()
}

// WaitFor blocks until cond reports true for the recorded history or ctx ends.
func (r *Recorder) WaitFor(ctx context.Context, cond func(events []Event, changes []Change) bool) error {
	for {
		r.mu.Lock()
		ok := cond(r.events, r.changes)
		wake := r.wake
		r.mu.Unlock()
		if ok {
			return nil
		}
		select {
		case <-wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// HasChange reports whether a change of kind k has been recorded.
func HasChange(k ChangeKind) func([]Event, []Change) bool {
	return func(_ []Event, changes []Change) bool {
		for _, ch := range changes {
			if ch.Kind == k {
				return true
			}
		}
		return false
	}
}
