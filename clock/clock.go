// Package clock provides the deferred-action capability the overlay uses for auto-hide
// and seek settling, with a system implementation and a manually driven fake.
package clock

import (
	"sync"
	"time"
)

// Handle identifies a scheduled action. The zero Handle is never issued.
type Handle uint64

// Timer schedules single-shot deferred actions.
type Timer interface {
	// Schedule runs fn once after delay and returns a handle for cancellation.
	Schedule(delay time.Duration, fn func()) Handle

	// Cancel stops a pending action. Cancelling a fired, cancelled or zero handle is a no-op.
	Cancel(h Handle)
}

// System is a Timer backed by time.AfterFunc. Callbacks run on their own goroutine.
type System struct {
	mu      sync.Mutex
	next    Handle
	pending map[Handle]*time.Timer
}

// NewSystem returns a ready System timer.
func NewSystem() *System {
	return &System{pending: make(map[Handle]*time.Timer)}
}

func (s *System) Schedule(delay time.Duration, fn func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	h := s.next
	s.pending[h] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		_, live := s.pending[h]
		delete(s.pending, h)
		s.mu.Unlock()

		if live {
			fn()
		}
	})

	return h
}

func (s *System) Cancel(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.pending[h]; ok {
		t.Stop()
		delete(s.pending, h)
	}
}

// Pending reports how many actions are scheduled and not yet fired or cancelled.
func (s *System) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
