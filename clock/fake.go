package clock

import (
	"sort"
	"sync"
	"time"
)

type fakeEntry struct {
	handle   Handle
	deadline time.Duration
	fn       func()
}

// Fake is a Timer whose time only moves when Advance is called.
// Due callbacks run synchronously on the goroutine calling Advance, in deadline order.
type Fake struct {
	mu      sync.Mutex
	now     time.Duration
	next    Handle
	pending []fakeEntry
}

// NewFake returns a Fake positioned at time zero.
func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) Schedule(delay time.Duration, fn func()) Handle {
	f.mu.Lock()
	defer f.mu.Unlock()

	if delay < 0 {
		delay = 0
	}

	f.next++
	f.pending = append(f.pending, fakeEntry{handle: f.next, deadline: f.now + delay, fn: fn})
	return f.next
}

func (f *Fake) Cancel(h Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, e := range f.pending {
		if e.handle == h {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			return
		}
	}
}

// Advance moves the fake time forward by d and fires every action that became due,
// including actions scheduled by callbacks within the advanced window.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now + d
	f.mu.Unlock()

	for {
		f.mu.Lock()
		sort.SliceStable(f.pending, func(i, j int) bool {
			return f.pending[i].deadline < f.pending[j].deadline
		})

		if len(f.pending) == 0 || f.pending[0].deadline > target {
			f.now = target
			f.mu.Unlock()
			return
		}

		e := f.pending[0]
		f.pending = f.pending[1:]
		f.now = e.deadline
		f.mu.Unlock()

		e.fn()
	}
}

// Now returns the elapsed fake time.
func (f *Fake) Now() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Pending reports how many actions are scheduled and not yet fired or cancelled.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}
