package overlay

import (
	"sync"
	"time"

	"github.com/cheta-player/cheta/engine"
	"github.com/samber/mo"
)

// fakeInstance records commands and lets tests push ticks by hand.
type fakeInstance struct {
	mu sync.Mutex

	position float64
	duration mo.Option[float64]

	plays, pauses int
	seeks         []float64
	interval      time.Duration
	tick          func(float64)
	unsubscribed  []engine.Subscription
	done          chan struct{}
}

func newFakeInstance(duration float64) *fakeInstance {
	f := &fakeInstance{done: make(chan struct{})}
	if duration > 0 {
		f.duration = mo.Some(duration)
	}
	return f
}

func (f *fakeInstance) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays++
	return nil
}

func (f *fakeInstance) Pause() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pauses++
	return nil
}

func (f *fakeInstance) SeekTo(seconds float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seeks = append(f.seeks, seconds)
	f.position = seconds
	return nil
}

func (f *fakeInstance) CurrentPosition() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position, nil
}

func (f *fakeInstance) Duration() mo.Option[float64] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.duration
}

func (f *fakeInstance) SubscribePositionTicks(interval time.Duration, callback func(seconds float64)) engine.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interval = interval
	f.tick = callback
	return 7
}

func (f *fakeInstance) Unsubscribe(s engine.Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribed = append(f.unsubscribed, s)
	f.tick = nil
}

func (f *fakeInstance) Done() <-chan struct{} { return f.done }

func (f *fakeInstance) Close() error { return nil }

// emit delivers a tick the way the engine's ticker goroutine would.
func (f *fakeInstance) emit(position float64) {
	f.mu.Lock()
	f.position = position
	tick := f.tick
	f.mu.Unlock()

	if tick != nil {
		tick(position)
	}
}

func (f *fakeInstance) setDuration(d mo.Option[float64]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.duration = d
}

func (f *fakeInstance) seekCalls() []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]float64(nil), f.seeks...)
}
