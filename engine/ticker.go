package engine

import (
	"sync"
	"time"
)

// tickers runs one polling goroutine per position subscription.
type tickers struct {
	mu   sync.Mutex
	next Subscription
	stop map[Subscription]chan struct{}
}

// start polls position every interval and forwards successful reads to callback.
// The goroutine ends on stopOne, stopAll or when done closes.
func (t *tickers) start(interval time.Duration, done <-chan struct{}, position func() (float64, error), callback func(float64)) Subscription {
	if interval <= 0 {
		interval = time.Second
	}

	t.mu.Lock()
	if t.stop == nil {
		t.stop = make(map[Subscription]chan struct{})
	}
	t.next++
	id := t.next
	stop := make(chan struct{})
	t.stop[id] = stop
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-done:
				t.stopOne(id)
				return
			case <-ticker.C:
				pos, err := position()
				if err != nil {
					continue
				}

				select {
				case <-stop:
					return
				default:
				}

				callback(pos)
			}
		}
	}()

	return id
}

func (t *tickers) stopOne(id Subscription) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if stop, ok := t.stop[id]; ok {
		close(stop)
		delete(t.stop, id)
	}
}

func (t *tickers) stopAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, stop := range t.stop {
		close(stop)
		delete(t.stop, id)
	}
}

func (t *tickers) active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.stop)
}
