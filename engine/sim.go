package engine

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samber/mo"
)

// Sim plays nothing: it advances a position against the wall clock, which is enough to
// drive the overlay without mpv. Sources look like "sim:90s" or "sim:1h2m".
type Sim struct {
	// Now replaces time.Now, for tests.
	Now func() time.Time
}

// NewSim returns a simulated engine on the wall clock.
func NewSim() *Sim {
	return &Sim{Now: time.Now}
}

func (*Sim) Name() string { return "sim" }

func (s *Sim) Load(source string) (Instance, error) {
	spec, ok := strings.CutPrefix(source, SimPrefix)
	if !ok {
		return nil, loadError(source, fmt.Errorf("not a %s source", SimPrefix))
	}

	length, err := time.ParseDuration(spec)
	if err != nil {
		return nil, loadError(source, err)
	}
	if length <= 0 {
		return nil, loadError(source, fmt.Errorf("length must be positive, got %s", length))
	}

	now := s.Now
	if now == nil {
		now = time.Now
	}

	return &SimInstance{
		now:    now,
		length: length,
		done:   make(chan struct{}),
	}, nil
}

// SimInstance is a loaded simulated source.
type SimInstance struct {
	mu      sync.Mutex
	now     func() time.Time
	length  time.Duration
	offset  time.Duration // position when playback last started or stopped
	since   time.Time     // wall time of the last start, valid while playing
	playing bool
	closed  bool

	ticks tickers
	done  chan struct{}
}

func (s *SimInstance) position() time.Duration {
	pos := s.offset
	if s.playing {
		pos += s.now().Sub(s.since)
	}
	if pos > s.length {
		pos = s.length
	}
	return pos
}

func (s *SimInstance) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("instance closed")
	}
	if !s.playing {
		s.since = s.now()
		s.playing = true
	}
	return nil
}

func (s *SimInstance) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("instance closed")
	}
	if s.playing {
		s.offset = s.position()
		s.playing = false
	}
	return nil
}

func (s *SimInstance) SeekTo(seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("instance closed")
	}

	target := time.Duration(seconds * float64(time.Second))
	if target < 0 {
		target = 0
	}
	if target > s.length {
		target = s.length
	}

	s.offset = target
	s.since = s.now()
	return nil
}

func (s *SimInstance) CurrentPosition() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position().Seconds(), nil
}

func (s *SimInstance) Duration() mo.Option[float64] {
	return mo.Some(s.length.Seconds())
}

// Playing reports whether the simulated clock is advancing.
func (s *SimInstance) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *SimInstance) SubscribePositionTicks(interval time.Duration, callback func(seconds float64)) Subscription {
	return s.ticks.start(interval, s.done, s.CurrentPosition, callback)
}

func (s *SimInstance) Unsubscribe(sub Subscription) {
	s.ticks.stopOne(sub)
}

func (s *SimInstance) Done() <-chan struct{} {
	return s.done
}

func (s *SimInstance) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.ticks.stopAll()
	close(s.done)
	return nil
}
