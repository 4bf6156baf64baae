package tui

import (
	"sync"

	"github.com/cheta-player/cheta/engine"
	"github.com/cheta-player/cheta/log"
)

// session owns the loaded engine instance. The load command runs on its own
// goroutine and its message is dropped once the program has quit, so ownership
// cannot travel with the message alone.
type session struct {
	mu       sync.Mutex
	inst     engine.Instance
	released bool
}

// adopt takes ownership of inst. It reports false, and closes inst, when the
// session was released before the load finished.
func (s *session) adopt(inst engine.Instance) bool {
	s.mu.Lock()
	if !s.released {
		s.inst = inst
		s.mu.Unlock()
		return true
	}
	s.mu.Unlock()

	log.Info("player quit during load, closing engine")
	if err := inst.Close(); err != nil {
		log.Warnf("close engine: %s", err)
	}
	return false
}

// release ends the session and hands back the adopted instance, if any.
// Instances loaded afterwards are closed by adopt.
func (s *session) release() engine.Instance {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.released = true
	inst := s.inst
	s.inst = nil
	return inst
}
