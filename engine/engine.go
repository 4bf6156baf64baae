// Package engine defines the media playback capability the overlay drives, and the
// engines that provide it: mpv through its JSON-IPC socket and an in-process simulation.
package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cheta-player/cheta/key"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// ErrLoad wraps every failure to produce an Instance from a source.
var ErrLoad = errors.New("load media")

func loadError(source string, err error) error {
	return fmt.Errorf("%w %q: %w", ErrLoad, source, err)
}

// Subscription identifies a position tick registration. The zero value is never issued.
type Subscription uint64

// Engine opens media sources.
type Engine interface {
	// Name is the identifier used by the player.default setting.
	Name() string

	// Load opens the source and returns a paused Instance, or an error wrapping ErrLoad.
	Load(source string) (Instance, error)
}

// Instance is one loaded media source. Commands are fire-and-forget: completion is
// observed through the next position tick, not through the return value.
type Instance interface {
	// Play resumes playback. No-op when already playing.
	Play() error

	// Pause suspends playback. No-op when already paused.
	Pause() error

	// SeekTo moves to an absolute position, clamped to [0, duration].
	SeekTo(seconds float64) error

	// CurrentPosition returns the playback position in seconds.
	CurrentPosition() (float64, error)

	// Duration returns the total length in seconds, or None while it is not known yet.
	Duration() mo.Option[float64]

	// SubscribePositionTicks calls callback with the current position every interval
	// until Unsubscribe or Close.
	SubscribePositionTicks(interval time.Duration, callback func(seconds float64)) Subscription

	// Unsubscribe stops a tick registration. Unknown subscriptions are ignored.
	Unsubscribe(s Subscription)

	// Done is closed once the instance is gone, either closed or terminated externally.
	Done() <-chan struct{}

	// Close stops every subscription and releases the engine resources.
	Close() error
}

// SimPrefix marks sources served by the simulated engine, e.g. "sim:90s".
const SimPrefix = "sim:"

// For picks the engine able to open source: simulated sources always go to Sim,
// everything else to the engine named by the player.default setting.
func For(source string) (Engine, error) {
	if IsSim(source) {
		return NewSim(), nil
	}

	return Named(viper.GetString(key.Player))
}

// IsSim reports whether source is served by the simulated engine.
func IsSim(source string) bool {
	return strings.HasPrefix(source, SimPrefix)
}

// Named returns the engine registered under name.
func Named(name string) (Engine, error) {
	switch name {
	case "mpv":
		return NewMPV(), nil
	case "sim":
		return NewSim(), nil
	default:
		return nil, fmt.Errorf("unknown engine %q", name)
	}
}

// Available lists the engine names accepted by Named.
func Available() []string {
	return []string{"mpv", "sim"}
}
