// Package overlay holds the playback overlay state machine: one progress value fed by
// engine ticks and drag gestures, and one controls-visibility value driven by taps and
// an auto-hide timer.
package overlay

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/cheta-player/cheta/clock"
	"github.com/cheta-player/cheta/engine"
	"github.com/cheta-player/cheta/log"
	"github.com/cheta-player/cheta/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

var (
	// ErrUndefinedDuration means the engine has not reported a usable duration yet.
	ErrUndefinedDuration = errors.New("duration not known")

	// ErrNoEngine means no media is loaded and the controls are inert.
	ErrNoEngine = errors.New("no media loaded")

	// ErrInvalidOffset means a relative seek was asked for with a NaN or infinite offset.
	ErrInvalidOffset = errors.New("seek offset is not a finite number")
)

// Controller is the only writer of the overlay State. It is safe for concurrent use:
// engine ticks and timer expiries may arrive on any goroutine.
type Controller struct {
	mu    sync.Mutex
	opts  Options
	timer clock.Timer

	inst engine.Instance
	sub  engine.Subscription

	progress float64
	anchor   float64
	position float64
	duration mo.Option[float64]

	playing  bool
	dragging bool
	seeking  bool
	visible  bool

	// awaitingTick is set under SettleTick between a drag seek and the next tick.
	awaitingTick bool

	hide      clock.Handle
	hideGen   uint64
	settle    clock.Handle
	settleGen uint64

	closed  bool
	version uint64

	obsMu     sync.Mutex
	observers map[int]func(State)
	nextObs   int
}

// New returns a controller with no engine attached: progress 0, paused, controls hidden.
func New(timer clock.Timer, opts Options) *Controller {
	def := DefaultOptions()
	if opts.AutoHideDelay <= 0 {
		opts.AutoHideDelay = def.AutoHideDelay
	}
	if opts.SeekGrace <= 0 {
		opts.SeekGrace = def.SeekGrace
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = def.TickInterval
	}

	return &Controller{
		opts:      opts,
		timer:     timer,
		observers: make(map[int]func(State)),
	}
}

// Attach binds a loaded instance and subscribes to its position ticks.
// A controller accepts one instance over its lifetime; later calls are ignored.
func (c *Controller) Attach(inst engine.Instance) {
	if inst == nil {
		return
	}

	c.mu.Lock()
	if c.closed || c.inst != nil {
		c.mu.Unlock()
		return
	}
	c.inst = inst
	c.version++
	snap := c.snapshot()
	c.mu.Unlock()

	sub := inst.SubscribePositionTicks(c.opts.TickInterval, func(seconds float64) {
		c.OnEngineTick(seconds, inst.Duration().OrElse(0))
	})

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		inst.Unsubscribe(sub)
		return
	}
	c.sub = sub
	c.mu.Unlock()

	c.notify(snap)
}

// Subscribe registers fn for every State change. fn runs on the goroutine that made
// the change, outside the controller lock, and must not block.
func (c *Controller) Subscribe(fn func(State)) (cancel func()) {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()

	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn

	return func() {
		c.obsMu.Lock()
		defer c.obsMu.Unlock()
		delete(c.observers, id)
	}
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// OnEngineTick folds an engine position report into progress. Reports without a
// usable duration are skipped, and so is every report while a drag is active.
func (c *Controller) OnEngineTick(position, duration float64) {
	c.update(func() (bool, func()) {
		if c.dragging {
			return false, nil
		}

		if err := checkDuration(duration); err != nil {
			log.Debugf("tick at %.2fs skipped: %s", position, err)
			return false, nil
		}

		c.position = position
		c.duration = mo.Some(duration)
		c.progress = clamp01(position / duration)
		c.anchor = c.progress

		if c.awaitingTick {
			c.awaitingTick = false
			c.seeking = false
		}
		return true, nil
	})
}

// OnDragChanged moves the scrubber. pixelDelta is the translation accumulated since
// the drag started, measured against a track trackWidth pixels wide.
func (c *Controller) OnDragChanged(pixelDelta, trackWidth float64) {
	c.update(func() (bool, func()) {
		if trackWidth <= 0 || c.inst == nil {
			return false, nil
		}

		if !c.dragging {
			c.dragging = true
			c.visible = true
			c.awaitingTick = false
			c.cancelSettle()
		}
		c.cancelHide()

		c.progress = clamp01(c.anchor + pixelDelta/trackWidth)
		c.seeking = true
		return true, nil
	})
}

// OnDragEnded commits the dragged progress and seeks the engine there.
func (c *Controller) OnDragEnded() {
	c.update(func() (bool, func()) {
		if !c.dragging {
			return false, nil
		}

		c.dragging = false
		c.anchor = c.progress

		if c.playing {
			c.scheduleHide()
		}

		switch c.opts.Settle {
		case SettleTick:
			c.awaitingTick = true
		default:
			c.scheduleSettle()
		}

		return true, c.seekFraction(c.progress)
	})
}

// OnTap toggles the controls.
func (c *Controller) OnTap() {
	c.update(func() (bool, func()) {
		c.visible = !c.visible

		switch {
		case !c.visible:
			c.cancelHide()
		case c.playing:
			c.scheduleHide()
		}
		return true, nil
	})
}

// OnPlayPauseTap toggles playback. Pausing pins the controls on screen.
func (c *Controller) OnPlayPauseTap() {
	c.update(func() (bool, func()) {
		if c.inst == nil {
			return false, nil
		}

		inst := c.inst
		c.playing = !c.playing
		c.visible = true

		if c.playing {
			c.scheduleHide()
			return true, func() {
				if err := inst.Play(); err != nil {
					log.Warnf("play: %s", err)
				}
			}
		}

		c.cancelHide()
		return true, func() {
			if err := inst.Pause(); err != nil {
				log.Warnf("pause: %s", err)
			}
		}
	})
}

// SeekRelative moves playback by delta seconds from the engine's current position.
// Progress only changes through the tick that follows.
func (c *Controller) SeekRelative(delta float64) error {
	c.mu.Lock()
	inst, closed, synthetic := c.inst, c.closed, c.opts.SyntheticTick
	c.mu.Unlock()

	if closed || inst == nil {
		return ErrNoEngine
	}

	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return ErrInvalidOffset
	}

	current, err := inst.CurrentPosition()
	if err != nil {
		return fmt.Errorf("read position: %w", err)
	}

	duration := inst.Duration()
	target := math.Max(current+delta, 0)
	if d, ok := duration.Get(); ok {
		target = util.Clamp(target, 0, d)
	}

	if err := inst.SeekTo(target); err != nil {
		return fmt.Errorf("seek to %.2fs: %w", target, err)
	}

	// skip buttons count as interaction: keep the controls up while they are used
	c.update(func() (bool, func()) {
		if !c.visible || !c.playing || c.dragging {
			return false, nil
		}
		c.scheduleHide()
		return true, nil
	})

	if d, ok := duration.Get(); ok && synthetic {
		c.OnEngineTick(target, d)
	}
	return nil
}

// Close cancels pending timers and drops the tick subscription. The engine instance
// itself belongs to the caller.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancelHide()
	c.cancelSettle()
	inst, sub := c.inst, c.sub
	c.mu.Unlock()

	if inst != nil && sub != 0 {
		inst.Unsubscribe(sub)
	}

	c.obsMu.Lock()
	c.observers = make(map[int]func(State))
	c.obsMu.Unlock()
}

// update runs fn under the lock. When fn reports a change the version is bumped,
// then the effect runs and observers are notified, both outside the lock.
func (c *Controller) update(fn func() (changed bool, effect func())) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	changed, effect := fn()
	var snap State
	if changed {
		c.version++
		snap = c.snapshot()
	}
	c.mu.Unlock()

	if effect != nil {
		effect()
	}
	if changed {
		c.notify(snap)
	}
}

func (c *Controller) notify(s State) {
	c.obsMu.Lock()
	fns := lo.Values(c.observers)
	c.obsMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

func (c *Controller) snapshot() State {
	return State{
		Progress:              c.progress,
		LastCommittedProgress: c.anchor,
		Playing:               c.playing,
		Dragging:              c.dragging,
		Seeking:               c.seeking,
		ControlsVisible:       c.visible,
		Visibility:            c.visibility(),
		HidePending:           c.hide != 0,
		HasEngine:             c.inst != nil,
		Position:              c.position,
		Duration:              c.duration,
		Version:               c.version,
	}
}

func (c *Controller) visibility() Visibility {
	switch {
	case !c.visible:
		return Hidden
	case c.playing && c.hide != 0:
		return VisiblePendingHide
	default:
		return VisiblePinned
	}
}

// seekFraction returns the engine call for a drag commit. The duration is asked
// from the engine first and falls back to the last one seen on a tick.
func (c *Controller) seekFraction(fraction float64) func() {
	inst, cached := c.inst, c.duration
	if inst == nil {
		return nil
	}

	return func() {
		d, ok := inst.Duration().Get()
		if !ok {
			d, ok = cached.Get()
		}
		if !ok {
			log.Warnf("drag seek to %.3f skipped: %s", fraction, ErrUndefinedDuration)
			return
		}

		if err := inst.SeekTo(fraction * d); err != nil {
			log.Warnf("drag seek: %s", err)
		}
	}
}

// scheduleHide replaces any pending auto-hide timer. Must hold c.mu.
func (c *Controller) scheduleHide() {
	if c.dragging {
		return
	}

	c.cancelHide()
	gen := c.hideGen
	c.hide = c.timer.Schedule(c.opts.AutoHideDelay, func() { c.onHideTimer(gen) })
}

// cancelHide must hold c.mu.
func (c *Controller) cancelHide() {
	c.timer.Cancel(c.hide)
	c.hide = 0
	c.hideGen++
}

func (c *Controller) onHideTimer(gen uint64) {
	c.update(func() (bool, func()) {
		if gen != c.hideGen || c.hide == 0 {
			return false, nil
		}

		c.hide = 0
		c.hideGen++
		if c.playing && !c.dragging {
			c.visible = false
		}
		return true, nil
	})
}

// scheduleSettle must hold c.mu.
func (c *Controller) scheduleSettle() {
	c.cancelSettle()
	gen := c.settleGen
	c.settle = c.timer.Schedule(c.opts.SeekGrace, func() { c.onSettleTimer(gen) })
}

// cancelSettle must hold c.mu.
func (c *Controller) cancelSettle() {
	c.timer.Cancel(c.settle)
	c.settle = 0
	c.settleGen++
}

func (c *Controller) onSettleTimer(gen uint64) {
	c.update(func() (bool, func()) {
		if gen != c.settleGen || c.settle == 0 {
			return false, nil
		}

		c.settle = 0
		c.settleGen++
		if c.dragging {
			return false, nil
		}
		c.seeking = false
		return true, nil
	})
}

func checkDuration(d float64) error {
	if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return ErrUndefinedDuration
	}
	return nil
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return util.Clamp(v, 0, 1)
}
