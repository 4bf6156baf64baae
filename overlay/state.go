package overlay

import (
	"fmt"

	"github.com/samber/mo"
)

// Visibility is the derived state of the controls overlay.
type Visibility int

const (
	// Hidden controls are not drawn.
	Hidden Visibility = iota
	// VisiblePendingHide controls are drawn and an auto-hide timer is running.
	VisiblePendingHide
	// VisiblePinned controls are drawn with no timer: paused, dragging, or not yet started.
	VisiblePinned
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case VisiblePendingHide:
		return "visible-pending-hide"
	case VisiblePinned:
		return "visible-pinned"
	default:
		return fmt.Sprintf("visibility(%d)", int(v))
	}
}

// State is a snapshot of the overlay. Snapshots are values: holding one never
// observes later mutations.
type State struct {
	// Progress is the scrubber position in [0, 1].
	Progress float64

	// LastCommittedProgress anchors the next drag.
	LastCommittedProgress float64

	Playing         bool
	Dragging        bool
	Seeking         bool
	ControlsVisible bool
	Visibility      Visibility

	// HidePending reports whether an auto-hide timer is outstanding.
	HidePending bool

	// HasEngine is false when the source failed to load; controls are inert.
	HasEngine bool

	// Position is the last engine-reported position in seconds.
	Position float64
	Duration mo.Option[float64]

	// Version increases with every mutation. Observers drop snapshots older than
	// the last one they rendered.
	Version uint64
}

// Newer reports whether s supersedes other.
func (s State) Newer(other State) bool {
	return s.Version > other.Version
}
