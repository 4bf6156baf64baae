package tui

import "github.com/samber/mo"

// Screen geometry. Lines are counted inside the padding.
const (
	padTop  = 1
	padLeft = 2

	titleLine    = 0
	statusLine   = 2
	controlsLine = 4
	scrubberLine = 6
	helpLine     = 8

	buttonWidth = 8
	buttonGap   = 2

	timeLabelWidth = 20
	minTrackWidth  = 10
)

// button is a clickable zone on the controls line.
type button int

const (
	backwardButton button = iota
	playPauseButton
	forwardButton
)

var buttons = []button{backwardButton, playPauseButton, forwardButton}

func (m *model) trackWidth() int {
	w := m.width - 2*padLeft - timeLabelWidth
	if w < minTrackWidth {
		return minTrackWidth
	}
	return w
}

func lineAt(y int) int {
	return y - padTop
}

// onTrack reports whether a cell lies on the scrubber.
func (m *model) onTrack(x, y int) bool {
	return lineAt(y) == scrubberLine && x >= padLeft && x < padLeft+m.trackWidth()
}

// buttonAt returns the control button covering a cell, if any.
func buttonAt(x, y int) mo.Option[button] {
	if lineAt(y) != controlsLine {
		return mo.None[button]()
	}

	for i, b := range buttons {
		start := padLeft + i*(buttonWidth+buttonGap)
		if x >= start && x < start+buttonWidth {
			return mo.Some(b)
		}
	}
	return mo.None[button]()
}
