package tui

import (
	"fmt"
	"strings"

	"github.com/cheta-player/cheta/constant"
	"github.com/cheta-player/cheta/icon"
	"github.com/cheta-player/cheta/style"
	"github.com/cheta-player/cheta/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"
)

var (
	paddingStyle  = lipgloss.NewStyle().Padding(padTop, padLeft)
	backdropStyle = paddingStyle.Background(style.Surface)

	buttonStyle       = lipgloss.NewStyle().Width(buttonWidth).Align(lipgloss.Center).Background(style.Overlay).Foreground(style.Text)
	activeButtonStyle = buttonStyle.Background(style.AccentColor).Foreground(style.Base)
	inertButtonStyle  = buttonStyle.Faint(true)
)

func (m *model) View() string {
	lines := make([]string, helpLine+1)

	lines[titleLine] = m.viewTitle()
	lines[statusLine] = m.viewStatus()
	lines[controlsLine] = m.viewControls()
	lines[scrubberLine] = m.viewScrubber()
	lines[helpLine] = m.viewHelp()

	if m.loadErr != nil {
		lines = append(lines, "", wrap.String(style.Fg(style.ErrorColor)(m.loadErr.Error()), m.width-2*padLeft))
	}

	frame := paddingStyle
	if m.state.ControlsVisible || m.state.Dragging {
		frame = backdropStyle
	}

	return frame.Width(m.width).Render(m.notifier.View(strings.Join(lines, "\n")))
}

func (m *model) viewTitle() string {
	title := style.Title(constant.Cheta)
	room := m.width - 2*padLeft - lipgloss.Width(title) - 1
	if room <= 0 {
		return title
	}
	return title + " " + truncate.StringWithTail(m.source, uint(room), "…")
}

func (m *model) viewStatus() string {
	switch {
	case m.loading:
		return m.spinnerC.View() + " loading " + style.Faint(m.source)
	case m.loadErr != nil:
		return icon.Get(icon.Fail) + " " + style.ErrorTitle("no media loaded")
	}

	var status string
	if m.state.Playing {
		status = icon.Get(icon.Play) + " playing"
	} else {
		status = icon.Get(icon.Pause) + " paused"
	}

	if m.state.Seeking {
		status += style.Faint(" · seeking")
	}
	return status
}

// viewControls renders the button row. Buttons are hidden while dragging so the
// scrubber has the screen to itself.
func (m *model) viewControls() string {
	if !m.state.ControlsVisible || m.state.Dragging {
		return ""
	}

	playPause := icon.Get(icon.Play)
	if m.state.Playing {
		playPause = icon.Get(icon.Pause)
	}

	labels := map[button]string{
		backwardButton:  fmt.Sprintf("%s %d", icon.Get(icon.Backward), m.skipSeconds),
		playPauseButton: playPause,
		forwardButton:   fmt.Sprintf("%d %s", m.skipSeconds, icon.Get(icon.Forward)),
	}

	rendered := make([]string, 0, len(buttons))
	for _, b := range buttons {
		s := buttonStyle
		switch {
		case !m.state.HasEngine:
			s = inertButtonStyle
		case b == playPauseButton:
			s = activeButtonStyle
		}
		rendered = append(rendered, s.Render(labels[b]))
	}

	return strings.Join(rendered, strings.Repeat(" ", buttonGap))
}

func (m *model) viewScrubber() string {
	bar := m.progressC.ViewAs(m.state.Progress)
	if !m.state.HasEngine {
		bar = style.Faint(bar)
	}

	position := m.state.Position
	duration, known := m.state.Duration.Get()
	if m.state.Dragging && known {
		position = m.state.Progress * duration
	}

	total := "--:--"
	if known {
		total = util.FormatSeconds(duration)
	}

	label := fmt.Sprintf(" %s / %s", util.FormatSeconds(position), total)
	if !m.state.HasEngine {
		label = " --:-- / --:--"
	}

	return bar + truncate.String(label, timeLabelWidth)
}

func (m *model) viewHelp() string {
	if !m.showHelp {
		return ""
	}
	return m.helpC.View(m.keymap)
}
