package tui

import (
	"errors"
	"fmt"

	"github.com/cheta-player/cheta/engine"
	"github.com/cheta-player/cheta/history"
	"github.com/cheta-player/cheta/internal/ui"
	"github.com/cheta-player/cheta/log"
	"github.com/cheta-player/cheta/overlay"
	"github.com/cheta-player/cheta/util"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type (
	// stateMsg carries an overlay snapshot from the controller.
	stateMsg overlay.State

	loadedMsg struct {
		inst engine.Instance
		err  error
	}

	// engineGoneMsg means the engine went away on its own, e.g. the mpv window was closed.
	engineGoneMsg struct{}
)

func (m *model) loadMedia() tea.Cmd {
	owner := m.owner
	return func() tea.Msg {
		inst, err := m.load()
		if err != nil {
			return loadedMsg{err: err}
		}
		if !owner.adopt(inst) {
			return nil
		}
		return loadedMsg{inst: inst}
	}
}

func waitForEngine(inst engine.Instance) tea.Cmd {
	return func() tea.Msg {
		<-inst.Done()
		return engineGoneMsg{}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case loadedMsg:
		return m, m.handleLoaded(msg)
	case stateMsg:
		m.snapshot(overlay.State(msg))
		return m, m.maybeResume()
	case engineGoneMsg:
		log.Info("engine exited, closing player")
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinnerC, cmd = m.spinnerC.Update(msg)
		return m, cmd
	case ui.NotificationMsg, ui.ClearNotificationMsg:
		return m, m.notifier.Update(msg)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}

	return m, nil
}

func (m *model) handleLoaded(msg loadedMsg) tea.Cmd {
	m.loading = false

	if msg.err != nil {
		m.loadErr = msg.err
		log.Error(msg.err)
		return ui.Notify("no media loaded")
	}

	m.inst = msg.inst
	m.keymap.setEnabled(true)
	m.ctrl.Attach(msg.inst)
	m.refresh()

	return waitForEngine(msg.inst)
}

// refresh pulls the controller state right after an event, without waiting for the
// observer delivery.
func (m *model) refresh() {
	m.snapshot(m.ctrl.State())
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.forceQuit), key.Matches(msg, m.keymap.quit):
		return tea.Quit
	case key.Matches(msg, m.keymap.showHelp):
		m.showHelp = !m.showHelp
		return nil
	case key.Matches(msg, m.keymap.toggleControls):
		m.ctrl.OnTap()
	case key.Matches(msg, m.keymap.playPause):
		m.ctrl.OnPlayPauseTap()
	case key.Matches(msg, m.keymap.backward):
		return m.skip(-m.skipSeconds)
	case key.Matches(msg, m.keymap.forward):
		return m.skip(m.skipSeconds)
	default:
		return nil
	}

	m.refresh()
	return nil
}

// handleMouse maps left-button gestures: press-move-release on the scrubber is a drag,
// a press on a visible control button activates it, and any other press is a tap.
func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return nil
	}

	width := float64(m.trackWidth())

	switch msg.Action {
	case tea.MouseActionPress:
		if m.drag != nil {
			return nil
		}

		if m.onTrack(msg.X, msg.Y) && m.state.HasEngine {
			m.drag = &dragSession{originX: msg.X}
			m.ctrl.OnDragChanged(0, width)
			break
		}

		if b, ok := buttonAt(msg.X, msg.Y).Get(); ok && m.state.ControlsVisible {
			return m.press(b)
		}

		m.ctrl.OnTap()
	case tea.MouseActionMotion:
		if m.drag == nil {
			return nil
		}
		m.ctrl.OnDragChanged(float64(msg.X-m.drag.originX), width)
	case tea.MouseActionRelease:
		if m.drag == nil {
			return nil
		}
		m.ctrl.OnDragChanged(float64(msg.X-m.drag.originX), width)
		m.ctrl.OnDragEnded()
		m.drag = nil
	}

	m.refresh()
	return nil
}

func (m *model) press(b button) tea.Cmd {
	switch b {
	case backwardButton:
		return m.skip(-m.skipSeconds)
	case forwardButton:
		return m.skip(m.skipSeconds)
	default:
		m.ctrl.OnPlayPauseTap()
		m.refresh()
		return nil
	}
}

func (m *model) skip(seconds int) tea.Cmd {
	err := m.ctrl.SeekRelative(float64(seconds))
	m.refresh()

	switch {
	case errors.Is(err, overlay.ErrNoEngine):
		return ui.Notify("no media loaded")
	case err != nil:
		log.Warnf("skip %+ds: %s", seconds, err)
		return ui.Notify(fmt.Sprintf("seek failed: %s", err))
	default:
		return ui.Notify(fmt.Sprintf("seek %+ds", seconds))
	}
}

// maybeResume seeks to the saved position once the duration is first known.
func (m *model) maybeResume() tea.Cmd {
	if m.resumeChecked || !m.resume || m.inst == nil {
		return nil
	}

	duration, ok := m.state.Duration.Get()
	if !ok {
		return nil
	}
	m.resumeChecked = true

	point, err := history.ResumePoint(m.source, duration)
	if err != nil {
		log.Warnf("read resume point: %s", err)
		return nil
	}

	position, ok := point.Get()
	if !ok {
		return nil
	}

	inst, ctrl := m.inst, m.ctrl
	return func() tea.Msg {
		if err := inst.SeekTo(position); err != nil {
			log.Warnf("resume at %.1fs: %s", position, err)
			return nil
		}
		ctrl.OnEngineTick(position, duration)
		return ui.NotificationMsg("resumed at " + util.FormatSeconds(position))
	}
}
