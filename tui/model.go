// Package tui hosts the playback overlay in a Bubble Tea program: it renders overlay
// snapshots and turns keys and mouse gestures into overlay events.
package tui

import (
	"github.com/cheta-player/cheta/engine"
	"github.com/cheta-player/cheta/internal/ui"
	"github.com/cheta-player/cheta/key"
	"github.com/cheta-player/cheta/overlay"
	"github.com/cheta-player/cheta/style"
	"github.com/cheta-player/cheta/util"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
)

// dragSession is the mouse side of a scrubber drag.
type dragSession struct {
	originX int
}

// model is the player screen. Overlay state is only ever read from snapshots.
type model struct {
	ctrl   *overlay.Controller
	source string
	load   func() (engine.Instance, error)

	inst    engine.Instance
	owner   *session
	loading bool
	loadErr error

	state overlay.State
	drag  *dragSession

	skipSeconds   int
	resume        bool
	resumeChecked bool

	keymap    *keymap
	spinnerC  spinner.Model
	progressC progress.Model
	helpC     help.Model
	showHelp  bool
	notifier  *ui.Model

	width, height int
}

func newModel(ctrl *overlay.Controller, source string, load func() (engine.Instance, error)) *model {
	skip := viper.GetInt(key.OverlaySkipSeconds)
	if skip <= 0 {
		skip = 10
	}

	m := &model{
		ctrl:        ctrl,
		source:      source,
		load:        load,
		owner:       &session{},
		loading:     true,
		state:       ctrl.State(),
		skipSeconds: skip,
		resume:      viper.GetBool(key.HistoryResume),
		keymap:      newKeymap(skip),
		showHelp:    viper.GetBool(key.TUIShowHelp),
		notifier:    &ui.Model{},
		width:       80,
		height:      24,
	}

	m.helpC = help.New()

	m.spinnerC = spinner.New()
	m.spinnerC.Spinner = spinner.Dot
	m.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	m.progressC = progress.New(
		progress.WithGradient(string(style.Mauve), string(style.Lavender)),
		progress.WithoutPercentage(),
	)
	if w, h, err := util.TerminalSize(); err == nil && w > 0 {
		m.width, m.height = w, h
	}

	m.keymap.setEnabled(false)
	m.resize(m.width, m.height)

	return m
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinnerC.Tick, m.loadMedia())
}

// resize recomputes the widths that depend on the terminal size.
func (m *model) resize(width, height int) {
	m.width = width
	m.height = height

	m.progressC.Width = m.trackWidth()
	m.helpC.Width = width - 2*padLeft
}

// snapshot adopts s unless a newer snapshot is already on screen.
func (m *model) snapshot(s overlay.State) {
	if s.Newer(m.state) {
		m.state = s
	}
}
