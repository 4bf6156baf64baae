package tui

import (
	"fmt"

	"github.com/cheta-player/cheta/color"
	"github.com/cheta-player/cheta/style"
	"github.com/charmbracelet/bubbles/key"
)

// keymap defines the keyboard interactions of the player screen.
type keymap struct {
	playPause,
	backward, forward,
	toggleControls,
	showHelp,
	quit, forceQuit key.Binding
}

func newKeymap(skipSeconds int) *keymap {
	return &keymap{
		playPause: key.NewBinding(
			key.WithKeys(" ", "k"),
			key.WithHelp(style.Fg(color.Orange)("space"), style.Fg(color.Orange)("play/pause")),
		),
		backward: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", fmt.Sprintf("-%ds", skipSeconds)),
		),
		forward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", fmt.Sprintf("+%ds", skipSeconds)),
		),
		toggleControls: key.NewBinding(
			key.WithKeys("t", "enter"),
			key.WithHelp("t", "controls"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// setEnabled turns the playback bindings on or off. Without media they only mislead.
func (k *keymap) setEnabled(enabled bool) {
	k.playPause.SetEnabled(enabled)
	k.backward.SetEnabled(enabled)
	k.forward.SetEnabled(enabled)
}

func (k *keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.playPause, k.backward, k.forward, k.quit, k.showHelp}
}

func (k *keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.playPause, k.backward, k.forward},
		{k.toggleControls, k.showHelp, k.quit, k.forceQuit},
	}
}
