package tui

import (
	"errors"
	"fmt"

	"github.com/cheta-player/cheta/clock"
	"github.com/cheta-player/cheta/engine"
	"github.com/cheta-player/cheta/history"
	"github.com/cheta-player/cheta/key"
	"github.com/cheta-player/cheta/log"
	"github.com/cheta-player/cheta/overlay"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
)

// Options encapsulates the runtime configuration for the player screen.
type Options struct {
	Source string

	// Engine overrides the player.default setting when not empty.
	Engine string
}

// Run plays Source until the user quits or the engine exits.
func Run(options *Options) error {
	opts, err := overlay.OptionsFromConfig()
	if err != nil {
		return err
	}

	eng, err := pickEngine(options)
	if err != nil {
		return err
	}

	ctrl := overlay.New(clock.NewSystem(), opts)
	defer ctrl.Close()

	m := newModel(ctrl, options.Source, func() (engine.Instance, error) {
		return eng.Load(options.Source)
	})

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Send blocks until the event loop reads it, and the controller may notify from
	// inside Update. Snapshots are versioned, so delivery order does not matter.
	cancel := ctrl.Subscribe(func(s overlay.State) {
		go program.Send(stateMsg(s))
	})
	defer cancel()

	_, err = program.Run()
	return errors.Join(err, teardown(m))
}

func pickEngine(options *Options) (engine.Engine, error) {
	if options.Engine != "" {
		return engine.Named(options.Engine)
	}
	return engine.For(options.Source)
}

// teardown saves the resume point and releases the engine. It runs on every exit
// path, including a load still in flight, which then closes its own result.
func teardown(m *model) error {
	inst := m.owner.release()

	state := m.ctrl.State()
	m.ctrl.Close()

	if inst == nil {
		return nil
	}

	if viper.GetBool(key.HistorySaveOnExit) {
		if duration, ok := state.Duration.Get(); ok {
			position := state.LastCommittedProgress * duration
			if err := history.Save(m.source, position, duration); err != nil {
				log.Warnf("save history: %s", err)
			}
		}
	}

	if err := inst.Close(); err != nil {
		return fmt.Errorf("close engine: %w", err)
	}
	return nil
}
