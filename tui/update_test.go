package tui

import (
	"errors"
	"testing"
	"time"

	"github.com/cheta-player/cheta/clock"
	"github.com/cheta-player/cheta/engine"
	"github.com/cheta-player/cheta/filesystem"
	"github.com/cheta-player/cheta/history"
	"github.com/cheta-player/cheta/internal/ui"
	"github.com/cheta-player/cheta/key"
	"github.com/cheta-player/cheta/overlay"
	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

var frozen = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestModel(source string) (*model, *clock.Fake) {
	timer := clock.NewFake()
	opts := overlay.DefaultOptions()
	opts.TickInterval = time.Hour

	ctrl := overlay.New(timer, opts)
	sim := &engine.Sim{Now: func() time.Time { return frozen }}

	m := newModel(ctrl, source, func() (engine.Instance, error) {
		return sim.Load(source)
	})
	return m, timer
}

// loaded runs the load command the way the program would.
func loaded(m *model) *engine.SimInstance {
	msg := m.loadMedia()()
	m.Update(msg)
	inst, _ := m.inst.(*engine.SimInstance)
	return inst
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoad(t *testing.T) {
	Convey("Given a player screen", t, func() {
		Convey("A failed load leaves the controls inert", func() {
			m, _ := newTestModel("sim:nonsense")
			inst := loaded(m)

			So(inst, ShouldBeNil)
			So(m.loading, ShouldBeFalse)
			So(errors.Is(m.loadErr, engine.ErrLoad), ShouldBeTrue)
			So(m.state.HasEngine, ShouldBeFalse)
			So(m.View(), ShouldContainSubstring, "no media loaded")

			m.Update(tea.KeyMsg{Type: tea.KeySpace})
			So(m.ctrl.State().Playing, ShouldBeFalse)

			Convey("Taps still work", func() {
				m.Update(runes("t"))
				So(m.state.ControlsVisible, ShouldBeTrue)
			})
		})

		Convey("A successful load attaches the engine", func() {
			m, _ := newTestModel("sim:100s")
			inst := loaded(m)

			So(inst, ShouldNotBeNil)
			So(m.state.HasEngine, ShouldBeTrue)
			So(m.View(), ShouldContainSubstring, "paused")
			So(m.View(), ShouldContainSubstring, "--:--")
		})
	})
}

func TestKeys(t *testing.T) {
	Convey("Given a loaded simulated source", t, func() {
		m, timer := newTestModel("sim:100s")
		inst := loaded(m)

		Convey("Space toggles playback", func() {
			m.Update(tea.KeyMsg{Type: tea.KeySpace})
			So(inst.Playing(), ShouldBeTrue)
			So(m.state.Playing, ShouldBeTrue)
			So(m.state.Visibility, ShouldEqual, overlay.VisiblePendingHide)

			timer.Advance(4 * time.Second)
			So(m.ctrl.State().ControlsVisible, ShouldBeFalse)

			m.Update(tea.KeyMsg{Type: tea.KeySpace})
			So(inst.Playing(), ShouldBeFalse)
			So(m.state.Visibility, ShouldEqual, overlay.VisiblePinned)
		})

		Convey("Arrows skip by the configured step", func() {
			_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
			So(cmd, ShouldNotBeNil)
			So(cmd(), ShouldEqual, ui.NotificationMsg("seek +10s"))

			pos, _ := inst.CurrentPosition()
			So(pos, ShouldEqual, 10)
			So(m.state.Progress, ShouldEqual, 0.1)
			So(m.View(), ShouldContainSubstring, "0:10 / 1:40")

			m.Update(tea.KeyMsg{Type: tea.KeyLeft})
			m.Update(tea.KeyMsg{Type: tea.KeyLeft})
			pos, _ = inst.CurrentPosition()
			So(pos, ShouldEqual, 0)
		})

		Convey("q quits", func() {
			_, cmd := m.Update(runes("q"))
			So(cmd, ShouldNotBeNil)
			So(cmd(), ShouldResemble, tea.Quit())
		})

		Convey("? toggles the help", func() {
			before := m.showHelp
			m.Update(runes("?"))
			So(m.showHelp, ShouldEqual, !before)
		})
	})
}

func TestMouse(t *testing.T) {
	Convey("Given a loaded simulated source on an 80 column screen", t, func() {
		m, timer := newTestModel("sim:100s")
		m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
		inst := loaded(m)
		m.ctrl.OnEngineTick(0, 100)
		m.refresh()

		trackY := padTop + scrubberLine
		width := m.trackWidth()
		So(width, ShouldEqual, 56)

		Convey("Press, move and release on the scrubber is a drag", func() {
			m.Update(press(padLeft, trackY))
			So(m.state.Dragging, ShouldBeTrue)

			m.Update(motion(padLeft+14, trackY))
			So(m.state.Progress, ShouldEqual, 0.25)

			Convey("Ticks are ignored mid drag", func() {
				m.ctrl.OnEngineTick(90, 100)
				So(m.ctrl.State().Progress, ShouldEqual, 0.25)
			})

			Convey("Releasing seeks the engine", func() {
				m.Update(release(padLeft+28, trackY))
				So(m.state.Dragging, ShouldBeFalse)
				So(m.state.Progress, ShouldEqual, 0.5)

				pos, _ := inst.CurrentPosition()
				So(pos, ShouldEqual, 50)

				timer.Advance(200 * time.Millisecond)
				So(m.ctrl.State().Seeking, ShouldBeFalse)
			})

			Convey("The time label follows the drag", func() {
				So(m.View(), ShouldContainSubstring, "0:25 / 1:40")
			})
		})

		Convey("A press elsewhere toggles the controls", func() {
			m.Update(press(padLeft, padTop+titleLine))
			So(m.state.ControlsVisible, ShouldBeTrue)

			m.Update(press(padLeft, padTop+titleLine))
			So(m.state.ControlsVisible, ShouldBeFalse)
		})

		Convey("Control buttons work while visible", func() {
			y := padTop + controlsLine
			playX := padLeft + buttonWidth + buttonGap + 1
			forwardX := padLeft + 2*(buttonWidth+buttonGap) + 1

			m.Update(press(playX, y))
			So(inst.Playing(), ShouldBeFalse)
			So(m.state.ControlsVisible, ShouldBeTrue)

			m.Update(press(playX, y))
			So(inst.Playing(), ShouldBeTrue)

			m.Update(press(forwardX, y))
			pos, _ := inst.CurrentPosition()
			So(pos, ShouldEqual, 10)
		})

		Convey("Right button presses are ignored", func() {
			m.Update(tea.MouseMsg{X: padLeft, Y: trackY, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
			So(m.state.Dragging, ShouldBeFalse)
			So(m.state.ControlsVisible, ShouldBeFalse)
		})
	})
}

func TestSnapshots(t *testing.T) {
	Convey("Given a model showing a snapshot", t, func() {
		m, _ := newTestModel("sim:100s")
		m.state = overlay.State{Version: 5, Progress: 0.5}

		Convey("Older snapshots are dropped", func() {
			m.Update(stateMsg(overlay.State{Version: 4, Progress: 0.1}))
			So(m.state.Progress, ShouldEqual, 0.5)
		})

		Convey("Newer snapshots replace it", func() {
			m.Update(stateMsg(overlay.State{Version: 6, Progress: 0.7}))
			So(m.state.Progress, ShouldEqual, 0.7)
		})
	})
}

func TestResume(t *testing.T) {
	Convey("Given a saved position", t, func() {
		viper.Set(key.HistoryResume, true)
		So(history.Save("sim:100s", 40, 100), ShouldBeNil)

		Reset(func() {
			viper.Set(key.HistoryResume, false)
			_ = history.Remove("sim:100s")
		})

		m, _ := newTestModel("sim:100s")
		inst := loaded(m)

		Convey("The first known duration resumes there", func() {
			m.ctrl.OnEngineTick(0, 100)
			_, cmd := m.Update(stateMsg(m.ctrl.State()))
			So(cmd, ShouldNotBeNil)
			So(cmd(), ShouldEqual, ui.NotificationMsg("resumed at 0:40"))

			pos, _ := inst.CurrentPosition()
			So(pos, ShouldEqual, 40)
			So(m.ctrl.State().Progress, ShouldEqual, 0.4)

			Convey("Only once", func() {
				_, cmd := m.Update(stateMsg(m.ctrl.State()))
				So(cmd, ShouldBeNil)
			})
		})
	})
}

func TestTeardown(t *testing.T) {
	Convey("Given a session stopped at 30%", t, func() {
		viper.Set(key.HistorySaveOnExit, true)
		Reset(func() {
			_ = history.Remove("sim:100s")
		})

		m, _ := newTestModel("sim:100s")
		inst := loaded(m)
		m.ctrl.OnEngineTick(30, 100)

		So(teardown(m), ShouldBeNil)

		Convey("The position is saved and the engine closed", func() {
			entry, err := history.Lookup("sim:100s")
			So(err, ShouldBeNil)
			So(entry.MustGet().Position, ShouldAlmostEqual, 30)

			select {
			case <-inst.Done():
			default:
				So("engine still open", ShouldBeEmpty)
			}
		})
	})
}

// captureLoad records the instance the next load returns.
func captureLoad(m *model) *engine.Instance {
	var got engine.Instance
	load := m.load
	m.load = func() (engine.Instance, error) {
		inst, err := load()
		got = inst
		return inst, err
	}
	return &got
}

func closed(inst engine.Instance) bool {
	select {
	case <-inst.Done():
		return true
	default:
		return false
	}
}

func TestQuitDuringLoad(t *testing.T) {
	Convey("Given a player that quits while the media is loading", t, func() {
		m, _ := newTestModel("sim:100s")
		got := captureLoad(m)
		load := m.loadMedia()

		_, cmd := m.Update(runes("q"))
		So(cmd(), ShouldResemble, tea.Quit())
		So(teardown(m), ShouldBeNil)

		Convey("The late load closes its own instance", func() {
			So(load(), ShouldBeNil)
			So(*got, ShouldNotBeNil)
			So(closed(*got), ShouldBeTrue)
			So(m.inst, ShouldBeNil)
		})
	})

	Convey("Given a load whose message never reached the model", t, func() {
		m, _ := newTestModel("sim:100s")
		got := captureLoad(m)

		msg := m.loadMedia()()
		So(msg, ShouldHaveSameTypeAs, loadedMsg{})
		So(closed(*got), ShouldBeFalse)

		Convey("Teardown still closes the engine", func() {
			So(teardown(m), ShouldBeNil)
			So(closed(*got), ShouldBeTrue)
		})
	})
}
