package engine

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type manualNow struct {
	t time.Time
}

func (m *manualNow) now() time.Time { return m.t }

func (m *manualNow) add(d time.Duration) { m.t = m.t.Add(d) }

func TestSim(t *testing.T) {
	Convey("Given a simulated engine", t, func() {
		wall := &manualNow{t: time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)}
		sim := &Sim{Now: wall.now}

		Convey("Malformed sources fail with ErrLoad", func() {
			for _, src := range []string{"sim:", "sim:abc", "sim:-5s", "movie.mp4"} {
				_, err := sim.Load(src)
				So(errors.Is(err, ErrLoad), ShouldBeTrue)
			}
		})

		Convey("When a 100s source is loaded", func() {
			inst, err := sim.Load("sim:100s")
			So(err, ShouldBeNil)
			defer inst.Close()

			Convey("It starts paused at zero with a known duration", func() {
				pos, _ := inst.CurrentPosition()
				So(pos, ShouldEqual, 0)
				So(inst.Duration().OrEmpty(), ShouldEqual, 100)

				wall.add(5 * time.Second)
				pos, _ = inst.CurrentPosition()
				So(pos, ShouldEqual, 0)
			})

			Convey("Position advances only while playing", func() {
				So(inst.Play(), ShouldBeNil)
				wall.add(25 * time.Second)
				pos, _ := inst.CurrentPosition()
				So(pos, ShouldEqual, 25)

				So(inst.Pause(), ShouldBeNil)
				wall.add(10 * time.Second)
				pos, _ = inst.CurrentPosition()
				So(pos, ShouldEqual, 25)

				Convey("And Pause is idempotent", func() {
					So(inst.Pause(), ShouldBeNil)
					pos, _ = inst.CurrentPosition()
					So(pos, ShouldEqual, 25)
				})
			})

			Convey("Seeks clamp to the source length", func() {
				So(inst.SeekTo(35), ShouldBeNil)
				pos, _ := inst.CurrentPosition()
				So(pos, ShouldEqual, 35)

				So(inst.SeekTo(500), ShouldBeNil)
				pos, _ = inst.CurrentPosition()
				So(pos, ShouldEqual, 100)

				So(inst.SeekTo(-3), ShouldBeNil)
				pos, _ = inst.CurrentPosition()
				So(pos, ShouldEqual, 0)
			})

			Convey("Playback stops advancing at the end", func() {
				So(inst.SeekTo(95), ShouldBeNil)
				So(inst.Play(), ShouldBeNil)
				wall.add(time.Minute)
				pos, _ := inst.CurrentPosition()
				So(pos, ShouldEqual, 100)
			})

			Convey("Close ends subscriptions and rejects commands", func() {
				inst.SubscribePositionTicks(time.Hour, func(float64) {})
				So(inst.(*SimInstance).ticks.active(), ShouldEqual, 1)

				So(inst.Close(), ShouldBeNil)
				So(inst.(*SimInstance).ticks.active(), ShouldEqual, 0)
				So(inst.Play(), ShouldNotBeNil)

				select {
				case <-inst.Done():
				default:
					So("done channel still open", ShouldBeEmpty)
				}
			})
		})
	})
}

func TestTickers(t *testing.T) {
	Convey("Given a position subscription", t, func() {
		var tk tickers
		done := make(chan struct{})
		got := make(chan float64, 8)

		id := tk.start(5*time.Millisecond, done, func() (float64, error) { return 42, nil }, func(s float64) {
			select {
			case got <- s:
			default:
			}
		})
		So(id, ShouldNotEqual, Subscription(0))

		Convey("It delivers the polled position", func() {
			select {
			case s := <-got:
				So(s, ShouldEqual, 42)
			case <-time.After(time.Second):
				So("no tick delivered", ShouldBeEmpty)
			}
			tk.stopOne(id)
			So(tk.active(), ShouldEqual, 0)
		})

		Convey("Unsubscribing twice is harmless", func() {
			tk.stopOne(id)
			tk.stopOne(id)
			tk.stopOne(999)
			So(tk.active(), ShouldEqual, 0)
		})

		Convey("Closing done retires the subscription", func() {
			close(done)
			deadline := time.Now().Add(time.Second)
			for tk.active() != 0 && time.Now().Before(deadline) {
				time.Sleep(time.Millisecond)
			}
			So(tk.active(), ShouldEqual, 0)
		})
	})
}

func TestFor(t *testing.T) {
	Convey("Sim sources always resolve to the simulated engine", t, func() {
		e, err := For("sim:10s")
		So(err, ShouldBeNil)
		So(e.Name(), ShouldEqual, "sim")
	})

	Convey("Unknown engine names are rejected", t, func() {
		_, err := Named("vlc")
		So(err, ShouldNotBeNil)
		So(Available(), ShouldContain, "mpv")
	})
}
