package engine

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSweepSockets(t *testing.T) {
	Convey("Given a temp directory shared by a running session and a crashed one", t, func() {
		dir, err := os.MkdirTemp("", "cheta")
		So(err, ShouldBeNil)
		Reset(func() { _ = os.RemoveAll(dir) })

		running := filepath.Join(dir, "mpv-live.sock")
		fake := listenFakeMPV(t, running, map[string]interface{}{"time-pos": 12.5})
		inst := newMPVInstance(running)

		crashed := filepath.Join(dir, "mpv-dead.sock")
		l, err := net.Listen("unix", crashed)
		So(err, ShouldBeNil)
		// keep the socket file once the listener is gone, as a killed mpv does
		l.(*net.UnixListener).SetUnlinkOnClose(false)
		So(l.Close(), ShouldBeNil)

		other := filepath.Join(dir, "notes.txt")
		So(os.WriteFile(other, []byte("x"), 0o644), ShouldBeNil)

		removed, err := SweepSockets(dir)
		So(err, ShouldBeNil)

		Convey("Only the dead socket is removed", func() {
			So(removed, ShouldEqual, 1)

			_, err := os.Stat(crashed)
			So(os.IsNotExist(err), ShouldBeTrue)

			_, err = os.Stat(other)
			So(err, ShouldBeNil)
		})

		Convey("The running session keeps talking to mpv", func() {
			pos, err := inst.CurrentPosition()
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, 12.5)

			So(inst.Pause(), ShouldBeNil)
			So(fake.last(), ShouldResemble, []interface{}{"set_property", "pause", true})
		})
	})

	Convey("A missing directory has nothing to sweep", t, func() {
		removed, err := SweepSockets(filepath.Join(os.TempDir(), "cheta-no-such-dir"))
		So(err, ShouldBeNil)
		So(removed, ShouldEqual, 0)
	})
}
