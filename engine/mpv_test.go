package engine

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeMPV answers IPC commands the way mpv does, from an in-memory property table.
type fakeMPV struct {
	mu       sync.Mutex
	props    map[string]interface{}
	commands [][]interface{}
	listener net.Listener
	onQuit   func()
}

func startFakeMPV(t *testing.T, props map[string]interface{}) (*fakeMPV, string) {
	dir, err := os.MkdirTemp("", "cheta")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	path := filepath.Join(dir, "mpv.sock")
	return listenFakeMPV(t, path, props), path
}

// listenFakeMPV serves a fake mpv on the socket at path.
func listenFakeMPV(t *testing.T, path string, props map[string]interface{}) *fakeMPV {
	l, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = l.Close() })

	f := &fakeMPV{props: props, listener: l}
	go f.serve()
	return f
}

func (f *fakeMPV) serve() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}
		go f.handle(conn)
	}
}

func (f *fakeMPV) handle(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		return
	}

	var cmd ipcCommand
	if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
		return
	}

	f.mu.Lock()
	f.commands = append(f.commands, cmd.Command)
	reply := map[string]interface{}{"error": "success"}

	switch cmd.Command[0] {
	case "get_property":
		v, ok := f.props[cmd.Command[1].(string)]
		if ok {
			reply["data"] = v
		} else {
			reply["error"] = "property unavailable"
		}
	case "set_property":
		f.props[cmd.Command[1].(string)] = cmd.Command[2]
	case "seek":
		f.props["time-pos"] = cmd.Command[1]
	case "quit":
		if onQuit := f.onQuit; onQuit != nil {
			defer onQuit()
		}
	}
	f.mu.Unlock()

	// mpv interleaves broadcast events with replies on every client connection.
	_, _ = fmt.Fprintln(conn, `{"event":"playback-restart"}`)
	b, _ := json.Marshal(reply)
	_, _ = conn.Write(append(b, '\n'))
}

func (f *fakeMPV) last() []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commands[len(f.commands)-1]
}

func TestMPVInstance(t *testing.T) {
	Convey("Given an mpv instance with a loaded file", t, func() {
		fake, socket := startFakeMPV(t, map[string]interface{}{
			"time-pos": 25.0,
			"duration": 100.0,
			"pause":    true,
		})
		inst := newMPVInstance(socket)

		Convey("Position and duration are read over IPC", func() {
			pos, err := inst.CurrentPosition()
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, 25)
			So(inst.Duration().OrEmpty(), ShouldEqual, 100)
		})

		Convey("Play and Pause set the pause property", func() {
			So(inst.Play(), ShouldBeNil)
			So(fake.last(), ShouldResemble, []interface{}{"set_property", "pause", false})

			So(inst.Pause(), ShouldBeNil)
			So(fake.last(), ShouldResemble, []interface{}{"set_property", "pause", true})
		})

		Convey("SeekTo sends an absolute seek clamped to the duration", func() {
			So(inst.SeekTo(35), ShouldBeNil)
			So(fake.last(), ShouldResemble, []interface{}{"seek", 35.0, "absolute"})

			So(inst.SeekTo(140), ShouldBeNil)
			So(fake.last(), ShouldResemble, []interface{}{"seek", 100.0, "absolute"})

			So(inst.SeekTo(-4), ShouldBeNil)
			So(fake.last(), ShouldResemble, []interface{}{"seek", 0.0, "absolute"})
		})

		Convey("An unknown duration is reported as None", func() {
			fake.mu.Lock()
			delete(fake.props, "duration")
			fake.mu.Unlock()

			So(inst.Duration().IsAbsent(), ShouldBeTrue)
		})

		Convey("Refused commands surface the mpv error without retrying", func() {
			_, err := inst.getFloatProperty("chapter")
			So(err, ShouldNotBeNil)

			var refused mpvError
			So(errors.As(err, &refused), ShouldBeTrue)
			So(string(refused), ShouldEqual, "property unavailable")
		})

		Convey("Close sends quit and retires the instance", func() {
			fake.mu.Lock()
			fake.onQuit = inst.markExited
			fake.mu.Unlock()
			inst.SubscribePositionTicks(0, func(float64) {})

			So(inst.Close(), ShouldBeNil)
			So(fake.last(), ShouldResemble, []interface{}{"quit"})
			So(inst.ticks.active(), ShouldEqual, 0)

			_, err := os.Stat(socket)
			So(os.IsNotExist(err), ShouldBeTrue)
		})
	})
}

func TestSanitize(t *testing.T) {
	Convey("Media targets", t, func() {
		Convey("Flags and foreign schemes are rejected", func() {
			for _, bad := range []string{"", "--script=evil.lua", "file:///etc/passwd", "a\nb"} {
				_, err := sanitizeMediaTarget(bad)
				So(err, ShouldNotBeNil)
			}
		})

		Convey("HTTP URLs pass through and paths are cleaned", func() {
			u, err := sanitizeMediaTarget("https://example.com/v.mp4")
			So(err, ShouldBeNil)
			So(u, ShouldEqual, "https://example.com/v.mp4")

			p, err := sanitizeMediaTarget(" videos/../clip.mp4 ")
			So(err, ShouldBeNil)
			So(p, ShouldEqual, "clip.mp4")
		})

		Convey("Titles lose control characters", func() {
			So(sanitizeTitle(" a\tb\nc\x00 "), ShouldEqual, "a b c")
		})
	})

	Convey("Loading a missing file fails with ErrLoad", t, func() {
		_, err := NewMPV().Load("/definitely/not/here.mp4")
		So(errors.Is(err, ErrLoad), ShouldBeTrue)
	})
}

func TestIPCRetries(t *testing.T) {
	Convey("Given an instance whose socket is gone", t, func() {
		inst := newMPVInstance(filepath.Join(os.TempDir(), "cheta-missing.sock"))

		Convey("The IPC lock is free while a failing command waits to retry", func() {
			failed := make(chan error, 1)
			go func() {
				_, err := inst.sendCommand([]interface{}{"get_property", "time-pos"})
				failed <- err
			}()

			time.Sleep(retryDelay / 2)
			locked := inst.mu.TryLock()
			if locked {
				inst.mu.Unlock()
			}
			So(locked, ShouldBeTrue)
			So(<-failed, ShouldNotBeNil)
		})

		Convey("Commands to an exited mpv fail without retrying", func() {
			inst.markExited()

			start := time.Now()
			So(errors.Is(inst.Pause(), errExited), ShouldBeTrue)
			So(time.Since(start), ShouldBeLessThan, retryDelay)
		})
	})
}
