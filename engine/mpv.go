package engine

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cheta-player/cheta/log"
	"github.com/cheta-player/cheta/where"
	"github.com/google/uuid"
	"github.com/samber/mo"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// MPV launches one mpv process per loaded source and controls it over JSON-IPC.
type MPV struct {
	// Binary is the mpv executable, resolved through PATH.
	Binary string
}

// NewMPV returns an engine using the mpv binary from PATH.
func NewMPV() *MPV {
	return &MPV{Binary: "mpv"}
}

func (*MPV) Name() string { return "mpv" }

// Load starts mpv paused on source and waits for its IPC socket.
func (e *MPV) Load(source string) (Instance, error) {
	target, err := sanitizeMediaTarget(source)
	if err != nil {
		return nil, loadError(source, err)
	}

	if !strings.Contains(target, "://") {
		if _, err := os.Stat(target); err != nil {
			return nil, loadError(source, err)
		}
	}

	socketPath := filepath.Join(where.Temp(), fmt.Sprintf("mpv-%s.sock", uuid.NewString()[:8]))

	title := sanitizeTitle(filepath.Base(target))

	// Only pass what the overlay depends on; the user's mpv.conf decides the rest.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
		fmt.Sprintf("--force-media-title=%s", title),
		fmt.Sprintf("--title=%s", title),
		"--force-window=yes",
		"--idle=yes",
		"--keep-open=yes",
		"--pause",
		target,
	}

	cmd := exec.Command(e.Binary, args...)
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return nil, loadError(source, fmt.Errorf("start mpv: %w", err))
	}

	inst := newMPVInstance(socketPath)
	inst.cmd = cmd

	go func() {
		_ = cmd.Wait()
		inst.markExited()
	}()

	if err := inst.waitForSocket(); err != nil {
		select {
		case <-inst.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(cmd)
		}
		return nil, loadError(source, fmt.Errorf("mpv socket not ready: %w", err))
	}

	log.Infof("mpv loaded %s on socket %s", target, socketPath)
	return inst, nil
}

// MPVInstance is a running mpv process.
type MPVInstance struct {
	socketPath string
	cmd        *exec.Cmd

	exited     chan struct{}
	exitedOnce sync.Once

	mu    sync.Mutex // serializes IPC round-trips
	ticks tickers
}

func newMPVInstance(socketPath string) *MPVInstance {
	return &MPVInstance{
		socketPath: socketPath,
		exited:     make(chan struct{}),
	}
}

func (m *MPVInstance) markExited() {
	m.exitedOnce.Do(func() { close(m.exited) })
}

func (m *MPVInstance) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

func (m *MPVInstance) Play() error {
	return m.set("pause", false)
}

func (m *MPVInstance) Pause() error {
	return m.set("pause", true)
}

func (m *MPVInstance) SeekTo(seconds float64) error {
	if seconds < 0 {
		seconds = 0
	}
	if d, ok := m.Duration().Get(); ok && seconds > d {
		seconds = d
	}

	_, err := m.sendCommand([]interface{}{"seek", seconds, "absolute"})
	return err
}

func (m *MPVInstance) CurrentPosition() (float64, error) {
	return m.getFloatProperty("time-pos")
}

// Duration is None while mpv has not probed the file yet, or for live streams.
func (m *MPVInstance) Duration() mo.Option[float64] {
	d, err := m.getFloatProperty("duration")
	if err != nil || d <= 0 {
		return mo.None[float64]()
	}
	return mo.Some(d)
}

func (m *MPVInstance) SubscribePositionTicks(interval time.Duration, callback func(seconds float64)) Subscription {
	return m.ticks.start(interval, m.exited, m.CurrentPosition, callback)
}

func (m *MPVInstance) Unsubscribe(s Subscription) {
	m.ticks.stopOne(s)
}

func (m *MPVInstance) Done() <-chan struct{} {
	return m.exited
}

// Close asks mpv to quit, kills it if it does not within quitTimeout, and removes the socket.
func (m *MPVInstance) Close() error {
	m.ticks.stopAll()

	select {
	case <-m.exited:
	default:
		_, _ = m.sendCommand([]interface{}{"quit"})

		select {
		case <-m.exited:
		case <-time.After(quitTimeout):
			_ = killProcess(m.cmd)
			m.markExited()
		}
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// Socket returns the IPC socket path.
func (m *MPVInstance) Socket() string {
	return m.socketPath
}

func (m *MPVInstance) set(property string, value interface{}) error {
	_, err := m.sendCommand([]interface{}{"set_property", property, value})
	return err
}

func (m *MPVInstance) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// sanitizeMediaTarget rejects sources that mpv would parse as flags or that use
// schemes other than http(s); anything else is treated as a local path.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty source")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in source")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("source must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
