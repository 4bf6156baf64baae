package engine

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/cheta-player/cheta/log"
)

// socketPattern matches the IPC sockets Load creates.
const socketPattern = "mpv-*.sock"

const sweepDialTimeout = 200 * time.Millisecond

// SweepSockets removes the IPC sockets in dir that no process listens on anymore,
// e.g. those left behind by a crashed mpv. Sockets of running sessions are kept.
// It returns how many sockets were removed.
func SweepSockets(dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, socketPattern))
	if err != nil {
		return 0, err
	}

	var removed int
	var errs []error

	for _, path := range paths {
		if socketAlive(path) {
			continue
		}

		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
			continue
		}

		log.Debugf("removed stale socket %s", path)
		removed++
	}

	return removed, errors.Join(errs...)
}

func socketAlive(path string) bool {
	conn, err := net.DialTimeout("unix", path, sweepDialTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
