package engine

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command []interface{} `json:"command"`
}

// ipcResponse is a reply line from mpv. Lines carrying Event are broadcasts, not replies.
type ipcResponse struct {
	Data  interface{} `json:"data"`
	Error string      `json:"error"`
	Event string      `json:"event"`
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = 1 * time.Second
)

// errExited is returned for commands sent after mpv went away.
var errExited = errors.New("mpv has exited")

// sendCommand runs one IPC round-trip, retrying transient connection failures.
// The lock covers a single attempt, so a failing poll never holds up other commands
// while it waits to retry.
func (m *MPVInstance) sendCommand(command []interface{}) (interface{}, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-m.exited:
				return nil, errExited
			case <-time.After(retryDelay):
			}
		}

		select {
		case <-m.exited:
			return nil, errExited
		default:
		}

		result, err := m.attempt(command)
		if err == nil {
			return result, nil
		}
		if _, rejected := err.(mpvError); rejected {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc command failed after %d attempts: %w", maxRetries, lastErr)
}

func (m *MPVInstance) attempt(command []interface{}) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return doSendCommand(m.socketPath, command)
}

// mpvError is a command mpv received and refused; retrying cannot help.
type mpvError string

func (e mpvError) Error() string {
	return "mpv error: " + string(e)
}

func doSendCommand(socketPath string, command []interface{}) (interface{}, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	payload, err := json.Marshal(ipcCommand{Command: command})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	// mpv expects newline-delimited JSON.
	if _, err = conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var resp ipcResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}

		if resp.Event != "" {
			continue
		}

		if resp.Error != "" && resp.Error != "success" {
			return nil, mpvError(resp.Error)
		}

		return resp.Data, nil
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return nil, fmt.Errorf("read: connection closed without reply")
}
