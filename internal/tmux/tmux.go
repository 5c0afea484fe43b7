// Package tmux talks to the tmux server hosting the popup: it resolves the
// socket, reads client geometry and the launching pane's directory, and opens
// entries in new windows.
package tmux

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

// SocketEnv overrides the socket when no flag is given.
const SocketEnv = "TMUX_POPUP_TREE_SOCKET"

// ErrNoTmux is returned when no tmux server could be reached.
var ErrNoTmux = errors.New("tmux: no server available")

type tmuxClient interface {
	DisplayMessage(target, format string) (string, error)
	Command(parts ...string) (string, error)
	Close() error
}

var newTmux = func(socketPath string) (tmuxClient, error) {
	if socketPath != "" {
		return gotmux.NewTmux(socketPath)
	}
	return gotmux.DefaultTmux()
}

// ResolveSocketPath picks the socket from the flag, then SocketEnv, then the
// TMUX variable of the enclosing session, then tmux's default location.
func ResolveSocketPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if envSocket := os.Getenv(SocketEnv); envSocket != "" {
		return envSocket, nil
	}
	if tmuxEnv := os.Getenv("TMUX"); tmuxEnv != "" {
		parts := strings.Split(tmuxEnv, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], nil
		}
	}
	baseDir := os.Getenv("TMUX_TMPDIR")
	if baseDir == "" {
		baseDir = "/tmp"
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, fmt.Sprintf("tmux-%s", u.Uid), "default"), nil
}

func withClient(socketPath string, fn func(tmuxClient) error) error {
	client, err := newTmux(socketPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoTmux, err)
	}
	defer client.Close()
	return fn(client)
}

func currentPane() string {
	return strings.TrimSpace(os.Getenv("TMUX_PANE"))
}

// ClientSize returns the size of the client that launched the popup.
func ClientSize(socketPath string) (width, height int, err error) {
	err = withClient(socketPath, func(c tmuxClient) error {
		out, err := c.DisplayMessage(currentPane(), "#{client_width} #{client_height}")
		if err != nil {
			return err
		}
		fields := strings.Fields(out)
		if len(fields) != 2 {
			return fmt.Errorf("tmux: unexpected client size %q", out)
		}
		if width, err = strconv.Atoi(fields[0]); err != nil {
			return fmt.Errorf("tmux: client width: %w", err)
		}
		if height, err = strconv.Atoi(fields[1]); err != nil {
			return fmt.Errorf("tmux: client height: %w", err)
		}
		return nil
	})
	return width, height, err
}

// CurrentPanePath returns the working directory of the launching pane.
func CurrentPanePath(socketPath string) (string, error) {
	var path string
	err := withClient(socketPath, func(c tmuxClient) error {
		out, err := c.DisplayMessage(currentPane(), "#{pane_current_path}")
		if err != nil {
			return err
		}
		path = strings.TrimSpace(out)
		if path == "" {
			return errors.New("tmux: pane has no current path")
		}
		return nil
	})
	return path, err
}
