package tmux

import (
	"path/filepath"
	"strings"
)

// OpenInWindow opens a new tmux window named after path. Directories get a
// shell started inside them; files are handed to command, or $EDITOR, or
// less.
func OpenInWindow(socketPath, path string, isDir bool, command string) error {
	dir, name := path, filepath.Base(path)
	args := []string{"new-window", "-c"}
	if isDir {
		args = append(args, dir, "-n", name)
	} else {
		dir = filepath.Dir(path)
		args = append(args, dir, "-n", name, ViewerCommand(command, path))
	}
	return withClient(socketPath, func(c tmuxClient) error {
		_, err := c.Command(args...)
		return err
	})
}

// SetBuffer stores text in the top paste buffer.
func SetBuffer(socketPath, text string) error {
	return withClient(socketPath, func(c tmuxClient) error {
		_, err := c.Command("set-buffer", "--", text)
		return err
	})
}

// ViewerCommand builds the shell command that displays path. An empty
// command falls back to less.
func ViewerCommand(command, path string) string {
	command = strings.TrimSpace(command)
	if command == "" {
		command = "less"
	}
	return command + " -- " + shellQuote(path)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
