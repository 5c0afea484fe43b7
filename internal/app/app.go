package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atomicstack/tmux-popup-tree/internal/backend"
	"github.com/atomicstack/tmux-popup-tree/internal/logging"
	"github.com/atomicstack/tmux-popup-tree/internal/scan"
	"github.com/atomicstack/tmux-popup-tree/internal/tmux"
	"github.com/atomicstack/tmux-popup-tree/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Config describes user-provided application options.
type Config struct {
	Root       string
	SocketPath string
	Width      int
	Height     int
	MaxDepth   int
	HotKey     string
	ShowHidden bool
	Exclude    []string
	Watch      bool
	Viewer     string
	Verbose    bool

	LeaveDelay          time.Duration
	CloseDelay          time.Duration
	DeactivationSwallow time.Duration
	StillActiveInterval time.Duration
	FadeStep            time.Duration
	FadeSteps           int
	MinWidth            int
	MaxWidth            int
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	socketPath, err := tmux.ResolveSocketPath(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("resolve socket path: %w", err)
	}
	root := resolveRoot(cfg.Root, socketPath)

	var watcher *backend.Watcher
	if cfg.Watch && root != "" {
		watcher, err = backend.NewWatcher(root, 750*time.Millisecond)
		if err != nil {
			logging.Warn("watch root", err)
			watcher = nil
		} else {
			defer watcher.Stop()
		}
	}

	hidden := scan.GlobPolicy{ShowHidden: cfg.ShowHidden, Exclude: cfg.Exclude}
	scanner := scan.NewScanner(scan.OSProvider{}, hidden, scan.LinkIcons{})

	model := ui.NewModel(ui.Config{
		Root:                root,
		SocketPath:          socketPath,
		Width:               cfg.Width,
		Height:              cfg.Height,
		MaxDepth:            cfg.MaxDepth,
		HotKey:              cfg.HotKey,
		Viewer:              cfg.Viewer,
		Verbose:             cfg.Verbose,
		LeaveDelay:          cfg.LeaveDelay,
		CloseDelay:          cfg.CloseDelay,
		DeactivationSwallow: cfg.DeactivationSwallow,
		StillActiveInterval: cfg.StillActiveInterval,
		FadeStep:            cfg.FadeStep,
		FadeSteps:           cfg.FadeSteps,
		MinWidth:            cfg.MinWidth,
		MaxWidth:            cfg.MaxWidth,
	}, scanner.Scan, watcher)
	model.Resize(initialSize(socketPath))

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	final, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	if err != nil {
		return err
	}
	if m, ok := final.(*ui.Model); ok {
		return m.Err()
	}
	return nil
}

// resolveRoot prefers the configured root, then the launching pane's
// directory, then the process working directory.
func resolveRoot(configured, socketPath string) string {
	if configured != "" {
		if abs, err := filepath.Abs(configured); err == nil {
			return abs
		}
		return configured
	}
	path, err := tmux.CurrentPanePath(socketPath)
	if err == nil {
		return path
	}
	logging.Warn("pane path", err)
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return ""
}

// initialSize draws the first frame at the right size before Bubble Tea
// reports the window: the terminal when stdout is one, otherwise the tmux
// client that launched the popup.
func initialSize(socketPath string) (int, int) {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, h, err := term.GetSize(fd); err == nil {
			return w, h
		}
	}
	w, h, err := tmux.ClientSize(socketPath)
	if err != nil {
		logging.Warn("client size", err)
		return 0, 0
	}
	return w, h
}
