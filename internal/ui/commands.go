package ui

import (
	"fmt"

	"github.com/atomicstack/tmux-popup-tree/internal/logging"
	"github.com/atomicstack/tmux-popup-tree/internal/logging/events"
	"github.com/atomicstack/tmux-popup-tree/internal/tmux"
	"github.com/atomicstack/tmux-popup-tree/internal/ui/command"
	uistate "github.com/atomicstack/tmux-popup-tree/internal/ui/state"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// activate opens e in a new tmux window and quits once that worked.
func (m *Model) activate(e *entry) tea.Cmd {
	if !e.Selectable() {
		return nil
	}
	m.errMsg, m.infoMsg = "", ""
	return m.bus.Execute(command.Request{
		ID:      "open:" + e.Path,
		Label:   "open",
		Handler: m.actions.open,
		Entry:   e,
		Quit:    true,
	})
}

// openContextMenu marks e while its path is copied. The mark is released
// when the copy reports back.
func (m *Model) openContextMenu(e *entry) tea.Cmd {
	if !e.Selectable() {
		return nil
	}
	e.Selection = uistate.SelectionContextMenu
	events.UI.ContextMenu(e.Path)
	m.errMsg, m.infoMsg = "", ""
	return m.bus.Execute(command.Request{
		ID:      "copy:" + e.Path,
		Label:   "copy path",
		Handler: m.actions.copy,
		Entry:   e,
	})
}

func (m *Model) openEntry(e *entry) (string, error) {
	path := e.Path
	if e.IsContainer {
		path = e.Target
	}
	if err := tmux.OpenInWindow(m.cfg.SocketPath, path, e.IsContainer, m.cfg.Viewer); err != nil {
		return "", fmt.Errorf("open %s: %w", e.Name, err)
	}
	return fmt.Sprintf("Opened %s", e.Name), nil
}

// copyEntryPath puts the path on the system clipboard, or into a tmux paste
// buffer when no clipboard is available.
func (m *Model) copyEntryPath(e *entry) (string, error) {
	err := clipboard.WriteAll(e.Path)
	if err == nil {
		return fmt.Sprintf("Copied %s", e.Path), nil
	}
	logging.Warn("clipboard", err)
	if err := tmux.SetBuffer(m.cfg.SocketPath, e.Path); err != nil {
		return "", fmt.Errorf("copy %s: %w", e.Path, err)
	}
	return fmt.Sprintf("Copied %s to the tmux buffer", e.Path), nil
}

func (m *Model) handleActionResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(command.Result)
	if !ok {
		return nil
	}
	if e := result.Entry; e != nil && e.Selection == uistate.SelectionContextMenu {
		e.Selection = uistate.SelectionNone
		if v := m.viewOf(e.Level); v != nil && v.HoveredEntry() == e {
			e.Selection = uistate.SelectionHover
		}
	}
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		m.infoMsg = ""
		events.Action.Error(result.Err)
		return nil
	}
	events.Action.Success(result.Info)
	if m.cfg.Verbose || !result.Quit {
		m.infoMsg = result.Info
	}
	if result.Quit {
		return tea.Quit
	}
	return nil
}
