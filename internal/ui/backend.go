package ui

import (
	"github.com/atomicstack/tmux-popup-tree/internal/backend"
	"github.com/atomicstack/tmux-popup-tree/internal/logging/events"
	uistate "github.com/atomicstack/tmux-popup-tree/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForWatchEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return watchDoneMsg{}
		}
		return watchEventMsg{event: evt}
	}
}

type watchEventMsg struct {
	event backend.Event
}

type watchDoneMsg struct{}

func (m *Model) handleWatchEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(watchEventMsg)
	if !ok {
		return nil
	}
	cmd := m.applyWatchEvent(eventMsg.event)
	if m.watcher != nil {
		return tea.Batch(cmd, waitForWatchEvent(m.watcher))
	}
	return cmd
}

func (m *Model) handleWatchDoneMsg(tea.Msg) tea.Cmd {
	m.watcher = nil
	return nil
}

// applyWatchEvent reloads the root level after changes in the root
// directory. The slot folds a burst of reloads into one.
func (m *Model) applyWatchEvent(evt backend.Event) tea.Cmd {
	if evt.Err != nil {
		events.Watch.Error(evt.Err)
		return nil
	}
	events.Watch.Change(evt.Root, evt.Paths)
	if !m.rootUsable() || m.tree.State() == uistate.Closing {
		return nil
	}
	return tea.Batch(m.rootSlot.Start(0), m.startSpinner())
}
