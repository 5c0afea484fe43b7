package ui

import (
	"unicode"

	"github.com/atomicstack/tmux-popup-tree/internal/logging/events"
	uistate "github.com/atomicstack/tmux-popup-tree/internal/ui/state"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	keys := m.keys.Keys()
	switch {
	case key.Matches(keyMsg, keys.Quit):
		return tea.Quit
	case key.Matches(keyMsg, keys.HotKey):
		_, cmd := m.keys.HandleKey(keyMsg)
		return cmd
	}
	if handled, cmd := m.handleTextInput(keyMsg); handled {
		return cmd
	}
	if handled, cmd := m.keys.HandleKey(keyMsg); handled {
		m.followKeyboard()
		return cmd
	}
	if key.Matches(keyMsg, keys.Close) && !m.anyVisible() {
		return tea.Quit
	}
	return nil
}

// filterLevel is the level typing goes to: the keyboard's level, or the
// deepest open one while the pointer is in charge.
func (m *Model) filterLevel() *uistate.Level {
	nav := navLevels{m: m}
	if m.keys.InUse() {
		if lvl := nav.Level(m.keys.Depth()); lvl != nil {
			return lvl
		}
	}
	views := m.openViews()
	for i := len(views) - 1; i >= 0; i-- {
		if views[i].Usable() {
			return views[i].Level()
		}
	}
	return nil
}

func (m *Model) handleTextInput(msg tea.KeyMsg) (bool, tea.Cmd) {
	current := m.filterLevel()
	if current == nil {
		return false, nil
	}
	switch msg.String() {
	case "ctrl+u":
		if !current.ClearFilter() {
			return false, nil
		}
		events.Filter.Cleared(current.Depth)
		return true, m.filterChanged(current)
	case "ctrl+w":
		if !current.DeleteFilterWordBackward() {
			return false, nil
		}
		events.Filter.Backspace(current.Depth, current.Filter)
		return true, m.filterChanged(current)
	case "esc":
		if current.Filter == "" {
			return false, nil
		}
		current.ClearFilter()
		events.Filter.Cleared(current.Depth)
		return true, m.filterChanged(current)
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		if !current.DeleteFilterRuneBackward() {
			return false, nil
		}
		events.Filter.Backspace(current.Depth, current.Filter)
		return true, m.filterChanged(current)
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false, nil
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false, nil
			}
		}
		return m.appendToFilter(current, string(msg.Runes))
	case tea.KeySpace:
		return m.appendToFilter(current, " ")
	}
	return false, nil
}

func (m *Model) appendToFilter(current *uistate.Level, text string) (bool, tea.Cmd) {
	if !current.InsertFilterText(text) {
		return false, nil
	}
	events.Filter.Append(current.Depth, current.Filter)
	return true, m.filterChanged(current)
}

// filterChanged hands the keyboard to the best match and lays the cascade
// out again, since the level's size changed.
func (m *Model) filterChanged(current *uistate.Level) tea.Cmd {
	m.errMsg = ""
	var cmd tea.Cmd
	if current.Filter != "" || m.keys.InUse() {
		cmd = m.keys.SelectCursor(current.Depth)
	}
	m.relayout()
	m.followKeyboard()
	return cmd
}

// followKeyboard keeps the keyboard row in view and realigns the levels
// below it when that scrolled.
func (m *Model) followKeyboard() {
	if !m.keys.InUse() {
		return
	}
	d := m.keys.Depth()
	if d < 0 || d >= len(m.levels) || m.levels[d] == nil {
		return
	}
	if m.levels[d].FollowCursor() {
		m.relayout()
	}
}
