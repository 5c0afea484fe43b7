package ui

import (
	"github.com/atomicstack/tmux-popup-tree/internal/logging/events"
	"github.com/atomicstack/tmux-popup-tree/internal/ui/popup"
	uistate "github.com/atomicstack/tmux-popup-tree/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

// popupEvents receives the callbacks of every level view.
type popupEvents struct{ m *Model }

func (p popupEvents) RowEntered(v *popup.View, e *entry) tea.Cmd {
	m := p.m
	events.UI.RowEnter(v.Depth(), v.Level().IndexOf(e), e.Path)
	var cmds []tea.Cmd
	if m.keys.InUse() {
		// The pointer takes over from the keyboard.
		if sel := m.keys.Selected(); sel != nil && sel != e {
			cmds = append(cmds, m.checkOpenerStop(sel))
		}
		m.keys.ClearSelection()
		m.keys.SetInUse(false)
	}
	m.keys.Select(v.Depth(), e)
	cmds = append(cmds, m.checkOpenerStart(e, uistate.SelectionHover))
	return tea.Batch(cmds...)
}

func (p popupEvents) RowLeft(v *popup.View, e *entry) tea.Cmd {
	events.UI.RowLeave(v.Depth(), v.Level().IndexOf(e), e.Path)
	if p.m.keys.InUse() {
		return nil
	}
	return p.m.checkOpenerStop(e)
}

func (p popupEvents) RowPressed(v *popup.View, e *entry, button tea.MouseButton) tea.Cmd {
	switch button {
	case tea.MouseButtonRight:
		return p.m.openContextMenu(e)
	case tea.MouseButtonLeft:
		if e.Expandable() {
			return p.m.checkOpenerStart(e, uistate.SelectionHover)
		}
	}
	return nil
}

func (p popupEvents) RowActivated(v *popup.View, e *entry) tea.Cmd {
	return p.m.activate(e)
}

func (p popupEvents) SelectionChanged(v *popup.View) tea.Cmd {
	events.UI.Selection(v.Depth(), v.Level().SelectedNames())
	return nil
}

func (p popupEvents) MouseEntered(v *popup.View) tea.Cmd {
	p.m.leave.stop()
	return nil
}

func (p popupEvents) MouseLeft(v *popup.View) tea.Cmd {
	return p.m.leave.start(p.m.after)
}

// VisibilityChanged keeps the arena in step with the fades: usable levels
// are laid out again, hidden ones are disposed, and the state machine
// leaves Opening or Closing once the fades it waited for are done.
func (p popupEvents) VisibilityChanged(v *popup.View) tea.Cmd {
	m := p.m
	if v.Disposed() {
		return nil
	}
	if v.Usable() {
		m.relayout()
	}
	if v.Depth() == 0 && v.Visibility() == popup.Shown && m.tree.State() == uistate.Opening {
		m.tree.Set(uistate.Default)
	}
	if !v.Visible() {
		m.dispose(v)
	}
	m.settleClosed()
	return nil
}

// keyEvents receives the keyboard navigator's callbacks.
type keyEvents struct{ m *Model }

func (k keyEvents) RowSelected(depth int, e *entry) tea.Cmd {
	return tea.Batch(k.m.fadeInIfNeeded(), k.m.checkOpenerStart(e, uistate.SelectionKeyboard))
}

func (k keyEvents) RowDeselected(depth int, e *entry) tea.Cmd {
	return k.m.checkOpenerStop(e)
}

func (k keyEvents) ClosePressed() tea.Cmd {
	cmd := k.m.menusFadeOut("escape")
	k.m.rootSlot.Cancel()
	return cmd
}

func (k keyEvents) HotKeyPressed() tea.Cmd {
	return k.m.switchOpenClose(false)
}

func (k keyEvents) Activate(depth int, e *entry) tea.Cmd {
	return k.m.activate(e)
}
