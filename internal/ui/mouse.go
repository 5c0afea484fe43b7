package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	mouse, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	m.pointerX, m.pointerY = mouse.X, mouse.Y
	switch {
	case mouse.Action != tea.MouseActionPress && mouse.Action != tea.MouseActionMotion:
		return nil
	case mouse.Button == tea.MouseButtonWheelUp:
		return m.wheel(-1)
	case mouse.Button == tea.MouseButtonWheelDown:
		return m.wheel(1)
	case mouse.Action == tea.MouseActionMotion:
		return m.pointerMoved()
	default:
		return m.pointerPressed(mouse.Button)
	}
}

// pointerMoved routes motion to the topmost level under the pointer. Every
// other level sees the pointer leave first, so a row in one level is left
// before a row in the next is entered.
func (m *Model) pointerMoved() tea.Cmd {
	target := m.viewAt(m.pointerX, m.pointerY)
	var cmds []tea.Cmd
	for d := len(m.levels) - 1; d >= 0; d-- {
		if v := m.levels[d]; v != nil && v != target {
			cmds = append(cmds, v.MouseExited())
		}
	}
	if target != nil {
		cmds = append(cmds, target.MouseMoved(m.pointerX, m.pointerY))
	}
	return tea.Batch(cmds...)
}

func (m *Model) pointerPressed(button tea.MouseButton) tea.Cmd {
	if m.pointerY == m.height-1 {
		if button == tea.MouseButtonLeft {
			return m.switchOpenClose(true)
		}
		return nil
	}
	if target := m.viewAt(m.pointerX, m.pointerY); target != nil {
		return tea.Batch(m.pointerMoved(), target.MousePressed(m.pointerX, m.pointerY, button, m.now()))
	}
	if !m.rootUsable() {
		return nil
	}
	// A click beside the menus counts as the cascade losing focus.
	m.deactivatedAt = m.now()
	cmd := m.menusFadeOut("outside")
	m.rootSlot.Cancel()
	return cmd
}

func (m *Model) wheel(delta int) tea.Cmd {
	target := m.viewAt(m.pointerX, m.pointerY)
	if target == nil {
		return nil
	}
	scrolled, cmd := target.Scroll(delta)
	if !scrolled {
		return nil
	}
	m.relayout()
	return tea.Batch(cmd, m.pointerMoved())
}
