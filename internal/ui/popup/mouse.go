package popup

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MouseMoved updates hover tracking for a pointer at screen cell (x, y).
// Leaving the previous row is always reported before entering the next one.
func (v *View) MouseMoved(x, y int) tea.Cmd {
	if !v.Usable() {
		return nil
	}
	if !v.rect.Contains(x, y) {
		return v.MouseExited()
	}
	var cmds []tea.Cmd
	if !v.pointerInside {
		v.pointerInside = true
		cmds = append(cmds, v.observer.MouseEntered(v))
	}
	cmds = append(cmds, v.hover(v.rowAt(y)))
	return tea.Batch(cmds...)
}

// MouseExited reports the pointer leaving the view.
func (v *View) MouseExited() tea.Cmd {
	if !v.pointerInside {
		return nil
	}
	cmds := []tea.Cmd{v.hover(-1)}
	v.pointerInside = false
	cmds = append(cmds, v.observer.MouseLeft(v))
	return tea.Batch(cmds...)
}

// MousePressed reports a click at screen cell (x, y). A second left click on
// the same row within the double-click window activates the row.
func (v *View) MousePressed(x, y int, button tea.MouseButton, at time.Time) tea.Cmd {
	if !v.Usable() || !v.rect.Contains(x, y) {
		return nil
	}
	e := v.level.At(v.rowAt(y))
	if !e.Selectable() {
		return nil
	}
	cmd := v.observer.RowPressed(v, e, button)
	if button != tea.MouseButtonLeft {
		v.lastPress = press{}
		return cmd
	}
	if v.lastPress.entry == e && at.Sub(v.lastPress.at) <= v.opts.DoubleClick {
		v.lastPress = press{}
		return tea.Batch(cmd, v.observer.RowActivated(v, e))
	}
	v.lastPress = press{entry: e, at: at}
	return cmd
}

// Scroll moves the viewport by delta rows. The hovered row is dropped because
// a different row now sits under the pointer; the caller re-sends the pointer
// position after relayout.
func (v *View) Scroll(delta int) (bool, tea.Cmd) {
	if !v.level.Scroll(delta, v.visibleRows) {
		return false, nil
	}
	return true, v.hover(-1)
}

func (v *View) hover(row int) tea.Cmd {
	if row >= 0 && !v.level.At(row).Selectable() {
		row = -1
	}
	if row == v.hoverRow {
		return nil
	}
	var cmds []tea.Cmd
	if prev := v.level.At(v.hoverRow); prev != nil {
		cmds = append(cmds, v.observer.RowLeft(v, prev))
	}
	v.hoverRow = row
	if next := v.level.At(row); next != nil {
		cmds = append(cmds, v.observer.RowEntered(v, next))
	}
	cmds = append(cmds, v.observer.SelectionChanged(v))
	return tea.Batch(cmds...)
}

// rowAt maps a screen row to a visible item index, or -1.
func (v *View) rowAt(y int) int {
	local := y - v.rect.Y - headerRows
	if local < 0 || local >= v.visibleRows {
		return -1
	}
	idx := v.level.ViewportOffset + local
	if idx >= len(v.level.Items) {
		return -1
	}
	return idx
}
