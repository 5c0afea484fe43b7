package ui

import (
	"slices"

	"github.com/atomicstack/tmux-popup-tree/internal/layout"
	"github.com/atomicstack/tmux-popup-tree/internal/logging/events"
	"github.com/atomicstack/tmux-popup-tree/internal/ui/popup"
	uistate "github.com/atomicstack/tmux-popup-tree/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) newView(lvl *uistate.Level) *popup.View {
	return popup.New(lvl, m.views, m.viewOpts)
}

func (m *Model) rootVisible() bool {
	return m.levels[0] != nil && m.levels[0].Visible()
}

func (m *Model) rootUsable() bool {
	return m.levels[0] != nil && m.levels[0].Usable()
}

// openViews returns the contiguous chain of levels from the root down.
func (m *Model) openViews() []*popup.View {
	var out []*popup.View
	for d := 0; d < m.cfg.MaxDepth; d++ {
		v := m.levels[d]
		if v == nil || !v.Visible() {
			break
		}
		out = append(out, v)
	}
	return out
}

func (m *Model) anyVisible() bool {
	for _, v := range m.levels {
		if v != nil && v.Visible() {
			return true
		}
	}
	for _, v := range m.fading {
		if v.Visible() {
			return true
		}
	}
	return false
}

func (m *Model) pointerOverLevel() bool {
	for _, v := range m.openViews() {
		if v.PointerInside() {
			return true
		}
	}
	return false
}

// viewAt returns the topmost usable level under the cell (x, y).
func (m *Model) viewAt(x, y int) *popup.View {
	views := m.openViews()
	for i := len(views) - 1; i >= 0; i-- {
		if v := views[i]; v.Usable() && v.Rect().Contains(x, y) {
			return v
		}
	}
	return nil
}

// viewOf returns the open view showing lvl.
func (m *Model) viewOf(lvl *uistate.Level) *popup.View {
	if lvl == nil || lvl.Depth < 0 || lvl.Depth >= len(m.levels) {
		return nil
	}
	if v := m.levels[lvl.Depth]; v != nil && v.Level() == lvl {
		return v
	}
	return nil
}

// childOpen reports whether e's child level is the one open below it.
func (m *Model) childOpen(e *entry) bool {
	if e == nil || e.Child == nil {
		return false
	}
	d := e.Depth() + 1
	if d <= 0 || d >= len(m.levels) {
		return false
	}
	v := m.levels[d]
	return v != nil && v.Level() == e.Child
}

// installRoot shows a new root level. Every deeper level belonged to the
// old root and is closed.
func (m *Model) installRoot(lvl *uistate.Level) tea.Cmd {
	var cmds []tea.Cmd
	cmds = append(cmds, m.closeFrom(1))
	if old := m.levels[0]; old != nil {
		m.levels[0] = nil
		m.forgetSlots(old.Level())
		m.dispose(old)
	}
	v := m.newView(lvl)
	m.levels[0] = v
	events.Level.Open(0, lvl.Path, len(lvl.Items))
	m.relayout()
	cmds = append(cmds, v.ShowWithFade())
	return tea.Batch(cmds...)
}

// refreshRoot swaps a fresh listing into the root view without fading it.
// Rows that survive keep their selection and open child; the chain below a
// row that disappeared is closed.
func (m *Model) refreshRoot(fresh *uistate.Level) tea.Cmd {
	v := m.levels[0]
	lvl := v.Level()
	cursor := lvl.At(lvl.Cursor)
	var last *entry
	if lvl.LastCursor >= 0 && lvl.LastCursor < len(lvl.Full) {
		last = lvl.Full[lvl.LastCursor]
	}
	merged, dropped := uistate.Reconcile(lvl.Full, fresh.Full)
	var cmds []tea.Cmd
	for _, e := range dropped {
		if m.childOpen(e) {
			cmds = append(cmds, m.closeFrom(1))
		}
		e.DisarmCloseSoon()
		if e.Slot != nil {
			e.Slot.Cancel()
			delete(m.owners, e.Slot)
		}
	}
	lvl.Validity = fresh.Validity
	v.SetRows(merged)
	lvl.Cursor = lvl.IndexOf(cursor)
	lvl.LastCursor = slices.Index(lvl.Full, last)
	events.Level.Refresh(0, lvl.Path, len(lvl.Items), len(dropped))
	m.relayout()
	return tea.Batch(cmds...)
}

// openSubMenu shows lvl below its trigger. Any level already open at that
// depth or deeper is closed first, so the chain stays contiguous.
func (m *Model) openSubMenu(lvl *uistate.Level) tea.Cmd {
	d := lvl.Depth
	trigger := lvl.Trigger
	var cmds []tea.Cmd
	if trigger != nil && trigger.Level != nil {
		trigger.Level.ClearSelection(trigger)
	}
	cmds = append(cmds, m.closeFrom(d))

	v := m.newView(lvl)
	m.levels[d] = v
	if trigger != nil {
		trigger.Child = lvl
		trigger.DisarmCloseSoon()
	}
	events.Level.Open(d, lvl.Path, len(lvl.Items))
	m.relayout()
	cmds = append(cmds, v.ShowWithFadeOrTransparent(m.tree.Active()))
	return tea.Batch(cmds...)
}

// closeFrom closes every level at depth d or deeper, deepest first.
func (m *Model) closeFrom(d int) tea.Cmd {
	var cmds []tea.Cmd
	for i := len(m.levels) - 1; i >= max(d, 0); i-- {
		if v := m.levels[i]; v != nil {
			cmds = append(cmds, m.closeView(v))
		}
	}
	return tea.Batch(cmds...)
}

// closeView takes v out of the arena, cancels the loads of its rows and
// fades it out. The view is disposed once it reports Hidden.
func (m *Model) closeView(v *popup.View) tea.Cmd {
	lvl := v.Level()
	if m.levels[lvl.Depth] == v {
		m.levels[lvl.Depth] = nil
	}
	if t := lvl.Trigger; t != nil && t.Child == lvl {
		t.Child = nil
		t.DisarmCloseSoon()
	}
	m.forgetSlots(lvl)
	events.Level.Close(lvl.Depth, lvl.Path)
	if !v.Visible() {
		m.dispose(v)
		return nil
	}
	m.fading = append(m.fading, v)
	return v.HideWithFade()
}

// forgetSlots cancels the loads of lvl's rows. Late results from them find
// no owner and are dropped.
func (m *Model) forgetSlots(lvl *uistate.Level) {
	for _, e := range lvl.Full {
		e.DisarmCloseSoon()
		if e.Slot == nil {
			continue
		}
		e.Slot.Cancel()
		delete(m.owners, e.Slot)
	}
}

func (m *Model) dispose(v *popup.View) {
	if v.Disposed() {
		return
	}
	v.Dispose()
	m.fading = slices.DeleteFunc(m.fading, func(f *popup.View) bool { return f == v })
	lvl := v.Level()
	if m.levels[lvl.Depth] == v {
		m.levels[lvl.Depth] = nil
	}
	events.Level.Dispose(lvl.Depth, lvl.Path)
}

// relayout places the open chain. It runs when a level opens or closes, on
// resize, on scroll and when a filter changes the rows.
func (m *Model) relayout() {
	views := m.openViews()
	screen := m.screen()
	if len(views) == 0 || screen.Width <= 0 || screen.Height <= 0 {
		return
	}
	boxes := make([]layout.Box, len(views))
	for i, v := range views {
		box := v.Measure(screen.Height)
		if i > 0 {
			box.TriggerRow = views[i-1].RowOffset(v.Level().Trigger)
		}
		boxes[i] = box
	}
	rects := layout.Place(layout.Anchor{X: 0, Bottom: screen.Height}, boxes, screen)
	positions := make([]map[string]int, len(views))
	for i, v := range views {
		v.SetRect(rects[i])
		r := rects[i]
		positions[i] = map[string]int{"depth": i, "x": r.X, "y": r.Y, "w": r.Width, "h": r.Height, "dir": int(r.Direction)}
	}
	events.Level.Layout(positions)
}
