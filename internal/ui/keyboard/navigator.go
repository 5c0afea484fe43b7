// Package keyboard moves a row selection through the open levels with the
// arrow keys, independently of the pointer.
package keyboard

import (
	"github.com/atomicstack/tmux-popup-tree/internal/logging/events"
	"github.com/atomicstack/tmux-popup-tree/internal/ui/state"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Levels gives the navigator read access to the usable levels.
type Levels interface {
	// Level returns the usable level at depth, or nil.
	Level(depth int) *state.Level
	// PageSize is the number of rows visible at depth.
	PageSize(depth int) int
}

// Observer receives the navigator's events.
type Observer interface {
	RowSelected(depth int, e *state.Entry) tea.Cmd
	RowDeselected(depth int, e *state.Entry) tea.Cmd
	ClosePressed() tea.Cmd
	HotKeyPressed() tea.Cmd
	Activate(depth int, e *state.Entry) tea.Cmd
}

// Navigator tracks the keyboard position as a depth plus that level's
// cursor.
type Navigator struct {
	keys     KeyMap
	levels   Levels
	observer Observer
	depth    int
	inUse    bool
}

func New(keys KeyMap, levels Levels, observer Observer) *Navigator {
	return &Navigator{keys: keys, levels: levels, observer: observer}
}

func (n *Navigator) Keys() KeyMap { return n.keys }

// InUse reports whether the last selection came from the keyboard.
func (n *Navigator) InUse() bool { return n.inUse }

func (n *Navigator) SetInUse(inUse bool) { n.inUse = inUse }

func (n *Navigator) Depth() int { return n.depth }

// Selected returns the row under the keyboard cursor.
func (n *Navigator) Selected() *state.Entry {
	lvl := n.levels.Level(n.depth)
	if lvl == nil {
		return nil
	}
	return lvl.At(lvl.Cursor)
}

// Select moves the keyboard position onto a row the pointer picked, so the
// next arrow key continues from there.
func (n *Navigator) Select(depth int, e *state.Entry) {
	lvl := n.levels.Level(depth)
	if lvl == nil {
		return
	}
	n.depth = depth
	lvl.Cursor = lvl.IndexOf(e)
}

// ClearSelection drops the keyboard highlight from the current row.
func (n *Navigator) ClearSelection() {
	if e := n.Selected(); e != nil && e.Selection == state.SelectionKeyboard {
		e.Selection = state.SelectionNone
	}
}

// Reset returns to the root with nothing selected.
func (n *Navigator) Reset() {
	n.ClearSelection()
	if lvl := n.levels.Level(n.depth); lvl != nil {
		lvl.Cursor = -1
	}
	n.depth = 0
	n.inUse = false
}

// HandleKey applies msg and reports whether it was consumed.
func (n *Navigator) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if key.Matches(msg, n.keys.HotKey) {
		return true, n.observer.HotKeyPressed()
	}
	if n.levels.Level(0) == nil {
		return false, nil
	}
	for n.depth > 0 && n.levels.Level(n.depth) == nil {
		n.depth--
	}
	switch {
	case key.Matches(msg, n.keys.Close):
		return true, n.observer.ClosePressed()
	case key.Matches(msg, n.keys.Up):
		return true, n.step(func(l *state.Level) bool { return l.MoveCursor(-1) })
	case key.Matches(msg, n.keys.Down):
		return true, n.step(func(l *state.Level) bool { return l.MoveCursor(1) })
	case key.Matches(msg, n.keys.Home):
		return true, n.step(func(l *state.Level) bool { return l.MoveCursorHome() })
	case key.Matches(msg, n.keys.End):
		return true, n.step(func(l *state.Level) bool { return l.MoveCursorEnd() })
	case key.Matches(msg, n.keys.PageUp):
		size := n.levels.PageSize(n.depth)
		return true, n.step(func(l *state.Level) bool { return l.MoveCursorPage(-1, size) })
	case key.Matches(msg, n.keys.PageDown):
		size := n.levels.PageSize(n.depth)
		return true, n.step(func(l *state.Level) bool { return l.MoveCursorPage(1, size) })
	case key.Matches(msg, n.keys.Open):
		return true, n.enter()
	case key.Matches(msg, n.keys.Activate):
		e := n.Selected()
		if e == nil {
			return true, nil
		}
		if e.Expandable() {
			return true, n.enter()
		}
		return true, n.observer.Activate(n.depth, e)
	case key.Matches(msg, n.keys.Back):
		return true, n.back()
	}
	return false, nil
}

// SelectCursor turns the cursor row of depth into the keyboard selection,
// deselecting any other keyboard row on that level first. It is used after
// the filter moved the cursor.
func (n *Navigator) SelectCursor(depth int) tea.Cmd {
	lvl := n.levels.Level(depth)
	if lvl == nil {
		return nil
	}
	next := lvl.At(lvl.Cursor)
	var cmds []tea.Cmd
	for _, e := range lvl.Full {
		if e != next && e.Selection == state.SelectionKeyboard {
			cmds = append(cmds, n.observer.RowDeselected(depth, e))
		}
	}
	if next == nil {
		return tea.Batch(cmds...)
	}
	n.depth = depth
	n.inUse = true
	lvl.Select(next, state.SelectionKeyboard)
	events.UI.KeyCursor(depth, lvl.Cursor)
	cmds = append(cmds, n.observer.RowSelected(depth, next))
	return tea.Batch(cmds...)
}

func (n *Navigator) step(move func(*state.Level) bool) tea.Cmd {
	lvl := n.levels.Level(n.depth)
	if lvl == nil {
		return nil
	}
	prev := lvl.At(lvl.Cursor)
	if !move(lvl) {
		return nil
	}
	next := lvl.At(lvl.Cursor)
	n.inUse = true
	var cmds []tea.Cmd
	if prev != nil && prev != next {
		cmds = append(cmds, n.observer.RowDeselected(n.depth, prev))
	}
	lvl.Select(next, state.SelectionKeyboard)
	events.UI.KeyCursor(n.depth, lvl.Cursor)
	cmds = append(cmds, n.observer.RowSelected(n.depth, next))
	return tea.Batch(cmds...)
}

func (n *Navigator) enter() tea.Cmd {
	parent := n.levels.Level(n.depth)
	e := n.Selected()
	if parent == nil || e == nil || e.Child == nil {
		return nil
	}
	child := n.levels.Level(n.depth + 1)
	if child == nil || child != e.Child {
		return nil
	}
	child.Cursor = -1
	if !child.MoveCursorHome() {
		return nil
	}
	if e.Selection == state.SelectionKeyboard {
		parent.Select(e, state.SelectionHover)
	}
	n.depth++
	n.inUse = true
	next := child.At(child.Cursor)
	child.Select(next, state.SelectionKeyboard)
	events.UI.KeyCursor(n.depth, child.Cursor)
	return n.observer.RowSelected(n.depth, next)
}

func (n *Navigator) back() tea.Cmd {
	if n.depth == 0 {
		return nil
	}
	lvl := n.levels.Level(n.depth)
	parent := n.levels.Level(n.depth - 1)
	if lvl == nil || parent == nil {
		n.depth = 0
		return nil
	}
	var cmds []tea.Cmd
	if cur := lvl.At(lvl.Cursor); cur != nil {
		cmds = append(cmds, n.observer.RowDeselected(n.depth, cur))
	}
	lvl.Cursor = -1
	n.depth--
	n.inUse = true
	trigger := lvl.Trigger
	parent.Cursor = parent.IndexOf(trigger)
	if parent.Cursor >= 0 {
		parent.Select(trigger, state.SelectionKeyboard)
		events.UI.KeyCursor(n.depth, parent.Cursor)
		cmds = append(cmds, n.observer.RowSelected(n.depth, trigger))
	}
	return tea.Batch(cmds...)
}
