package ui

import (
	"github.com/atomicstack/tmux-popup-tree/internal/loader"
	"github.com/atomicstack/tmux-popup-tree/internal/logging"
	"github.com/atomicstack/tmux-popup-tree/internal/logging/events"
	uistate "github.com/atomicstack/tmux-popup-tree/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

// closeSoonMsg fires the delayed close of a loaded child level.
type closeSoonMsg struct {
	entry *entry
	gen   uint64
}

type spinTickMsg struct {
	gen uint64
}

func (m *Model) handleLoadDoneMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(loader.DoneMsg)
	if !ok || done.Slot() == nil {
		return nil
	}
	if done.Slot() == m.rootSlot {
		return m.rootLoaded(done)
	}
	return m.childLoaded(done)
}

func (m *Model) rootLoaded(done loader.DoneMsg) tea.Cmd {
	deliver, cmd := m.rootSlot.Complete(done)
	if !deliver {
		return cmd
	}
	if done.Err != nil {
		return m.fail(done.Err)
	}
	if m.tree.State() == uistate.Closing {
		events.Load.Discard(done.Result.Path, "closing")
		return nil
	}
	lvl := uistate.BuildLevel(done.Result, nil)
	if lvl == nil {
		events.Load.Discard(done.Result.Path, "invalid")
		m.errMsg = "cannot read " + m.cfg.Root
		if m.tree.State() == uistate.Opening {
			m.tree.Set(uistate.Default)
		}
		return nil
	}
	if v := m.levels[0]; v != nil && v.Usable() && m.tree.State() == uistate.Default && v.Level().Path == lvl.Path {
		return m.refreshRoot(lvl)
	}
	m.keys.Reset()
	return m.installRoot(lvl)
}

func (m *Model) childLoaded(done loader.DoneMsg) tea.Cmd {
	slot := done.Slot()
	owner, ok := m.owners[slot]
	if !ok {
		events.Load.Discard(slot.Path(), "orphan")
		return nil
	}
	deliver, cmd := slot.Complete(done)
	if !deliver {
		return cmd
	}
	if done.Err != nil {
		return m.fail(done.Err)
	}
	if m.tree.State() == uistate.Closing || m.viewOf(owner.Level) == nil || !m.rootUsable() {
		events.Load.Discard(slot.Path(), "parent closed")
		return nil
	}
	lvl := uistate.BuildLevel(done.Result, owner)
	if lvl == nil {
		events.Load.Discard(slot.Path(), "invalid")
		return nil
	}
	lvl.Depth = owner.Depth() + 1
	return m.openSubMenu(lvl)
}

// checkOpenerStart selects e and, for a container whose child is not
// already showing, starts loading that child.
func (m *Model) checkOpenerStart(e *entry, kind uistate.Selection) tea.Cmd {
	if e == nil || e.Level == nil {
		return nil
	}
	if e.Selection != uistate.SelectionContextMenu {
		e.Level.Select(e, kind)
	}
	superseded := m.supersedeChild(e)
	d := e.Depth() + 1
	if !e.Expandable() || d >= m.cfg.MaxDepth || !m.rootUsable() {
		return superseded
	}
	e.DisarmCloseSoon()
	if m.childOpen(e) {
		return superseded
	}
	if e.Slot == nil {
		e.Slot = loader.NewSlot(e.Target, m.scan)
	}
	m.owners[e.Slot] = e
	return tea.Batch(superseded, e.Slot.Start(d), m.startSpinner())
}

// supersedeChild arms the delayed close of the child level opened by
// another row of e's level. A child whose close already went by, because
// the pointer was inside it at the time, is caught here once its parent
// moves on.
func (m *Model) supersedeChild(e *entry) tea.Cmd {
	d := e.Depth() + 1
	if d <= 0 || d >= len(m.levels) {
		return nil
	}
	v := m.levels[d]
	if v == nil || !v.Usable() {
		return nil
	}
	t := v.Level().Trigger
	if t == nil || t == e || t.Level != e.Level || !m.childOpen(t) {
		return nil
	}
	if t.Selection != uistate.SelectionContextMenu {
		t.Selection = uistate.SelectionHover
	}
	gen := t.ArmCloseSoon()
	events.Level.CloseSoon(d, v.Level().Path)
	return m.after(m.cfg.CloseDelay, closeSoonMsg{entry: t, gen: gen})
}

// checkOpenerStop reacts to e losing the pointer or keyboard. A load in
// flight is cancelled outright; a child that already opened only gets a
// delayed close, so quick travel across the cascade does not flicker.
func (m *Model) checkOpenerStop(e *entry) tea.Cmd {
	if e == nil || e.Level == nil {
		return nil
	}
	keepContext := e.Selection == uistate.SelectionContextMenu
	switch {
	case e.Loading():
		if !keepContext {
			e.Selection = uistate.SelectionNone
		}
		e.Slot.Cancel()
	case m.childOpen(e):
		if !keepContext {
			e.Selection = uistate.SelectionHover
		}
		gen := e.ArmCloseSoon()
		events.Level.CloseSoon(e.Child.Depth, e.Child.Path)
		return m.after(m.cfg.CloseDelay, closeSoonMsg{entry: e, gen: gen})
	default:
		if !keepContext {
			e.Selection = uistate.SelectionNone
		}
	}
	return nil
}

// handleCloseSoonMsg closes a trigger's child once another row of the same
// level has taken over. If the pointer went into the child, or left the
// cascade altogether, the child stays.
func (m *Model) handleCloseSoonMsg(msg tea.Msg) tea.Cmd {
	cs, ok := msg.(closeSoonMsg)
	if !ok {
		return nil
	}
	e := cs.entry
	if !e.CloseSoonDue(cs.gen) || !m.childOpen(e) {
		return nil
	}
	parent := m.viewOf(e.Level)
	if parent == nil {
		return nil
	}
	hovered := parent.HoveredEntry()
	pointerMoved := hovered != nil && hovered != e
	keyMoved := m.keys.InUse() && m.keys.Depth() == e.Depth() && m.keys.Selected() != e
	if !pointerMoved && !keyMoved {
		return nil
	}
	if e.Selection != uistate.SelectionContextMenu {
		e.Selection = uistate.SelectionNone
	}
	return m.closeFrom(e.Depth() + 1)
}

func (m *Model) anyLoading() bool {
	if m.rootSlot.Running() {
		return true
	}
	for slot := range m.owners {
		if slot.Running() {
			return true
		}
	}
	return false
}

// startSpinner animates the tray and loading rows while any scan runs.
func (m *Model) startSpinner() tea.Cmd {
	if m.spinActive || !m.anyLoading() {
		return nil
	}
	m.spinActive = true
	m.spinGen++
	return m.after(m.spin.FPS, spinTickMsg{gen: m.spinGen})
}

func (m *Model) handleSpinTickMsg(msg tea.Msg) tea.Cmd {
	st, ok := msg.(spinTickMsg)
	if !ok || st.gen != m.spinGen {
		return nil
	}
	if !m.anyLoading() {
		m.spinActive = false
		return nil
	}
	m.spinFrame = (m.spinFrame + 1) % len(m.spin.Frames)
	return m.after(m.spin.FPS, spinTickMsg{gen: m.spinGen})
}

func (m *Model) spinnerFrame() string {
	if !m.spinActive || len(m.spin.Frames) == 0 || !m.anyLoading() {
		return ""
	}
	return m.spin.Frames[m.spinFrame%len(m.spin.Frames)]
}

// fail records a programming error and stops the program.
func (m *Model) fail(err error) tea.Cmd {
	m.err = err
	m.errMsg = err.Error()
	logging.Error(err)
	return tea.Quit
}
