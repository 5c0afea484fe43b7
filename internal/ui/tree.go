package ui

import (
	"time"

	"github.com/atomicstack/tmux-popup-tree/internal/logging/events"
	"github.com/atomicstack/tmux-popup-tree/internal/ui/popup"
	uistate "github.com/atomicstack/tmux-popup-tree/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

// switchOpenClose toggles the whole cascade. byClick marks a click on the
// tray line, which is ignored right after a focus loss closed the menus: it
// is the click that caused the focus loss.
func (m *Model) switchOpenClose(byClick bool) tea.Cmd {
	defer func() { m.deactivatedAt = time.Time{} }()
	events.Tree.Toggle(byClick, m.tree.State().String())

	if byClick && !m.deactivatedAt.IsZero() {
		if since := m.now().Sub(m.deactivatedAt); since < m.cfg.DeactivationSwallow {
			events.Tree.Swallowed(since.Milliseconds())
			return nil
		}
	}
	if m.cfg.Root == "" {
		return nil
	}
	if m.tree.State() == uistate.Opening || (m.rootVisible() && m.tree.State() == uistate.Default) {
		cmd := m.menusFadeOut("toggle")
		m.rootSlot.Cancel()
		m.settleClosed()
		return cmd
	}
	m.tree.Set(uistate.Opening)
	m.errMsg, m.infoMsg = "", ""
	return tea.Batch(m.rootSlot.Start(0), m.startSpinner())
}

// menusFadeOut closes every level with a fade. Levels below the root give
// up their slot in the arena at once; the root keeps drawing until hidden.
func (m *Model) menusFadeOut(reason string) tea.Cmd {
	events.Tree.FadeOut(reason)
	m.tree.Set(uistate.Closing)
	m.leave.stop()
	m.keys.Reset()
	var cmds []tea.Cmd
	for d := len(m.levels) - 1; d >= 0; d-- {
		if v := m.levels[d]; v != nil {
			cmds = append(cmds, m.closeView(v))
		}
	}
	m.settleClosed()
	return tea.Batch(cmds...)
}

// settleClosed ends Closing once nothing is left on screen.
func (m *Model) settleClosed() {
	if m.tree.State() == uistate.Closing && !m.anyVisible() {
		m.tree.Set(uistate.Default)
	}
}

// fadeInIfNeeded brings every level back to full strength after keyboard
// use while they were transparent.
func (m *Model) fadeInIfNeeded() tea.Cmd {
	if !m.rootUsable() {
		return nil
	}
	return m.showAll(func(v *popup.View) tea.Cmd { return v.ShowWithFadeOrTransparent(m.tree.Active()) })
}

// fadeHalfOrOutIfNeeded reacts to the terminal losing focus. With the
// pointer still over a level the cascade turns transparent, otherwise it
// closes.
func (m *Model) fadeHalfOrOutIfNeeded() tea.Cmd {
	if !m.rootUsable() || m.tree.Active() {
		return nil
	}
	if m.pointerOverLevel() && !m.keys.InUse() {
		events.Tree.Transparent(len(m.openViews()))
		return m.showAll(func(v *popup.View) tea.Cmd { return v.ShowTransparent() })
	}
	return m.menusFadeOut("inactive")
}

func (m *Model) showAll(show func(*popup.View) tea.Cmd) tea.Cmd {
	var cmds []tea.Cmd
	for _, v := range m.openViews() {
		if v.Usable() {
			cmds = append(cmds, show(v))
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleFocusMsg(tea.Msg) tea.Cmd {
	m.tree.SetActive(true)
	var cmds []tea.Cmd
	if m.rootUsable() {
		cmds = append(cmds, m.showAll(func(v *popup.View) tea.Cmd { return v.ShowWithFadeOrTransparent(true) }))
	}
	cmds = append(cmds, m.startStillActive())
	return tea.Batch(cmds...)
}

func (m *Model) handleBlurMsg(tea.Msg) tea.Cmd {
	m.tree.SetActive(false)
	cmd := m.fadeHalfOrOutIfNeeded()
	m.deactivatedAt = m.now()
	return cmd
}
