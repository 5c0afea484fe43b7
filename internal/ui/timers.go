package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type leaveFiredMsg struct {
	gen uint64
}

// debouncer delays the reaction to the pointer leaving every level. Each
// start supersedes the previous one, and a timer fires at most once.
type debouncer struct {
	delay   time.Duration
	gen     uint64
	running bool
}

func (d *debouncer) start(after func(time.Duration, tea.Msg) tea.Cmd) tea.Cmd {
	d.gen++
	d.running = true
	return after(d.delay, leaveFiredMsg{gen: d.gen})
}

func (d *debouncer) stop() {
	if !d.running {
		return
	}
	d.gen++
	d.running = false
}

// fire reports whether msg belongs to the pending timer, and consumes it.
func (d *debouncer) fire(msg leaveFiredMsg) bool {
	if !d.running || msg.gen != d.gen {
		return false
	}
	d.running = false
	return true
}

type stillActiveMsg struct {
	gen uint64
}

// poller rechecks focus on an interval while the terminal is focused, to
// catch a focus loss the terminal never reported.
type poller struct {
	interval time.Duration
	gen      uint64
	running  bool
}

func (m *Model) startStillActive() tea.Cmd {
	p := &m.stillActive
	p.gen++
	p.running = true
	return m.after(p.interval, stillActiveMsg{gen: p.gen})
}

func (m *Model) handleStillActiveMsg(msg tea.Msg) tea.Cmd {
	sa, ok := msg.(stillActiveMsg)
	p := &m.stillActive
	if !ok || !p.running || sa.gen != p.gen {
		return nil
	}
	var cmd tea.Cmd
	if !m.leave.running {
		cmd = m.fadeHalfOrOutIfNeeded()
		if !m.tree.Active() {
			p.running = false
			return cmd
		}
	}
	return tea.Batch(cmd, m.after(p.interval, stillActiveMsg{gen: p.gen}))
}

func (m *Model) handleLeaveFiredMsg(msg tea.Msg) tea.Cmd {
	lf, ok := msg.(leaveFiredMsg)
	if !ok || !m.leave.fire(lf) {
		return nil
	}
	return m.fadeHalfOrOutIfNeeded()
}
