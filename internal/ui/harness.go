package ui

import (
	"time"

	"github.com/atomicstack/tmux-popup-tree/internal/loader"
	tea "github.com/charmbracelet/bubbletea"
)

// Harness drives the UI model programmatically for integration tests. It
// runs returned commands inline, expands batches, and keeps scheduled
// messages on a virtual clock that only moves when Advance is called.
type Harness struct {
	model  *Model
	clock  time.Time
	timers []timer
	seq    int

	holdLoads bool
	held      []loader.DoneMsg
	quit      bool
}

type timer struct {
	at  time.Time
	seq int
	msg tea.Msg
}

// scheduled is what the harness's replacement for tea.Tick returns.
type scheduled struct {
	after time.Duration
	msg   tea.Msg
}

// NewHarness creates a harness for the provided model and takes over its
// clock.
func NewHarness(model *Model) *Harness {
	h := &Harness{model: model, clock: time.Unix(1_700_000_000, 0)}
	model.now = func() time.Time { return h.clock }
	model.after = func(d time.Duration, msg tea.Msg) tea.Cmd {
		return func() tea.Msg { return scheduled{after: d, msg: msg} }
	}
	return h
}

// Start runs Init.
func (h *Harness) Start() {
	h.processCmd(h.model.Init())
}

// Send routes a message through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			h.quit = true
		case scheduled:
			h.seq++
			h.timers = append(h.timers, timer{at: h.clock.Add(msg.after), seq: h.seq, msg: msg.msg})
		case loader.DoneMsg:
			if h.holdLoads {
				h.held = append(h.held, msg)
				continue
			}
			queue = append(queue, h.update(msg))
		default:
			queue = append(queue, h.update(msg))
		}
	}
}

func (h *Harness) update(msg tea.Msg) tea.Cmd {
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	return cmd
}

// Advance moves the clock forward by d, firing due timers in order.
func (h *Harness) Advance(d time.Duration) {
	deadline := h.clock.Add(d)
	for {
		idx := -1
		for i, t := range h.timers {
			if t.at.After(deadline) {
				continue
			}
			if idx < 0 || t.at.Before(h.timers[idx].at) || (t.at.Equal(h.timers[idx].at) && t.seq < h.timers[idx].seq) {
				idx = i
			}
		}
		if idx < 0 {
			break
		}
		t := h.timers[idx]
		h.timers = append(h.timers[:idx], h.timers[idx+1:]...)
		if t.at.After(h.clock) {
			h.clock = t.at
		}
		h.Send(t.msg)
	}
	h.clock = deadline
}

// HoldLoads keeps finished scans back until Release, so tests can act while
// a load is still in flight.
func (h *Harness) HoldLoads(hold bool) {
	h.holdLoads = hold
}

// Release delivers the held scan results in the order they finished.
func (h *Harness) Release() {
	held := h.held
	h.held = nil
	for _, msg := range held {
		h.Send(msg)
	}
}

// Held is the number of scan results waiting for Release.
func (h *Harness) Held() int { return len(h.held) }

// Quit reports whether the model asked the program to exit.
func (h *Harness) Quit() bool { return h.quit }

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
