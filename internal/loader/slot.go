// Package loader runs directory scans off the Bubble Tea update loop.
//
// A Slot allows at most one scan in flight. Starting a slot that is already
// running only records that a restart is wanted; once the running scan
// reports back, the slot relaunches instead of delivering the stale result.
// All Slot methods must be called from Update.
package loader

import (
	"context"

	"github.com/atomicstack/tmux-popup-tree/internal/logging/events"
	"github.com/atomicstack/tmux-popup-tree/internal/scan"
	tea "github.com/charmbracelet/bubbletea"
)

// ScanFunc performs the scan for a slot. It runs on a worker goroutine.
type ScanFunc func(ctx context.Context, path string, depth int) (scan.Result, error)

// State is the lifecycle of a Slot.
type State int

const (
	Idle State = iota
	Running
	RestartPending
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case RestartPending:
		return "restart-pending"
	default:
		return "idle"
	}
}

// DoneMsg is posted back to Update when a worker finishes.
type DoneMsg struct {
	slot   *Slot
	gen    uint64
	Result scan.Result
	Err    error
}

// Slot returns the slot that launched the scan.
func (m DoneMsg) Slot() *Slot {
	return m.slot
}

// Slot owns the scan of a single path.
type Slot struct {
	path      string
	scan      ScanFunc
	state     State
	depth     int
	gen       uint64
	cancel    context.CancelFunc
	cancelled bool
}

// NewSlot creates an idle slot for path.
func NewSlot(path string, fn ScanFunc) *Slot {
	return &Slot{path: path, scan: fn}
}

func (s *Slot) Path() string { return s.path }

func (s *Slot) State() State { return s.state }

// Running reports whether a worker is still attached to the slot, including
// one that has been cancelled but has not reported back yet.
func (s *Slot) Running() bool { return s.state != Idle }

// Generation identifies the most recent launch.
func (s *Slot) Generation() uint64 { return s.gen }

// Start launches a scan at depth, or marks a restart when one is in flight.
// The returned command is nil when nothing new was launched.
func (s *Slot) Start(depth int) tea.Cmd {
	if s.state != Idle {
		s.state = RestartPending
		s.depth = depth
		events.Load.Restart(s.path, depth)
		return nil
	}
	return s.launch(depth)
}

// Cancel signals the running scan and forgets any pending restart. It never
// waits for the worker.
func (s *Slot) Cancel() {
	if s.state == Idle {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.cancelled = true
	s.state = Running
	events.Load.Cancel(s.path)
}

// Complete settles a finished scan. It reports whether msg should be handed
// to the caller; when a restart was pending it returns the relaunch command
// instead. Programming errors are always delivered.
func (s *Slot) Complete(msg DoneMsg) (bool, tea.Cmd) {
	if msg.slot != s || msg.gen != s.gen || s.state == Idle {
		events.Load.Discard(s.path, "stale")
		return false, nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if msg.Err != nil {
		s.state = Idle
		return true, nil
	}
	if s.state == RestartPending {
		return false, s.launch(s.depth)
	}
	s.state = Idle
	if s.cancelled || msg.Result.Cancelled {
		events.Load.Discard(s.path, "cancelled")
		return false, nil
	}
	events.Load.Deliver(s.path, msg.Result.Depth, msg.Result.Validity.String(), len(msg.Result.Entries))
	return true, nil
}

func (s *Slot) launch(depth int) tea.Cmd {
	s.gen++
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.cancelled = false
	s.state = Running
	s.depth = depth

	slot, gen, path, fn := s, s.gen, s.path, s.scan
	events.Load.Start(path, depth, gen)
	return func() tea.Msg {
		res, err := fn(ctx, path, depth)
		if ctx.Err() != nil {
			res.Cancelled = true
		}
		return DoneMsg{slot: slot, gen: gen, Result: res, Err: err}
	}
}
