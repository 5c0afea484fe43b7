package state

import "github.com/atomicstack/tmux-popup-tree/internal/logging/events"

// OpenCloseState is the lifecycle of the whole cascade.
type OpenCloseState int

const (
	Default OpenCloseState = iota
	Opening
	Closing
)

func (s OpenCloseState) String() string {
	switch s {
	case Opening:
		return "opening"
	case Closing:
		return "closing"
	default:
		return "default"
	}
}

// Tree holds the cascade-wide state. The orchestrator owns it and hands out
// pointers to collaborators that need to query it.
type Tree struct {
	state  OpenCloseState
	active bool
}

// NewTree starts in Default with the terminal considered focused.
func NewTree() *Tree {
	return &Tree{active: true}
}

func (t *Tree) State() OpenCloseState { return t.state }

// Set moves to s and reports whether anything changed.
func (t *Tree) Set(s OpenCloseState) bool {
	if t.state == s {
		return false
	}
	events.Tree.State(t.state.String(), s.String())
	t.state = s
	return true
}

// Active reports whether the terminal currently has focus.
func (t *Tree) Active() bool { return t.active }

// SetActive records a focus change and reports whether it changed.
func (t *Tree) SetActive(active bool) bool {
	if t.active == active {
		return false
	}
	t.active = active
	events.Tree.Active(active)
	return true
}
