package command

import (
	"fmt"

	"github.com/atomicstack/tmux-popup-tree/internal/logging/events"
	"github.com/atomicstack/tmux-popup-tree/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

// Action performs a file action for a row and returns a status line.
type Action func(e *state.Entry) (string, error)

// Request encapsulates an action invocation.
type Request struct {
	ID      string
	Label   string
	Handler Action
	Entry   *state.Entry
	// Quit asks the program to exit once the action succeeded.
	Quit bool
}

// Result is posted back to Update when an action finishes.
type Result struct {
	ID    string
	Label string
	Entry *state.Entry
	Info  string
	Err   error
	Quit  bool
}

// Bus coordinates the execution of row actions.
type Bus struct{}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Execute wraps an action into a Bubble Tea command while emitting trace logs.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if req.Handler == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		if req.Entry == nil {
			events.Command.NoOp(req.ID, req.Label)
			return nil
		}
		info, err := req.Handler(req.Entry)
		msg := Result{ID: req.ID, Label: req.Label, Entry: req.Entry, Info: info, Err: err, Quit: req.Quit && err == nil}
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg))
		return msg
	}
}
