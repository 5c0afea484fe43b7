package state

import (
	"github.com/atomicstack/tmux-popup-tree/internal/loader"
	"github.com/atomicstack/tmux-popup-tree/internal/scan"
)

// Selection is the highlight state of a row.
type Selection int

const (
	SelectionNone Selection = iota
	SelectionHover
	SelectionKeyboard
	SelectionContextMenu
)

func (s Selection) String() string {
	switch s {
	case SelectionHover:
		return "hover"
	case SelectionKeyboard:
		return "keyboard"
	case SelectionContextMenu:
		return "context"
	default:
		return "none"
	}
}

// Placeholder marks the disabled row shown in place of a listing.
type Placeholder int

const (
	PlaceholderNone Placeholder = iota
	PlaceholderEmpty
	PlaceholderNoAccess
)

const (
	emptyLabel    = "(empty)"
	noAccessLabel = "(no access)"
)

// Entry is one row of a level. Child and Level are plain references into the
// orchestrator's level arena; the arena decides their lifetime.
type Entry struct {
	Path        string
	Name        string
	Target      string
	Icon        string
	IsContainer bool
	Hidden      bool
	Placeholder Placeholder
	Selection   Selection

	Level *Level
	Child *Level
	Slot  *loader.Slot

	closeGen uint64
}

// NewEntry builds a row from a scan descriptor.
func NewEntry(d scan.Descriptor) *Entry {
	target := d.Target
	if target == "" {
		target = d.Path
	}
	return &Entry{
		Path:        d.Path,
		Name:        d.Name,
		Target:      target,
		Icon:        d.Icon,
		IsContainer: d.IsContainer,
		Hidden:      d.Hidden,
	}
}

// NewPlaceholder builds the single disabled row of an empty or unreadable level.
func NewPlaceholder(kind Placeholder) *Entry {
	name := emptyLabel
	if kind == PlaceholderNoAccess {
		name = noAccessLabel
	}
	return &Entry{Name: name, Placeholder: kind}
}

// Label is the text shown for the row.
func (e *Entry) Label() string {
	if e == nil {
		return ""
	}
	return e.Name
}

// Selectable reports whether the row reacts to hover and keys.
func (e *Entry) Selectable() bool {
	return e != nil && e.Placeholder == PlaceholderNone
}

// Expandable reports whether the row can open a child level.
func (e *Entry) Expandable() bool {
	return e.Selectable() && e.IsContainer
}

// Selected reports whether the row is highlighted for any reason.
func (e *Entry) Selected() bool {
	return e != nil && e.Selection != SelectionNone
}

// Depth returns the depth of the level holding the row, or -1.
func (e *Entry) Depth() int {
	if e == nil || e.Level == nil {
		return -1
	}
	return e.Level.Depth
}

// Loading reports whether the row's slot has a scan in flight.
func (e *Entry) Loading() bool {
	return e != nil && e.Slot != nil && e.Slot.Running()
}

// ArmCloseSoon starts a new delayed-close generation and returns it.
func (e *Entry) ArmCloseSoon() uint64 {
	e.closeGen++
	return e.closeGen
}

// DisarmCloseSoon invalidates any pending delayed close.
func (e *Entry) DisarmCloseSoon() {
	e.closeGen++
}

// CloseSoonDue reports whether gen is still the armed generation.
func (e *Entry) CloseSoonDue(gen uint64) bool {
	return e != nil && e.closeGen == gen
}
