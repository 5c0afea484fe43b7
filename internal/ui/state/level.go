package state

import (
	"path/filepath"

	"github.com/atomicstack/tmux-popup-tree/internal/scan"
)

// MaxDepth bounds how many levels can be open at once.
const MaxDepth = 25

// Level is one menu of the cascade: its rows, keyboard cursor, filter and
// viewport.
type Level struct {
	Depth          int
	Path           string
	Title          string
	Validity       scan.Validity
	Items          []*Entry
	Full           []*Entry
	Filter         string
	FilterCursor   int
	Cursor         int
	LastCursor     int
	ViewportOffset int
	Trigger        *Entry
}

// NewLevel constructs a Level holding entries. A level never has zero rows:
// an empty list is replaced by an "empty" placeholder.
func NewLevel(depth int, path, title string, trigger *Entry, entries []*Entry) *Level {
	l := &Level{
		Depth:      depth,
		Path:       path,
		Title:      title,
		Validity:   scan.Valid,
		Cursor:     -1,
		LastCursor: -1,
		Trigger:    trigger,
	}
	l.UpdateItems(entries)
	return l
}

// BuildLevel turns a delivered scan into a level. Invalid results yield nil.
func BuildLevel(res scan.Result, trigger *Entry) *Level {
	switch res.Validity {
	case scan.NoAccess:
		l := NewLevel(res.Depth, res.Path, levelTitle(res.Path, trigger), trigger, []*Entry{NewPlaceholder(PlaceholderNoAccess)})
		l.Validity = scan.NoAccess
		return l
	case scan.Valid:
		entries := make([]*Entry, 0, len(res.Entries))
		for _, d := range res.Entries {
			entries = append(entries, NewEntry(d))
		}
		return NewLevel(res.Depth, res.Path, levelTitle(res.Path, trigger), trigger, entries)
	default:
		return nil
	}
}

func levelTitle(path string, trigger *Entry) string {
	if trigger != nil && trigger.Name != "" {
		return trigger.Name
	}
	if base := filepath.Base(path); base != "." && base != string(filepath.Separator) {
		return base
	}
	return path
}

// UpdateItems replaces the rows while keeping the viewport where possible.
func (l *Level) UpdateItems(entries []*Entry) {
	prevOffset := l.ViewportOffset
	if len(entries) == 0 {
		entries = []*Entry{NewPlaceholder(PlaceholderEmpty)}
	}
	l.Full = CloneEntries(entries)
	for _, e := range l.Full {
		e.Level = l
	}
	l.applyFilter()
	if prevOffset < 0 || prevOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
		return
	}
	l.ViewportOffset = prevOffset
}

// IndexOf returns the visible row index of e, or -1.
func (l *Level) IndexOf(e *Entry) int {
	if l == nil || e == nil {
		return -1
	}
	for i, item := range l.Items {
		if item == e {
			return i
		}
	}
	return -1
}

// At returns the visible row at idx, or nil.
func (l *Level) At(idx int) *Entry {
	if l == nil || idx < 0 || idx >= len(l.Items) {
		return nil
	}
	return l.Items[idx]
}

// Placeholder reports whether the level only shows a placeholder row.
func (l *Level) Placeholder() bool {
	return len(l.Full) == 1 && l.Full[0].Placeholder != PlaceholderNone
}
