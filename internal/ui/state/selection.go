package state

// ClearSelection drops the highlight from every row except keep. Rows with
// an open context menu keep their state.
func (l *Level) ClearSelection(keep *Entry) {
	for _, e := range l.Full {
		if e == keep || e.Selection == SelectionContextMenu {
			continue
		}
		e.Selection = SelectionNone
	}
}

// Select highlights e with the given selection kind.
func (l *Level) Select(e *Entry, kind Selection) {
	if e == nil || !e.Selectable() || e.Level != l {
		return
	}
	e.Selection = kind
}

// SelectedEntries returns the highlighted rows in display order.
func (l *Level) SelectedEntries() []*Entry {
	var out []*Entry
	for _, e := range l.Items {
		if e.Selected() {
			out = append(out, e)
		}
	}
	return out
}

// SelectedNames lists the names of highlighted rows, for tracing.
func (l *Level) SelectedNames() []string {
	selected := l.SelectedEntries()
	names := make([]string, len(selected))
	for i, e := range selected {
		names[i] = e.Name
	}
	return names
}
