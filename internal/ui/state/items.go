package state

// CloneEntries produces a shallow copy of the row slice; the rows themselves
// are shared.
func CloneEntries(entries []*Entry) []*Entry {
	dup := make([]*Entry, len(entries))
	copy(dup, entries)
	return dup
}

// Reconcile merges a fresh listing into the rows already on screen. A row
// whose path, target and kind are unchanged keeps its identity, so its
// selection, open child and loader stay attached; only its display fields
// are refreshed. Rows missing from the fresh listing come back in dropped.
func Reconcile(current, fresh []*Entry) (merged, dropped []*Entry) {
	byPath := make(map[string]*Entry, len(current))
	for _, e := range current {
		if e.Selectable() {
			byPath[e.Path] = e
		}
	}
	kept := make(map[*Entry]bool, len(current))
	merged = make([]*Entry, 0, len(fresh))
	for _, f := range fresh {
		old, ok := byPath[f.Path]
		if !ok || !f.Selectable() || kept[old] || old.Target != f.Target || old.IsContainer != f.IsContainer {
			merged = append(merged, f)
			continue
		}
		old.Name, old.Icon, old.Hidden = f.Name, f.Icon, f.Hidden
		kept[old] = true
		merged = append(merged, old)
	}
	for _, e := range current {
		if !kept[e] {
			dropped = append(dropped, e)
		}
	}
	return merged, dropped
}
