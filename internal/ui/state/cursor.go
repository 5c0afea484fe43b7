package state

// MoveCursor steps the keyboard cursor by delta over selectable rows,
// wrapping at either end. It reports whether the cursor moved.
func (l *Level) MoveCursor(delta int) bool {
	n := len(l.Items)
	if n == 0 || delta == 0 {
		return false
	}
	old := l.Cursor
	idx := l.Cursor
	if idx < 0 || idx >= n {
		if delta > 0 {
			idx = -1
		} else {
			idx = n
		}
	}
	step := 1
	if delta < 0 {
		step = -1
	}
	for i := 0; i < n; i++ {
		idx = (idx + step + n) % n
		if l.Items[idx].Selectable() {
			l.Cursor = idx
			return l.Cursor != old
		}
	}
	return false
}

// MoveCursorHome moves the cursor to the first selectable row.
func (l *Level) MoveCursorHome() bool {
	old := l.Cursor
	l.Cursor = -1
	if !l.MoveCursor(1) {
		l.Cursor = old
		return false
	}
	return l.Cursor != old
}

// MoveCursorEnd moves the cursor to the last selectable row.
func (l *Level) MoveCursorEnd() bool {
	old := l.Cursor
	l.Cursor = len(l.Items)
	if !l.MoveCursor(-1) {
		l.Cursor = old
		return false
	}
	return l.Cursor != old
}

// MoveCursorPage moves the cursor by whole pages without wrapping.
func (l *Level) MoveCursorPage(pages, maxVisible int) bool {
	n := len(l.Items)
	if n == 0 || pages == 0 {
		return false
	}
	size := maxVisible
	if size <= 0 || size > n {
		size = n
	}
	old := l.Cursor
	target := l.Cursor
	if target < 0 {
		target = 0
	}
	target = clampIndex(target+pages*size, n)
	l.Cursor = target
	if !l.Items[target].Selectable() {
		if pages > 0 {
			l.MoveCursor(-1)
		} else {
			l.MoveCursor(1)
		}
	}
	return l.Cursor != old
}

// Scroll shifts the viewport by delta rows without moving the cursor.
func (l *Level) Scroll(delta, maxVisible int) bool {
	if maxVisible <= 0 || len(l.Items) <= maxVisible {
		return false
	}
	old := l.ViewportOffset
	l.ViewportOffset = clampIndex(l.ViewportOffset+delta, len(l.Items)-maxVisible+1)
	return l.ViewportOffset != old
}

// EnsureCursorVisible adjusts the viewport offset so the cursor stays visible.
func (l *Level) EnsureCursorVisible(maxVisible int) {
	n := len(l.Items)
	if n == 0 || maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	maxOffset := n - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if l.ViewportOffset > maxOffset {
		l.ViewportOffset = maxOffset
	}
	if l.ViewportOffset < 0 {
		l.ViewportOffset = 0
	}
	if l.Cursor < 0 || l.Cursor >= n {
		return
	}
	if l.Cursor < l.ViewportOffset {
		l.ViewportOffset = l.Cursor
	}
	if upper := l.ViewportOffset + maxVisible - 1; l.Cursor > upper {
		l.ViewportOffset = l.Cursor - maxVisible + 1
	}
}

func clampIndex(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
