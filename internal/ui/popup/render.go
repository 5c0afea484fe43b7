package popup

import (
	"fmt"
	"strings"

	"github.com/atomicstack/tmux-popup-tree/internal/layout"
	"github.com/atomicstack/tmux-popup-tree/internal/theme"
	"github.com/atomicstack/tmux-popup-tree/internal/ui/state"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	// headerRows is the top border plus the title line.
	headerRows = 2
	// rowChrome is the padding, icon, gap and marker around a label.
	rowChrome = 6
	borderCols = 2

	containerMarker = "›"
	filterPrompt    = "/"
)

func chromeRows(l *state.Level) int {
	rows := headerRows + 1
	if l != nil && l.Filter != "" {
		rows++
	}
	return rows
}

// Measure returns the size the view wants, with no more than maxHeight rows
// when maxHeight is positive.
func (v *View) Measure(maxHeight int) layout.Box {
	widest := lipgloss.Width(v.level.Title) + 2
	for _, e := range v.level.Full {
		widest = max(widest, lipgloss.Width(e.Label())+rowChrome)
	}
	if v.level.Filter != "" {
		widest = max(widest, lipgloss.Width(filterPrompt+v.level.Filter)+2)
	}
	width := widest + borderCols
	if v.opts.MaxWidth > 0 {
		width = min(width, v.opts.MaxWidth)
	}
	width = max(width, v.opts.MinWidth, rowChrome+borderCols+1)

	rows := max(min(len(v.level.Items), v.opts.MaxRows), 1)
	height := rows + chromeRows(v.level)
	if maxHeight > 0 {
		height = min(height, maxHeight)
	}
	return layout.Box{Width: width, Height: height}
}

// Render draws the view at its current opacity. spinner replaces the
// container marker of rows whose scan is in flight.
func (v *View) Render(spinner string) string {
	if !v.Visible() || v.rect.Width <= borderCols {
		return ""
	}
	styles := theme.Faded(v.opacity)
	inner := v.rect.Width - borderCols
	l := v.level

	lines := make([]string, 0, v.visibleRows+2)
	lines = append(lines, v.renderTitle(styles, inner))
	for i := 0; i < v.visibleRows; i++ {
		e := l.At(l.ViewportOffset + i)
		if e == nil {
			lines = append(lines, strings.Repeat(" ", inner))
			continue
		}
		lines = append(lines, renderRow(styles, e, inner, spinner))
	}
	if l.Filter != "" {
		text := truncate.StringWithTail(l.Filter, uint(max(inner-3, 1)), "…")
		line := " " + styles.FilterPrompt.Render(filterPrompt) + styles.Filter.Render(text)
		lines = append(lines, padRight(line, inner))
	}
	return styles.Border.Width(inner).Render(strings.Join(lines, "\n"))
}

func (v *View) renderTitle(styles *theme.Styles, inner int) string {
	l := v.level
	suffix := ""
	if len(l.Items) > v.visibleRows {
		suffix = fmt.Sprintf(" %d/%d", l.ViewportOffset+1, len(l.Items))
	}
	room := max(inner-2-lipgloss.Width(suffix), 1)
	title := truncate.StringWithTail(l.Title, uint(room), "…")
	line := " " + styles.Title.Render(title)
	if suffix != "" {
		gap := max(inner-1-lipgloss.Width(title)-lipgloss.Width(suffix), 0)
		line += strings.Repeat(" ", gap) + styles.ScrollMarker.Render(suffix)
	}
	return padRight(line, inner)
}

func renderRow(styles *theme.Styles, e *state.Entry, inner int, spinner string) string {
	icon := e.Icon
	if icon == "" {
		icon = " "
	}
	marker := " "
	switch {
	case e.Loading() && spinner != "":
		marker = spinner
	case e.Expandable():
		marker = containerMarker
	}
	avail := max(inner-rowChrome, 1)
	label := truncate.StringWithTail(e.Label(), uint(avail), "…")
	fill := strings.Repeat(" ", max(avail-lipgloss.Width(label), 0))
	text := " " + icon + " " + label + fill + " " + marker + " "
	return rowStyle(styles, e).Render(text)
}

func rowStyle(styles *theme.Styles, e *state.Entry) *lipgloss.Style {
	switch {
	case e.Placeholder != state.PlaceholderNone:
		return styles.Placeholder
	case e.Selection == state.SelectionKeyboard:
		return styles.KeyboardItem
	case e.Selection == state.SelectionContextMenu:
		return styles.ContextItem
	case e.Selection == state.SelectionHover:
		return styles.HoverItem
	case e.Hidden:
		return styles.Placeholder
	case e.IsContainer:
		return styles.Container
	default:
		return styles.Item
	}
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
