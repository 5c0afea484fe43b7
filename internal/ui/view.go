package ui

import (
	"path/filepath"
	"strings"

	"github.com/atomicstack/tmux-popup-tree/internal/theme"
	"github.com/atomicstack/tmux-popup-tree/internal/ui/popup"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const trayIcon = "▤"

var styles = theme.Default()

// View draws the open levels over a blank canvas, with the tray line along
// the bottom edge.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	rows := m.canvasHeight()
	canvas := make([]string, rows)
	blank := strings.Repeat(" ", m.width)
	for i := range canvas {
		canvas[i] = blank
	}
	frame := m.spinnerFrame()
	for _, v := range m.fading {
		m.paint(canvas, v, frame)
	}
	for _, v := range m.openViews() {
		m.paint(canvas, v, frame)
	}
	canvas = append(canvas, m.renderTray())
	return strings.Join(canvas, "\n")
}

func (m *Model) paint(canvas []string, v *popup.View, frame string) {
	out := v.Render(frame)
	if out == "" {
		return
	}
	r := v.Rect()
	overlayAt(canvas, strings.Split(out, "\n"), m.width, r.X, r.Y, r.Width)
}

// overlayAt writes fgLines over bgLines with the top-left corner at (x, y),
// keeping the background to either side intact.
func overlayAt(bgLines []string, fgLines []string, w, x, y, fgW int) {
	if fgW <= 0 {
		return
	}
	x = max(x, 0)
	y = max(y, 0)
	fgW = min(fgW, w-x)
	if fgW <= 0 {
		return
	}
	for i := 0; i < len(fgLines) && y+i < len(bgLines); i++ {
		bgLine := bgLines[y+i]
		left := xansi.Cut(bgLine, 0, x)
		right := xansi.Cut(bgLine, x+fgW, w)

		fgLine := fgLines[i]
		if n := xansi.StringWidth(fgLine); n < fgW {
			fgLine += strings.Repeat(" ", fgW-n)
		} else if n > fgW {
			fgLine = xansi.Cut(fgLine, 0, fgW)
		}

		bgLines[y+i] = left + fgLine + right
	}
}

// renderTray draws the status line: the icon (or spinner while scanning),
// the root name, and the latest error or info message.
func (m *Model) renderTray() string {
	style := styles.Tray
	if m.rootVisible() {
		style = styles.TrayOpen
	}
	icon := trayIcon
	if frame := m.spinnerFrame(); frame != "" {
		icon = frame
	}
	name := filepath.Base(m.cfg.Root)
	if m.cfg.Root == "" {
		name = "no root"
	}
	left := style.Render(" " + icon + " " + name + " ")
	status := ""
	switch {
	case m.errMsg != "":
		status = styles.Error.Render(" " + m.errMsg)
	case m.infoMsg != "":
		status = styles.Info.Render(" " + m.infoMsg)
	}
	line := left + status
	w := lipgloss.Width(line)
	if w > m.width {
		return xansi.Truncate(line, m.width, "…")
	}
	return line + strings.Repeat(" ", m.width-w)
}
