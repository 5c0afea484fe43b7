package popup

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/tmux-popup-tree/internal/layout"
	"github.com/atomicstack/tmux-popup-tree/internal/scan"
	"github.com/atomicstack/tmux-popup-tree/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type recorder struct {
	events []string
}

func (r *recorder) add(s string) tea.Cmd {
	r.events = append(r.events, s)
	return nil
}

func (r *recorder) RowEntered(_ *View, e *state.Entry) tea.Cmd { return r.add("enter:" + e.Name) }
func (r *recorder) RowLeft(_ *View, e *state.Entry) tea.Cmd    { return r.add("leave:" + e.Name) }
func (r *recorder) RowPressed(_ *View, e *state.Entry, b tea.MouseButton) tea.Cmd {
	return r.add("press:" + e.Name + ":" + buttonName(b))
}
func (r *recorder) RowActivated(_ *View, e *state.Entry) tea.Cmd { return r.add("activate:" + e.Name) }
func (r *recorder) SelectionChanged(*View) tea.Cmd              { return nil }
func (r *recorder) MouseEntered(*View) tea.Cmd                  { return r.add("mouse-enter") }
func (r *recorder) MouseLeft(*View) tea.Cmd                     { return r.add("mouse-leave") }
func (r *recorder) VisibilityChanged(v *View) tea.Cmd {
	return r.add("visibility:" + v.Visibility().String())
}

func buttonName(b tea.MouseButton) string {
	switch b {
	case tea.MouseButtonLeft:
		return "left"
	case tea.MouseButtonRight:
		return "right"
	case tea.MouseButtonMiddle:
		return "middle"
	default:
		return "other"
	}
}

func immediateTick(_ time.Duration, msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func newTestView(t *testing.T, steps int, names ...string) (*View, *recorder) {
	t.Helper()
	entries := make([]*state.Entry, len(names))
	for i, name := range names {
		entries[i] = state.NewEntry(scan.Descriptor{Path: "/t/" + name, Name: name})
	}
	lvl := state.NewLevel(0, "/t", "t", nil, entries)
	rec := &recorder{}
	opts := DefaultOptions()
	opts.FadeSteps = steps
	opts.Tick = immediateTick
	return New(lvl, rec, opts), rec
}

// drain runs cmd and every follow-up fade tick it produces.
func drain(v *View, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case FadeMsg:
			queue = append(queue, msg.View().HandleFade(msg))
		}
	}
}

func TestShowWithFadeAnimatesToShown(t *testing.T) {
	v, rec := newTestView(t, 4, "a")
	cmd := v.ShowWithFade()
	if v.Visibility() != FadingIn || !v.Usable() {
		t.Fatalf("expected fading in, got %s", v.Visibility())
	}
	drain(v, cmd)
	if v.Visibility() != Shown || v.Opacity() != 1 {
		t.Fatalf("expected shown at full opacity, got %s/%v", v.Visibility(), v.Opacity())
	}
	want := []string{"visibility:fading-in", "visibility:shown"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("unexpected events %v", rec.events)
	}
}

func TestHideWithFadeEndsHidden(t *testing.T) {
	v, rec := newTestView(t, 3, "a")
	drain(v, v.ShowWithFade())
	rec.events = nil
	cmd := v.HideWithFade()
	if !v.Visible() || v.Usable() {
		t.Fatalf("expected fading out to be visible but unusable")
	}
	drain(v, cmd)
	if v.Visible() || v.Opacity() != 0 {
		t.Fatalf("expected hidden, got %s/%v", v.Visibility(), v.Opacity())
	}
	want := []string{"visibility:fading-out", "visibility:hidden"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("unexpected events %v", rec.events)
	}
	if v.HideWithFade() != nil {
		t.Fatalf("expected hiding a hidden view to be a no-op")
	}
}

func TestSupersededFadeTickIsIgnored(t *testing.T) {
	v, _ := newTestView(t, 4, "a")
	cmd := v.ShowWithFade()
	stale, ok := cmd().(FadeMsg)
	if !ok {
		t.Fatalf("expected the first fade tick")
	}
	v.HideWithFade()
	before := v.Opacity()
	if v.HandleFade(stale) != nil || v.Opacity() != before {
		t.Fatalf("expected stale tick to be dropped")
	}
}

func TestZeroStepsSettlesImmediately(t *testing.T) {
	v, _ := newTestView(t, 0, "a")
	v.ShowWithFadeOrTransparent(false)
	if v.Visibility() != Shown || v.Opacity() != TransparentOpacity {
		t.Fatalf("expected transparent, got %s/%v", v.Visibility(), v.Opacity())
	}
	v.ShowWithFadeOrTransparent(true)
	if v.Opacity() != 1 {
		t.Fatalf("expected full opacity, got %v", v.Opacity())
	}
}

func TestDisposedViewIgnoresFades(t *testing.T) {
	v, _ := newTestView(t, 0, "a")
	v.Dispose()
	if v.ShowWithFade() != nil || v.Visible() {
		t.Fatalf("expected disposed view to stay hidden")
	}
}

func placed(t *testing.T, names ...string) (*View, *recorder) {
	t.Helper()
	v, rec := newTestView(t, 0, names...)
	v.ShowWithFade()
	v.SetRect(layout.Rect{X: 10, Y: 5, Width: 20, Height: len(names) + chromeRows(v.Level())})
	rec.events = nil
	return v, rec
}

func TestMouseTravelReportsLeaveBeforeEnter(t *testing.T) {
	v, rec := placed(t, "a", "b")
	rowY := v.Rect().Y + headerRows
	v.MouseMoved(12, rowY)
	v.MouseMoved(12, rowY+1)
	v.MouseMoved(50, rowY+1)
	want := []string{"mouse-enter", "enter:a", "leave:a", "enter:b", "leave:b", "mouse-leave"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("unexpected events %v", rec.events)
	}
	if v.HoveredEntry() != nil || v.PointerInside() {
		t.Fatalf("expected pointer tracking cleared")
	}
}

func TestPlaceholderRowIsNotHovered(t *testing.T) {
	v, rec := placed(t)
	v.MouseMoved(12, v.Rect().Y+headerRows)
	want := []string{"mouse-enter"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("unexpected events %v", rec.events)
	}
}

func TestDoubleClickActivatesRow(t *testing.T) {
	v, rec := placed(t, "a")
	y := v.Rect().Y + headerRows
	at := time.Unix(100, 0)
	v.MousePressed(12, y, tea.MouseButtonLeft, at)
	v.MousePressed(12, y, tea.MouseButtonLeft, at.Add(100*time.Millisecond))
	v.MousePressed(12, y, tea.MouseButtonLeft, at.Add(time.Second))
	want := []string{"press:a:left", "press:a:left", "activate:a", "press:a:left"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("unexpected events %v", rec.events)
	}
}

func TestScrollDropsHover(t *testing.T) {
	v, rec := newTestView(t, 0, "a", "b", "c", "d", "e")
	v.ShowWithFade()
	v.SetRect(layout.Rect{X: 0, Y: 0, Width: 20, Height: 2 + chromeRows(v.Level())})
	v.MouseMoved(2, headerRows)
	rec.events = nil
	changed, _ := v.Scroll(1)
	if !changed || v.Level().ViewportOffset != 1 {
		t.Fatalf("expected viewport to move, offset %d", v.Level().ViewportOffset)
	}
	if !reflect.DeepEqual(rec.events, []string{"leave:a"}) {
		t.Fatalf("unexpected events %v", rec.events)
	}
	if v.RowOffset(v.Level().Items[2]) != 1 {
		t.Fatalf("expected row offset relative to viewport")
	}
}

func TestMeasureAndRender(t *testing.T) {
	v, _ := placed(t, "short", strings.Repeat("x", 80))
	box := v.Measure(0)
	if box.Width != DefaultOptions().MaxWidth {
		t.Fatalf("expected width clamped to max, got %d", box.Width)
	}
	if box.Height != 2+chromeRows(v.Level()) {
		t.Fatalf("unexpected height %d", box.Height)
	}
	if v.Measure(3).Height != 3 {
		t.Fatalf("expected height capped")
	}
	out := v.Render("")
	if !strings.Contains(out, "short") {
		t.Fatalf("expected label in output:\n%s", out)
	}
	for i, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w != v.Rect().Width {
			t.Fatalf("line %d has width %d, want %d", i, w, v.Rect().Width)
		}
	}
}

func TestFollowCursorScrollsOnlyWhenNeeded(t *testing.T) {
	v, _ := newTestView(t, 0, "a", "b", "c", "d", "e")
	v.ShowWithFade()
	v.SetRect(layout.Rect{X: 0, Y: 0, Width: 20, Height: 2 + chromeRows(v.Level())})
	v.Level().Cursor = 1
	if v.FollowCursor() {
		t.Fatalf("cursor already visible, expected no scroll")
	}
	v.Level().Cursor = 4
	if !v.FollowCursor() || v.Level().ViewportOffset != 3 {
		t.Fatalf("expected viewport at 3, got %d", v.Level().ViewportOffset)
	}
	v.Scroll(-3)
	v.SetRect(v.Rect())
	if v.Level().ViewportOffset != 0 {
		t.Fatalf("expected layout to leave a scrolled viewport alone, got %d", v.Level().ViewportOffset)
	}
}

func TestShowingShownViewIsQuiet(t *testing.T) {
	v, rec := newTestView(t, 0, "a")
	v.ShowWithFade()
	rec.events = nil
	if v.ShowWithFade() != nil || len(rec.events) != 0 {
		t.Fatalf("expected no events when already shown, got %v", rec.events)
	}
}

func TestSetRowsKeepsHoveredRow(t *testing.T) {
	v, rec := placed(t, "a", "b")
	b := v.Level().Items[1]
	v.MouseMoved(12, v.Rect().Y+headerRows+1)
	rec.events = nil

	c := state.NewEntry(scan.Descriptor{Path: "/t/c", Name: "c"})
	v.SetRows([]*state.Entry{c, v.Level().Items[0], b})
	if v.HoveredEntry() != b || b.Level != v.Level() {
		t.Fatalf("expected b to stay hovered, got %+v", v.HoveredEntry())
	}
	if len(rec.events) != 0 {
		t.Fatalf("expected no row events from a refresh, got %v", rec.events)
	}

	v.SetRows([]*state.Entry{c})
	if v.HoveredEntry() != nil {
		t.Fatalf("expected hover dropped with the row")
	}
}
