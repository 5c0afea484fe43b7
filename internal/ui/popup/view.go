// Package popup draws one menu level and turns pointer input over it into
// row events for the orchestrator.
//
// A View never changes the cascade on its own. It reports what happened to
// its Observer and animates its own opacity; everything else is decided by
// the caller.
package popup

import (
	"math"
	"time"

	"github.com/atomicstack/tmux-popup-tree/internal/layout"
	"github.com/atomicstack/tmux-popup-tree/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

// Visibility is where a view is in its show/hide cycle.
type Visibility int

const (
	Hidden Visibility = iota
	FadingIn
	Shown
	FadingOut
)

func (v Visibility) String() string {
	switch v {
	case FadingIn:
		return "fading-in"
	case Shown:
		return "shown"
	case FadingOut:
		return "fading-out"
	default:
		return "hidden"
	}
}

// TransparentOpacity is the opacity of a level shown while the terminal is
// not focused.
const TransparentOpacity = 0.5

// Observer receives the events of a view. Every callback runs inside Update
// and may return a command.
type Observer interface {
	RowEntered(v *View, e *state.Entry) tea.Cmd
	RowLeft(v *View, e *state.Entry) tea.Cmd
	RowPressed(v *View, e *state.Entry, button tea.MouseButton) tea.Cmd
	RowActivated(v *View, e *state.Entry) tea.Cmd
	SelectionChanged(v *View) tea.Cmd
	MouseEntered(v *View) tea.Cmd
	MouseLeft(v *View) tea.Cmd
	VisibilityChanged(v *View) tea.Cmd
}

// Ticker schedules msg after d.
type Ticker func(d time.Duration, msg tea.Msg) tea.Cmd

// Options tunes rendering and animation.
type Options struct {
	FadeStep    time.Duration
	FadeSteps   int
	MinWidth    int
	MaxWidth    int
	MaxRows     int
	DoubleClick time.Duration
	Tick        Ticker
}

// DefaultOptions returns the settings used when none are configured.
func DefaultOptions() Options {
	return Options{
		FadeStep:    16 * time.Millisecond,
		FadeSteps:   6,
		MinWidth:    16,
		MaxWidth:    48,
		MaxRows:     30,
		DoubleClick: 400 * time.Millisecond,
		Tick:        tick,
	}
}

func tick(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// FadeMsg advances the fade animation of a single view.
type FadeMsg struct {
	view *View
	gen  uint64
}

// View returns the view the tick belongs to.
func (m FadeMsg) View() *View { return m.view }

// View is the on-screen rendition of one level.
type View struct {
	level    *state.Level
	observer Observer
	opts     Options

	visibility Visibility
	opacity    float64
	target     float64
	fadeGen    uint64

	rect        layout.Rect
	visibleRows int

	pointerInside bool
	hoverRow      int
	lastPress     press
	disposed      bool
}

type press struct {
	entry *state.Entry
	at    time.Time
}

// New builds a hidden view for level.
func New(level *state.Level, observer Observer, opts Options) *View {
	if opts.Tick == nil {
		opts.Tick = tick
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = DefaultOptions().MaxRows
	}
	return &View{
		level:    level,
		observer: observer,
		opts:     opts,
		hoverRow: -1,
	}
}

func (v *View) Level() *state.Level { return v.level }

func (v *View) Depth() int {
	if v == nil || v.level == nil {
		return -1
	}
	return v.level.Depth
}

// SetRows replaces the rows shown by the view. The row under the pointer
// stays hovered if it is still listed.
func (v *View) SetRows(entries []*state.Entry) {
	hovered := v.HoveredEntry()
	v.level.UpdateItems(entries)
	v.hoverRow = v.level.IndexOf(hovered)
}

func (v *View) Visibility() Visibility { return v.visibility }

func (v *View) Opacity() float64 { return v.opacity }

// Visible reports whether any part of the view is on screen, including a
// fade-out still in progress.
func (v *View) Visible() bool {
	return v != nil && !v.disposed && v.visibility != Hidden
}

// Usable reports whether the view is shown or on its way in.
func (v *View) Usable() bool {
	return v.Visible() && v.visibility != FadingOut
}

func (v *View) Disposed() bool { return v.disposed }

// Dispose detaches the view. Later fade ticks and input are ignored.
func (v *View) Dispose() {
	v.disposed = true
	v.fadeGen++
	v.pointerInside = false
	v.hoverRow = -1
}

// ShowWithFade animates the view to full opacity.
func (v *View) ShowWithFade() tea.Cmd {
	return v.fadeTo(1)
}

// ShowTransparent animates the view to half opacity.
func (v *View) ShowTransparent() tea.Cmd {
	return v.fadeTo(TransparentOpacity)
}

// ShowWithFadeOrTransparent picks the target opacity from the focus state.
func (v *View) ShowWithFadeOrTransparent(active bool) tea.Cmd {
	if active {
		return v.ShowWithFade()
	}
	return v.ShowTransparent()
}

// HideWithFade animates the view out. VisibilityChanged fires once it is
// fully hidden.
func (v *View) HideWithFade() tea.Cmd {
	if v.visibility == Hidden {
		return nil
	}
	return v.fadeTo(0)
}

// HandleFade advances the animation for a tick produced by this view.
func (v *View) HandleFade(msg FadeMsg) tea.Cmd {
	if msg.view != v || msg.gen != v.fadeGen || v.disposed {
		return nil
	}
	step := 1 / float64(max(v.opts.FadeSteps, 1))
	switch {
	case v.opacity < v.target:
		v.opacity = min(v.opacity+step, v.target)
	case v.opacity > v.target:
		v.opacity = max(v.opacity-step, v.target)
	}
	if math.Abs(v.opacity-v.target) < step/2 {
		v.opacity = v.target
	}
	if v.opacity == v.target {
		return v.settle()
	}
	return v.opts.Tick(v.opts.FadeStep, FadeMsg{view: v, gen: v.fadeGen})
}

func (v *View) fadeTo(target float64) tea.Cmd {
	if v.disposed {
		return nil
	}
	if target > 0 && v.visibility == Shown && v.opacity == target {
		return nil
	}
	v.target = target
	v.fadeGen++
	var changed tea.Cmd
	if target > 0 {
		changed = v.setVisibility(FadingIn)
	} else {
		changed = v.setVisibility(FadingOut)
	}
	if v.opacity == target || v.opts.FadeSteps <= 0 {
		v.opacity = target
		return tea.Batch(changed, v.settle())
	}
	return tea.Batch(changed, v.opts.Tick(v.opts.FadeStep, FadeMsg{view: v, gen: v.fadeGen}))
}

func (v *View) settle() tea.Cmd {
	if v.target > 0 {
		return v.setVisibility(Shown)
	}
	v.pointerInside = false
	v.hoverRow = -1
	return v.setVisibility(Hidden)
}

func (v *View) setVisibility(s Visibility) tea.Cmd {
	if v.visibility == s {
		return nil
	}
	v.visibility = s
	if v.observer == nil {
		return nil
	}
	return v.observer.VisibilityChanged(v)
}

// SetRect records where the layout placed the view and how many rows fit.
func (v *View) SetRect(r layout.Rect) {
	v.rect = r
	v.visibleRows = max(r.Height-chromeRows(v.level), 1)
	if v.level.ViewportOffset > len(v.level.Items)-v.visibleRows {
		v.level.ViewportOffset = max(len(v.level.Items)-v.visibleRows, 0)
	}
}

// FollowCursor scrolls so the keyboard cursor is in view. It reports
// whether the viewport moved.
func (v *View) FollowCursor() bool {
	before := v.level.ViewportOffset
	v.level.EnsureCursorVisible(v.visibleRows)
	return v.level.ViewportOffset != before
}

func (v *View) Rect() layout.Rect { return v.rect }

// VisibleRows is the number of rows that fit in the placed rect.
func (v *View) VisibleRows() int { return v.visibleRows }

// RowOffset returns how far below the first row entry e is drawn, for
// aligning a child level with its trigger.
func (v *View) RowOffset(e *state.Entry) int {
	idx := v.level.IndexOf(e)
	if idx < 0 {
		return 0
	}
	return max(idx-v.level.ViewportOffset, 0)
}

// HoveredEntry returns the row under the pointer, if any.
func (v *View) HoveredEntry() *state.Entry {
	if !v.pointerInside {
		return nil
	}
	return v.level.At(v.hoverRow)
}

// PointerInside reports whether the pointer was last seen over the view.
func (v *View) PointerInside() bool { return v.pointerInside }
