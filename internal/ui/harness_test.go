package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/tmux-popup-tree/internal/logging"
	"github.com/atomicstack/tmux-popup-tree/internal/scan"
	uistate "github.com/atomicstack/tmux-popup-tree/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

// fakeFS answers scans from a map of directory listings. A trailing slash
// marks a child directory.
type fakeFS struct {
	dirs     map[string][]string
	noAccess map[string]bool
	errs     map[string]error
	calls    []string
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		dirs: map[string][]string{
			"/r":      {"A/", "B/", "locked/", "c.txt"},
			"/r/A":    {"A1/", "a.txt"},
			"/r/B":    {},
			"/r/A/A1": {"deep.txt"},
		},
		noAccess: map[string]bool{"/r/locked": true},
		errs:     map[string]error{},
	}
}

func (f *fakeFS) scan(ctx context.Context, path string, depth int) (scan.Result, error) {
	f.calls = append(f.calls, path)
	if err, ok := f.errs[path]; ok {
		return scan.Result{}, err
	}
	res := scan.Result{Path: path, Depth: depth}
	if ctx.Err() != nil {
		res.Cancelled = true
		return res, nil
	}
	if f.noAccess[path] {
		res.Validity = scan.NoAccess
		return res, nil
	}
	names, ok := f.dirs[path]
	if !ok {
		return res, nil
	}
	res.Validity = scan.Valid
	for _, name := range names {
		dir := strings.HasSuffix(name, "/")
		name = strings.TrimSuffix(name, "/")
		child := filepath.Join(path, name)
		res.Entries = append(res.Entries, scan.Descriptor{
			Path:        child,
			Name:        name,
			Target:      child,
			IsContainer: dir,
		})
	}
	return res, nil
}

func (f *fakeFS) scanned(path string) int {
	n := 0
	for _, c := range f.calls {
		if c == path {
			n++
		}
	}
	return n
}

// actionLog stands in for the tmux and clipboard actions.
type actionLog struct {
	opened  []string
	copied  []string
	openErr error
	copyErr error
}

func (a *actionLog) open(e *entry) (string, error) {
	if a.openErr != nil {
		return "", a.openErr
	}
	a.opened = append(a.opened, e.Path)
	return "Opened " + e.Name, nil
}

func (a *actionLog) copy(e *entry) (string, error) {
	if a.copyErr != nil {
		return "", a.copyErr
	}
	a.copied = append(a.copied, e.Path)
	return "Copied " + e.Path, nil
}

func quietLogs(t *testing.T) {
	t.Helper()
	logging.Configure(filepath.Join(t.TempDir(), "test.log"))
	t.Cleanup(func() { logging.Configure("") })
}

type fixture struct {
	h       *Harness
	fs      *fakeFS
	actions *actionLog
}

func newFixture(t *testing.T, tweak func(*Config)) *fixture {
	t.Helper()
	quietLogs(t)
	cfg := Config{Root: "/r", Width: 100, Height: 30, FadeSteps: 0}
	if tweak != nil {
		tweak(&cfg)
	}
	fs := newFakeFS()
	model := NewModel(cfg, fs.scan, nil)
	log := &actionLog{}
	model.actions = actions{open: log.open, copy: log.copy}
	return &fixture{h: NewHarness(model), fs: fs, actions: log}
}

// started returns a fixture whose root level is already open.
func started(t *testing.T, tweak func(*Config)) *fixture {
	t.Helper()
	f := newFixture(t, tweak)
	f.h.Start()
	if !f.model().rootUsable() {
		t.Fatalf("expected root level to open on start")
	}
	return f
}

func (f *fixture) model() *Model { return f.h.Model() }

func (f *fixture) level(depth int) *uistate.Level {
	v := f.model().levels[depth]
	if v == nil || !v.Visible() {
		return nil
	}
	return v.Level()
}

func (f *fixture) entry(t *testing.T, depth int, name string) *entry {
	t.Helper()
	lvl := f.level(depth)
	if lvl == nil {
		t.Fatalf("no level open at depth %d", depth)
	}
	for _, e := range lvl.Full {
		if e.Name == name {
			return e
		}
	}
	t.Fatalf("no row %q at depth %d", name, depth)
	return nil
}

// rowPos returns a screen cell inside the row called name at depth.
func (f *fixture) rowPos(t *testing.T, depth int, name string) (int, int) {
	t.Helper()
	e := f.entry(t, depth, name)
	v := f.model().levels[depth]
	idx := v.Level().IndexOf(e)
	if idx < 0 {
		t.Fatalf("row %q at depth %d is filtered out", name, depth)
	}
	r := v.Rect()
	return r.X + 1, r.Y + 2 + idx - v.Level().ViewportOffset
}

func (f *fixture) moveTo(x, y int) {
	f.h.Send(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
}

func (f *fixture) hover(t *testing.T, depth int, name string) {
	t.Helper()
	x, y := f.rowPos(t, depth, name)
	f.moveTo(x, y)
}

// moveAway parks the pointer on an empty part of the canvas.
func (f *fixture) moveAway() {
	f.moveTo(f.model().width-1, 0)
}

func (f *fixture) press(x, y int, button tea.MouseButton) {
	f.h.Send(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: button})
}

func (f *fixture) click(t *testing.T, depth int, name string, button tea.MouseButton) {
	t.Helper()
	x, y := f.rowPos(t, depth, name)
	f.press(x, y, button)
}

func (f *fixture) clickTray() {
	f.press(1, f.model().height-1, tea.MouseButtonLeft)
}

func (f *fixture) key(k tea.KeyType) {
	f.h.Send(tea.KeyMsg{Type: k})
}

func (f *fixture) typeText(s string) {
	for _, r := range s {
		f.h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// openPaths lists the paths of the open chain, root first.
func (f *fixture) openPaths() []string {
	var out []string
	for _, v := range f.model().openViews() {
		out = append(out, v.Level().Path)
	}
	return out
}

func (f *fixture) expectOpen(t *testing.T, want ...string) {
	t.Helper()
	got := f.openPaths()
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("expected open levels %v, got %v", want, got)
	}
}

func (f *fixture) pendingTimers(match func(tea.Msg) bool) int {
	n := 0
	for _, tm := range f.h.timers {
		if match(tm.msg) {
			n++
		}
	}
	return n
}
