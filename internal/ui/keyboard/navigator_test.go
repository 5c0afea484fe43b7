package keyboard

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/atomicstack/tmux-popup-tree/internal/scan"
	"github.com/atomicstack/tmux-popup-tree/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeLevels []*state.Level

func (f fakeLevels) Level(depth int) *state.Level {
	if depth < 0 || depth >= len(f) {
		return nil
	}
	return f[depth]
}

func (f fakeLevels) PageSize(int) int { return 2 }

type recorder struct {
	events []string
}

func (r *recorder) RowSelected(depth int, e *state.Entry) tea.Cmd {
	r.events = append(r.events, fmt.Sprintf("select:%d:%s", depth, e.Name))
	return nil
}

func (r *recorder) RowDeselected(depth int, e *state.Entry) tea.Cmd {
	e.Selection = state.SelectionNone
	r.events = append(r.events, fmt.Sprintf("deselect:%d:%s", depth, e.Name))
	return nil
}

func (r *recorder) ClosePressed() tea.Cmd {
	r.events = append(r.events, "close")
	return nil
}

func (r *recorder) HotKeyPressed() tea.Cmd {
	r.events = append(r.events, "hotkey")
	return nil
}

func (r *recorder) Activate(depth int, e *state.Entry) tea.Cmd {
	r.events = append(r.events, fmt.Sprintf("activate:%d:%s", depth, e.Name))
	return nil
}

func entries(names ...string) []*state.Entry {
	out := make([]*state.Entry, len(names))
	for i, name := range names {
		out[i] = state.NewEntry(scan.Descriptor{Path: "/r/" + name, Name: name, IsContainer: name == "A"})
	}
	return out
}

// tree builds a root with rows A (a folder with one open child) and b, c.
func tree() fakeLevels {
	root := state.NewLevel(0, "/r", "r", nil, entries("A", "b", "c"))
	trigger := root.Items[0]
	child := state.NewLevel(1, "/r/A", "A", trigger, entries("x", "y"))
	trigger.Child = child
	return fakeLevels{root, child}
}

func newNavigator(levels fakeLevels) (*Navigator, *recorder) {
	rec := &recorder{}
	return New(DefaultKeyMap(""), levels, rec), rec
}

func press(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func TestArrowKeysMoveAndReportSelection(t *testing.T) {
	levels := tree()
	n, rec := newNavigator(levels)
	n.HandleKey(press(tea.KeyDown))
	if !n.InUse() || n.Selected() != levels[0].Items[0] {
		t.Fatalf("expected first row selected by keyboard")
	}
	n.HandleKey(press(tea.KeyDown))
	n.HandleKey(press(tea.KeyUp))
	want := []string{"select:0:A", "deselect:0:A", "select:0:b", "deselect:0:b", "select:0:A"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("unexpected events %v", rec.events)
	}
	if levels[0].Items[0].Selection != state.SelectionKeyboard {
		t.Fatalf("expected keyboard highlight on A")
	}
}

func TestOpenAndBackAcrossLevels(t *testing.T) {
	levels := tree()
	n, rec := newNavigator(levels)
	n.HandleKey(press(tea.KeyDown))
	n.HandleKey(press(tea.KeyRight))
	if n.Depth() != 1 || n.Selected().Name != "x" {
		t.Fatalf("expected to enter the child level, at %d", n.Depth())
	}
	if levels[0].Items[0].Selection != state.SelectionHover {
		t.Fatalf("expected trigger to stay highlighted as open")
	}
	rec.events = nil
	n.HandleKey(press(tea.KeyLeft))
	want := []string{"deselect:1:x", "select:0:A"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("unexpected events %v", rec.events)
	}
	if n.Depth() != 0 || levels[1].Cursor != -1 {
		t.Fatalf("expected to be back at the root")
	}
}

func TestOpenWithoutLoadedChildDoesNothing(t *testing.T) {
	levels := tree()
	levels[0].Items[0].Child = nil
	n, rec := newNavigator(levels)
	n.HandleKey(press(tea.KeyDown))
	rec.events = nil
	if handled, _ := n.HandleKey(press(tea.KeyRight)); !handled {
		t.Fatalf("expected key consumed")
	}
	if n.Depth() != 0 || len(rec.events) != 0 {
		t.Fatalf("expected no movement, events %v", rec.events)
	}
}

func TestEnterActivatesFiles(t *testing.T) {
	levels := tree()
	n, rec := newNavigator(levels)
	n.HandleKey(press(tea.KeyEnd))
	rec.events = nil
	n.HandleKey(press(tea.KeyEnter))
	if !reflect.DeepEqual(rec.events, []string{"activate:0:c"}) {
		t.Fatalf("unexpected events %v", rec.events)
	}
}

func TestCloseAndHotKey(t *testing.T) {
	n, rec := newNavigator(fakeLevels{})
	if handled, _ := n.HandleKey(press(tea.KeyEsc)); handled {
		t.Fatalf("expected escape ignored with nothing open")
	}
	if handled, _ := n.HandleKey(press(tea.KeyCtrlO)); !handled {
		t.Fatalf("expected hotkey handled while closed")
	}
	n, rec2 := newNavigator(tree())
	n.HandleKey(press(tea.KeyEsc))
	if !reflect.DeepEqual(rec.events, []string{"hotkey"}) || !reflect.DeepEqual(rec2.events, []string{"close"}) {
		t.Fatalf("unexpected events %v / %v", rec.events, rec2.events)
	}
}

func TestPointerSelectionSeedsKeyboardPosition(t *testing.T) {
	levels := tree()
	n, rec := newNavigator(levels)
	n.Select(0, levels[0].Items[1])
	if n.InUse() {
		t.Fatalf("pointer selection must not mark the keyboard in use")
	}
	n.HandleKey(press(tea.KeyDown))
	want := []string{"deselect:0:b", "select:0:c"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("unexpected events %v", rec.events)
	}
	n.Reset()
	if n.InUse() || n.Selected() != nil || levels[0].Items[2].Selection != state.SelectionNone {
		t.Fatalf("expected reset to clear the keyboard state")
	}
}

func TestSelectCursorAfterFilter(t *testing.T) {
	levels := tree()
	n, rec := newNavigator(levels)
	n.HandleKey(press(tea.KeyDown))
	rec.events = nil
	levels[0].SetFilter("c", 1)
	n.SelectCursor(0)
	want := []string{"deselect:0:A", "select:0:c"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("unexpected events %v", rec.events)
	}
}

func TestRunesAreNotConsumed(t *testing.T) {
	n, _ := newNavigator(tree())
	if handled, _ := n.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}); handled {
		t.Fatalf("expected letters left for the filter")
	}
}
