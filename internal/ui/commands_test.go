package ui

import (
	"errors"
	"strings"
	"testing"

	uistate "github.com/atomicstack/tmux-popup-tree/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

func TestDoubleClickOpensFileAndQuits(t *testing.T) {
	f := started(t, nil)
	f.click(t, 0, "c.txt", tea.MouseButtonLeft)
	if f.h.Quit() || len(f.actions.opened) != 0 {
		t.Fatalf("a single click must not open")
	}
	f.click(t, 0, "c.txt", tea.MouseButtonLeft)
	if len(f.actions.opened) != 1 || f.actions.opened[0] != "/r/c.txt" {
		t.Fatalf("expected c.txt opened, got %v", f.actions.opened)
	}
	if !f.h.Quit() {
		t.Fatalf("expected a successful open to quit")
	}
}

func TestDoubleClickOpensFolder(t *testing.T) {
	f := started(t, nil)
	f.click(t, 0, "B", tea.MouseButtonLeft)
	f.click(t, 0, "B", tea.MouseButtonLeft)
	if len(f.actions.opened) != 1 || f.actions.opened[0] != "/r/B" {
		t.Fatalf("expected B opened, got %v", f.actions.opened)
	}
}

func TestClickOnPlaceholderIgnored(t *testing.T) {
	f := started(t, nil)
	f.hover(t, 0, "B")
	f.click(t, 1, "(empty)", tea.MouseButtonLeft)
	f.click(t, 1, "(empty)", tea.MouseButtonLeft)
	if len(f.actions.opened) != 0 || f.h.Quit() {
		t.Fatalf("placeholder rows must not activate")
	}
}

func TestRightClickCopiesPath(t *testing.T) {
	f := started(t, nil)
	f.click(t, 0, "c.txt", tea.MouseButtonRight)

	if len(f.actions.copied) != 1 || f.actions.copied[0] != "/r/c.txt" {
		t.Fatalf("expected c.txt copied, got %v", f.actions.copied)
	}
	if f.h.Quit() {
		t.Fatalf("copying must not quit")
	}
	m := f.model()
	if !strings.Contains(m.infoMsg, "/r/c.txt") {
		t.Fatalf("expected a status message, got %q", m.infoMsg)
	}
	if c := f.entry(t, 0, "c.txt"); c.Selection != uistate.SelectionHover {
		t.Fatalf("expected the context mark released back to hover, got %s", c.Selection)
	}
}

func TestActionErrorShownInTray(t *testing.T) {
	f := started(t, nil)
	f.actions.openErr = errors.New("no tmux server")
	f.key(tea.KeyEnd)
	f.key(tea.KeyEnter)

	if f.h.Quit() {
		t.Fatalf("a failed open must not quit")
	}
	if got := f.model().errMsg; got != "no tmux server" {
		t.Fatalf("expected the error in the tray, got %q", got)
	}
	if !f.model().rootVisible() {
		t.Fatalf("expected the cascade to stay open")
	}
}

func TestVerboseKeepsOpenMessage(t *testing.T) {
	f := started(t, func(c *Config) { c.Verbose = true })
	f.key(tea.KeyEnd)
	f.key(tea.KeyEnter)
	if f.model().infoMsg != "Opened c.txt" {
		t.Fatalf("expected the open message, got %q", f.model().infoMsg)
	}
}
