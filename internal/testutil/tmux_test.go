package testutil

import "testing"

func TestStartTmuxServerLifecycle(t *testing.T) {
	socket, cleanup, _ := StartTmuxServer(t)
	defer cleanup()
	if got := Output(t, socket, "list-sessions", "-F", "#{session_name}"); got != "tmux-popup-tree-test" {
		t.Fatalf("unexpected sessions %q", got)
	}
}
