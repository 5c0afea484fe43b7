package testutil

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// BuildBinary compiles the popup into a temporary directory.
func BuildBinary(t *testing.T) string {
	t.Helper()
	RequireTmux(t)
	tdir := t.TempDir()
	bin := filepath.Join(tdir, "tmux-popup-tree")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	cmd.Dir = RepoRoot(t)
	cmd.Env = append(os.Environ(), "GOCACHE="+filepath.Join(tdir, ".gocache"))
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, out)
	}
	return bin
}

// WaitForPane polls target until its capture contains want, or fails the
// test when ctx expires. A non-zero code written to exitPath means the
// program died early.
func WaitForPane(t *testing.T, ctx context.Context, socket, target, exitPath, want string) string {
	t.Helper()
	loggedPaneMissing := false
	for {
		select {
		case <-ctx.Done():
			t.Fatalf("timeout waiting for %q in pane %s: %v", want, target, ctx.Err())
		case <-time.After(50 * time.Millisecond):
		}
		if exitPath != "" {
			if data, err := os.ReadFile(exitPath); err == nil {
				if code := strings.TrimSpace(string(data)); code != "" && code != "0" {
					t.Fatalf("tmux-popup-tree exited early with code %s", code)
				}
			}
		}
		out, err := CapturePane(t, socket, target)
		if err != nil {
			if !errors.Is(err, ErrPaneUnavailable) {
				t.Fatalf("capture-pane error: %v", err)
			}
			if !loggedPaneMissing {
				t.Logf("waiting for pane %s to become available", target)
				loggedPaneMissing = true
			}
			continue
		}
		if strings.Contains(out, want) {
			return out
		}
	}
}

// RepoRoot walks up from the working directory to the module root.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
