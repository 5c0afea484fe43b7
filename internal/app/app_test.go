package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveRootPrefersConfigured(t *testing.T) {
	dir := t.TempDir()
	if got := resolveRoot(dir+"/sub/..", ""); got != dir {
		t.Fatalf("expected %q, got %q", dir, got)
	}
}

func TestResolveRootMakesRelativeAbsolute(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	want := filepath.Join(cwd, "docs")
	if got := resolveRoot("docs", ""); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
