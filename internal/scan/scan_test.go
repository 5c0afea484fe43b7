package scan

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/atomicstack/tmux-popup-tree/internal/logging"
)

func quietLogs(t *testing.T) {
	t.Helper()
	logging.Configure(filepath.Join(t.TempDir(), "scan.log"))
	t.Cleanup(func() { logging.Configure("") })
}

type fakeFS struct {
	dirs     []string
	files    []string
	dirErr   error
	fileErr  error
	onList   func()
	dirCalls int
}

func (f *fakeFS) ListDirectories(ctx context.Context, path string) ([]string, error) {
	f.dirCalls++
	if f.onList != nil {
		f.onList()
	}
	return append([]string(nil), f.dirs...), f.dirErr
}

func (f *fakeFS) ListFiles(ctx context.Context, path string) ([]string, error) {
	return append([]string(nil), f.files...), f.fileErr
}

func names(entries []Descriptor) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestScanListsDirectoriesBeforeFilesInNaturalOrder(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"dir10", "Dir2", "beta", ".git"} {
		if err := os.Mkdir(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	for _, file := range []string{"file10.txt", "File1.txt", "file2.txt", ".env"} {
		touch(t, filepath.Join(root, file))
	}

	s := NewScanner(OSProvider{}, GlobPolicy{}, LinkIcons{})
	res, err := s.Scan(context.Background(), root, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Validity != Valid {
		t.Fatalf("expected valid result, got %v", res.Validity)
	}
	want := []string{"beta", "Dir2", "dir10", "File1.txt", "file2.txt", "file10.txt"}
	if got := names(res.Entries); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i, entry := range res.Entries {
		if wantContainer := i < 3; entry.IsContainer != wantContainer {
			t.Fatalf("entry %q: expected container=%v", entry.Name, wantContainer)
		}
	}
}

func TestScanClassifiesEveryVisibleChildOnce(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "a"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	touch(t, filepath.Join(root, "b"))
	touch(t, filepath.Join(root, ".hidden"))

	s := NewScanner(OSProvider{}, GlobPolicy{ShowHidden: true}, LinkIcons{})
	res, err := s.Scan(context.Background(), root, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Depth != 2 {
		t.Fatalf("expected depth 2, got %d", res.Depth)
	}
	seen := map[string]int{}
	for _, entry := range res.Entries {
		seen[entry.Name]++
	}
	for _, name := range []string{"a", "b", ".hidden"} {
		if seen[name] != 1 {
			t.Fatalf("expected %q exactly once, got %d (%v)", name, seen[name], names(res.Entries))
		}
	}
	for _, entry := range res.Entries {
		if entry.Name == ".hidden" && !entry.Hidden {
			t.Fatalf("expected dotfile to carry hidden flag")
		}
	}
}

func TestScanExcludePatterns(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "node_modules"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	touch(t, filepath.Join(root, "notes.swp"))
	touch(t, filepath.Join(root, "notes.md"))

	policy := GlobPolicy{Exclude: []string{"node_modules", "*.swp"}}
	res, err := NewScanner(OSProvider{}, policy, LinkIcons{}).Scan(context.Background(), root, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := names(res.Entries); !reflect.DeepEqual(got, []string{"notes.md"}) {
		t.Fatalf("expected only notes.md, got %v", got)
	}
}

func TestScanResolvesDirectoryShortcutAsContainer(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(t.TempDir(), "projects")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	link := filepath.Join(root, "work")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	res, err := NewScanner(OSProvider{}, GlobPolicy{}, LinkIcons{}).Scan(context.Background(), root, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entries) != 1 {
		t.Fatalf("expected one entry, got %v", names(res.Entries))
	}
	entry := res.Entries[0]
	if !entry.IsContainer {
		t.Fatalf("expected shortcut to a directory to be a container")
	}
	if entry.Name != "work" {
		t.Fatalf("expected shortcut name to be kept, got %q", entry.Name)
	}
	resolved, _ := filepath.EvalSymlinks(target)
	if entry.Target != resolved {
		t.Fatalf("expected target %q, got %q", resolved, entry.Target)
	}
	if entry.Icon != IconShortcut {
		t.Fatalf("expected shortcut icon, got %q", entry.Icon)
	}
}

func TestScanPermissionDeniedMarksNoAccess(t *testing.T) {
	quietLogs(t)
	denied := &fs.PathError{Op: "open", Path: "/locked", Err: fs.ErrPermission}
	fsys := &fakeFS{dirErr: denied, fileErr: denied, files: []string{"/locked/a"}}

	res, err := NewScanner(fsys, GlobPolicy{}, LinkIcons{}).Scan(context.Background(), "/locked", 1)
	if err != nil {
		t.Fatalf("access errors must not propagate: %v", err)
	}
	if res.Validity != NoAccess {
		t.Fatalf("expected NoAccess, got %v", res.Validity)
	}
	if len(res.Entries) != 0 {
		t.Fatalf("expected no entries for NoAccess, got %v", names(res.Entries))
	}
}

func TestScanTransientErrorIsTreatedAsEmptyPass(t *testing.T) {
	quietLogs(t)
	fsys := &fakeFS{
		dirErr: errors.New("device busy"),
		files:  []string{"/srv/readme"},
	}
	res, err := NewScanner(fsys, GlobPolicy{}, stubIcons{}).Scan(context.Background(), "/srv", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Validity != Valid {
		t.Fatalf("expected Valid despite transient error, got %v", res.Validity)
	}
	if got := names(res.Entries); !reflect.DeepEqual(got, []string{"readme"}) {
		t.Fatalf("expected file pass to survive, got %v", got)
	}
}

func TestScanCancelledMidwayReportsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fsys := &fakeFS{
		dirs:   []string{"/r/a", "/r/b"},
		files:  []string{"/r/c"},
		onList: cancel,
	}
	res, err := NewScanner(fsys, GlobPolicy{}, stubIcons{}).Scan(ctx, "/r", 0)
	if err != nil {
		t.Fatalf("cancellation is not an error: %v", err)
	}
	if !res.Cancelled || res.Validity != Invalid {
		t.Fatalf("expected cancelled invalid result, got %+v", res)
	}
	if len(res.Entries) != 0 {
		t.Fatalf("expected partial output dropped, got %v", names(res.Entries))
	}
}

func TestScanCancelledBeforeStartSkipsFilesystem(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fsys := &fakeFS{}
	res, err := NewScanner(fsys, GlobPolicy{}, stubIcons{}).Scan(ctx, "/r", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Cancelled {
		t.Fatalf("expected cancelled result")
	}
	if fsys.dirCalls != 0 {
		t.Fatalf("expected no listing after cancellation, got %d", fsys.dirCalls)
	}
}

func TestScanRejectsProgrammingErrors(t *testing.T) {
	s := NewScanner(&fakeFS{}, GlobPolicy{}, stubIcons{})
	for _, path := range []string{"", "relative/dir"} {
		if _, err := s.Scan(context.Background(), path, 0); !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("path %q: expected ErrInvalidPath, got %v", path, err)
		}
	}
	var nilScanner *Scanner
	if _, err := nilScanner.Scan(context.Background(), "/r", 0); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := NewScanner(nil, GlobPolicy{}, stubIcons{}).Scan(context.Background(), "/r", 0); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured for missing provider, got %v", err)
	}
}

type stubIcons struct{}

func (stubIcons) ResolveIcon(path string, isContainer bool) (string, string) {
	if isContainer {
		return IconFolder, ""
	}
	return IconFile, ""
}
