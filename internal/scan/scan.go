// Package scan lists a single directory for display as one menu level.
//
// A scan runs two passes, directories then files, each ordered the way a file
// manager would order them. Permission failures mark the result NoAccess,
// other I/O failures are logged and yield an empty pass, and cancellation
// produces a result the caller is expected to discard. Only caller bugs are
// returned as errors.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/atomicstack/tmux-popup-tree/internal/logging"
)

var (
	// ErrInvalidPath is returned for paths that can never be scanned.
	ErrInvalidPath = errors.New("scan: invalid path")
	// ErrNotConfigured is returned when a Scanner is missing a collaborator.
	ErrNotConfigured = errors.New("scan: scanner not configured")
)

// Validity tags the outcome of a scan.
type Validity int

const (
	Invalid Validity = iota
	Valid
	NoAccess
)

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case NoAccess:
		return "no-access"
	default:
		return "invalid"
	}
}

// Descriptor describes one row produced by a scan.
type Descriptor struct {
	Path        string
	Name        string
	Target      string
	Icon        string
	IsContainer bool
	Hidden      bool
}

// Result is the ordered output of a single scan.
type Result struct {
	Path      string
	Depth     int
	Validity  Validity
	Entries   []Descriptor
	Cancelled bool
}

// Scanner lists directories through its collaborators. A Scanner holds no
// mutable state and may be shared by concurrent scans.
type Scanner struct {
	fs     FilesystemProvider
	hidden HiddenPolicy
	icons  IconProvider
}

// NewScanner wires a scanner to its filesystem, hidden-file policy and icon
// resolver.
func NewScanner(fsys FilesystemProvider, hidden HiddenPolicy, icons IconProvider) *Scanner {
	return &Scanner{fs: fsys, hidden: hidden, icons: icons}
}

// Scan lists path for display at the given depth.
func (s *Scanner) Scan(ctx context.Context, path string, depth int) (Result, error) {
	if s == nil || s.fs == nil || s.hidden == nil || s.icons == nil {
		return Result{}, ErrNotConfigured
	}
	if strings.TrimSpace(path) == "" || !filepath.IsAbs(path) || strings.ContainsRune(path, 0) {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	if depth < 0 {
		return Result{}, fmt.Errorf("%w: negative depth %d for %q", ErrInvalidPath, depth, path)
	}

	res := Result{Path: path, Depth: depth, Validity: Valid}
	order := newOrdering()

	if ctx.Err() != nil {
		return cancelled(res), nil
	}
	dirs, ok := s.list(ctx, &res, s.fs.ListDirectories)
	if !ok {
		return cancelled(res), nil
	}
	order.sort(dirs)
	for _, dir := range dirs {
		if ctx.Err() != nil {
			return cancelled(res), nil
		}
		if s.hidden.IsHidden(dir) {
			continue
		}
		icon, _ := s.icons.ResolveIcon(dir, true)
		res.Entries = append(res.Entries, Descriptor{
			Path:        dir,
			Name:        filepath.Base(dir),
			Target:      dir,
			Icon:        icon,
			IsContainer: true,
			Hidden:      isDotfile(dir),
		})
	}

	if ctx.Err() != nil {
		return cancelled(res), nil
	}
	files, ok := s.list(ctx, &res, s.fs.ListFiles)
	if !ok {
		return cancelled(res), nil
	}
	order.sort(files)
	for _, file := range files {
		if ctx.Err() != nil {
			return cancelled(res), nil
		}
		if s.hidden.IsHidden(file) {
			continue
		}
		desc := Descriptor{
			Path:   file,
			Name:   filepath.Base(file),
			Hidden: isDotfile(file),
		}
		icon, target := s.icons.ResolveIcon(file, false)
		desc.Icon = icon
		if target != "" {
			desc.IsContainer = true
			desc.Target = target
		}
		res.Entries = append(res.Entries, desc)
	}

	if res.Validity == NoAccess {
		res.Entries = nil
	}
	return res, nil
}

// list runs one pass and folds its error into res. It reports false when the
// pass was interrupted by cancellation.
func (s *Scanner) list(ctx context.Context, res *Result, pass func(context.Context, string) ([]string, error)) ([]string, bool) {
	names, err := pass(ctx, res.Path)
	switch {
	case err == nil:
		return names, true
	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		return nil, false
	case errors.Is(err, fs.ErrPermission):
		logging.Warn(fmt.Sprintf("path:'%s'", res.Path), err)
		res.Validity = NoAccess
		return nil, true
	default:
		logging.Warn(fmt.Sprintf("path:'%s'", res.Path), err)
		return nil, true
	}
}

func cancelled(res Result) Result {
	res.Validity = Invalid
	res.Entries = nil
	res.Cancelled = true
	return res
}

func isDotfile(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
