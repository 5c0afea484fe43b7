package scan

import (
	"context"
	"os"
	"path/filepath"
)

// FilesystemProvider lists the immediate children of a directory. Permission
// failures must satisfy errors.Is(err, fs.ErrPermission).
type FilesystemProvider interface {
	ListDirectories(ctx context.Context, path string) ([]string, error)
	ListFiles(ctx context.Context, path string) ([]string, error)
}

// OSProvider reads the local filesystem.
type OSProvider struct{}

func (OSProvider) ListDirectories(ctx context.Context, path string) ([]string, error) {
	return readDir(ctx, path, true)
}

func (OSProvider) ListFiles(ctx context.Context, path string) ([]string, error) {
	return readDir(ctx, path, false)
}

// readDir returns absolute child paths. Symlinks are reported as files so the
// icon resolver gets a chance to treat them as shortcuts.
func readDir(ctx context.Context, path string, dirs bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		isDir := entry.IsDir() && entry.Type()&os.ModeSymlink == 0
		if isDir != dirs {
			continue
		}
		out = append(out, filepath.Join(path, entry.Name()))
	}
	return out, nil
}
