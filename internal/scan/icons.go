package scan

import (
	"os"
	"path/filepath"
)

// IconProvider returns the glyph for a path. For shortcuts that resolve to a
// directory it also returns the resolved target so the scanner can present
// the row as a folder.
type IconProvider interface {
	ResolveIcon(path string, isContainer bool) (icon string, target string)
}

const (
	IconFolder   = "▸"
	IconFile     = "·"
	IconShortcut = "↪"
	IconBroken   = "!"
)

// LinkIcons treats symlinks as shortcuts.
type LinkIcons struct{}

func (LinkIcons) ResolveIcon(path string, isContainer bool) (string, string) {
	if isContainer {
		return IconFolder, ""
	}
	info, err := os.Lstat(path)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return IconFile, ""
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return IconBroken, ""
	}
	target, err := os.Stat(resolved)
	if err != nil {
		return IconBroken, ""
	}
	if !target.IsDir() {
		return IconShortcut, ""
	}
	return IconShortcut, resolved
}
