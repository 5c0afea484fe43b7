package scan

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// HiddenPolicy decides which children are left out of a listing.
type HiddenPolicy interface {
	IsHidden(path string) bool
}

// GlobPolicy hides dotfiles unless ShowHidden is set, plus anything matching
// one of the doublestar Exclude patterns. Patterns are tried against both the
// full slash-separated path and the base name.
type GlobPolicy struct {
	ShowHidden bool
	Exclude    []string
}

func (p GlobPolicy) IsHidden(path string) bool {
	name := filepath.Base(path)
	if !p.ShowHidden && strings.HasPrefix(name, ".") {
		return true
	}
	normalized := filepath.ToSlash(path)
	for _, pat := range p.Exclude {
		if matched, err := doublestar.Match(pat, normalized); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pat, name); err == nil && matched {
			return true
		}
	}
	return false
}

// ValidatePatterns reports the first malformed pattern.
func ValidatePatterns(patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("invalid exclude pattern %q: %w", pat, doublestar.ErrBadPattern)
		}
	}
	return nil
}
