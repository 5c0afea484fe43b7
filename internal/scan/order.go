package scan

import (
	"path/filepath"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ordering sorts paths by base name the way file managers do: case is
// ignored and digit runs compare numerically, so "file2" sorts before
// "file10". A collator keeps internal buffers, so every scan builds its own.
type ordering struct {
	c *collate.Collator
}

func newOrdering() ordering {
	return ordering{c: collate.New(language.Und, collate.IgnoreCase, collate.Numeric)}
}

func (o ordering) sort(paths []string) {
	slices.SortStableFunc(paths, func(a, b string) int {
		if n := o.c.CompareString(filepath.Base(a), filepath.Base(b)); n != 0 {
			return n
		}
		return o.c.CompareString(a, b)
	})
}
