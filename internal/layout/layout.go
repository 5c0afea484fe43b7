// Package layout places cascaded menu levels on screen.
package layout

// Direction is the side a level opens on relative to its parent.
type Direction int

const (
	Right Direction = iota
	Left
)

func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}

// Box is the measured size of a level. TriggerRow is the row offset of the
// triggering entry inside the parent box, used to align the child with it.
type Box struct {
	Width      int
	Height     int
	TriggerRow int
}

// Size is the drawable area.
type Size struct {
	Width  int
	Height int
}

// Anchor fixes the root level: X is its left column, Bottom the row its
// bottom edge sits on top of.
type Anchor struct {
	X      int
	Bottom int
}

// Rect is a placed level.
type Rect struct {
	X, Y          int
	Width, Height int
	Direction     Direction
}

// Right returns the first column past the rect.
func (r Rect) Right() int { return r.X + r.Width }

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Place folds over boxes in depth order. Levels cascade to the right until
// one would run past the screen edge; from then on the cascade opens to the
// left, and only turns right again when there is no room left of the
// predecessor. The chosen direction carries forward, so a flip never undoes
// itself from one level to the next.
func Place(anchor Anchor, boxes []Box, screen Size) []Rect {
	rects := make([]Rect, len(boxes))
	if len(boxes) == 0 {
		return rects
	}
	bottom := anchor.Bottom
	if bottom <= 0 || bottom > screen.Height {
		bottom = screen.Height
	}

	dir := Right
	for i, box := range boxes {
		w := clamp(box.Width, 1, max(screen.Width, 1))
		h := clamp(box.Height, 1, max(bottom, 1))
		if i == 0 {
			rects[0] = Rect{
				X:      clamp(anchor.X, 0, screen.Width-w),
				Y:      clamp(bottom-h, 0, bottom-h),
				Width:  w,
				Height: h,
			}
			continue
		}

		prev := rects[i-1]
		var x int
		switch dir {
		case Right:
			x = prev.Right()
			if x+w > screen.Width {
				dir = Left
				x = prev.X - w
			}
		case Left:
			x = prev.X - w
		}
		if dir == Left && x < 0 {
			if prev.Right()+w <= screen.Width {
				dir = Right
				x = prev.Right()
			}
		}
		x = clamp(x, 0, screen.Width-w)
		y := clamp(prev.Y+box.TriggerRow, 0, bottom-h)
		rects[i] = Rect{X: x, Y: y, Width: w, Height: h, Direction: dir}
	}
	return rects
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
