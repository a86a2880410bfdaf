package fluid

import "math"

// Rect is a normalized box in [0,1]² with origin at the top-left.
type Rect struct {
	Left, Right, Top, Bottom float64
}

// DefaultRectTolerance is the per-edge tolerance below which two rects are
// the same obstacle.
const DefaultRectTolerance = 0.02

// Center returns the midpoint of r.
func (r Rect) Center() (x, y float64) {
	return (r.Left + r.Right) * 0.5, (r.Top + r.Bottom) * 0.5
}

// Near reports whether every edge of r and o differs by less than tol.
func (r Rect) Near(o Rect, tol float64) bool {
	return math.Abs(r.Left-o.Left) < tol &&
		math.Abs(r.Right-o.Right) < tol &&
		math.Abs(r.Top-o.Top) < tol &&
		math.Abs(r.Bottom-o.Bottom) < tol
}

// NormalizeRect maps region, given in the same units as surface, into the
// surface's normalized space. Edges are clamped to [0,1]; ok is false if the
// clamped box is empty.
func NormalizeRect(region, surface Rect) (Rect, bool) {
	w := surface.Right - surface.Left
	h := surface.Bottom - surface.Top
	if w <= 0 || h <= 0 {
		return Rect{}, false
	}
	r := Rect{
		Left:   clampF((region.Left-surface.Left)/w, 0, 1),
		Right:  clampF((region.Right-surface.Left)/w, 0, 1),
		Top:    clampF((region.Top-surface.Top)/h, 0, 1),
		Bottom: clampF((region.Bottom-surface.Top)/h, 0, 1),
	}
	if r.Right <= r.Left || r.Bottom <= r.Top {
		return Rect{}, false
	}
	return r, true
}

// carvedIndex returns the index of the carved rect near r, or -1.
func (e *Engine) carvedIndex(r Rect) int {
	tol := e.params.Obstacle.Tolerance
	for i, c := range e.carved {
		if c.Near(r, tol) {
			return i
		}
	}
	return -1
}

// CarveNormalizedObstacle evacuates density from r and pushes fluid outward
// across its four edges. It returns false without injecting anything if a
// matching rect is already carved or no fields are allocated.
func (e *Engine) CarveNormalizedObstacle(r Rect) bool {
	if e.disposed || !e.st.allocated() || e.carvedIndex(r) >= 0 {
		return false
	}
	op := &e.params.Obstacle
	cx, cy := r.Center()
	w := math.Max(op.MinExtent, r.Right-r.Left)
	h := math.Max(op.MinExtent, r.Bottom-r.Top)

	e.AddSplat(cx, cy, 0, 0, op.Erase)
	e.AddSplat(cx, r.Top, 0, -op.Push*h, 0)
	e.AddSplat(cx, r.Bottom, 0, op.Push*h, 0)
	e.AddSplat(r.Left, cy, -op.Push*w, 0, 0)
	e.AddSplat(r.Right, cy, op.Push*w, 0, 0)

	e.carved = append(e.carved, r)
	return true
}

// ReleaseObstacle replenishes density inside a previously carved rect near r.
// It returns false if no such rect is carved.
func (e *Engine) ReleaseObstacle(r Rect) bool {
	if e.disposed || !e.st.allocated() {
		return false
	}
	i := e.carvedIndex(r)
	if i < 0 {
		return false
	}
	c := e.carved[i]
	e.carved = append(e.carved[:i], e.carved[i+1:]...)

	cx, cy := c.Center()
	e.AddSplat(cx, cy, 0, 0, e.params.Obstacle.Replenish)
	return true
}

// Carved returns the rects currently carved.
func (e *Engine) Carved() []Rect {
	out := make([]Rect, len(e.carved))
	copy(out, e.carved)
	return out
}
