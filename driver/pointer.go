package driver

import (
	"math"
	"sort"
	"time"

	"github.com/pthm-cable/steam/fluid"
)

// Pointer is the tracked state of one active input contact.
type Pointer struct {
	ID     int
	X, Y   float64 // normalized, origin top-left
	VX, VY float64 // normalized units per second, scaled by VelocityScale
	Last   time.Duration

	// Obstacle is the rect this pointer currently holds carved, if any.
	Obstacle *fluid.Rect
}

// Moving reports whether the pointer still carries velocity.
func (p *Pointer) Moving() bool { return p.VX != 0 || p.VY != 0 }

// ObstacleResolver finds the registered obstacle region under a point.
type ObstacleResolver interface {
	// Resolve returns the normalized bounding box of the region under the
	// normalized point (x, y), or false if there is none.
	Resolve(x, y float64) (fluid.Rect, bool)
}

// command is an injection deferred to the next tick.
type command struct {
	kind         commandKind
	x, y, fx, fy float64
	scale        float64
	rect         fluid.Rect
}

type commandKind uint8

const (
	cmdSplat commandKind = iota
	cmdCarve
	cmdRelease
)

// pointerTable owns every live pointer and turns samples into commands.
type pointerTable struct {
	opts     *Options
	resolver ObstacleResolver
	byID     map[int]*Pointer
	queue    []command
}

func newPointerTable(opts *Options, resolver ObstacleResolver) *pointerTable {
	return &pointerTable{
		opts:     opts,
		resolver: resolver,
		byID:     make(map[int]*Pointer),
	}
}

// sample records a position for pointer id at time t. The first sample of a
// pointer only creates it; later samples estimate velocity, queue a splat
// and update the pointer's obstacle association. Non-finite samples are
// dropped.
func (pt *pointerTable) sample(id int, x, y float64, t time.Duration) {
	if !finite(x) || !finite(y) {
		return
	}
	x, y = clamp01(x), clamp01(y)
	p, ok := pt.byID[id]
	if !ok {
		pt.byID[id] = &Pointer{ID: id, X: x, Y: y, Last: t}
		return
	}

	dt := max(t-p.Last, pt.opts.MinSampleDt).Seconds()
	p.VX = (x - p.X) / dt * pt.opts.VelocityScale
	p.VY = (y - p.Y) / dt * pt.opts.VelocityScale
	p.X, p.Y = x, y
	p.Last = t
	pt.queue = append(pt.queue, command{kind: cmdSplat, x: x, y: y, fx: p.VX, fy: p.VY, scale: pt.opts.PointerDensityScale})

	if pt.resolver == nil {
		return
	}
	r, found := pt.resolver.Resolve(x, y)
	switch {
	case found:
		if p.Obstacle != nil && !p.Obstacle.Near(r, pt.opts.RectTolerance) {
			pt.release(p)
		}
		// Carve on every move: another pointer may have released the same
		// region. The engine ignores rects it already holds.
		pt.queue = append(pt.queue, command{kind: cmdCarve, rect: r})
		p.Obstacle = &r
	case p.Obstacle != nil:
		pt.release(p)
	}
}

// remove destroys pointer id, releasing its obstacle.
func (pt *pointerTable) remove(id int) {
	p, ok := pt.byID[id]
	if !ok {
		return
	}
	if p.Obstacle != nil {
		pt.release(p)
	}
	delete(pt.byID, id)
}

// removeAll destroys every pointer, releasing their obstacles.
func (pt *pointerTable) removeAll() {
	for _, id := range pt.ids() {
		pt.remove(id)
	}
}

func (pt *pointerTable) release(p *Pointer) {
	pt.queue = append(pt.queue, command{kind: cmdRelease, rect: *p.Obstacle})
	p.Obstacle = nil
}

// decay slows every pointer, snapping near-still pointers to zero.
func (pt *pointerTable) decay() {
	k := pt.opts.PointerDecay
	for _, p := range pt.byID {
		p.VX *= k
		p.VY *= k
		if abs(p.VX)+abs(p.VY) < pt.opts.SnapThreshold {
			p.VX, p.VY = 0, 0
		}
	}
}

func (pt *pointerTable) anyMoving() bool {
	for _, p := range pt.byID {
		if p.Moving() {
			return true
		}
	}
	return false
}

// ids returns pointer ids in ascending order.
func (pt *pointerTable) ids() []int {
	ids := make([]int, 0, len(pt.byID))
	for id := range pt.byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// snapshot copies every pointer, ordered by id.
func (pt *pointerTable) snapshot() []Pointer {
	out := make([]Pointer, 0, len(pt.byID))
	for _, id := range pt.ids() {
		p := *pt.byID[id]
		if p.Obstacle != nil {
			r := *p.Obstacle
			p.Obstacle = &r
		}
		out = append(out, p)
	}
	return out
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
