// Package scene keeps the set of on-screen regions that displace the steam.
package scene

import (
	"math"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/steam/fluid"
)

// Region is an obstacle area in normalized surface coordinates, origin
// top-left.
type Region struct {
	Name string
	Rect fluid.Rect
	// Z orders overlapping regions; the highest wins a hit test.
	Z int
}

// Motion moves a region across the surface, reflecting off the edges.
type Motion struct {
	VX, VY float64 // normalized units per second
}

// Registry stores regions as ECS entities.
type Registry struct {
	world *ecs.World

	regionMap *ecs.Map1[Region]
	motionMap *ecs.Map2[Region, Motion]

	regions *ecs.Filter1[Region]
	moving  *ecs.Filter2[Region, Motion]

	count int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	world := ecs.NewWorld()
	return &Registry{
		world:     world,
		regionMap: ecs.NewMap1[Region](world),
		motionMap: ecs.NewMap2[Region, Motion](world),
		regions:   ecs.NewFilter1[Region](world),
		moving:    ecs.NewFilter2[Region, Motion](world),
	}
}

// Add registers a stationary region.
func (r *Registry) Add(name string, rect fluid.Rect, z int) ecs.Entity {
	reg := Region{Name: name, Rect: rect, Z: z}
	r.count++
	return r.regionMap.NewEntity(&reg)
}

// AddMoving registers a region that drifts with velocity (vx, vy).
func (r *Registry) AddMoving(name string, rect fluid.Rect, z int, vx, vy float64) ecs.Entity {
	reg := Region{Name: name, Rect: rect, Z: z}
	mot := Motion{VX: vx, VY: vy}
	r.count++
	return r.motionMap.NewEntity(&reg, &mot)
}

// AddPixels registers a stationary region given in the same pixel space as
// surface. It returns false if the region does not overlap the surface.
func (r *Registry) AddPixels(name string, region, surface fluid.Rect, z int) (ecs.Entity, bool) {
	rect, ok := fluid.NormalizeRect(region, surface)
	if !ok {
		return ecs.Entity{}, false
	}
	return r.Add(name, rect, z), true
}

// Remove deletes a region. Removing a dead entity is a no-op.
func (r *Registry) Remove(e ecs.Entity) {
	if !r.world.Alive(e) {
		return
	}
	r.world.RemoveEntity(e)
	r.count--
}

// Len returns the number of registered regions.
func (r *Registry) Len() int { return r.count }

// Get returns the region of entity e.
func (r *Registry) Get(e ecs.Entity) (Region, bool) {
	if !r.world.Alive(e) {
		return Region{}, false
	}
	return *r.regionMap.Get(e), true
}

// Resolve returns the rect of the topmost region containing the normalized
// point (x, y). Ties in Z go to the smaller region.
func (r *Registry) Resolve(x, y float64) (fluid.Rect, bool) {
	var (
		best     fluid.Rect
		bestZ    int
		bestArea = math.Inf(1)
		found    bool
	)
	query := r.regions.Query()
	for query.Next() {
		reg := query.Get()
		rc := reg.Rect
		if x < rc.Left || x > rc.Right || y < rc.Top || y > rc.Bottom {
			continue
		}
		area := (rc.Right - rc.Left) * (rc.Bottom - rc.Top)
		if !found || reg.Z > bestZ || (reg.Z == bestZ && area < bestArea) {
			best, bestZ, bestArea, found = rc, reg.Z, area, true
		}
	}
	return best, found
}

// Update advances moving regions by dt seconds. A region that reaches an
// edge reverses that velocity component.
func (r *Registry) Update(dt float64) {
	if dt <= 0 {
		return
	}
	query := r.moving.Query()
	for query.Next() {
		reg, mot := query.Get()
		rc := &reg.Rect
		w, h := rc.Right-rc.Left, rc.Bottom-rc.Top

		rc.Left += mot.VX * dt
		if rc.Left < 0 || rc.Left+w > 1 {
			mot.VX = -mot.VX
			rc.Left = math.Max(0, math.Min(1-w, rc.Left))
		}
		rc.Right = rc.Left + w

		rc.Top += mot.VY * dt
		if rc.Top < 0 || rc.Top+h > 1 {
			mot.VY = -mot.VY
			rc.Top = math.Max(0, math.Min(1-h, rc.Top))
		}
		rc.Bottom = rc.Top + h
	}
}

// Regions returns a copy of every region ordered by Z, then name.
func (r *Registry) Regions() []Region {
	out := make([]Region, 0, r.count)
	query := r.regions.Query()
	for query.Next() {
		out = append(out, *query.Get())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Z != out[j].Z {
			return out[i].Z < out[j].Z
		}
		return out[i].Name < out[j].Name
	})
	return out
}
