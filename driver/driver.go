// Package driver advances a fluid engine once per host frame and turns
// pointer input into injections.
package driver

import (
	"image"
	"log/slog"
	"math"
	"time"

	"github.com/pthm-cable/steam/fluid"
)

// Options configures a Driver.
type Options struct {
	Fluid         fluid.Params
	EngineOptions []fluid.Option

	VelocityScale       float64       // pointer velocity multiplier
	PointerDecay        float64       // per-tick pointer velocity decay
	SnapThreshold       float64       // |vx|+|vy| below this snaps to zero
	MinSampleDt         time.Duration // floor on the time between samples
	PointerDensityScale float64       // density scale of drag splats
	RectTolerance       float64
	IdleInterval        time.Duration

	// ReducedMotion is the initial reduced-motion preference.
	ReducedMotion bool
}

// DefaultOptions returns the standard driver tuning.
func DefaultOptions() Options {
	return Options{
		Fluid:               fluid.DefaultParams(),
		VelocityScale:       1.75,
		PointerDecay:        0.992,
		SnapThreshold:       0.001,
		MinSampleDt:         time.Second / 120,
		PointerDensityScale: -0.85,
		RectTolerance:       fluid.DefaultRectTolerance,
		IdleInterval:        1400 * time.Millisecond,
	}
}

// Driver owns an engine, the pointer table and the mode state machine.
// Input handlers only record state and queue injections; all engine work
// happens in Tick. Not safe for concurrent use.
type Driver struct {
	surface fluid.Surface
	opts    Options

	engine   *fluid.Engine
	ambient  *fluid.Ambient
	fallback *image.RGBA
	err      error

	mode        Mode
	wantReduced bool

	pointers *pointerTable

	started  bool
	lastTick time.Duration
	idleAcc  time.Duration
	idles    uint64

	disposed bool
}

// New builds the engine for surface. Construction never fails: if the
// engine cannot be built the driver starts, and stays, Unavailable, and Err
// reports why.
func New(surface fluid.Surface, opts Options, resolver ObstacleResolver) *Driver {
	d := &Driver{
		surface:     surface,
		opts:        opts,
		wantReduced: opts.ReducedMotion,
		ambient:     fluid.NewAmbient(opts.Fluid.Seed, opts.Fluid.Composite),
	}
	d.pointers = newPointerTable(&d.opts, resolver)

	e, err := fluid.New(surface, opts.Fluid, opts.EngineOptions...)
	if err != nil {
		d.fail(err)
		return d
	}
	d.engine = e
	if d.wantReduced {
		d.mode = Reduced
	}
	slog.Info("driver started", "mode", d.mode.String())
	return d
}

// fail switches permanently to the ambient fallback.
func (d *Driver) fail(err error) {
	slog.Warn("fluid engine unavailable, using ambient fallback", "error", err)
	d.err = err
	if d.engine != nil {
		d.engine.Dispose()
		d.engine = nil
	}
	d.mode = Unavailable
	d.pointers.removeAll()
	d.pointers.queue = d.pointers.queue[:0]
	d.resizeFallback()
}

func (d *Driver) resizeFallback() {
	var w, h int
	if d.surface != nil {
		w, h = d.surface.PixelSize()
	}
	scale := d.opts.Fluid.SimScale
	if scale <= 0 {
		scale = 1
	}
	gw := max(int(math.Floor(float64(w)*scale)), 1)
	gh := max(int(math.Floor(float64(h)*scale)), 1)
	if d.fallback != nil && d.fallback.Rect.Dx() == gw && d.fallback.Rect.Dy() == gh {
		return
	}
	d.fallback = image.NewRGBA(image.Rect(0, 0, gw, gh))
	d.ambient.Render(d.fallback, d.lastTick.Seconds(), true)
}

// Mode returns the current mode.
func (d *Driver) Mode() Mode { return d.mode }

// Err returns the error that made the driver Unavailable, or nil.
func (d *Driver) Err() error { return d.err }

// Engine returns the underlying engine, nil when Unavailable.
func (d *Driver) Engine() *fluid.Engine { return d.engine }

// Pointers returns a copy of the pointer table ordered by id.
func (d *Driver) Pointers() []Pointer { return d.pointers.snapshot() }

// IdleSwirls returns the number of idle swirls issued.
func (d *Driver) IdleSwirls() uint64 { return d.idles }

// SetReducedMotion records the reduced-motion preference. The change takes
// effect on the next tick and is ignored once Unavailable.
func (d *Driver) SetReducedMotion(reduced bool) { d.wantReduced = reduced }

// ReducedMotion returns the recorded preference.
func (d *Driver) ReducedMotion() bool { return d.wantReduced }

func (d *Driver) accepting() bool {
	return !d.disposed && d.mode == Active && !d.wantReduced
}

// PointerDown records first contact, or a new sample for an existing pointer.
func (d *Driver) PointerDown(id int, x, y float64, t time.Duration) {
	if d.accepting() {
		d.pointers.sample(id, x, y, t)
	}
}

// PointerMove records a position sample for pointer id at time t.
func (d *Driver) PointerMove(id int, x, y float64, t time.Duration) {
	if d.accepting() {
		d.pointers.sample(id, x, y, t)
	}
}

// PointerUp ends pointer id, releasing any obstacle it holds.
func (d *Driver) PointerUp(id int) {
	if !d.disposed {
		d.pointers.remove(id)
	}
}

// PointerCancel is PointerUp for interrupted contacts.
func (d *Driver) PointerCancel(id int) { d.PointerUp(id) }

// Resize reallocates the engine for the surface's current size. A failed
// reallocation makes the driver Unavailable.
func (d *Driver) Resize() {
	if d.disposed {
		return
	}
	if d.engine == nil {
		d.resizeFallback()
		return
	}
	if err := d.engine.Resize(); err != nil {
		d.fail(err)
	}
}

// Tick advances one host frame at time now.
func (d *Driver) Tick(now time.Duration) {
	if d.disposed {
		return
	}
	var elapsed time.Duration
	if d.started {
		elapsed = max(now-d.lastTick, 0)
	}
	d.started = true
	d.lastTick = now

	d.applyMode()

	switch d.mode {
	case Active:
		d.pointers.decay()
		d.flush()
		d.idle(elapsed)
		d.engine.Step(now, false)
	case Reduced:
		d.engine.Step(now, true)
	case Unavailable:
		d.ambient.Render(d.fallback, now.Seconds(), true)
	}
}

// applyMode moves between Active and Reduced to match the preference.
func (d *Driver) applyMode() {
	if d.mode == Unavailable {
		return
	}
	want := Active
	if d.wantReduced {
		want = Reduced
	}
	if want == d.mode {
		return
	}
	slog.Info("driver mode changed", "from", d.mode.String(), "to", want.String())
	if want == Reduced {
		// Return carved regions before the solver stops.
		d.pointers.removeAll()
		d.flush()
	}
	d.mode = want
	d.idleAcc = 0
}

// flush applies queued commands in arrival order.
func (d *Driver) flush() {
	for _, c := range d.pointers.queue {
		switch c.kind {
		case cmdSplat:
			d.engine.AddSplat(c.x, c.y, c.fx, c.fy, c.scale)
		case cmdCarve:
			d.engine.CarveNormalizedObstacle(c.rect)
		case cmdRelease:
			d.engine.ReleaseObstacle(c.rect)
		}
	}
	d.pointers.queue = d.pointers.queue[:0]
}

// idle issues a swirl every IdleInterval unless a pointer is still moving.
func (d *Driver) idle(elapsed time.Duration) {
	if d.opts.IdleInterval <= 0 {
		return
	}
	d.idleAcc += elapsed
	if d.idleAcc < d.opts.IdleInterval {
		return
	}
	d.idleAcc %= d.opts.IdleInterval
	if d.pointers.anyMoving() {
		return
	}
	d.engine.AddIdleSwirl()
	d.idles++
}

// Frame returns the image for the current mode, nil after Dispose.
func (d *Driver) Frame() *image.RGBA {
	if d.disposed {
		return nil
	}
	if d.mode == Unavailable {
		return d.fallback
	}
	return d.engine.Frame()
}

// Dispose stops ticking and releases the engine. Safe to call repeatedly.
func (d *Driver) Dispose() {
	if d.disposed {
		return
	}
	d.disposed = true
	if d.engine != nil {
		d.engine.Dispose()
	}
	d.pointers.byID = make(map[int]*Pointer)
	d.pointers.queue = nil
	slog.Debug("driver disposed", "mode", d.mode.String())
}
