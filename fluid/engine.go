package fluid

import (
	"fmt"
	"image"
	"log/slog"
	"math/rand"
	"time"
)

// Surface is the drawable area the engine simulates over.
type Surface interface {
	// PixelSize returns the physical pixel size of the drawable area.
	PixelSize() (w, h int)
	// DisplayScale returns physical pixels per logical pixel.
	DisplayScale() float64
}

// Engine is a stable-fluids smoke simulation sized to a host surface.
// It is not safe for concurrent use; one goroutine owns it.
type Engine struct {
	surface Surface
	params  Params
	dev     Device
	log     *slog.Logger

	st   storage
	pass dispatcher
	u    uniforms // solver passes
	su   uniforms // splat passes

	rng     *rand.Rand
	ambient *Ambient
	frame   *image.RGBA
	carved  []Rect

	started  bool
	lastStep time.Duration
	lastDt   float64
	held     bool

	steps    uint64
	splats   uint64
	disposed bool
}

// PhaseComposite is reported to the phase hook before the frame is
// composited.
const PhaseComposite = "composite"

// Option configures an Engine.
type Option func(*Engine)

// WithDevice selects the device that owns fields and runs passes.
func WithDevice(d Device) Option {
	return func(e *Engine) { e.dev = d }
}

// WithPhaseHook registers fn to be called with the pass name before every
// pass dispatch.
func WithPhaseHook(fn func(name string)) Option {
	return func(e *Engine) { e.pass.hook = fn }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an engine for surface. It fails with a *CapabilityError if the
// device cannot render into float fields and with a *ResourceError if field
// allocation fails; no engine is returned in either case.
func New(surface Surface, p Params, opts ...Option) (*Engine, error) {
	if surface == nil {
		return nil, fmt.Errorf("fluid: nil surface")
	}
	if p.SimScale <= 0 {
		return nil, fmt.Errorf("fluid: sim scale must be positive, got %v", p.SimScale)
	}
	e := &Engine{
		surface: surface,
		params:  p,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.dev == nil {
		e.dev = NewCPUDevice()
	}
	if e.log == nil {
		e.log = slog.Default()
	}

	if !e.dev.Capabilities().FloatRenderTargets {
		return nil, &CapabilityError{Device: e.dev.Name(), Missing: "float render targets"}
	}

	e.st.dev = e.dev
	e.pass.dev = e.dev
	e.pass.st = &e.st
	e.rng = rand.New(rand.NewSource(p.Seed))
	e.ambient = NewAmbient(p.Seed, p.Composite)

	w, h := pixelSize(surface)
	if err := e.generation(w, h); err != nil {
		return nil, err
	}

	e.log.Info("fluid engine created",
		"device", e.dev.Name(),
		"pixel_w", w, "pixel_h", h,
		"grid_w", e.st.gridW(), "grid_h", e.st.gridH(),
		"linear", e.st.velocity.Read.Filter == FilterLinear,
	)
	return e, nil
}

// pixelSize reads the surface size, clamped to at least one pixel per axis.
func pixelSize(s Surface) (int, int) {
	w, h := s.PixelSize()
	return max(w, 1), max(h, 1)
}

// generation allocates and seeds a fresh set of fields for a w×h surface.
func (e *Engine) generation(w, h int) error {
	if err := e.st.allocate(w, h, e.params); err != nil {
		return err
	}
	e.seed()
	e.carved = e.carved[:0]
	e.frame = image.NewRGBA(image.Rect(0, 0, e.st.gridW(), e.st.gridH()))
	e.held = false
	composite(e.frame, e.st.density.Read, &e.params.Composite, e.lastStep.Seconds(), e.dev)
	return nil
}

// Resize reallocates every field if the surface pixel size changed since the
// last allocation. Prior content is discarded and the density is reseeded.
func (e *Engine) Resize() error {
	if e.disposed {
		return ErrDisposed
	}
	w, h := pixelSize(e.surface)
	if e.st.allocated() && w == e.st.pixW && h == e.st.pixH {
		return nil
	}
	e.st.release()
	e.carved = e.carved[:0]
	if err := e.generation(w, h); err != nil {
		e.frame = nil
		return fmt.Errorf("fluid: resize to %dx%d: %w", w, h, err)
	}
	e.log.Debug("fluid engine resized",
		"pixel_w", w, "pixel_h", h,
		"grid_w", e.st.gridW(), "grid_h", e.st.gridH(),
	)
	return nil
}

// Step advances the simulation to now, measured on any monotonic clock.
// The time step is the elapsed time clamped to [0, MaxStepDt]; the first
// step uses MaxStepDt. With reduced set, the solver is skipped and a static
// ambient frame is rendered once and then held.
func (e *Engine) Step(now time.Duration, reduced bool) {
	if e.disposed || !e.st.allocated() {
		return
	}
	dt := e.params.MaxStepDt
	if e.started {
		dt = clampF((now - e.lastStep).Seconds(), 0, e.params.MaxStepDt)
	}
	e.started = true
	e.lastStep = now
	e.lastDt = dt

	if reduced {
		if !e.held {
			e.ambient.Render(e.frame, 0, false)
			e.held = true
		}
		return
	}
	e.held = false

	e.applyDrift(now.Seconds())
	e.simulate(dt)
	e.pass.mark(PhaseComposite)
	composite(e.frame, e.st.density.Read, &e.params.Composite, now.Seconds(), e.dev)
	e.steps++
}

// Frame returns the most recently composited image, sized to the grid with
// row 0 at the top. The image is reused across steps. It is nil after Dispose.
func (e *Engine) Frame() *image.RGBA { return e.frame }

// Params returns the engine's configuration.
func (e *Engine) Params() Params { return e.params }

// Device returns the device the engine runs on.
func (e *Engine) Device() Device { return e.dev }

// Disposed reports whether Dispose has been called.
func (e *Engine) Disposed() bool { return e.disposed }

// FieldSet exposes the current buffers read-only.
type FieldSet struct {
	Velocity, Density, Pressure DoubleField
	Divergence, Curl            *Field
}

// Fields returns the current generation's buffers. Callers must not write to them.
func (e *Engine) Fields() FieldSet {
	return FieldSet{
		Velocity:   e.st.velocity,
		Density:    e.st.density,
		Pressure:   e.st.pressure,
		Divergence: e.st.divergence,
		Curl:       e.st.curl,
	}
}

// Dispose releases every field. It is idempotent and leaves all other
// methods as no-ops.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.st.release()
	e.frame = nil
	e.carved = nil
	e.disposed = true
	e.log.Info("fluid engine disposed", "steps", e.steps, "splats", e.splats)
}
