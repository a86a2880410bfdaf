package driver

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/steam/fluid"
)

type testSurface struct{ w, h int }

func (s *testSurface) PixelSize() (int, int)   { return s.w, s.h }
func (s *testSurface) DisplayScale() float64 { return 1 }

// rectResolver resolves points against a fixed list of rects.
type rectResolver struct {
	rects []fluid.Rect
	calls int
}

func (r *rectResolver) Resolve(x, y float64) (fluid.Rect, bool) {
	r.calls++
	for _, rect := range r.rects {
		if x >= rect.Left && x <= rect.Right && y >= rect.Top && y <= rect.Bottom {
			return rect, true
		}
	}
	return fluid.Rect{}, false
}

func testOptions() Options {
	o := DefaultOptions()
	o.Fluid.Drift.Enabled = false
	o.Fluid.SeedSplats = 4
	return o
}

func newTestDriver(t *testing.T, opts Options, resolver ObstacleResolver) *Driver {
	t.Helper()
	d := New(&testSurface{w: 160, h: 120}, opts, resolver)
	if d.Err() != nil {
		t.Fatalf("unexpected construction error: %v", d.Err())
	}
	return d
}

func TestPointerFirstContactOnlyCreates(t *testing.T) {
	d := newTestDriver(t, testOptions(), nil)
	d.PointerDown(1, 0.5, 0.5, time.Second)

	ps := d.Pointers()
	if len(ps) != 1 || ps[0].ID != 1 {
		t.Fatalf("pointers = %+v", ps)
	}
	if ps[0].Moving() {
		t.Error("first contact should have zero velocity")
	}
	if len(d.pointers.queue) != 0 {
		t.Errorf("first contact queued %d commands", len(d.pointers.queue))
	}
}

func TestPointerVelocityEstimate(t *testing.T) {
	opts := testOptions()
	d := newTestDriver(t, opts, nil)
	d.PointerDown(1, 0.5, 0.5, time.Second)
	d.PointerMove(1, 0.6, 0.4, time.Second+100*time.Millisecond)

	p := d.Pointers()[0]
	wantVX := 0.1 / 0.1 * opts.VelocityScale
	wantVY := -0.1 / 0.1 * opts.VelocityScale
	if math.Abs(p.VX-wantVX) > 1e-9 || math.Abs(p.VY-wantVY) > 1e-9 {
		t.Errorf("velocity (%v, %v), want (%v, %v)", p.VX, p.VY, wantVX, wantVY)
	}

	q := d.pointers.queue
	if len(q) != 1 || q[0].kind != cmdSplat || q[0].scale != opts.PointerDensityScale {
		t.Fatalf("queue = %+v", q)
	}
}

func TestPointerMinSampleDt(t *testing.T) {
	opts := testOptions()
	d := newTestDriver(t, opts, nil)
	d.PointerDown(1, 0.5, 0.5, time.Second)
	// Same timestamp: dt is floored at 1/120 s.
	d.PointerMove(1, 0.51, 0.5, time.Second)

	p := d.Pointers()[0]
	want := 0.01 * 120 * opts.VelocityScale
	if math.Abs(p.VX-want) > 1e-6 {
		t.Errorf("vx = %v, want %v", p.VX, want)
	}
	if math.IsInf(p.VX, 0) || math.IsNaN(p.VX) {
		t.Error("velocity is not finite")
	}
}

func TestPointerClampsPosition(t *testing.T) {
	d := newTestDriver(t, testOptions(), nil)
	d.PointerDown(3, -0.5, 1.5, 0)
	p := d.Pointers()[0]
	if p.X != 0 || p.Y != 1 {
		t.Errorf("position (%v, %v), want (0, 1)", p.X, p.Y)
	}
}

func TestPointerDecaySnapsToZero(t *testing.T) {
	d := newTestDriver(t, testOptions(), nil)
	d.PointerDown(1, 0.5, 0.5, 0)
	d.PointerMove(1, 0.5001, 0.5, 100*time.Millisecond)

	for i := 0; i < 2000 && d.Pointers()[0].Moving(); i++ {
		d.Tick(time.Duration(i) * 16 * time.Millisecond)
	}
	p := d.Pointers()[0]
	if p.VX != 0 || p.VY != 0 {
		t.Errorf("velocity did not snap to zero: (%v, %v)", p.VX, p.VY)
	}
}

func TestPointerUpRemoves(t *testing.T) {
	d := newTestDriver(t, testOptions(), nil)
	d.PointerDown(1, 0.2, 0.2, 0)
	d.PointerDown(2, 0.8, 0.8, 0)
	d.PointerUp(1)
	d.PointerCancel(2)
	d.PointerUp(99)
	if n := len(d.Pointers()); n != 0 {
		t.Errorf("pointers = %d, want 0", n)
	}
}

func TestTickFlushesInOrder(t *testing.T) {
	d := newTestDriver(t, testOptions(), nil)
	e := d.Engine()
	d.PointerDown(1, 0.5, 0.5, 0)
	d.PointerMove(1, 0.55, 0.5, 20*time.Millisecond)
	d.PointerMove(1, 0.6, 0.5, 40*time.Millisecond)

	before := e.Stats().Splats
	if len(d.pointers.queue) != 2 {
		t.Fatalf("queued %d commands, want 2", len(d.pointers.queue))
	}
	d.Tick(50 * time.Millisecond)
	if got := e.Stats().Splats - before; got != 2 {
		t.Errorf("tick applied %d splats, want 2", got)
	}
	if len(d.pointers.queue) != 0 {
		t.Error("queue not drained")
	}
	if e.Stats().Steps != 1 {
		t.Errorf("steps = %d, want 1", e.Stats().Steps)
	}
}

func TestObstacleCarveAndRelease(t *testing.T) {
	box := fluid.Rect{Left: 0.4, Right: 0.6, Top: 0.4, Bottom: 0.6}
	res := &rectResolver{rects: []fluid.Rect{box}}
	d := newTestDriver(t, testOptions(), res)
	e := d.Engine()

	d.PointerDown(1, 0.1, 0.1, 0)
	d.PointerMove(1, 0.5, 0.5, 16*time.Millisecond)
	d.Tick(16 * time.Millisecond)
	if n := len(e.Carved()); n != 1 {
		t.Fatalf("carved = %d, want 1", n)
	}
	if p := d.Pointers()[0]; p.Obstacle == nil || *p.Obstacle != box {
		t.Fatalf("pointer obstacle = %v", p.Obstacle)
	}

	// Staying on the same region does not carve again.
	splats := e.Stats().Splats
	d.PointerMove(1, 0.52, 0.5, 32*time.Millisecond)
	d.Tick(32 * time.Millisecond)
	if got := e.Stats().Splats - splats; got != 1 {
		t.Errorf("move within region applied %d splats, want 1", got)
	}

	// Leaving all regions releases.
	d.PointerMove(1, 0.9, 0.9, 48*time.Millisecond)
	d.Tick(48 * time.Millisecond)
	if n := len(e.Carved()); n != 0 {
		t.Errorf("carved = %d after leaving, want 0", n)
	}
	if p := d.Pointers()[0]; p.Obstacle != nil {
		t.Error("pointer still holds an obstacle")
	}
}

func TestObstacleSwitchRegions(t *testing.T) {
	a := fluid.Rect{Left: 0.1, Right: 0.3, Top: 0.1, Bottom: 0.3}
	b := fluid.Rect{Left: 0.3, Right: 0.6, Top: 0.1, Bottom: 0.3}
	res := &rectResolver{rects: []fluid.Rect{a, b}}
	d := newTestDriver(t, testOptions(), res)
	e := d.Engine()

	d.PointerDown(1, 0.2, 0.2, 0)
	d.PointerMove(1, 0.2, 0.2, 10*time.Millisecond)
	d.PointerMove(1, 0.5, 0.2, 20*time.Millisecond)
	d.Tick(20 * time.Millisecond)

	carved := e.Carved()
	if len(carved) != 1 || carved[0] != b {
		t.Errorf("carved = %v, want only %v", carved, b)
	}
	if p := d.Pointers()[0]; p.Obstacle == nil || *p.Obstacle != b {
		t.Errorf("pointer obstacle = %v, want %v", p.Obstacle, b)
	}
}

func TestPointerUpReleasesObstacle(t *testing.T) {
	box := fluid.Rect{Left: 0.4, Right: 0.6, Top: 0.4, Bottom: 0.6}
	d := newTestDriver(t, testOptions(), &rectResolver{rects: []fluid.Rect{box}})
	e := d.Engine()

	d.PointerDown(7, 0.5, 0.5, 0)
	d.PointerMove(7, 0.5, 0.51, 10*time.Millisecond)
	d.Tick(10 * time.Millisecond)
	if len(e.Carved()) != 1 {
		t.Fatal("expected a carved obstacle")
	}
	d.PointerUp(7)
	d.Tick(20 * time.Millisecond)
	if len(e.Carved()) != 0 {
		t.Error("pointer up did not release the obstacle")
	}
}

func TestSharedRegionStaysCarved(t *testing.T) {
	box := fluid.Rect{Left: 0.4, Right: 0.6, Top: 0.4, Bottom: 0.6}
	d := newTestDriver(t, testOptions(), &rectResolver{rects: []fluid.Rect{box}})
	e := d.Engine()

	d.PointerDown(1, 0.45, 0.45, 0)
	d.PointerDown(2, 0.55, 0.55, 0)
	d.PointerMove(1, 0.46, 0.45, 10*time.Millisecond)
	d.PointerMove(2, 0.54, 0.55, 10*time.Millisecond)
	d.Tick(10 * time.Millisecond)
	if n := len(e.Carved()); n != 1 {
		t.Fatalf("carved = %d, want 1 shared rect", n)
	}

	d.PointerUp(1)
	d.Tick(20 * time.Millisecond)
	if n := len(e.Carved()); n != 0 {
		t.Fatalf("carved = %d after first pointer left, want 0", n)
	}

	d.PointerMove(2, 0.53, 0.55, 30*time.Millisecond)
	d.Tick(30 * time.Millisecond)
	if n := len(e.Carved()); n != 1 {
		t.Errorf("carved = %d, want the region carved again for pointer 2", n)
	}
	if p := d.Pointers()[0]; p.ID != 2 || p.Obstacle == nil || *p.Obstacle != box {
		t.Errorf("pointer 2 obstacle = %v, want %v", p.Obstacle, box)
	}
}

func TestPointerDropsNonFiniteSamples(t *testing.T) {
	d := newTestDriver(t, testOptions(), nil)
	e := d.Engine()
	d.PointerDown(1, 0.5, 0.5, 0)

	tests := []struct {
		name string
		x, y float64
	}{
		{"nan x", math.NaN(), 0.5},
		{"nan y", 0.5, math.NaN()},
		{"inf x", math.Inf(1), 0.5},
		{"-inf y", 0.5, math.Inf(-1)},
	}
	for i, tt := range tests {
		d.PointerMove(1, tt.x, tt.y, time.Duration(i+1)*10*time.Millisecond)
		if n := len(d.pointers.queue); n != 0 {
			t.Errorf("%s: queued %d commands, want 0", tt.name, n)
		}
	}
	d.PointerDown(2, math.NaN(), 0.5, 0)
	if n := len(d.Pointers()); n != 1 {
		t.Errorf("pointers = %d, a non-finite first contact should not create one", n)
	}

	d.Tick(50 * time.Millisecond)
	if m := e.Stats().Mass; math.IsNaN(m) || math.IsInf(m, 0) {
		t.Errorf("mass = %v after non-finite samples", m)
	}
	if p := d.Pointers()[0]; p.X != 0.5 || p.Y != 0.5 {
		t.Errorf("pointer moved to (%v, %v)", p.X, p.Y)
	}
}

func TestIdleSwirlCadence(t *testing.T) {
	opts := testOptions()
	d := newTestDriver(t, opts, nil)
	now := time.Duration(0)
	for now <= 3*time.Second {
		d.Tick(now)
		now += 100 * time.Millisecond
	}
	// 3 s of ticks at a 1.4 s interval.
	if d.IdleSwirls() != 2 {
		t.Errorf("idle swirls = %d, want 2", d.IdleSwirls())
	}
}

func TestIdleSuppressedByMovingPointer(t *testing.T) {
	opts := testOptions()
	opts.PointerDecay = 1 // keep the pointer moving
	d := newTestDriver(t, opts, nil)
	d.PointerDown(1, 0.2, 0.2, 0)
	d.PointerMove(1, 0.3, 0.2, 50*time.Millisecond)

	for now := time.Duration(0); now <= 3*time.Second; now += 100 * time.Millisecond {
		d.Tick(now)
	}
	if d.IdleSwirls() != 0 {
		t.Errorf("idle swirls = %d while a pointer moves, want 0", d.IdleSwirls())
	}
}

func TestReducedMotionToggle(t *testing.T) {
	d := newTestDriver(t, testOptions(), nil)
	e := d.Engine()

	d.Tick(0)
	if d.Mode() != Active {
		t.Fatalf("mode = %v, want active", d.Mode())
	}

	d.SetReducedMotion(true)
	if d.Mode() != Active {
		t.Error("mode must not change before the next tick")
	}
	d.Tick(16 * time.Millisecond)
	if d.Mode() != Reduced {
		t.Fatalf("mode = %v, want reduced", d.Mode())
	}
	steps := e.Stats().Steps
	d.PointerDown(1, 0.5, 0.5, 0)
	d.Tick(32 * time.Millisecond)
	if e.Stats().Steps != steps {
		t.Error("solver ran in reduced mode")
	}
	if len(d.Pointers()) != 0 {
		t.Error("pointer input accepted in reduced mode")
	}

	d.SetReducedMotion(false)
	d.Tick(48 * time.Millisecond)
	if d.Mode() != Active || e.Stats().Steps != steps+1 {
		t.Errorf("expected to resume active stepping, mode %v", d.Mode())
	}
}

func TestReducedReleasesCarvedObstacles(t *testing.T) {
	box := fluid.Rect{Left: 0.4, Right: 0.6, Top: 0.4, Bottom: 0.6}
	d := newTestDriver(t, testOptions(), &rectResolver{rects: []fluid.Rect{box}})
	d.PointerDown(1, 0.5, 0.5, 0)
	d.PointerMove(1, 0.5, 0.52, 10*time.Millisecond)
	d.Tick(10 * time.Millisecond)

	d.SetReducedMotion(true)
	d.Tick(20 * time.Millisecond)
	if n := len(d.Engine().Carved()); n != 0 {
		t.Errorf("carved = %d after entering reduced mode, want 0", n)
	}
}

func TestStartReduced(t *testing.T) {
	opts := testOptions()
	opts.ReducedMotion = true
	d := newTestDriver(t, opts, nil)
	if d.Mode() != Reduced {
		t.Errorf("mode = %v, want reduced", d.Mode())
	}
	d.Tick(0)
	if d.Frame() == nil {
		t.Error("reduced mode should still produce a frame")
	}
}

func TestUnavailableIsPermanent(t *testing.T) {
	opts := testOptions()
	opts.EngineOptions = []fluid.Option{
		fluid.WithDevice(fluid.NewCPUDevice(fluid.WithCapabilities(fluid.Capabilities{}))),
	}
	d := New(&testSurface{w: 160, h: 120}, opts, nil)
	if d.Mode() != Unavailable {
		t.Fatalf("mode = %v, want unavailable", d.Mode())
	}
	if !errors.Is(d.Err(), fluid.ErrCapability) {
		t.Errorf("Err() = %v, want ErrCapability", d.Err())
	}
	if d.Engine() != nil {
		t.Error("no engine expected")
	}

	d.SetReducedMotion(true)
	d.Tick(0)
	d.SetReducedMotion(false)
	d.Tick(16 * time.Millisecond)
	if d.Mode() != Unavailable {
		t.Errorf("mode = %v, unavailable must not be left", d.Mode())
	}

	d.PointerDown(1, 0.5, 0.5, 0)
	if len(d.Pointers()) != 0 {
		t.Error("pointer input accepted while unavailable")
	}

	f := d.Frame()
	if f == nil {
		t.Fatal("unavailable mode needs a fallback frame")
	}
	if b := f.Bounds(); b.Dx() != 67 || b.Dy() != 50 {
		t.Errorf("fallback frame %v, want 67x50", b)
	}
}

func TestUnavailableFrameAnimates(t *testing.T) {
	opts := testOptions()
	opts.Fluid.SimScale = 0 // rejected by the engine
	d := New(&testSurface{w: 64, h: 64}, opts, nil)
	if d.Mode() != Unavailable {
		t.Fatalf("mode = %v, want unavailable", d.Mode())
	}
	d.Tick(0)
	first := append([]uint8(nil), d.Frame().Pix...)
	d.Tick(2 * time.Second)
	same := true
	for i, v := range d.Frame().Pix {
		if v != first[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("fallback frame should change over time")
	}
}

func TestDriverResize(t *testing.T) {
	surf := &testSurface{w: 800, h: 600}
	d := New(surf, testOptions(), nil)
	e := d.Engine()
	surf.w, surf.h = 1600, 1200
	d.Resize()
	s := e.Stats()
	if s.GridW != 672 || s.GridH != 504 {
		t.Errorf("grid %dx%d, want 672x504", s.GridW, s.GridH)
	}
	if d.Mode() != Active {
		t.Errorf("mode = %v after resize", d.Mode())
	}
}

func TestDriverResizeFailureFallsBack(t *testing.T) {
	surf := &testSurface{w: 100, h: 100}
	opts := testOptions()
	opts.Fluid.SimScale = 1
	opts.EngineOptions = []fluid.Option{
		fluid.WithDevice(fluid.NewCPUDevice(fluid.WithCapabilities(fluid.Capabilities{
			FloatRenderTargets: true,
			MaxTextureSize:     128,
		}))),
	}
	d := New(surf, opts, nil)
	if d.Mode() != Active {
		t.Fatalf("mode = %v, want active", d.Mode())
	}
	surf.w = 400
	d.Resize()
	if d.Mode() != Unavailable {
		t.Errorf("mode = %v after failed resize, want unavailable", d.Mode())
	}
	if !errors.Is(d.Err(), fluid.ErrResource) {
		t.Errorf("Err() = %v, want ErrResource", d.Err())
	}
	d.Tick(0)
	if d.Frame() == nil {
		t.Error("fallback frame missing after failed resize")
	}
}

func TestDriverDispose(t *testing.T) {
	d := newTestDriver(t, testOptions(), nil)
	e := d.Engine()
	d.PointerDown(1, 0.5, 0.5, 0)
	d.Dispose()
	d.Dispose()
	if !e.Disposed() {
		t.Error("engine not disposed")
	}
	d.Tick(time.Second)
	d.PointerMove(1, 0.6, 0.6, time.Second)
	d.Resize()
	if d.Frame() != nil {
		t.Error("frame should be nil after dispose")
	}
	if len(d.Pointers()) != 0 {
		t.Error("pointer table not cleared")
	}
}
