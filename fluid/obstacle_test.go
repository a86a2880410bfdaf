package fluid

import "testing"

func TestRectNear(t *testing.T) {
	base := Rect{Left: 0.4, Right: 0.6, Top: 0.4, Bottom: 0.6}
	tests := []struct {
		name string
		o    Rect
		want bool
	}{
		{"identical", base, true},
		{"left jitter", Rect{0.41, 0.6, 0.4, 0.6}, true},
		{"all edges jitter", Rect{0.39, 0.615, 0.385, 0.61}, true},
		{"left moved", Rect{0.43, 0.6, 0.4, 0.6}, false},
		{"bottom moved", Rect{0.4, 0.6, 0.4, 0.65}, false},
		{"disjoint", Rect{0, 0.1, 0, 0.1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Near(tt.o, DefaultRectTolerance); got != tt.want {
				t.Errorf("Near(%v) = %v, want %v", tt.o, got, tt.want)
			}
			if got := tt.o.Near(base, DefaultRectTolerance); got != tt.want {
				t.Errorf("Near is not symmetric for %v", tt.o)
			}
		})
	}
}

func TestNormalizeRect(t *testing.T) {
	surface := Rect{Left: 100, Right: 900, Top: 50, Bottom: 650}
	tests := []struct {
		name   string
		region Rect
		want   Rect
		ok     bool
	}{
		{"inside", Rect{300, 500, 200, 350}, Rect{0.25, 0.5, 0.25, 0.5}, true},
		{"clamped", Rect{0, 500, 50, 2000}, Rect{0, 0.5, 0, 1}, true},
		{"empty width", Rect{300, 300, 200, 350}, Rect{}, false},
		{"inverted", Rect{500, 300, 200, 350}, Rect{}, false},
		{"off surface", Rect{1000, 1200, 200, 350}, Rect{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeRect(tt.region, surface)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Near(tt.want, 1e-9) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if _, ok := NormalizeRect(Rect{0, 1, 0, 1}, Rect{}); ok {
		t.Error("degenerate surface should be rejected")
	}
}

func TestCarveToleranceDedup(t *testing.T) {
	e, _ := newTestEngine(t, 100, 100, quietParams())
	start := e.Stats().Splats

	if !e.CarveNormalizedObstacle(Rect{Left: 0.4, Right: 0.6, Top: 0.4, Bottom: 0.6}) {
		t.Fatal("first carve should fire")
	}
	if got := e.Stats().Splats - start; got != 5 {
		t.Errorf("carve emitted %d splats, want 5", got)
	}

	if e.CarveNormalizedObstacle(Rect{Left: 0.41, Right: 0.6, Top: 0.4, Bottom: 0.6}) {
		t.Error("carve within tolerance should be a no-op")
	}
	if got := e.Stats().Splats - start; got != 5 {
		t.Errorf("no-op carve emitted splats: total %d", got)
	}

	if !e.CarveNormalizedObstacle(Rect{Left: 0.43, Right: 0.6, Top: 0.4, Bottom: 0.6}) {
		t.Error("carve beyond tolerance should fire")
	}
	if n := len(e.Carved()); n != 2 {
		t.Errorf("carved = %d, want 2", n)
	}
}

func TestCarveEvacuatesCenter(t *testing.T) {
	p := quietParams()
	p.SimScale = 1
	p.SeedSplats = 0
	e, _ := newTestEngine(t, 100, 100, p)
	before := e.Fields().Density.Read.At(50, 50, 3)
	e.CarveNormalizedObstacle(Rect{Left: 0.4, Right: 0.6, Top: 0.4, Bottom: 0.6})
	after := e.Fields().Density.Read.At(50, 50, 3)
	if after >= before {
		t.Errorf("carve should erase density at center: %v -> %v", before, after)
	}

	vel := e.Fields().Velocity.Read
	// Right edge midpoint pushes +x, left edge pushes -x.
	if vx := vel.At(62, 50, 0); vx <= 0 {
		t.Errorf("right edge velocity %v should point outward", vx)
	}
	if vx := vel.At(37, 50, 0); vx >= 0 {
		t.Errorf("left edge velocity %v should point outward", vx)
	}
}

func TestReleaseWithoutCarveIsNoop(t *testing.T) {
	e, _ := newTestEngine(t, 100, 100, quietParams())
	before := e.Stats()
	density := append([]float32(nil), e.Fields().Density.Read.Data...)

	if e.ReleaseObstacle(Rect{Left: 0.4, Right: 0.6, Top: 0.4, Bottom: 0.6}) {
		t.Error("release without carve should report false")
	}
	if e.Stats().Splats != before.Splats {
		t.Error("release without carve injected a splat")
	}
	for i, v := range e.Fields().Density.Read.Data {
		if v != density[i] {
			t.Fatal("release without carve changed density")
		}
	}
}

func TestReleaseAfterCarve(t *testing.T) {
	e, _ := newTestEngine(t, 100, 100, quietParams())
	r := Rect{Left: 0.2, Right: 0.5, Top: 0.3, Bottom: 0.4}
	e.CarveNormalizedObstacle(r)
	before := e.Stats()
	// Center (0.35, 0.35) on the 42x42 grid, rows counted from the bottom.
	alpha := e.Fields().Density.Read.At(14, 27, 3)

	// A jittered rect releases the remembered one.
	if !e.ReleaseObstacle(Rect{Left: 0.21, Right: 0.5, Top: 0.3, Bottom: 0.39}) {
		t.Fatal("release within tolerance should fire")
	}
	after := e.Stats()
	if after.Splats != before.Splats+1 {
		t.Errorf("release emitted %d splats, want 1", after.Splats-before.Splats)
	}
	if got := e.Fields().Density.Read.At(14, 27, 3); got <= alpha {
		t.Errorf("release should replenish density at the center: %v -> %v", alpha, got)
	}
	if len(e.Carved()) != 0 {
		t.Error("released rect is still carved")
	}
	if e.ReleaseObstacle(r) {
		t.Error("second release should be a no-op")
	}
}

func TestResizeForgetsCarved(t *testing.T) {
	surf := &testSurface{w: 200, h: 200, scale: 1}
	e, err := New(surf, quietParams())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.CarveNormalizedObstacle(Rect{0.1, 0.3, 0.1, 0.3})
	surf.w = 300
	if err := e.Resize(); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if len(e.Carved()) != 0 {
		t.Error("a new generation should start with no carved rects")
	}
}

func TestCarveAfterFailedResize(t *testing.T) {
	surf := &testSurface{w: 100, h: 100, scale: 1}
	dev := NewCPUDevice(WithCapabilities(Capabilities{FloatRenderTargets: true, MaxTextureSize: 64}))
	e, err := New(surf, quietParams(), WithDevice(dev))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := Rect{0.4, 0.6, 0.4, 0.6}
	if !e.CarveNormalizedObstacle(r) {
		t.Fatal("carve on a live engine should succeed")
	}

	surf.w, surf.h = 400, 400
	if err := e.Resize(); err == nil {
		t.Fatal("expected resize past the texture limit to fail")
	}
	if dev.Live() != 0 {
		t.Fatalf("live = %d, want 0 after failed resize", dev.Live())
	}
	if n := len(e.Carved()); n != 0 {
		t.Errorf("carved = %d after failed resize, want 0", n)
	}
	if e.CarveNormalizedObstacle(r) {
		t.Error("carve without fields should report false")
	}
	if e.ReleaseObstacle(r) {
		t.Error("release without fields should report false")
	}
	if n := len(e.Carved()); n != 0 {
		t.Errorf("carved = %d, want 0", n)
	}
}
