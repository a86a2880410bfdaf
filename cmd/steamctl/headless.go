package main

import (
	"math"
	"time"

	"github.com/pthm-cable/steam/config"
	"github.com/pthm-cable/steam/driver"
	"github.com/pthm-cable/steam/fluid"
	"github.com/pthm-cable/steam/scene"
	"github.com/pthm-cable/steam/telemetry"
)

// fixedSurface is a surface of constant size.
type fixedSurface struct {
	w, h  int
	scale float64
}

func (s *fixedSurface) PixelSize() (int, int)   { return s.w, s.h }
func (s *fixedSurface) DisplayScale() float64 { return s.scale }

// headless runs the driver on a fixed clock with a scripted pointer.
type headless struct {
	surface *fixedSurface
	driver  *driver.Driver
	regions *scene.Registry
	perf    *telemetry.PerfCollector

	frame time.Duration // fixed frame period
	now   time.Duration
	ticks uint64

	// stroke moves pointer 1 around an ellipse when set.
	stroke bool
}

func newHeadless(cfg *config.Config, w, h int, fps int) *headless {
	if fps <= 0 {
		fps = 60
	}
	hl := &headless{
		surface: &fixedSurface{w: w, h: h, scale: 1},
		regions: scene.NewRegistry(),
		perf:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		frame:   time.Second / time.Duration(fps),
	}
	for _, r := range cfg.Scene.Regions {
		if r.VX != 0 || r.VY != 0 {
			hl.regions.AddMoving(r.Name, r.Rect(), r.Z, r.VX, r.VY)
		} else {
			hl.regions.Add(r.Name, r.Rect(), r.Z)
		}
	}
	hl.driver = driver.New(hl.surface, cfg.DriverOptions(fluid.WithPhaseHook(hl.perf.StartPhase)), hl.regions)
	return hl
}

// step advances one frame.
func (hl *headless) step() {
	hl.perf.StartTick()
	hl.perf.StartPhase(telemetry.PhaseInput)
	if hl.stroke {
		// One lap every four seconds.
		a := 2 * math.Pi * hl.now.Seconds() / 4
		hl.driver.PointerMove(1, 0.5+0.3*math.Cos(a), 0.5+0.25*math.Sin(a), hl.now)
	}
	hl.perf.StartPhase(telemetry.PhaseScene)
	hl.regions.Update(hl.frame.Seconds())
	hl.driver.Tick(hl.now)
	hl.perf.EndTick()

	hl.now += hl.frame
	hl.ticks++
}

func (hl *headless) close() { hl.driver.Dispose() }
