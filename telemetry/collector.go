package telemetry

import (
	"time"

	"github.com/pthm-cable/steam/driver"
)

// Collector accumulates counters within time windows and produces
// WindowStats.
type Collector struct {
	window time.Duration

	started     bool
	windowStart time.Duration

	// Counter baselines at window start
	steps, splats, idles uint64
	resizes              int

	density []float64
}

// NewCollector creates a stats collector emitting one row per window.
// A non-positive window defaults to one second.
func NewCollector(window time.Duration) *Collector {
	if window <= 0 {
		window = time.Second
	}
	return &Collector{window: window}
}

// RecordResize counts a surface resize in the current window.
func (c *Collector) RecordResize() {
	c.resizes++
}

// ShouldFlush reports whether the window ending at now is complete.
func (c *Collector) ShouldFlush(now time.Duration) bool {
	if !c.started {
		c.started = true
		c.windowStart = now
		return false
	}
	return now-c.windowStart >= c.window
}

// Flush samples d and produces the stats for the window ending at now, then
// starts the next window.
func (c *Collector) Flush(now time.Duration, d *driver.Driver) WindowStats {
	s := WindowStats{
		WindowStart: c.windowStart.Seconds(),
		WindowEnd:   now.Seconds(),
		Mode:        d.Mode().String(),
		Resizes:     c.resizes,
		Pointers:    len(d.Pointers()),
	}

	idles := d.IdleSwirls()
	s.IdleSwirls = idles - c.idles
	c.idles = idles

	if e := d.Engine(); e != nil && !e.Disposed() {
		es := e.Stats()
		s.GridW, s.GridH = es.GridW, es.GridH
		s.Steps = es.Steps - c.steps
		s.Splats = es.Splats - c.splats
		c.steps, c.splats = es.Steps, es.Splats
		s.Carved = es.Carved
		s.Mass = es.Mass
		s.VelocityNorm = es.VelocityNorm

		c.density = DensityValues(e.Fields().Density.Read, c.density)
		s.DensityMean, s.DensityStd, s.DensityP10, s.DensityP50, s.DensityP90 = ComputeDistribution(c.density)
	}
	s.LumaMean, s.LumaStd = FrameLuma(d.Frame())

	c.windowStart = now
	c.resizes = 0
	return s
}
