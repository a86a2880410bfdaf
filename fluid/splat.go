package fluid

import "math"

// minRadius keeps the Gaussian defined when the configured radius is zero.
const minRadius = 1e-9

// AddSplat deposits a Gaussian puff of force (fx, fy) and density at the
// normalized point (x, y), origin top-left. densityScale scales the density
// amount; negative values erase, zero injects velocity only. Faster forces
// widen the puff and deposit more.
func (e *Engine) AddSplat(x, y, fx, fy, densityScale float64) {
	if e.disposed || !e.st.allocated() {
		return
	}
	p := &e.params
	pixW, pixH := e.st.pixW, e.st.pixH
	speed := math.Hypot(fx, fy)

	radius := p.InjectRadiusPx * e.surface.DisplayScale() / float64(max(pixW, pixH))
	radius *= 0.6 + math.Min(speed*0.01, 0.8)

	u := &e.su
	*u = uniforms{
		point:  [2]float64{x, 1 - y},
		radius: math.Max(radius, minRadius),
		aspect: float64(pixW) / float64(pixH),
	}

	strength := 0.35 + math.Min(speed*0.02, 0.9)
	u.color = [4]float32{float32(fx * strength), float32(-fy * strength)}
	e.pass.run(PassSplatVelocity, u)

	amount := p.DensityAmount * (0.7 + math.Min(speed*0.02, 0.9)) * densityScale
	u.color = [4]float32{0, 0, 0, float32(amount)}
	e.pass.run(PassSplatDensity, u)

	e.splats++
}

// AddIdleSwirl deposits one weak, randomly placed and oriented splat.
func (e *Engine) AddIdleSwirl() {
	if e.disposed {
		return
	}
	ip := &e.params.Idle
	x := 0.2 + e.rng.Float64()*0.6
	y := 0.25 + e.rng.Float64()*0.5
	angle := e.rng.Float64() * 2 * math.Pi
	speed := ip.MinSpeed + e.rng.Float64()*(ip.MaxSpeed-ip.MinSpeed)
	e.AddSplat(x, y, math.Cos(angle)*speed*ip.ForceGain, math.Sin(angle)*speed*ip.ForceGain, 1)
}

// driftSource is one orbiting background force source.
type driftSource struct {
	x, y, vx, vy float64
}

// driftSources evaluates the three background sources at phase period.
func driftSources(period float64) [3]driftSource {
	return [3]driftSource{
		{
			x:  0.35 + 0.25*math.Sin(period*0.9+0.3),
			y:  0.45 + 0.18*math.Cos(period*1.1+0.8),
			vx: math.Cos(period) * 0.8,
			vy: math.Sin(period*1.2) * 0.8,
		},
		{
			x:  0.65 + 0.2*math.Cos(period*0.7+1.6),
			y:  0.55 + 0.22*math.Sin(period*0.6+0.5),
			vx: -math.Sin(period*0.6) * 0.7,
			vy: math.Cos(period*0.8) * 0.7,
		},
		{
			x:  0.5 + 0.3*math.Sin(period*0.5),
			y:  0.35 + 0.15*math.Cos(period*0.4+1.2),
			vx: math.Sin(period*0.9) * 0.6,
			vy: -math.Cos(period*0.9) * 0.6,
		},
	}
}

// applyDrift injects the background sources for simulation time t seconds.
func (e *Engine) applyDrift(t float64) {
	d := &e.params.Drift
	if !d.Enabled {
		return
	}
	for _, s := range driftSources(t * d.Rate) {
		e.AddSplat(s.x, s.y, s.vx*d.Force, s.vy*d.Force, d.Amount)
	}
}

// seed scatters the initial density puffs over a freshly allocated generation.
func (e *Engine) seed() {
	p := &e.params
	n := p.SeedSplats
	if n <= 0 {
		return
	}
	u := &e.su
	*u = uniforms{
		radius: math.Max(p.InjectRadiusPx*0.6/float64(max(e.st.pixW, e.st.pixH)), minRadius),
		aspect: float64(e.st.pixW) / float64(e.st.pixH),
		color:  [4]float32{0, 0, 0, float32(p.BaseNoise)},
	}
	for i := 0; i < n; i++ {
		u.point = [2]float64{e.rng.Float64(), e.rng.Float64()}
		e.pass.run(PassSplatDensity, u)
	}
}
