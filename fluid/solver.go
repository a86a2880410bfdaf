package fluid

// simulate runs the solver pipeline once with time step dt seconds.
func (e *Engine) simulate(dt float64) {
	p := &e.params
	u := &e.u
	*u = uniforms{
		dt:       dt,
		margin:   p.AdvectMargin,
		curl:     float32(p.CurlStrength),
		buoyancy: float32(p.Buoyancy),
		upDrift:  float32(p.UpDrift),
		decay:    float32(p.GradientDecay),
	}

	u.dissipation = float32(p.VelocityDissipation)
	e.pass.run(PassAdvectVelocity, u)
	e.pass.run(PassCurl, u)
	e.pass.run(PassVorticity, u)
	e.pass.run(PassBuoyancy, u)

	u.dissipation = float32(p.DensityDissipation)
	e.pass.run(PassAdvectDensity, u)

	e.project(p.PressureIterations)
}

// project makes velocity approximately divergence free.
func (e *Engine) project(iterations int) {
	u := &e.u
	e.pass.run(PassDivergence, u)
	e.pass.run(PassClearPressure, u)
	for i := 0; i < iterations; i++ {
		e.pass.run(PassPressure, u)
	}
	e.pass.run(PassGradient, u)
}
