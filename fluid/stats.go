package fluid

import "gonum.org/v1/gonum/blas/blas32"

// Stats is a snapshot of engine state for telemetry and tests.
type Stats struct {
	GridW, GridH int
	Steps        uint64
	Splats       uint64
	Carved       int
	LastDt       float64 // seconds

	// Mass is the sum of |density alpha| over the grid.
	Mass float64
	// VelocityNorm is the L2 norm of the velocity field.
	VelocityNorm float64
	// PassRuns counts dispatches per pass, indexed by PassID.
	PassRuns [passCount]uint64
}

// densityMass sums |alpha| over a 4-channel field.
func densityMass(f *Field) float64 {
	n := f.W * f.H
	if f.Released() || n == 0 {
		return 0
	}
	return float64(blas32.Asum(blas32.Vector{N: n, Inc: f.Channels, Data: f.Data[3:]}))
}

// fieldNorm is the L2 norm over every channel of f.
func fieldNorm(f *Field) float64 {
	if f.Released() || len(f.Data) == 0 {
		return 0
	}
	return float64(blas32.Nrm2(blas32.Vector{N: len(f.Data), Inc: 1, Data: f.Data}))
}

// Stats returns a snapshot. It is cheap enough to call every frame.
func (e *Engine) Stats() Stats {
	s := Stats{
		Steps:    e.steps,
		Splats:   e.splats,
		Carved:   len(e.carved),
		LastDt:   e.lastDt,
		PassRuns: e.pass.runs,
	}
	if e.disposed || !e.st.allocated() {
		return s
	}
	s.GridW, s.GridH = e.st.gridW(), e.st.gridH()
	s.Mass = densityMass(e.st.density.Read)
	s.VelocityNorm = fieldNorm(e.st.velocity.Read)
	return s
}
