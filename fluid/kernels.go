package fluid

import "math"

// Kernels address neighbors with Field.At, which clamps to the grid edge.
// Inputs of these kernels share the output's grid, so texel (x, y) of the
// output is texel (x, y) of every input.

// advectKernel: in[0] velocity, in[1] source.
func advectKernel(in []*Field, out *Field, u *uniforms, y0, y1 int) {
	vel, src := in[0], in[1]
	lo, hi := u.margin, 1-u.margin
	c := out.Channels
	for y := y0; y < y1; y++ {
		v := (float64(y) + 0.5) * out.TexelY
		for x := 0; x < out.W; x++ {
			uu := (float64(x) + 0.5) * out.TexelX
			cx := clampF(uu-u.dt*float64(vel.At(x, y, 0))*vel.TexelX, lo, hi)
			cy := clampF(v-u.dt*float64(vel.At(x, y, 1))*vel.TexelY, lo, hi)
			s := src.Sample(cx, cy)
			i := (y*out.W + x) * c
			for ch := 0; ch < c; ch++ {
				out.Data[i+ch] = s[ch] * u.dissipation
			}
		}
	}
}

// curlKernel: in[0] velocity.
func curlKernel(in []*Field, out *Field, _ *uniforms, y0, y1 int) {
	vel := in[0]
	for y := y0; y < y1; y++ {
		for x := 0; x < out.W; x++ {
			l := vel.At(x-1, y, 1)
			r := vel.At(x+1, y, 1)
			b := vel.At(x, y-1, 0)
			t := vel.At(x, y+1, 0)
			out.Data[y*out.W+x] = r - l - (t - b)
		}
	}
}

// vorticityKernel: in[0] velocity, in[1] curl.
func vorticityKernel(in []*Field, out *Field, u *uniforms, y0, y1 int) {
	vel, curl := in[0], in[1]
	dt := float32(u.dt)
	for y := y0; y < y1; y++ {
		for x := 0; x < out.W; x++ {
			l := curl.At(x-1, y, 0)
			r := curl.At(x+1, y, 0)
			b := curl.At(x, y-1, 0)
			t := curl.At(x, y+1, 0)
			c := curl.At(x, y, 0)

			fx := abs32(t) - abs32(b) + 1e-5
			fy := abs32(r) - abs32(l) + 1e-5
			n := float32(math.Sqrt(float64(fx*fx + fy*fy)))
			fx, fy = fx/n, fy/n
			s := u.curl * c * dt

			i := (y*out.W + x) * 2
			out.Data[i] = vel.Data[i] + fx*s
			out.Data[i+1] = vel.Data[i+1] + fy*s
		}
	}
}

// buoyancyKernel: in[0] velocity, in[1] density.
func buoyancyKernel(in []*Field, out *Field, u *uniforms, y0, y1 int) {
	vel, den := in[0], in[1]
	for y := y0; y < y1; y++ {
		for x := 0; x < out.W; x++ {
			i := y*out.W + x
			a := den.Data[i*4+3]
			out.Data[i*2] = vel.Data[i*2]
			out.Data[i*2+1] = vel.Data[i*2+1] + a*u.buoyancy + u.upDrift
		}
	}
}

// divergenceKernel: in[0] velocity.
func divergenceKernel(in []*Field, out *Field, _ *uniforms, y0, y1 int) {
	vel := in[0]
	for y := y0; y < y1; y++ {
		for x := 0; x < out.W; x++ {
			l := vel.At(x-1, y, 0)
			r := vel.At(x+1, y, 0)
			b := vel.At(x, y-1, 1)
			t := vel.At(x, y+1, 1)
			out.Data[y*out.W+x] = 0.5 * (r - l + t - b)
		}
	}
}

func clearKernel(_ []*Field, out *Field, _ *uniforms, y0, y1 int) {
	clear(out.Data[y0*out.W*out.Channels : y1*out.W*out.Channels])
}

// jacobiKernel: in[0] pressure, in[1] divergence.
func jacobiKernel(in []*Field, out *Field, _ *uniforms, y0, y1 int) {
	p, div := in[0], in[1]
	for y := y0; y < y1; y++ {
		for x := 0; x < out.W; x++ {
			l := p.At(x-1, y, 0)
			r := p.At(x+1, y, 0)
			b := p.At(x, y-1, 0)
			t := p.At(x, y+1, 0)
			i := y*out.W + x
			out.Data[i] = (l + r + b + t - div.Data[i]) * 0.25
		}
	}
}

// gradientKernel: in[0] pressure, in[1] velocity.
func gradientKernel(in []*Field, out *Field, u *uniforms, y0, y1 int) {
	p, vel := in[0], in[1]
	for y := y0; y < y1; y++ {
		for x := 0; x < out.W; x++ {
			l := p.At(x-1, y, 0)
			r := p.At(x+1, y, 0)
			b := p.At(x, y-1, 0)
			t := p.At(x, y+1, 0)
			i := (y*out.W + x) * 2
			out.Data[i] = (vel.Data[i] - 0.5*(r-l)) * u.decay
			out.Data[i+1] = (vel.Data[i+1] - 0.5*(t-b)) * u.decay
		}
	}
}

// splatKernel: in[0] target. Adds color weighted by a Gaussian centered at
// point, with x distances stretched by the surface aspect ratio.
func splatKernel(in []*Field, out *Field, u *uniforms, y0, y1 int) {
	src := in[0]
	c := out.Channels
	for y := y0; y < y1; y++ {
		dy := (float64(y)+0.5)*out.TexelY - u.point[1]
		for x := 0; x < out.W; x++ {
			dx := ((float64(x)+0.5)*out.TexelX - u.point[0]) * u.aspect
			w := float32(math.Exp(-(dx*dx + dy*dy) / u.radius))
			i := (y*out.W + x) * c
			for ch := 0; ch < c; ch++ {
				out.Data[i+ch] = src.Data[i+ch] + u.color[ch]*w
			}
		}
	}
}

func clampF(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
