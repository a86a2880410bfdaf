package fluid

import (
	"image"
	"math"

	"github.com/ojrac/opensimplex-go"
)

// Ambient renders the degraded backdrop used when the solver is not running:
// a held field of soft blobs for reduced motion, or drifting grain when no
// capable device exists. It needs no device and never fails.
type Ambient struct {
	noise opensimplex.Noise
	pal   CompositeParams

	// BlobScale is the blob frequency in cycles per surface height.
	BlobScale float64
	// GrainScale is the grain frequency in cycles per pixel.
	GrainScale float64
	// Drift is the animation speed of the unavailable pattern.
	Drift float64
}

// NewAmbient creates an ambient renderer with the given noise seed and palette.
func NewAmbient(seed int64, pal CompositeParams) *Ambient {
	return &Ambient{
		noise:      opensimplex.NewNormalized(seed),
		pal:        pal,
		BlobScale:  2.5,
		GrainScale: 0.35,
		Drift:      0.15,
	}
}

// Render fills dst. With animated false the output depends only on the seed
// and the image size; t is ignored.
func (a *Ambient) Render(dst *image.RGBA, t float64, animated bool) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}
	aspect := float64(w) / float64(h)
	if !animated {
		t = 0
	}
	z := t * a.Drift

	for y := 0; y < h; y++ {
		v := 1 - (float64(y)+0.5)/float64(h)
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			u := (float64(x) + 0.5) / float64(w)

			n := a.fbm(u*aspect*a.BlobScale, v*a.BlobScale, z)
			mist := smoothstep(0.45, 0.85, n) * 0.55

			var dither float64
			if animated {
				g := a.noise.Eval3(float64(x)*a.GrainScale, float64(y)*a.GrainScale, t*4)
				dither = (g - 0.5) * a.pal.Dither * 2
			}

			wallDist := math.Min(math.Min(u, 1-u), math.Min(v, 1-v))
			glow := smoothstep(0.12, 0.015, wallDist)
			shade(row[x*4:x*4+4], &a.pal, v, mist, glow, dither)
		}
	}
}

// fbm sums three octaves of normalized noise, result in [0,1].
func (a *Ambient) fbm(x, y, z float64) float64 {
	var sum, norm float64
	amp, freq := 1.0, 1.0
	for i := 0; i < 3; i++ {
		sum += amp * a.noise.Eval3(x*freq, y*freq, z)
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	return sum / norm
}
