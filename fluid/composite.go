package fluid

import (
	"image"
	"math"
)

// composite renders the density field into dst, which must match the grid
// size. Image row 0 is the top of the surface. t is the dither clock in seconds.
func composite(dst *image.RGBA, den *Field, pal *CompositeParams, t float64, dev Device) {
	w, h := den.W, den.H
	resX, resY := float64(w), float64(h)
	dev.Dispatch(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			v := (float64(y) + 0.5) * den.TexelY
			row := dst.Pix[(h-1-y)*dst.Stride:]
			for x := 0; x < w; x++ {
				u := (float64(x) + 0.5) * den.TexelX

				c := den.At(x, y, 3)
				sum := den.At(x+1, y, 3) + den.At(x-1, y, 3) + den.At(x, y+1, 3) + den.At(x, y-1, 3)
				blur := float64(c*0.45 + sum*0.125)
				mist := smoothstep(0.1, 0.8, blur)

				wallDist := math.Min(math.Min(u, 1-u), math.Min(v, 1-v))
				glow := smoothstep(0.12, 0.015, wallDist)

				dither := (hash2(u*resX+t*0.2, v*resY+t*0.2) - 0.5) * pal.Dither
				shade(row[x*4:x*4+4], pal, v, mist, glow, dither)
			}
		}
	})
}

// shade writes one tone-mapped pixel. v is the vertical position, 0 at the
// bottom edge.
func shade(px []uint8, pal *CompositeParams, v, mist, glow, dither float64) {
	grad := math.Pow(v, 1.3)
	for ch := 0; ch < 3; ch++ {
		base := mix(pal.BaseLow[ch], pal.BaseHigh[ch], grad)
		base = mix(base, pal.WallTint[ch], glow*0.35)
		steam := pal.Steam[ch]*mist + glow*0.08 + dither
		px[ch] = toByte(aces(mix(base, steam+pal.Highlight, mist)))
	}
	px[3] = 255
}

// hash2 is a cheap deterministic pseudo-random value in [0,1).
func hash2(x, y float64) float64 {
	s := math.Sin(x*127.1+y*311.7) * 43758.5453123
	return s - math.Floor(s)
}

// aces is the Narkowicz fit of the ACES filmic curve, clamped to [0,1].
func aces(x float64) float64 {
	const a, b, c, d, e = 2.51, 0.03, 2.43, 0.59, 0.14
	return clampF((x*(a*x+b))/(x*(c*x+d)+e), 0, 1)
}

func smoothstep(e0, e1, x float64) float64 {
	t := clampF((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

func mix(a, b, t float64) float64 { return a + (b-a)*t }

func toByte(v float64) uint8 {
	return uint8(clampF(v, 0, 1)*255 + 0.5)
}
