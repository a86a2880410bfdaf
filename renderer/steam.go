// Package renderer presents engine frames and debug overlays with raylib.
package renderer

import (
	"image"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// SteamRenderer uploads composited frames to a texture and stretches it to
// the window. The frame is grid-sized; bilinear filtering does the upscale.
type SteamRenderer struct {
	tex        rl.Texture2D
	texW, texH int
	pixels     []color.RGBA

	screenW, screenH float32
	initialized      bool
}

// NewSteamRenderer creates a renderer for a screenW×screenH window.
func NewSteamRenderer(screenW, screenH int32) *SteamRenderer {
	return &SteamRenderer{
		screenW: float32(screenW),
		screenH: float32(screenH),
	}
}

// init allocates the texture (must be called after the raylib window is created).
func (r *SteamRenderer) init(w, h int) {
	if r.initialized {
		rl.UnloadTexture(r.tex)
	}
	r.texW, r.texH = w, h

	img := rl.GenImageColor(w, h, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	rl.UnloadImage(img)

	r.pixels = make([]color.RGBA, w*h)
	r.initialized = true
}

// Resize updates the destination size.
func (r *SteamRenderer) Resize(w, h float32) {
	r.screenW = w
	r.screenH = h
}

// Upload copies frame into the texture, reallocating it when the frame size
// changes. A nil frame is ignored.
func (r *SteamRenderer) Upload(frame *image.RGBA) {
	if frame == nil {
		return
	}
	b := frame.Bounds()
	if !r.initialized || b.Dx() != r.texW || b.Dy() != r.texH {
		r.init(b.Dx(), b.Dy())
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := frame.Pix[frame.PixOffset(b.Min.X, y):]
		for x := 0; x < r.texW; x++ {
			o := x * 4
			r.pixels[i] = color.RGBA{R: row[o], G: row[o+1], B: row[o+2], A: row[o+3]}
			i++
		}
	}
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw stretches the last uploaded frame over the window.
func (r *SteamRenderer) Draw() {
	if !r.initialized {
		return
	}
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(r.texW), Height: float32(r.texH)}
	dst := rl.Rectangle{X: 0, Y: 0, Width: r.screenW, Height: r.screenH}
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *SteamRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.pixels = nil
	r.initialized = false
}
