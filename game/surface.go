package game

import rl "github.com/gen2brain/raylib-go/raylib"

// windowSurface reports the raylib window as a fluid surface.
type windowSurface struct{}

// PixelSize returns the framebuffer size, which is larger than the screen
// size on high-DPI displays.
func (windowSurface) PixelSize() (int, int) {
	return int(rl.GetRenderWidth()), int(rl.GetRenderHeight())
}

func (windowSurface) DisplayScale() float64 {
	s := rl.GetWindowScaleDPI()
	if s.X <= 0 {
		return 1
	}
	return float64(s.X)
}
