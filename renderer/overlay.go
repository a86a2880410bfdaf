package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/steam/driver"
	"github.com/pthm-cable/steam/fluid"
	"github.com/pthm-cable/steam/scene"
)

var (
	regionOutline = rl.Color{R: 220, G: 220, B: 230, A: 140}
	regionCarved  = rl.Color{R: 120, G: 180, B: 255, A: 60}
	pointerColor  = rl.Color{R: 255, G: 200, B: 80, A: 220}
)

// screenRect maps a normalized rect, origin top-left, to window pixels.
func screenRect(r fluid.Rect, w, h float32) rl.Rectangle {
	return rl.Rectangle{
		X:      float32(r.Left) * w,
		Y:      float32(r.Top) * h,
		Width:  float32(r.Right-r.Left) * w,
		Height: float32(r.Bottom-r.Top) * h,
	}
}

// DrawRegions outlines every scene region and tints the ones the engine
// currently holds carved.
func DrawRegions(regions []scene.Region, carved []fluid.Rect, tol float64, w, h float32) {
	for _, reg := range regions {
		rect := screenRect(reg.Rect, w, h)
		for _, c := range carved {
			if reg.Rect.Near(c, tol) {
				rl.DrawRectangleRec(rect, regionCarved)
				break
			}
		}
		rl.DrawRectangleLinesEx(rect, 1, regionOutline)
		rl.DrawText(reg.Name, int32(rect.X)+4, int32(rect.Y)+4, 10, regionOutline)
	}
}

// DrawPointers marks each tracked pointer with its velocity estimate.
func DrawPointers(pointers []driver.Pointer, w, h float32) {
	for _, p := range pointers {
		pos := rl.Vector2{X: float32(p.X) * w, Y: float32(p.Y) * h}
		rl.DrawCircleLines(int32(pos.X), int32(pos.Y), 6, pointerColor)
		if p.Moving() {
			// Velocity is in normalized units per second; draw a tenth of a second.
			end := rl.Vector2{X: pos.X + float32(p.VX)*w*0.1, Y: pos.Y + float32(p.VY)*h*0.1}
			rl.DrawLineV(pos, end, pointerColor)
		}
	}
}
