package game

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/steam/ui"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.state.Paused = !g.state.Paused
	}
	if rl.IsKeyPressed(rl.KeyM) {
		g.state.ReducedMotion = !g.state.ReducedMotion
		g.driver.SetReducedMotion(g.state.ReducedMotion)
	}
	g.overlays.HandleKeys()

	g.handleMouse()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.steam.Resize(w, h)
	g.controls.SetPosition(int32(w)-230, 10)
	g.driver.Resize()
	g.collector.RecordResize()
}

// now is the pointer timestamp. Pointer velocity uses wall time so the time
// scale slider does not change how hard a drag pushes.
func (g *Game) now() time.Duration {
	return time.Duration(rl.GetTime() * float64(time.Second))
}

func (g *Game) normalized(p rl.Vector2) (float64, float64) {
	return float64(p.X / g.screenWidth), float64(p.Y / g.screenHeight)
}

// handleMouse feeds the mouse as pointer 0. Hover moves the fluid like a
// drag does; the pointer is dropped on button release, when the cursor
// leaves the window, and while it is over the controls panel.
func (g *Game) handleMouse() {
	pos := rl.GetMousePosition()
	overPanel := g.overlays.IsEnabled(ui.OverlayControls) && g.controls.Contains(pos.X, pos.Y, g.overlays)
	onFluid := rl.IsCursorOnScreen() && !overPanel

	if !onFluid {
		if g.mouseOnFluid {
			g.driver.PointerCancel(mousePointer)
		}
		g.mouseOnFluid = false
		g.mouseDown = false
		return
	}

	x, y := g.normalized(pos)
	switch {
	case rl.IsMouseButtonReleased(rl.MouseButtonLeft):
		g.driver.PointerUp(mousePointer)
		g.mouseDown = false
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		g.driver.PointerDown(mousePointer, x, y, g.now())
		g.mouseDown = true
	case !g.mouseOnFluid || pos != g.lastMouse:
		g.driver.PointerMove(mousePointer, x, y, g.now())
	}
	g.mouseOnFluid = true
	g.lastMouse = pos
}
