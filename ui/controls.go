package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlState is the host state the controls panel edits.
type ControlState struct {
	Paused        bool
	ReducedMotion bool
	// TimeScale multiplies the clock handed to the driver.
	TimeScale float32
	// RegionSpeed multiplies the drift of moving regions.
	RegionSpeed float32
	// Swirl requests one idle swirl. The host clears it.
	Swirl bool
}

// ControlsPanel renders the right-side panel of buttons, sliders and
// overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Contains reports whether the screen point lies over the panel, so the
// host can keep clicks on it away from the fluid.
func (c *ControlsPanel) Contains(x, y float32, overlays *OverlayRegistry) bool {
	h := c.height(overlays)
	return x >= float32(c.x) && x <= float32(c.x+c.width) && y >= float32(c.y) && y <= float32(c.y+h)
}

func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	t := c.renderer.Theme
	items := 0
	for _, cat := range overlays.Categories() {
		items += len(overlays.ByCategory(cat)) + 1
	}
	return t.Padding*3 + t.LineHeight + 2*34 + 2*(t.LineHeight+26) + int32(items)*t.LineHeight
}

// Draw renders the panel and applies any interaction to state.
func (c *ControlsPanel) Draw(state *ControlState, overlays *OverlayRegistry) {
	r := c.renderer
	padding := r.Theme.Padding
	r.DrawPanel(c.x, c.y, c.width, c.height(overlays))

	x := float32(c.x + padding)
	y := c.y + padding
	inner := float32(c.width - padding*2)
	half := (inner - 8) / 2

	rl.DrawText("Steam", int32(x), y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: half, Height: 26}, toggleText(state.Paused, "Resume", "Pause")) {
		state.Paused = !state.Paused
	}
	if gui.Button(rl.Rectangle{X: x + half + 8, Y: float32(y), Width: half, Height: 26}, "Swirl") {
		state.Swirl = true
	}
	y += 34
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: 26}, toggleText(state.ReducedMotion, "Full motion", "Reduced motion")) {
		state.ReducedMotion = !state.ReducedMotion
	}
	y += 34

	rl.DrawText(fmt.Sprintf("Time scale %.2f", state.TimeScale), int32(x), y, r.Theme.FontSize, r.Theme.LabelColor)
	y += r.Theme.LineHeight
	state.TimeScale = gui.SliderBar(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: 18}, "", "", state.TimeScale, 0.1, 2)
	y += 26

	rl.DrawText(fmt.Sprintf("Region drift %.2f", state.RegionSpeed), int32(x), y, r.Theme.FontSize, r.Theme.LabelColor)
	y += r.Theme.LineHeight
	state.RegionSpeed = gui.SliderBar(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: 18}, "", "", state.RegionSpeed, 0, 4)
	y += 26 + padding

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), int32(x), y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += r.Theme.LineHeight
		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(int32(x), y, desc, overlays.IsEnabled(desc.ID), int32(inner))
			y += r.Theme.LineHeight
		}
	}
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	nameColor := r.Theme.LabelColor
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

func categoryLabel(cat string) string {
	switch cat {
	case "scene":
		return "Scene"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
