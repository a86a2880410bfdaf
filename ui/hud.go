package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/steam/telemetry"
)

// HUDData holds all the data needed to render the status HUD.
type HUDData struct {
	Mode         string
	Err          error
	GridW, GridH int
	FPS          int32
	Paused       bool
	Splats       uint64
	IdleSwirls   uint64
	Carved       int
	Pointers     int
	Mass         float64
}

// HUD renders the status line block.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	const x, y0, w = 10, 10, 250
	height := r.Theme.LineHeight*7 + r.Theme.Padding*2
	if data.Err != nil {
		height += r.Theme.LineHeight
	}
	r.DrawPanel(x, y0, w, height)

	px := int32(x) + r.Theme.Padding
	y := int32(y0) + r.Theme.Padding
	status := data.Mode
	if data.Paused {
		status += " (paused)"
	}
	y = r.DrawSectionHeader(px, y, status)
	y = r.DrawLabelValue(px, y, "Grid", fmt.Sprintf("%dx%d", data.GridW, data.GridH))
	y = r.DrawLabelValue(px, y, "FPS", fmt.Sprintf("%d", data.FPS))
	y = r.DrawLabelValue(px, y, "Splats", fmt.Sprintf("%d (%d idle)", data.Splats, data.IdleSwirls))
	y = r.DrawLabelValue(px, y, "Carved", fmt.Sprintf("%d", data.Carved))
	y = r.DrawLabelValue(px, y, "Pointers", fmt.Sprintf("%d", data.Pointers))
	y = r.DrawLabelValue(px, y, "Mass", fmt.Sprintf("%.0f", data.Mass))
	if data.Err != nil {
		rl.DrawText(data.Err.Error(), px, y, r.Theme.FontSize, r.Theme.BarFillHigh)
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, overlays *OverlayRegistry) {
	legend := "[Space] pause  [M] reduced motion  [F11] fullscreen"
	for _, cat := range overlays.Categories() {
		for _, d := range overlays.ByCategory(cat) {
			legend += fmt.Sprintf("  [%s] %s", d.KeyLabel, d.Name)
		}
	}
	rl.DrawText(legend, 10, screenHeight-22, 12, rl.Gray)
}

// PerfPanel renders the per-phase timing breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the timing panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	const width = 260
	height := r.Theme.LineHeight*2 + int32(len(telemetry.PhaseGroups))*(r.Theme.LineHeight+2) + r.Theme.Padding*2
	r.DrawPanel(p.x, p.y, width, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding
	y = r.DrawSectionHeader(x, y, "Frame Timing")
	y = r.DrawLabelValue(x, y, "Avg", fmt.Sprintf("%dus (max %dus)",
		stats.AvgTickDuration.Microseconds(), stats.MaxTickDuration.Microseconds()))
	for _, g := range telemetry.PhaseGroups {
		y = r.DrawPercentBar(x, y, g.Name, stats.GroupPct(g.Name), 40, width-r.Theme.Padding*2)
	}
}
