// Package term hosts the backdrop in a terminal. Each cell shows two
// vertically stacked pixels with an upper half block.
package term

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/steam/config"
	"github.com/pthm-cable/steam/driver"
	"github.com/pthm-cable/steam/fluid"
	"github.com/pthm-cable/steam/scene"
)

// PixelsPerCell is the surface width, in pixels, reported for one column.
// A row is two half-cells of the same size.
const PixelsPerCell = 8

const mousePointer = 0

// surface reports the screen minus the status line as a pixel area.
type surface struct{ screen tcell.Screen }

func (s surface) PixelSize() (int, int) {
	cols, rows := s.screen.Size()
	return cols * PixelsPerCell, max(rows-1, 0) * 2 * PixelsPerCell
}

func (s surface) DisplayScale() float64 { return 1 }

// Host drives one terminal screen. It is not safe for concurrent use; Run
// owns it once started.
type Host struct {
	screen  tcell.Screen
	driver  *driver.Driver
	regions *scene.Registry

	start       time.Time
	clock       func() time.Duration
	mouseDown   bool
	showRegions bool
	lastTick    time.Duration
}

// New builds a host on an initialized screen. clock returns the monotonic
// time handed to the driver; nil uses time since New.
func New(screen tcell.Screen, cfg *config.Config, clock func() time.Duration) *Host {
	h := &Host{
		screen:  screen,
		regions: scene.NewRegistry(),
		start:   time.Now(),
		clock:   clock,
	}
	if h.clock == nil {
		h.clock = func() time.Duration { return time.Since(h.start) }
	}
	for _, r := range cfg.Scene.Regions {
		if r.VX != 0 || r.VY != 0 {
			h.regions.AddMoving(r.Name, r.Rect(), r.Z, r.VX, r.VY)
		} else {
			h.regions.Add(r.Name, r.Rect(), r.Z)
		}
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	h.driver = driver.New(surface{screen}, cfg.DriverOptions(), h.regions)
	return h
}

// Driver returns the frame driver.
func (h *Host) Driver() *driver.Driver { return h.driver }

// Regions returns the obstacle registry.
func (h *Host) Regions() *scene.Registry { return h.regions }

// normalized maps a cell to normalized surface coordinates, at the cell
// center.
func (h *Host) normalized(cx, cy int) (float64, float64, bool) {
	cols, rows := h.screen.Size()
	rows--
	if cols <= 0 || rows <= 0 || cx < 0 || cy < 0 || cx >= cols || cy >= rows {
		return 0, 0, false
	}
	return (float64(cx) + 0.5) / float64(cols), (float64(cy) + 0.5) / float64(rows), true
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'm':
				h.driver.SetReducedMotion(!h.driver.ReducedMotion())
			case 'r':
				h.showRegions = !h.showRegions
			}
		}

	case *tcell.EventMouse:
		h.handleMouse(ev)

	case *tcell.EventResize:
		h.screen.Sync()
		h.driver.Resize()
	}
	return true
}

func (h *Host) handleMouse(ev *tcell.EventMouse) {
	cx, cy := ev.Position()
	x, y, ok := h.normalized(cx, cy)
	if !ok {
		// Over the status line or outside the screen.
		h.driver.PointerCancel(mousePointer)
		h.mouseDown = false
		return
	}
	now := h.clock()
	down := ev.Buttons()&tcell.Button1 != 0
	switch {
	case down && !h.mouseDown:
		h.driver.PointerDown(mousePointer, x, y, now)
	case !down && h.mouseDown:
		h.driver.PointerUp(mousePointer)
	default:
		h.driver.PointerMove(mousePointer, x, y, now)
	}
	h.mouseDown = down
}

// Tick advances the scene and the driver to the host clock.
func (h *Host) Tick() {
	now := h.clock()
	if dt := now - h.lastTick; dt > 0 {
		h.regions.Update(dt.Seconds())
	}
	h.lastTick = now
	h.driver.Tick(now)
}

// Draw paints the current frame and the status line.
func (h *Host) Draw() {
	cols, rows := h.screen.Size()
	fieldRows := rows - 1
	if frame := h.driver.Frame(); frame != nil && fieldRows > 0 {
		for cy := 0; cy < fieldRows; cy++ {
			for cx := 0; cx < cols; cx++ {
				top := sample(frame, cx, 2*cy, cols, 2*fieldRows)
				bottom := sample(frame, cx, 2*cy+1, cols, 2*fieldRows)
				style := tcell.StyleDefault.Foreground(top).Background(bottom)
				h.screen.SetContent(cx, cy, '▀', nil, style)
			}
		}
	}
	if h.showRegions {
		h.drawRegions(cols, fieldRows)
	}
	h.drawStatus(cols, rows)
	h.screen.Show()
}

// sample reads the frame pixel under sub-cell (sx, sy) of a w×h sub-cell grid.
func sample(frame *image.RGBA, sx, sy, w, h int) tcell.Color {
	b := frame.Bounds()
	px := b.Min.X + min((2*sx+1)*b.Dx()/(2*w), b.Dx()-1)
	py := b.Min.Y + min((2*sy+1)*b.Dy()/(2*h), b.Dy()-1)
	c := frame.RGBAAt(px, py)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (h *Host) drawRegions(cols, rows int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDefault)
	var carved []fluid.Rect
	if e := h.driver.Engine(); e != nil {
		carved = e.Carved()
	}
	for _, reg := range h.regions.Regions() {
		x0 := int(reg.Rect.Left * float64(cols))
		y0 := int(reg.Rect.Top * float64(rows))
		label := reg.Name
		for _, c := range carved {
			if reg.Rect.Near(c, fluid.DefaultRectTolerance) {
				label = "*" + label
				break
			}
		}
		h.putString(x0, y0, label, style)
	}
}

func (h *Host) drawStatus(cols, rows int) {
	if rows <= 0 {
		return
	}
	status := fmt.Sprintf(" %s", h.driver.Mode())
	if e := h.driver.Engine(); e != nil {
		s := e.Stats()
		status += fmt.Sprintf("  grid %dx%d  splats %d  carved %d", s.GridW, s.GridH, s.Splats, s.Carved)
	}
	status += "  [m] motion [r] regions [q] quit"
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < cols; x++ {
		h.screen.SetContent(x, rows-1, ' ', nil, style)
	}
	h.putString(0, rows-1, status, style)
}

func (h *Host) putString(x, y int, s string, style tcell.Style) {
	cols, _ := h.screen.Size()
	for _, r := range s {
		if x >= cols {
			return
		}
		h.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// Run ticks at fps until ctx is done or the user quits.
func (h *Host) Run(ctx context.Context, fps int) {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	go h.screen.ChannelEvents(events, quit)
	defer close(quit)

	slog.Info("terminal host started", "mode", h.driver.Mode().String())
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok || !h.HandleEvent(ev) {
				return
			}
		case <-ticker.C:
			h.Tick()
			h.Draw()
		}
	}
}

// Close disposes the driver. The caller finalizes the screen.
func (h *Host) Close() {
	h.driver.Dispose()
}
