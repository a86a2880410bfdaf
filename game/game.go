// Package game hosts the backdrop in a raylib window.
package game

import (
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/steam/config"
	"github.com/pthm-cable/steam/driver"
	"github.com/pthm-cable/steam/fluid"
	"github.com/pthm-cable/steam/renderer"
	"github.com/pthm-cable/steam/scene"
	"github.com/pthm-cable/steam/telemetry"
	"github.com/pthm-cable/steam/ui"
)

// Options configures a Game beyond the loaded config.
type Options struct {
	LogStats  bool
	OutputDir string // overrides telemetry.output_dir when set
	MaxFrames int    // 0 = unlimited
}

// Game owns the driver and everything drawn around it.
type Game struct {
	cfg  *config.Config
	opts Options

	driver  *driver.Driver
	regions *scene.Registry

	steam    *renderer.SteamRenderer
	overlays *ui.OverlayRegistry
	hud      *ui.HUD
	perf     *ui.PerfPanel
	controls *ui.ControlsPanel
	state    ui.ControlState

	perfCollector *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager

	clock  time.Duration // scaled host time handed to the driver
	frames uint64

	// Mouse tracking
	mouseDown    bool
	lastMouse    rl.Vector2
	mouseOnFluid bool

	screenWidth, screenHeight float32
}

// mousePointer is the pointer ID used for the mouse.
const mousePointer = 0

// NewGame builds the game. The raylib window must already be open.
func NewGame(opts Options) *Game {
	cfg := config.Cfg()
	g := &Game{
		cfg:           cfg,
		opts:          opts,
		regions:       scene.NewRegistry(),
		overlays:      ui.NewOverlayRegistry(),
		hud:           ui.NewHUD(),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:     telemetry.NewCollector(cfg.Derived.StatsWindow),
		screenWidth:   float32(rl.GetScreenWidth()),
		screenHeight:  float32(rl.GetScreenHeight()),
		state: ui.ControlState{
			ReducedMotion: cfg.Driver.ReducedMotion,
			TimeScale:     1,
			RegionSpeed:   1,
		},
	}

	for _, r := range cfg.Scene.Regions {
		if r.VX != 0 || r.VY != 0 {
			g.regions.AddMoving(r.Name, r.Rect(), r.Z, r.VX, r.VY)
		} else {
			g.regions.Add(r.Name, r.Rect(), r.Z)
		}
	}

	g.driver = driver.New(windowSurface{}, cfg.DriverOptions(fluid.WithPhaseHook(g.perfCollector.StartPhase)), g.regions)
	if err := g.driver.Err(); err != nil {
		slog.Warn("running without the fluid engine", "error", err)
	}

	g.steam = renderer.NewSteamRenderer(int32(g.screenWidth), int32(g.screenHeight))
	g.perf = ui.NewPerfPanel(10, 10)
	g.controls = ui.NewControlsPanel(int32(g.screenWidth)-230, 10, 220)

	outDir := cfg.Telemetry.OutputDir
	if opts.OutputDir != "" {
		outDir = opts.OutputDir
	}
	om, err := telemetry.NewOutputManager(outDir)
	if err != nil {
		slog.Error("telemetry output disabled", "error", err)
	}
	g.outputManager = om
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	slog.Info("game started",
		"screen_w", g.screenWidth, "screen_h", g.screenHeight,
		"regions", g.regions.Len(),
		"mode", g.driver.Mode().String(),
	)
	return g
}

// Done reports whether the frame limit was reached.
func (g *Game) Done() bool {
	return g.opts.MaxFrames > 0 && g.frames >= uint64(g.opts.MaxFrames)
}

// Update advances one frame: input, scene motion, the driver tick.
func (g *Game) Update() {
	g.perfCollector.StartTick()
	g.perfCollector.StartPhase(telemetry.PhaseInput)
	g.handleInput()

	dt := time.Duration(float64(rl.GetFrameTime()) * float64(g.state.TimeScale) * float64(time.Second))
	if !g.state.Paused {
		g.clock += dt

		g.perfCollector.StartPhase(telemetry.PhaseScene)
		g.regions.Update(dt.Seconds() * float64(g.state.RegionSpeed))

		if g.state.Swirl {
			if e := g.driver.Engine(); e != nil && g.driver.Mode() == driver.Active {
				e.AddIdleSwirl()
			}
		}
		g.driver.Tick(g.clock)
	}
	g.state.Swirl = false
	g.frames++
}

// Draw renders the frame and ends the perf tick.
func (g *Game) Draw() {
	g.perfCollector.StartPhase(telemetry.PhasePresent)
	g.steam.Upload(g.driver.Frame())

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	g.steam.Draw()
	g.drawOverlays()
	rl.EndDrawing()

	g.perfCollector.RecordFrame()
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.perfCollector.EndTick()
}

func (g *Game) drawOverlays() {
	w, h := g.screenWidth, g.screenHeight
	if g.overlays.IsEnabled(ui.OverlayRegions) {
		renderer.DrawRegions(g.regions.Regions(), g.carved(), g.cfg.Fluid.Obstacle.Tolerance, w, h)
	}
	if g.overlays.IsEnabled(ui.OverlayPointers) {
		renderer.DrawPointers(g.driver.Pointers(), w, h)
	}
	if g.overlays.IsEnabled(ui.OverlayHUD) {
		g.hud.Draw(g.hudData())
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perf.Draw(g.perfCollector.Stats())
	}
	if g.overlays.IsEnabled(ui.OverlayHUD) || g.overlays.IsEnabled(ui.OverlayPerf) {
		g.hud.DrawControls(int32(h), g.overlays)
	}
	if g.overlays.IsEnabled(ui.OverlayControls) {
		g.controls.Draw(&g.state, g.overlays)
		g.driver.SetReducedMotion(g.state.ReducedMotion)
	}
}

func (g *Game) hudData() ui.HUDData {
	data := ui.HUDData{
		Mode:       g.driver.Mode().String(),
		Err:        g.driver.Err(),
		FPS:        rl.GetFPS(),
		Paused:     g.state.Paused,
		IdleSwirls: g.driver.IdleSwirls(),
		Pointers:   len(g.driver.Pointers()),
	}
	if e := g.driver.Engine(); e != nil {
		s := e.Stats()
		data.GridW, data.GridH = s.GridW, s.GridH
		data.Splats = s.Splats
		data.Carved = s.Carved
		data.Mass = s.Mass
	}
	return data
}

func (g *Game) carved() []fluid.Rect {
	if e := g.driver.Engine(); e != nil {
		return e.Carved()
	}
	return nil
}

// Unload releases the engine, GPU resources and output files.
func (g *Game) Unload() {
	g.driver.Dispose()
	g.steam.Unload()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("closing telemetry output", "error", err)
	}
	slog.Info("game stopped", "frames", g.frames)
}
