package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/steam/config"
	"github.com/pthm-cable/steam/game"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	reduced := flag.Bool("reduced-motion", false, "Start with reduced motion")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *reduced {
		cfg.Driver.ReducedMotion = true
	}

	var flags uint32
	if cfg.Screen.Resizable {
		flags |= rl.FlagWindowResizable
	}
	if cfg.Screen.HighDPI {
		flags |= rl.FlagWindowHighdpi
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGame(game.Options{
		LogStats:  *logStats,
		OutputDir: *outputDir,
		MaxFrames: *maxFrames,
	})
	defer g.Unload()

	for !rl.WindowShouldClose() && !g.Done() {
		g.Update()
		g.Draw()
	}
}
