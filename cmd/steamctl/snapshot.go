package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/steam/config"
)

func newSnapshotCmd() *cobra.Command {
	var (
		frames        int
		width, height int
		stroke        bool
		reduced       bool
	)
	cmd := &cobra.Command{
		Use:   "snapshot [file.png]",
		Short: "simulate headless and write the final frame as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *config.Cfg()
			cfg.Driver.ReducedMotion = reduced
			return snapshot(args[0], &cfg, frames, width, height, stroke)
		},
	}
	cmd.Flags().IntVar(&frames, "frames", 180, "frames to simulate before the snapshot")
	cmd.Flags().IntVar(&width, "width", 1280, "surface width in pixels")
	cmd.Flags().IntVar(&height, "height", 720, "surface height in pixels")
	cmd.Flags().BoolVar(&stroke, "stroke", true, "drive a pointer around the surface")
	cmd.Flags().BoolVar(&reduced, "reduced-motion", false, "render the static reduced-motion frame")
	return cmd
}

func snapshot(path string, cfg *config.Config, frames, width, height int, stroke bool) error {
	hl := newHeadless(cfg, width, height, 60)
	defer hl.close()
	hl.stroke = stroke
	for i := 0; i < max(frames, 1); i++ {
		hl.step()
	}

	frame := hl.driver.Frame()
	if frame == nil {
		return fmt.Errorf("no frame to write")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := png.Encode(f, frame); err != nil {
		f.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return f.Close()
}
