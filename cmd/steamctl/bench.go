package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/steam/config"
	"github.com/pthm-cable/steam/telemetry"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Width(16)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
)

type benchOptions struct {
	frames    int
	width     int
	height    int
	fps       int
	stroke    bool
	outputDir string
	plot      bool
}

func newBenchCmd() *cobra.Command {
	var opts benchOptions
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "run the solver headless and report timing and density",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd.OutOrStdout(), config.Cfg(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.frames, "frames", 600, "frames to simulate")
	cmd.Flags().IntVar(&opts.width, "width", 1280, "surface width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 720, "surface height in pixels")
	cmd.Flags().IntVar(&opts.fps, "fps", 60, "simulated frame rate")
	cmd.Flags().BoolVar(&opts.stroke, "stroke", true, "drive a pointer around the surface")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "write stats.csv and perf.csv here")
	cmd.Flags().BoolVar(&opts.plot, "plot", true, "plot density mass per frame")
	return cmd
}

// benchResult is what a bench run measured.
type benchResult struct {
	mode    string
	frames  int
	elapsed time.Duration
	mass    []float64
	perf    telemetry.PerfStats
	rows    int
}

func runBench(out io.Writer, cfg *config.Config, opts benchOptions) error {
	res, err := bench(cfg, opts)
	if err != nil {
		return err
	}
	if opts.plot && len(res.mass) > 1 {
		fmt.Fprintln(out, asciigraph.Plot(res.mass,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("density mass per frame"),
		))
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, summary(res))
	return nil
}

func bench(cfg *config.Config, opts benchOptions) (benchResult, error) {
	if opts.frames <= 0 {
		return benchResult{}, fmt.Errorf("frames must be positive, got %d", opts.frames)
	}
	om, err := telemetry.NewOutputManager(opts.outputDir)
	if err != nil {
		return benchResult{}, err
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		return benchResult{}, err
	}

	hl := newHeadless(cfg, opts.width, opts.height, opts.fps)
	defer hl.close()
	hl.stroke = opts.stroke
	collector := telemetry.NewCollector(cfg.Derived.StatsWindow)

	res := benchResult{mode: hl.driver.Mode().String(), frames: opts.frames}
	start := time.Now()
	for i := 0; i < opts.frames; i++ {
		hl.step()
		if e := hl.driver.Engine(); e != nil {
			res.mass = append(res.mass, e.Stats().Mass)
		}
		if collector.ShouldFlush(hl.now) {
			stats := collector.Flush(hl.now, hl.driver)
			if err := om.WriteStats(stats); err != nil {
				return res, err
			}
			if err := om.WritePerf(hl.perf.Stats(), hl.ticks); err != nil {
				return res, err
			}
			res.rows++
			slog.Debug("bench window", "stats", stats)
		}
	}
	res.elapsed = time.Since(start)
	res.perf = hl.perf.Stats()
	return res, nil
}

func summary(res benchResult) string {
	line := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
	}
	body := titleStyle.Render("steam bench") + "\n\n"
	body += line("mode", res.mode)
	body += line("frames", fmt.Sprintf("%d", res.frames))
	body += line("wall time", res.elapsed.Round(time.Millisecond).String())
	if res.frames > 0 && res.elapsed > 0 {
		body += line("frames/s", fmt.Sprintf("%.1f", float64(res.frames)/res.elapsed.Seconds()))
	}
	body += line("avg frame", fmt.Sprintf("%dus (max %dus)", res.perf.AvgTickDuration.Microseconds(), res.perf.MaxTickDuration.Microseconds()))
	for _, g := range telemetry.PhaseGroups {
		pct := res.perf.GroupPct(g.Name)
		v := fmt.Sprintf("%5.1f%%", pct)
		if pct > 50 {
			v = warnStyle.Render(v)
		}
		body += labelStyle.Render("  "+g.Name) + valueStyle.Render(v) + "\n"
	}
	if n := len(res.mass); n > 0 {
		body += line("mass", fmt.Sprintf("%.0f -> %.0f", res.mass[0], res.mass[n-1]))
	}
	if res.rows > 0 {
		body += line("csv rows", fmt.Sprintf("%d", res.rows))
	}
	return boxStyle.Render(body)
}
