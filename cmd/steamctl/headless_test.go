package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/steam/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg
}

func TestHeadlessStep(t *testing.T) {
	hl := newHeadless(testConfig(t), 96, 64, 60)
	defer hl.close()
	hl.stroke = true

	for i := 0; i < 10; i++ {
		hl.step()
	}
	if hl.ticks != 10 {
		t.Errorf("ticks = %d, want 10", hl.ticks)
	}
	e := hl.driver.Engine()
	if e == nil {
		t.Fatalf("mode = %s, want an engine", hl.driver.Mode())
	}
	st := e.Stats()
	if st.GridW != 40 || st.GridH != 26 {
		t.Errorf("grid = %dx%d, want 40x26", st.GridW, st.GridH)
	}
	if st.Splats == 0 {
		t.Error("scripted stroke produced no splats")
	}
	if len(hl.driver.Pointers()) != 1 {
		t.Errorf("pointers = %d, want 1", len(hl.driver.Pointers()))
	}
}

func TestBenchWritesCSV(t *testing.T) {
	dir := t.TempDir()
	res, err := bench(testConfig(t), benchOptions{
		frames: 130, width: 96, height: 64, fps: 60, stroke: true, outputDir: dir,
	})
	if err != nil {
		t.Fatalf("bench: %v", err)
	}
	if res.mode != "active" {
		t.Errorf("mode = %q, want active", res.mode)
	}
	if len(res.mass) != 130 {
		t.Errorf("mass samples = %d, want 130", len(res.mass))
	}
	if res.rows == 0 {
		t.Error("no stats windows flushed")
	}
	for _, name := range []string{"stats.csv", "perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	out := summary(res)
	for _, want := range []string{"steam bench", "active", "project"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestBenchRejectsZeroFrames(t *testing.T) {
	if _, err := bench(testConfig(t), benchOptions{width: 96, height: 64}); err == nil {
		t.Error("expected error for zero frames")
	}
}

func TestSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		reduced bool
	}{
		{"active", false},
		{"reduced", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Driver.ReducedMotion = tt.reduced
			path := filepath.Join(t.TempDir(), "frame.png")
			if err := snapshot(path, cfg, 5, 96, 64, true); err != nil {
				t.Fatalf("snapshot: %v", err)
			}
			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			img, err := png.Decode(f)
			if err != nil {
				t.Fatalf("decoding: %v", err)
			}
			if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
				t.Errorf("empty snapshot %v", b)
			}
		})
	}
}

func TestConfigDump(t *testing.T) {
	config.MustInit("")
	cmd := newConfigCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"dump"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config dump: %v", err)
	}

	var got config.Config
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("dump is not yaml: %v", err)
	}
	if got.Screen.Width != config.Cfg().Screen.Width {
		t.Errorf("screen.width = %d, want %d", got.Screen.Width, config.Cfg().Screen.Width)
	}
}
