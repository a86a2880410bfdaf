package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/steam/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir: om %v err %v", om, err)
	}
	// A nil manager accepts every call.
	if err := om.WriteStats(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WritePerf(PerfStats{}, 1); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("nil manager has no dir")
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := om.WriteStats(WindowStats{WindowEnd: float64(i), Mode: "active", Steps: 60}); err != nil {
			t.Fatal(err)
		}
	}
	perf := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		PhasePct:        map[string]float64{"pressure": 40, "divergence": 5},
	}
	if err := om.WritePerf(perf, 60); err != nil {
		t.Fatal(err)
	}
	if err := om.WritePerf(perf, 120); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	lines := readLines(t, filepath.Join(dir, "stats.csv"))
	if len(lines) != 4 {
		t.Fatalf("stats.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "time,mode,") {
		t.Errorf("stats header = %q", lines[0])
	}
	if strings.Contains(lines[0], "WindowStart") {
		t.Error("window start should not be exported")
	}

	lines = readLines(t, filepath.Join(dir, "perf.csv"))
	if len(lines) != 3 {
		t.Fatalf("perf.csv has %d lines, want header + 2", len(lines))
	}
	if !strings.Contains(lines[0], "project_pct") {
		t.Errorf("perf header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "120,2000,") {
		t.Errorf("perf row = %q", lines[2])
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}
