package telemetry

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/pthm-cable/steam/fluid"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeDistribution(t *testing.T) {
	values := []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1}
	mean, std, p10, p50, p90 := ComputeDistribution(values)

	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}
	// Sample standard deviation of 0.1..1.0
	if math.Abs(std-0.3028) > 0.001 {
		t.Errorf("std = %v, want ~0.3028", std)
	}
	if math.Abs(p10-0.19) > 0.01 {
		t.Errorf("p10 = %v, want ~0.19", p10)
	}
	if math.Abs(p50-0.55) > 0.01 {
		t.Errorf("p50 = %v, want ~0.55", p50)
	}
	if math.Abs(p90-0.91) > 0.01 {
		t.Errorf("p90 = %v, want ~0.91", p90)
	}
}

func TestComputeDistributionSmall(t *testing.T) {
	if mean, std, p10, p50, p90 := ComputeDistribution(nil); mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
	if mean, std, _, p50, _ := ComputeDistribution([]float64{0.4}); mean != 0.4 || std != 0 || p50 != 0.4 {
		t.Errorf("single value: mean %v std %v p50 %v", mean, std, p50)
	}
}

func TestDensityValues(t *testing.T) {
	dev := fluid.NewCPUDevice()
	f, err := dev.NewField(3, 2, 4, fluid.FilterNearest)
	if err != nil {
		t.Fatal(err)
	}
	f.Fill(0.1, 0.2, 0.3, 0.5)
	f.Set(1, 1, 3, 0.9)

	got := DensityValues(f, nil)
	if len(got) != 6 {
		t.Fatalf("len = %d, want 6", len(got))
	}
	var sum float64
	for _, v := range got {
		sum += v
	}
	if math.Abs(sum-(5*0.5+0.9)) > 1e-6 {
		t.Errorf("alpha sum = %v", sum)
	}

	vel, _ := dev.NewField(3, 2, 2, fluid.FilterNearest)
	if got := DensityValues(vel, got); len(got) != 0 {
		t.Error("two-channel field has no alpha")
	}
}

func TestFrameLuma(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	mean, std := FrameLuma(img)
	if math.Abs(mean-1) > 1e-9 || std > 1e-9 {
		t.Errorf("white frame: mean %v std %v", mean, std)
	}

	img.SetRGBA(0, 0, color.RGBA{0, 0, 0, 255})
	mean, std = FrameLuma(img)
	if math.Abs(mean-0.75) > 1e-9 || std <= 0 {
		t.Errorf("mixed frame: mean %v std %v", mean, std)
	}

	if mean, std := FrameLuma(nil); mean != 0 || std != 0 {
		t.Error("nil frame should report zeros")
	}
}
