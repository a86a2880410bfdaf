package telemetry

import (
	"image"
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/steam/fluid"
)

// WindowStats holds aggregated statistics for one stats window.
type WindowStats struct {
	WindowStart float64 `csv:"-"`
	WindowEnd   float64 `csv:"time"`
	Mode        string  `csv:"mode"`

	GridW int `csv:"grid_w"`
	GridH int `csv:"grid_h"`

	// Counters over the window
	Steps      uint64 `csv:"steps"`
	Splats     uint64 `csv:"splats"`
	IdleSwirls uint64 `csv:"idle_swirls"`
	Resizes    int    `csv:"resizes"`

	// Sampled at window end
	Pointers     int     `csv:"pointers"`
	Carved       int     `csv:"carved"`
	Mass         float64 `csv:"mass"`
	VelocityNorm float64 `csv:"velocity_norm"`

	// Density alpha distribution across the grid
	DensityMean float64 `csv:"density_mean"`
	DensityStd  float64 `csv:"density_std"`
	DensityP10  float64 `csv:"density_p10"`
	DensityP50  float64 `csv:"density_p50"`
	DensityP90  float64 `csv:"density_p90"`

	// Luma of the presented frame
	LumaMean float64 `csv:"luma_mean"`
	LumaStd  float64 `csv:"luma_std"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution returns mean, standard deviation and percentiles of
// values. values is sorted in place.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	if len(values) == 1 {
		return values[0], 0, values[0], values[0], values[0]
	}
	mean, std = stat.MeanStdDev(values, nil)
	sort.Float64s(values)
	return mean, std, Percentile(values, 0.10), Percentile(values, 0.50), Percentile(values, 0.90)
}

// DensityValues copies the alpha channel of a density field into buf and
// returns it. buf is grown as needed.
func DensityValues(f *fluid.Field, buf []float64) []float64 {
	buf = buf[:0]
	if f == nil || f.Channels < 4 {
		return buf
	}
	for i := 3; i < len(f.Data); i += f.Channels {
		buf = append(buf, float64(f.Data[i]))
	}
	return buf
}

// FrameLuma returns the mean and standard deviation of Rec. 709 luma over
// img, in [0,1].
func FrameLuma(img *image.RGBA) (mean, std float64) {
	if img == nil {
		return 0, 0
	}
	b := img.Bounds()
	buf := make([]float64, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(row); i += 4 {
			l := 0.2126*float64(row[i]) + 0.7152*float64(row[i+1]) + 0.0722*float64(row[i+2])
			buf = append(buf, l/255)
		}
	}
	switch len(buf) {
	case 0:
		return 0, 0
	case 1:
		return buf[0], 0
	}
	return stat.MeanStdDev(buf, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("window_start", s.WindowStart),
		slog.Float64("window_end", s.WindowEnd),
		slog.String("mode", s.Mode),
		slog.Int("grid_w", s.GridW),
		slog.Int("grid_h", s.GridH),
		slog.Uint64("steps", s.Steps),
		slog.Uint64("splats", s.Splats),
		slog.Uint64("idle_swirls", s.IdleSwirls),
		slog.Int("resizes", s.Resizes),
		slog.Int("pointers", s.Pointers),
		slog.Int("carved", s.Carved),
		slog.Float64("mass", s.Mass),
		slog.Float64("velocity_norm", s.VelocityNorm),
		slog.Float64("density_mean", s.DensityMean),
		slog.Float64("density_std", s.DensityStd),
		slog.Float64("density_p10", s.DensityP10),
		slog.Float64("density_p50", s.DensityP50),
		slog.Float64("density_p90", s.DensityP90),
		slog.Float64("luma_mean", s.LumaMean),
		slog.Float64("luma_std", s.LumaStd),
	)
}
