package fluid

import "math"

// Filter selects how a field is sampled between texel centers.
type Filter uint8

const (
	FilterNearest Filter = iota
	FilterLinear
)

func (f Filter) String() string {
	if f == FilterLinear {
		return "linear"
	}
	return "nearest"
}

// Field is a 2D grid of float samples with 1, 2 or 4 channels per texel.
// Values are stored row-major, interleaved by channel. Row 0 is the bottom
// edge of the surface.
type Field struct {
	id       uint64
	W, H     int
	Channels int
	Filter   Filter

	// TexelX and TexelY are the size of one texel in normalized units.
	TexelX, TexelY float64

	Data []float32

	released bool
}

// newField allocates a zeroed field. Only devices call this.
func newField(id uint64, w, h, channels int, filter Filter) *Field {
	return &Field{
		id:       id,
		W:        w,
		H:        h,
		Channels: channels,
		Filter:   filter,
		TexelX:   1.0 / float64(w),
		TexelY:   1.0 / float64(h),
		Data:     make([]float32, w*h*channels),
	}
}

// ID returns the device-unique identifier of the underlying texture.
func (f *Field) ID() uint64 { return f.id }

// Released reports whether the field's storage has been returned to its device.
func (f *Field) Released() bool { return f.released }

// Fill sets every texel to the given channel values.
func (f *Field) Fill(values ...float32) {
	c := f.Channels
	for i := 0; i < len(f.Data); i += c {
		for ch := 0; ch < c; ch++ {
			var v float32
			if ch < len(values) {
				v = values[ch]
			}
			f.Data[i+ch] = v
		}
	}
}

// At returns channel ch of the texel at integer coordinates (x, y), clamped to the grid.
func (f *Field) At(x, y, ch int) float32 {
	x = clampInt(x, 0, f.W-1)
	y = clampInt(y, 0, f.H-1)
	return f.Data[(y*f.W+x)*f.Channels+ch]
}

// Set writes channel ch of the texel at (x, y).
func (f *Field) Set(x, y, ch int, v float32) {
	f.Data[(y*f.W+x)*f.Channels+ch] = v
}

// Sample reads all channels at normalized coordinates (u, v) using the
// field's filter with clamp-to-edge addressing. Unused channels are zero.
func (f *Field) Sample(u, v float64) [4]float32 {
	if f.Filter == FilterNearest {
		return f.sampleNearest(u, v)
	}
	return f.sampleLinear(u, v)
}

// SampleChannel is Sample restricted to a single channel.
func (f *Field) SampleChannel(u, v float64, ch int) float32 {
	return f.Sample(u, v)[ch]
}

func (f *Field) sampleNearest(u, v float64) [4]float32 {
	x := clampInt(int(math.Floor(u*float64(f.W))), 0, f.W-1)
	y := clampInt(int(math.Floor(v*float64(f.H))), 0, f.H-1)
	var out [4]float32
	base := (y*f.W + x) * f.Channels
	copy(out[:f.Channels], f.Data[base:base+f.Channels])
	return out
}

func (f *Field) sampleLinear(u, v float64) [4]float32 {
	fx := u*float64(f.W) - 0.5
	fy := v*float64(f.H) - 0.5
	x0f := math.Floor(fx)
	y0f := math.Floor(fy)
	tx := float32(fx - x0f)
	ty := float32(fy - y0f)

	x0 := clampInt(int(x0f), 0, f.W-1)
	x1 := clampInt(int(x0f)+1, 0, f.W-1)
	y0 := clampInt(int(y0f), 0, f.H-1)
	y1 := clampInt(int(y0f)+1, 0, f.H-1)

	c := f.Channels
	i00 := (y0*f.W + x0) * c
	i10 := (y0*f.W + x1) * c
	i01 := (y1*f.W + x0) * c
	i11 := (y1*f.W + x1) * c

	var out [4]float32
	for ch := 0; ch < c; ch++ {
		a := f.Data[i00+ch] + (f.Data[i10+ch]-f.Data[i00+ch])*tx
		b := f.Data[i01+ch] + (f.Data[i11+ch]-f.Data[i01+ch])*tx
		out[ch] = a + (b-a)*ty
	}
	return out
}

// DoubleField is a read/write pair of same-shaped fields. Passes sample Read,
// render into Write, then Swap.
type DoubleField struct {
	Read  *Field
	Write *Field
}

// Swap exchanges the read and write roles.
func (d *DoubleField) Swap() {
	d.Read, d.Write = d.Write, d.Read
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
