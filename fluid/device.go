package fluid

import (
	"fmt"
	"runtime"
	"sync"
)

// Capabilities describes what a device can do with float textures.
type Capabilities struct {
	FloatRenderTargets   bool // float formats usable as pass outputs (required)
	LinearFloatFiltering bool // bilinear sampling of float textures
	MaxTextureSize       int  // largest edge in texels, 0 = unbounded
}

// Device owns field memory and runs full-field passes.
type Device interface {
	Name() string
	Capabilities() Capabilities
	NewField(w, h, channels int, filter Filter) (*Field, error)
	Release(f *Field)
	// Live returns the number of fields allocated and not yet released.
	Live() int
	// Dispatch runs fn over disjoint row bands covering [0, rows) and
	// returns once every band has completed.
	Dispatch(rows int, fn func(y0, y1 int))
}

// parallelThreshold is the minimum row count to split a pass across workers.
// Below this, a single band is faster than goroutine overhead.
const parallelThreshold = 32

// CPUDevice runs passes on the host CPU, fanning rows out over goroutines.
type CPUDevice struct {
	workers int
	caps    Capabilities

	nextID uint64
	live   int
}

// CPUOption configures a CPUDevice.
type CPUOption func(*CPUDevice)

// WithWorkers sets the number of row bands per pass. Values below 1 use
// GOMAXPROCS.
func WithWorkers(n int) CPUOption {
	return func(d *CPUDevice) {
		if n >= 1 {
			d.workers = n
		}
	}
}

// WithCapabilities overrides the reported capabilities, e.g. to exercise the
// fallback path.
func WithCapabilities(c Capabilities) CPUOption {
	return func(d *CPUDevice) { d.caps = c }
}

// NewCPUDevice creates a CPU device that supports every capability.
func NewCPUDevice(opts ...CPUOption) *CPUDevice {
	d := &CPUDevice{
		workers: runtime.GOMAXPROCS(0),
		caps: Capabilities{
			FloatRenderTargets:   true,
			LinearFloatFiltering: true,
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *CPUDevice) Name() string               { return "cpu" }
func (d *CPUDevice) Capabilities() Capabilities { return d.caps }
func (d *CPUDevice) Live() int                  { return d.live }

// NewField allocates a zero-filled field.
func (d *CPUDevice) NewField(w, h, channels int, filter Filter) (*Field, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("invalid size %dx%d", w, h)
	}
	if limit := d.caps.MaxTextureSize; limit > 0 && (w > limit || h > limit) {
		return nil, fmt.Errorf("size %dx%d exceeds max texture size %d", w, h, limit)
	}
	switch channels {
	case 1, 2, 4:
	default:
		return nil, fmt.Errorf("unsupported channel count %d", channels)
	}
	d.nextID++
	d.live++
	return newField(d.nextID, w, h, channels, filter), nil
}

// Release frees a field. Releasing nil or an already released field is a no-op.
func (d *CPUDevice) Release(f *Field) {
	if f == nil || f.released {
		return
	}
	f.released = true
	f.Data = nil
	d.live--
}

// Dispatch splits rows into contiguous bands, one per worker.
func (d *CPUDevice) Dispatch(rows int, fn func(y0, y1 int)) {
	workers := d.workers
	if rows < parallelThreshold || workers <= 1 {
		fn(0, rows)
		return
	}
	if workers > rows {
		workers = rows
	}
	chunk := (rows + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < rows; start += chunk {
		end := start + chunk
		if end > rows {
			end = rows
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(start, end)
	}
	wg.Wait()
}
