package fluid

import "math"

// storage is one generation of simulation fields, sized for a single surface
// resolution. A resize discards the whole generation.
type storage struct {
	dev Device

	velocity   DoubleField // 2ch
	density    DoubleField // 4ch, alpha = smoke
	pressure   DoubleField // 1ch
	divergence *Field      // 1ch scratch
	curl       *Field      // 1ch scratch

	// pixW, pixH is the surface size this generation was allocated for.
	pixW, pixH int
}

// gridSize converts a surface size to grid dimensions, at least 1 texel per axis.
func gridSize(pixW, pixH int, scale float64) (int, int) {
	w := int(math.Floor(float64(pixW) * scale))
	h := int(math.Floor(float64(pixH) * scale))
	return max(w, 1), max(h, 1)
}

// allocate creates every field for the given surface size. On failure all
// fields allocated so far are released and s is left empty.
func (s *storage) allocate(pixW, pixH int, p Params) error {
	w, h := gridSize(pixW, pixH, p.SimScale)

	linear := FilterNearest
	if s.dev.Capabilities().LinearFloatFiltering {
		linear = FilterLinear
	}

	specs := []struct {
		dst      **Field
		channels int
		filter   Filter
	}{
		{&s.velocity.Read, 2, linear},
		{&s.velocity.Write, 2, linear},
		{&s.density.Read, 4, linear},
		{&s.density.Write, 4, linear},
		{&s.pressure.Read, 1, FilterNearest},
		{&s.pressure.Write, 1, FilterNearest},
		{&s.divergence, 1, FilterNearest},
		{&s.curl, 1, FilterNearest},
	}
	for _, spec := range specs {
		f, err := s.dev.NewField(w, h, spec.channels, spec.filter)
		if err != nil {
			s.release()
			return &ResourceError{Op: "allocate field", W: w, H: h, Err: err}
		}
		*spec.dst = f
	}

	base := float32(p.BaseNoise)
	s.density.Read.Fill(base, base, base, 1)
	s.density.Write.Fill(base, base, base, 1)
	s.pixW, s.pixH = pixW, pixH
	return nil
}

// fields returns every field of the generation, nil entries included.
func (s *storage) fields() []*Field {
	return []*Field{
		s.velocity.Read, s.velocity.Write,
		s.density.Read, s.density.Write,
		s.pressure.Read, s.pressure.Write,
		s.divergence, s.curl,
	}
}

// release returns every field to the device. Safe to call repeatedly.
func (s *storage) release() {
	for _, f := range s.fields() {
		s.dev.Release(f)
	}
	*s = storage{dev: s.dev}
}

func (s *storage) allocated() bool { return s.density.Read != nil }

// gridW and gridH report the current grid dimensions, 0 when empty.
func (s *storage) gridW() int {
	if s.density.Read == nil {
		return 0
	}
	return s.density.Read.W
}

func (s *storage) gridH() int {
	if s.density.Read == nil {
		return 0
	}
	return s.density.Read.H
}
