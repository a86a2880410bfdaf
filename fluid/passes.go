package fluid

import "fmt"

// Slot names a field binding of a pass.
type Slot uint8

const (
	SlotVelocity Slot = iota
	SlotDensity
	SlotPressure
	SlotDivergence
	SlotCurl
	slotCount
)

var slotNames = [slotCount]string{"velocity", "density", "pressure", "divergence", "curl"}

func (s Slot) String() string {
	if s < slotCount {
		return slotNames[s]
	}
	return fmt.Sprintf("slot(%d)", uint8(s))
}

// PassID identifies an entry in the pass table.
type PassID uint8

const (
	PassAdvectVelocity PassID = iota
	PassCurl
	PassVorticity
	PassBuoyancy
	PassAdvectDensity
	PassDivergence
	PassClearPressure
	PassPressure
	PassGradient
	PassSplatVelocity
	PassSplatDensity
	passCount
)

func (id PassID) String() string {
	if id < passCount {
		return passTable[id].Name
	}
	return fmt.Sprintf("pass(%d)", uint8(id))
}

// kernel computes output rows [y0, y1) from the bound inputs.
type kernel func(in []*Field, out *Field, u *uniforms, y0, y1 int)

// PassDesc declares the bindings of one full-field pass. Inputs are sampled
// from their read buffers; Output is rendered into its write buffer and
// swapped afterwards when the slot is double-buffered.
type PassDesc struct {
	Name   string
	Inputs []Slot
	Output Slot
	kernel kernel
}

// uniforms carries per-dispatch parameters. Each pass reads only the members
// it needs.
type uniforms struct {
	dt          float64
	dissipation float32
	margin      float64

	curl     float32
	buoyancy float32
	upDrift  float32
	decay    float32

	point  [2]float64 // y-up
	color  [4]float32 // added per channel, scaled by influence
	radius float64
	aspect float64
}

var passTable = [passCount]PassDesc{
	PassAdvectVelocity: {Name: "advect_velocity", Inputs: []Slot{SlotVelocity, SlotVelocity}, Output: SlotVelocity, kernel: advectKernel},
	PassCurl:           {Name: "curl", Inputs: []Slot{SlotVelocity}, Output: SlotCurl, kernel: curlKernel},
	PassVorticity:      {Name: "vorticity", Inputs: []Slot{SlotVelocity, SlotCurl}, Output: SlotVelocity, kernel: vorticityKernel},
	PassBuoyancy:       {Name: "buoyancy", Inputs: []Slot{SlotVelocity, SlotDensity}, Output: SlotVelocity, kernel: buoyancyKernel},
	PassAdvectDensity:  {Name: "advect_density", Inputs: []Slot{SlotVelocity, SlotDensity}, Output: SlotDensity, kernel: advectKernel},
	PassDivergence:     {Name: "divergence", Inputs: []Slot{SlotVelocity}, Output: SlotDivergence, kernel: divergenceKernel},
	PassClearPressure:  {Name: "clear_pressure", Output: SlotPressure, kernel: clearKernel},
	PassPressure:       {Name: "pressure", Inputs: []Slot{SlotPressure, SlotDivergence}, Output: SlotPressure, kernel: jacobiKernel},
	PassGradient:       {Name: "gradient", Inputs: []Slot{SlotPressure, SlotVelocity}, Output: SlotVelocity, kernel: gradientKernel},
	PassSplatVelocity:  {Name: "splat_velocity", Inputs: []Slot{SlotVelocity}, Output: SlotVelocity, kernel: splatKernel},
	PassSplatDensity:   {Name: "splat_density", Inputs: []Slot{SlotDensity}, Output: SlotDensity, kernel: splatKernel},
}

// Passes returns a copy of the pass table in pipeline order.
func Passes() []PassDesc {
	out := make([]PassDesc, passCount)
	copy(out, passTable[:])
	return out
}

// source returns the buffer a pass samples for slot.
func (s *storage) source(slot Slot) *Field {
	switch slot {
	case SlotVelocity:
		return s.velocity.Read
	case SlotDensity:
		return s.density.Read
	case SlotPressure:
		return s.pressure.Read
	case SlotDivergence:
		return s.divergence
	case SlotCurl:
		return s.curl
	}
	panic(fmt.Sprintf("fluid: unknown slot %d", slot))
}

// target returns the buffer a pass renders into for slot.
func (s *storage) target(slot Slot) *Field {
	switch slot {
	case SlotVelocity:
		return s.velocity.Write
	case SlotDensity:
		return s.density.Write
	case SlotPressure:
		return s.pressure.Write
	}
	return s.source(slot)
}

// commit publishes a pass output by swapping double-buffered slots.
func (s *storage) commit(slot Slot) {
	switch slot {
	case SlotVelocity:
		s.velocity.Swap()
	case SlotDensity:
		s.density.Swap()
	case SlotPressure:
		s.pressure.Swap()
	}
}

// dispatcher binds pass slots to the current storage generation and runs
// kernels on the device.
type dispatcher struct {
	dev  Device
	st   *storage
	hook func(name string)

	bound []*Field
	runs  [passCount]uint64
}

// run executes one pass. It panics if the pass would sample the buffer it
// writes; that is a pass table bug, not a runtime condition.
func (d *dispatcher) run(id PassID, u *uniforms) {
	desc := &passTable[id]
	out := d.st.target(desc.Output)

	d.bound = d.bound[:0]
	for _, slot := range desc.Inputs {
		f := d.st.source(slot)
		if f == out {
			panic(fmt.Sprintf("fluid: pass %s samples its own output %s", desc.Name, slot))
		}
		d.bound = append(d.bound, f)
	}

	if d.hook != nil {
		d.hook(desc.Name)
	}
	in := d.bound
	d.dev.Dispatch(out.H, func(y0, y1 int) {
		desc.kernel(in, out, u, y0, y1)
	})
	d.st.commit(desc.Output)
	d.runs[id]++
}

// mark reports a non-pass phase to the hook.
func (d *dispatcher) mark(name string) {
	if d.hook != nil {
		d.hook(name)
	}
}
