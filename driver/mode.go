package driver

// Mode selects how a tick produces its frame.
type Mode uint8

const (
	// Active runs the fluid solver every tick.
	Active Mode = iota
	// Reduced renders one static ambient frame and holds it. Entered and
	// left live as the reduced-motion preference changes.
	Reduced
	// Unavailable renders animated ambient noise. Entered when the engine
	// cannot be built or reallocated; never left.
	Unavailable
)

func (m Mode) String() string {
	switch m {
	case Active:
		return "active"
	case Reduced:
		return "reduced"
	case Unavailable:
		return "unavailable"
	}
	return "unknown"
}
