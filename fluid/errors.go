package fluid

import (
	"errors"
	"fmt"
)

// Construction errors. Both are fatal to the engine instance; the caller is
// expected to switch to the degraded rendering path.
var (
	// ErrCapability indicates the device lacks a feature the solver needs.
	ErrCapability = errors.New("fluid: required device capability unavailable")

	// ErrResource indicates a field allocation failed.
	ErrResource = errors.New("fluid: resource allocation failed")

	// ErrDisposed is returned by operations that report errors once the
	// engine has been disposed. Per-frame operations stay silent instead.
	ErrDisposed = errors.New("fluid: engine disposed")
)

// CapabilityError reports which capability was missing on which device.
type CapabilityError struct {
	Device  string
	Missing string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("fluid: device %q lacks %s", e.Device, e.Missing)
}

func (e *CapabilityError) Unwrap() error { return ErrCapability }

// ResourceError wraps a failed allocation with the requested shape.
type ResourceError struct {
	Op   string
	W, H int
	Err  error
}

func (e *ResourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fluid: %s %dx%d failed", e.Op, e.W, e.H)
	}
	return fmt.Sprintf("fluid: %s %dx%d: %v", e.Op, e.W, e.H, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is.
func (e *ResourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrResource}
	}
	return []error{ErrResource, e.Err}
}
