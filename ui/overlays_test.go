package ui

import "testing"

func TestOverlayDefaults(t *testing.T) {
	reg := NewOverlayRegistry()
	for _, tt := range []struct {
		id   OverlayID
		want bool
	}{
		{OverlayRegions, false},
		{OverlayPointers, false},
		{OverlayHUD, true},
		{OverlayPerf, false},
		{OverlayControls, true},
	} {
		if got := reg.IsEnabled(tt.id); got != tt.want {
			t.Errorf("%s enabled = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestOverlayExclusive(t *testing.T) {
	reg := NewOverlayRegistry()

	if !reg.Toggle(OverlayPerf) {
		t.Fatal("toggle should enable pass timing")
	}
	if reg.IsEnabled(OverlayHUD) {
		t.Error("enabling pass timing should hide the status panel")
	}
	if !reg.IsEnabled(OverlayControls) {
		t.Error("controls are not exclusive with pass timing")
	}

	reg.SetEnabled(OverlayHUD, true)
	if reg.IsEnabled(OverlayPerf) {
		t.Error("enabling the status panel should hide pass timing")
	}

	// Disabling never touches peers.
	reg.SetEnabled(OverlayHUD, false)
	if reg.IsEnabled(OverlayPerf) || reg.IsEnabled(OverlayHUD) {
		t.Error("disabling should leave both panels off")
	}
}

func TestOverlayToggleUnknown(t *testing.T) {
	reg := NewOverlayRegistry()
	if reg.Toggle("missing") {
		t.Error("unknown overlay should not toggle on")
	}
}
