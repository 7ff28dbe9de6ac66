package tray

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/location-sb/location-status/internal/applet/indicator"
	"github.com/location-sb/location-status/internal/applet/status"
)

func TestBlankIconIsTransparent(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(blankIcon()))
	if err != nil {
		t.Fatalf("blank icon does not decode: %v", err)
	}
	if img.Bounds().Dx() != blankSize {
		t.Errorf("width = %d, want %d", img.Bounds().Dx(), blankSize)
	}
	if _, _, _, a := img.At(3, 3).RGBA(); a != 0 {
		t.Errorf("alpha = %d, want 0", a)
	}
}

func TestFormatTooltip(t *testing.T) {
	tests := []struct {
		name string
		snap status.Snapshot
		want string
	}{
		{"no bus", status.Snapshot{}, "Location: not connected to bus"},
		{"daemon stopped", status.Snapshot{BusConnected: true}, "Location: daemon not running"},
		{"waiting", status.Snapshot{BusConnected: true, DaemonRunning: true}, "Location: waiting for fix"},
		{"searching", status.Snapshot{BusConnected: true, DaemonRunning: true, FixMode: status.FixNone, VisualState: status.Searching}, "Location: searching"},
		{"3d", status.Snapshot{BusConnected: true, DaemonRunning: true, FixMode: status.Fix3D, VisualState: status.Found}, "Location: 3d fix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatTooltip("Location", tt.snap); got != tt.want {
				t.Errorf("formatTooltip() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHostBuffersBeforeReady(t *testing.T) {
	h := NewHost(nil, nil)

	h.SetStatusAreaIcon(&indicator.Icon{Name: "gps_location", Data: []byte{1, 2, 3}})
	h.SetMenuIcon(&indicator.Icon{Name: "gps_location", Data: []byte{4}})
	h.SetMenuLabel("GPS")
	h.ShowComponent()
	h.Update(status.Snapshot{BusConnected: true})

	if !bytes.Equal(h.areaIcon, []byte{1, 2, 3}) || !bytes.Equal(h.menuIcon, []byte{4}) {
		t.Errorf("icons not buffered: %v %v", h.areaIcon, h.menuIcon)
	}
	if h.label != "GPS" || !h.visible || h.tooltip != "GPS: daemon not running" {
		t.Errorf("label=%q visible=%t tooltip=%q", h.label, h.visible, h.tooltip)
	}

	h.SetStatusAreaIcon(nil)
	if !bytes.Equal(h.areaIcon, blankIcon()) {
		t.Error("clearing the status area should show the blank icon")
	}
}
