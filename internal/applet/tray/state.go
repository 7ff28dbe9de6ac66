// Package tray hosts the indicator in the desktop system tray: the tray icon
// is the status area and a single "Location" menu entry is the menu.
package tray

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/location-sb/location-status/internal/applet/status"
)

const blankSize = 16

var (
	blankOnce sync.Once
	blankData []byte
)

// blankIcon is a fully transparent PNG. The tray cannot remove its icon, so
// clearing the status area shows this instead.
func blankIcon() []byte {
	blankOnce.Do(func() {
		var buf bytes.Buffer
		img := image.NewNRGBA(image.Rect(0, 0, blankSize, blankSize))
		if err := png.Encode(&buf, img); err == nil {
			blankData = buf.Bytes()
		}
	})
	return blankData
}

func formatTooltip(label string, snap status.Snapshot) string {
	switch snap.VisualState {
	case status.Found:
		return fmt.Sprintf("%s: %s fix", label, snap.FixMode)
	case status.Searching:
		return fmt.Sprintf("%s: searching", label)
	}
	if snap.DaemonRunning {
		return fmt.Sprintf("%s: waiting for fix", label)
	}
	if !snap.BusConnected {
		return fmt.Sprintf("%s: not connected to bus", label)
	}
	return fmt.Sprintf("%s: daemon not running", label)
}
