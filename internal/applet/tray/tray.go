package tray

import (
	"log"
	"sync"

	"github.com/getlantern/systray"

	"github.com/location-sb/location-status/internal/applet/indicator"
	"github.com/location-sb/location-status/internal/applet/status"
)

// Host implements applet.Host on top of the system tray. Render calls made
// before the tray is ready are remembered and applied in onReady.
type Host struct {
	mu       sync.Mutex
	ready    bool
	areaIcon []byte
	menuIcon []byte
	label    string
	visible  bool
	tooltip  string

	locationItem *systray.MenuItem
	quitItem     *systray.MenuItem

	onActivate func()
	onQuit     func()
}

// NewHost creates a tray host. onActivate runs when the "Location" entry is
// clicked and onQuit when "Quit" is.
func NewHost(onActivate, onQuit func()) *Host {
	return &Host{
		areaIcon:   blankIcon(),
		label:      "Location",
		onActivate: onActivate,
		onQuit:     onQuit,
	}
}

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onStart is called once the tray is ready and onExit when it exits.
func (h *Host) Run(onStart, onExit func()) {
	systray.Run(func() {
		h.onReady()
		if onStart != nil {
			onStart()
		}
	}, func() {
		if onExit != nil {
			onExit()
		}
	})
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func (h *Host) onReady() {
	h.mu.Lock()
	defer h.mu.Unlock()

	systray.SetIcon(h.areaIcon)
	systray.SetTooltip(h.label)

	h.locationItem = systray.AddMenuItem(h.label, "Open location settings")
	if h.menuIcon != nil {
		h.locationItem.SetIcon(h.menuIcon)
	}
	if !h.visible {
		h.locationItem.Hide()
	}
	if h.tooltip != "" {
		systray.SetTooltip(h.tooltip)
	}

	systray.AddSeparator()
	h.quitItem = systray.AddMenuItem("Quit", "Stop the location indicator")

	h.ready = true
	go h.handleClicks(h.locationItem, h.quitItem)
}

func (h *Host) handleClicks(location, quit *systray.MenuItem) {
	for {
		select {
		case <-location.ClickedCh:
			if h.onActivate != nil {
				h.onActivate()
			}
		case <-quit.ClickedCh:
			log.Printf("[tray] Quit requested")
			if h.onQuit != nil {
				h.onQuit()
			}
			return
		}
	}
}

// SetStatusAreaIcon implements applet.Host.
func (h *Host) SetStatusAreaIcon(icon *indicator.Icon) {
	data := blankIcon()
	if icon != nil && len(icon.Data) > 0 {
		data = icon.Data
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.areaIcon = data
	if h.ready {
		systray.SetIcon(data)
	}
}

// SetMenuIcon implements applet.Host.
func (h *Host) SetMenuIcon(icon *indicator.Icon) {
	if icon == nil || len(icon.Data) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.menuIcon = icon.Data
	if h.ready {
		h.locationItem.SetIcon(icon.Data)
	}
}

// SetMenuLabel implements applet.Host.
func (h *Host) SetMenuLabel(label string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.label = label
	if h.ready {
		h.locationItem.SetTitle(label)
	}
}

// ShowComponent implements applet.Host.
func (h *Host) ShowComponent() {
	h.setVisible(true)
}

// HideComponent implements applet.Host.
func (h *Host) HideComponent() {
	h.setVisible(false)
}

func (h *Host) setVisible(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visible = v
	if !h.ready {
		return
	}
	if v {
		h.locationItem.Show()
	} else {
		h.locationItem.Hide()
	}
}

// Update refreshes the tooltip from a component snapshot.
func (h *Host) Update(snap status.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	tip := formatTooltip(h.label, snap)
	if tip == h.tooltip {
		return
	}
	h.tooltip = tip
	if h.ready {
		systray.SetTooltip(tip)
	}
}
