package status

import "time"

// Snapshot is a read-only copy of the indicator state, safe to hand to
// other goroutines.
type Snapshot struct {
	DaemonRunning bool
	FixMode       FixMode
	VisualState   VisualState
	BlinkPhase    BlinkPhase
	Blinking      bool

	// Filled in by the owning component.
	BusConnected bool
	InstanceID   string
	MountedAt    time.Time
	Events       uint64
}
