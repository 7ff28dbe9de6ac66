// Package status implements the location indicator state machine.
//
// The Machine owns the daemon-running flag, the last reported fix mode and
// the blink phase. Every input (bus notification or blink tick) is handled
// on the caller's goroutine; callers must serialize them.
package status

import "fmt"

// FixMode is the last fix quality reported by the location daemon.
type FixMode uint8

// Fix modes as sent on the bus. FixNotSeen is never sent; it is the value
// before the first notification.
const (
	FixNotSeen FixMode = iota
	FixNone
	Fix2D
	Fix3D
)

func (m FixMode) String() string {
	switch m {
	case FixNotSeen:
		return "not-seen"
	case FixNone:
		return "no-fix"
	case Fix2D:
		return "2d"
	case Fix3D:
		return "3d"
	default:
		return fmt.Sprintf("FixMode(%d)", uint8(m))
	}
}

// HasFix reports whether the mode carries a position.
func (m FixMode) HasFix() bool {
	return m == Fix2D || m == Fix3D
}

// ParseFixMode converts a wire value into a FixMode. Only the values the
// daemon actually sends (1, 2, 3) are accepted.
func ParseFixMode(v int64) (FixMode, error) {
	if v < int64(FixNone) || v > int64(Fix3D) {
		return FixNotSeen, fmt.Errorf("fix mode %d out of range", v)
	}
	return FixMode(v), nil
}

// VisualState is the indicator state derived from the daemon state.
type VisualState uint8

const (
	NotConnected VisualState = iota
	Searching
	Found
)

func (v VisualState) String() string {
	switch v {
	case NotConnected:
		return "not-connected"
	case Searching:
		return "searching"
	case Found:
		return "found"
	default:
		return fmt.Sprintf("VisualState(%d)", uint8(v))
	}
}

// BlinkPhase selects which of the two searching glyphs is shown.
type BlinkPhase bool

const (
	SearchingA BlinkPhase = false
	SearchingB BlinkPhase = true
)

func (p BlinkPhase) String() string {
	if p == SearchingB {
		return "b"
	}
	return "a"
}

// Derive computes the visual state from the daemon inputs.
func Derive(running bool, mode FixMode) VisualState {
	switch {
	case !running:
		return NotConnected
	case mode == FixNone:
		return Searching
	case mode.HasFix():
		return Found
	default:
		return NotConnected
	}
}
