package status

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// recorder captures every renderer, visibility and blinker call.
type recorder struct {
	calls   []string
	active  bool
	starts  int
	stops   int
	visible bool
}

func (r *recorder) ShowStatusArea(state VisualState, phase BlinkPhase) {
	r.calls = append(r.calls, fmt.Sprintf("area:%s/%s", state, phase))
}

func (r *recorder) HideStatusArea() { r.calls = append(r.calls, "area:hide") }

func (r *recorder) ShowMenu(state VisualState) {
	r.calls = append(r.calls, fmt.Sprintf("menu:%s", state))
}

func (r *recorder) ShowComponent() { r.visible = true }
func (r *recorder) HideComponent() { r.visible = false }

func (r *recorder) Start() bool {
	if r.active {
		return false
	}
	r.active = true
	r.starts++
	return true
}

func (r *recorder) Stop() {
	if r.active {
		r.stops++
	}
	r.active = false
}

func (r *recorder) Active() bool { return r.active }

func (r *recorder) reset() { r.calls = nil }

func newTestMachine() (*Machine, *recorder) {
	r := &recorder{}
	m := NewMachine(r, r, r)
	return m, r
}

func TestInitRendersNotConnected(t *testing.T) {
	m, r := newTestMachine()
	m.Init()

	require.Equal(t, []string{"area:hide", "menu:not-connected"}, r.calls)
	require.False(t, r.visible)
	require.Equal(t, NotConnected, m.State())
	require.Equal(t, Snapshot{FixMode: FixNotSeen, VisualState: NotConnected}, m.Snapshot())
}

func TestSearchingBlinkAlternatesStatusAreaOnly(t *testing.T) {
	m, r := newTestMachine()
	m.Running(true)
	require.True(t, r.visible)
	require.Equal(t, []string{"area:not-connected/a", "menu:not-connected"}, r.calls)
	r.reset()

	m.FixStatusChanged(FixNone)
	m.Tick()
	m.Tick()

	require.Equal(t, []string{
		"area:searching/a",
		"area:searching/b",
		"area:searching/a",
	}, r.calls)
	require.Equal(t, Searching, m.State())
	require.True(t, r.active)
}

func TestFixFoundShowsLocationAtBothSites(t *testing.T) {
	m, r := newTestMachine()
	m.Running(true)
	r.reset()

	m.FixStatusChanged(Fix3D)

	require.Equal(t, []string{"area:found/a", "menu:found"}, r.calls)
	require.Equal(t, Found, m.State())
	require.False(t, r.active)
	require.Zero(t, r.starts)
}

func TestDaemonStopDuringSearch(t *testing.T) {
	m, r := newTestMachine()
	m.Running(true)
	m.FixStatusChanged(FixNone)
	r.reset()

	m.Running(false)
	require.Equal(t, []string{"area:hide", "menu:not-connected"}, r.calls)
	require.False(t, r.active)
	require.False(t, r.visible)
	r.reset()

	// A tick already in flight must be a no-op.
	m.Tick()
	require.Empty(t, r.calls)
	require.False(t, r.active)
	require.Equal(t, NotConnected, m.State())
}

func TestDuplicateNoFixIsNoOp(t *testing.T) {
	m, r := newTestMachine()
	m.Running(true)
	r.reset()

	m.FixStatusChanged(FixNone)
	before := m.Snapshot()
	m.FixStatusChanged(FixNone)

	require.Len(t, r.calls, 1)
	require.Equal(t, 1, r.starts)
	require.Equal(t, before, m.Snapshot())
}

func TestDuplicateFixDoesNotTouchBlinkPhase(t *testing.T) {
	m, r := newTestMachine()
	m.Running(true)
	m.FixStatusChanged(FixNone)
	m.Tick()
	r.reset()

	m.FixStatusChanged(FixNone)

	require.Empty(t, r.calls)
	require.Equal(t, SearchingB, m.Snapshot().BlinkPhase)
}

func TestFoundStopsBlinkingUntilNextNoFix(t *testing.T) {
	m, r := newTestMachine()
	m.Running(true)
	m.FixStatusChanged(FixNone)
	require.True(t, r.active)

	m.FixStatusChanged(Fix2D)
	require.False(t, r.active)
	r.reset()

	// Stale tick after the fix: cancelled, nothing rendered.
	m.Tick()
	require.Empty(t, r.calls)

	m.FixStatusChanged(FixNone)
	require.True(t, r.active)
	require.Equal(t, 2, r.starts)
	require.Equal(t, []string{"area:searching/a", "menu:searching"}, r.calls)
}

func TestFixUpgradeDoesNotRerender(t *testing.T) {
	m, r := newTestMachine()
	m.Running(true)
	m.FixStatusChanged(Fix2D)
	r.reset()

	m.FixStatusChanged(Fix3D)

	require.Empty(t, r.calls)
	require.Equal(t, Fix3D, m.Snapshot().FixMode)
}

func TestFixIgnoredWhileDaemonStopped(t *testing.T) {
	m, r := newTestMachine()
	m.Init()
	r.reset()

	m.FixStatusChanged(FixNone)

	require.Empty(t, r.calls)
	require.False(t, r.active)
	require.Equal(t, FixNotSeen, m.Snapshot().FixMode)
}

func TestDuplicateRunningFalseIsNoOp(t *testing.T) {
	m, r := newTestMachine()
	m.Running(true)
	m.Running(false)
	r.reset()

	m.Running(false)

	require.Empty(t, r.calls)
	require.False(t, r.visible)
	require.Equal(t, NotConnected, m.State())
}

func TestRepeatedRunningTrueResetsIndicator(t *testing.T) {
	tests := []struct {
		name string
		mode FixMode
	}{
		{"after fix", Fix3D},
		{"while searching", FixNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, r := newTestMachine()
			m.Running(true)
			m.FixStatusChanged(tt.mode)
			r.reset()

			m.Running(true)

			require.Equal(t, []string{"area:not-connected/a", "menu:not-connected"}, r.calls)
			require.True(t, r.visible)
			require.False(t, r.active)
			require.Equal(t, NotConnected, m.State())
			require.Equal(t, FixNotSeen, m.Snapshot().FixMode)

			r.reset()
			m.FixStatusChanged(Fix3D)
			require.Equal(t, []string{"area:found/a", "menu:found"}, r.calls)
		})
	}
}

func TestDaemonRestartResetsFixMode(t *testing.T) {
	m, r := newTestMachine()
	m.Running(true)
	m.FixStatusChanged(Fix3D)
	m.Running(false)
	m.Running(true)
	r.reset()

	// Same mode as before the restart must not be swallowed.
	m.FixStatusChanged(Fix3D)
	require.Equal(t, []string{"area:found/a", "menu:found"}, r.calls)
}

func TestNotConnectedWheneverDaemonStopped(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	modes := []FixMode{FixNone, Fix2D, Fix3D}

	for run := 0; run < 200; run++ {
		m, r := newTestMachine()
		m.Init()
		lastRunning := false

		for step := 0; step < 30; step++ {
			switch rng.Intn(3) {
			case 0:
				lastRunning = rng.Intn(2) == 0
				m.Running(lastRunning)
			case 1:
				m.FixStatusChanged(modes[rng.Intn(len(modes))])
			default:
				if r.active {
					m.Tick()
				}
			}

			if !lastRunning {
				require.Equal(t, NotConnected, m.State())
				require.False(t, r.active, "blinker active while daemon stopped")
			}
			if m.State() == Found {
				require.False(t, r.active, "blinker active after fix found")
			}
			require.LessOrEqual(t, r.starts-r.stops, 1, "more than one blinker active")
		}
	}
}
