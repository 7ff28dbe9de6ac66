package applet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/require"

	"github.com/location-sb/location-status/internal/applet/blink"
	"github.com/location-sb/location-status/internal/applet/bus"
	"github.com/location-sb/location-status/internal/applet/indicator"
	"github.com/location-sb/location-status/internal/applet/launcher"
	"github.com/location-sb/location-status/internal/applet/status"
	"github.com/location-sb/location-status/internal/models"
)

// journal is an ordered log shared by the fakes so tests can assert on the
// interleaving of host, bus and timer operations.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(e string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
}

func (j *journal) all() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

func (j *journal) reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
}

type recordingHost struct{ j *journal }

func (h recordingHost) SetStatusAreaIcon(icon *indicator.Icon) {
	if icon == nil {
		h.j.add("area:none")
		return
	}
	h.j.add("area:" + icon.Name)
}
func (h recordingHost) SetMenuIcon(icon *indicator.Icon) { h.j.add("menu:" + icon.Name) }
func (h recordingHost) SetMenuLabel(label string)        { h.j.add("label:" + label) }
func (h recordingHost) ShowComponent()                   { h.j.add("show") }
func (h recordingHost) HideComponent()                   { h.j.add("hide") }

type fakeConn struct {
	j       *journal
	addErr  error
	signals chan<- *dbus.Signal
}

func (f *fakeConn) AddMatchSignal(options ...dbus.MatchOption) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.j.add("bus:add")
	return nil
}

func (f *fakeConn) RemoveMatchSignal(options ...dbus.MatchOption) error {
	f.j.add("bus:remove")
	return nil
}

func (f *fakeConn) Signal(ch chan<- *dbus.Signal) {
	f.signals = ch
}

func (f *fakeConn) RemoveSignal(ch chan<- *dbus.Signal) {
	f.j.add("bus:remove-signal")
}

func (f *fakeConn) Close() error {
	f.j.add("bus:close")
	return nil
}

type fakeTicker struct {
	j *journal
	c chan time.Time
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }
func (t *fakeTicker) Stop()               { t.j.add("ticker:stop") }

type fixture struct {
	j       *journal
	conn    *fakeConn
	tickers []*fakeTicker
	comp    *Component
	changes int
}

func newFixture(t *testing.T, dialErr error) *fixture {
	t.Helper()
	f := &fixture{j: &journal{}}
	f.conn = &fakeConn{j: f.j}

	dial := func(kind string) (bus.Conn, error) {
		if dialErr != nil {
			return nil, dialErr
		}
		return f.conn, nil
	}
	newTicker := func(d time.Duration) blink.Ticker {
		tk := &fakeTicker{j: f.j, c: make(chan time.Time, 4)}
		f.tickers = append(f.tickers, tk)
		f.j.add("ticker:start")
		return tk
	}

	comp, err := New(Options{
		Settings:   models.NewSettings(),
		Host:       recordingHost{j: f.j},
		Loader:     NameLoader{},
		Dial:       dial,
		Launcher:   launcher.New([]string{"sh", "-c", "exit 0"}, nil, false),
		NewTicker:  newTicker,
		InstanceID: "test-instance",
		OnChange:   func(status.Snapshot) { f.changes++ },
	})
	require.NoError(t, err)
	f.comp = comp
	return f
}

func runningSignal(v bool) *dbus.Signal {
	return &dbus.Signal{Name: bus.RunningTopic.SignalName(), Body: []interface{}{v}}
}

func fixSignal(v uint32) *dbus.Signal {
	return &dbus.Signal{Name: bus.FixStatusTopic.SignalName(), Body: []interface{}{v}}
}

func TestMountRendersNotConnected(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.comp.Mount())

	require.Equal(t, []string{
		"label:Location",
		"area:none",
		"menu:gps_not_connected",
		"hide",
		"bus:add",
		"bus:add",
	}, f.j.all())

	snap := f.comp.Snapshot()
	require.True(t, snap.BusConnected)
	require.Equal(t, status.NotConnected, snap.VisualState)
	require.Equal(t, status.FixNotSeen, snap.FixMode)
	require.Equal(t, "test-instance", snap.InstanceID)
	require.False(t, snap.MountedAt.IsZero())
}

func TestSearchingScenario(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.comp.Mount())
	f.j.reset()

	f.comp.handleSignal(runningSignal(true))
	f.comp.handleSignal(fixSignal(1))
	f.comp.handleTick()
	f.comp.handleTick()

	require.Equal(t, []string{
		"area:gps_not_connected",
		"show",
		"area:gps_searching",
		"ticker:start",
		"area:gps_location",
		"area:gps_searching",
	}, f.j.all())

	snap := f.comp.Snapshot()
	require.Equal(t, status.Searching, snap.VisualState)
	require.True(t, snap.Blinking)
	require.Equal(t, uint64(4), snap.Events)
}

func TestDaemonStopDuringSearch(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.comp.Mount())
	f.comp.handleSignal(runningSignal(true))
	f.comp.handleSignal(fixSignal(1))
	f.j.reset()

	f.comp.handleSignal(runningSignal(false))
	require.Equal(t, []string{"ticker:stop", "area:none", "hide"}, f.j.all())
	require.Nil(t, f.comp.blink.C())

	f.j.reset()
	f.comp.handleTick()
	require.Empty(t, f.j.all())

	snap := f.comp.Snapshot()
	require.Equal(t, status.NotConnected, snap.VisualState)
	require.False(t, snap.Blinking)
}

func TestFixFoundScenario(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.comp.Mount())
	f.comp.handleSignal(runningSignal(true))
	f.j.reset()

	f.comp.handleSignal(fixSignal(3))
	require.Equal(t, []string{"area:gps_location", "menu:gps_location"}, f.j.all())
	require.False(t, f.comp.Snapshot().Blinking)
	require.Empty(t, f.tickers)
}

func TestMalformedSignalDoesNotMutate(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.comp.Mount())
	f.comp.handleSignal(runningSignal(true))
	f.j.reset()

	f.comp.handleSignal(&dbus.Signal{Name: bus.FixStatusTopic.SignalName(), Body: []interface{}{"3d"}})
	f.comp.handleSignal(&dbus.Signal{Name: bus.FixStatusTopic.SignalName(), Body: []interface{}{uint32(9)}})
	f.comp.handleSignal(&dbus.Signal{Name: bus.RunningTopic.SignalName()})

	require.Empty(t, f.j.all())
	snap := f.comp.Snapshot()
	require.True(t, snap.DaemonRunning)
	require.Equal(t, status.FixNotSeen, snap.FixMode)
}

func TestUnrelatedSignalIgnored(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.comp.Mount())
	before := f.comp.Snapshot().Events

	f.comp.handleSignal(&dbus.Signal{Name: "org.freedesktop.DBus.NameOwnerChanged", Body: []interface{}{"a", "b", "c"}})
	require.Equal(t, before, f.comp.Snapshot().Events)
}

func TestUnmountOrder(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.comp.Mount())
	f.comp.handleSignal(runningSignal(true))
	f.comp.handleSignal(fixSignal(1))
	f.j.reset()

	f.comp.Unmount()
	f.comp.Unmount()

	require.Equal(t, []string{
		"ticker:stop",
		"bus:remove",
		"bus:remove",
		"bus:remove-signal",
		"bus:close",
	}, f.j.all())
	require.False(t, f.comp.Snapshot().BusConnected)
}

func TestMountWithoutBus(t *testing.T) {
	f := newFixture(t, errors.New("permission denied"))

	err := f.comp.Mount()
	require.Error(t, err)
	require.Contains(t, err.Error(), "permission denied")
	require.False(t, f.comp.Snapshot().BusConnected)
	require.Equal(t, status.NotConnected, f.comp.Snapshot().VisualState)

	// Activation still works
	f.comp.handleActivate()
	f.comp.launcher.Wait()
	require.Equal(t, 1, f.comp.launcher.Launches())

	// Teardown after a failed connect is harmless
	f.j.reset()
	f.comp.Unmount()
	require.Empty(t, f.j.all())
}

func TestMountSubscribeFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.conn.addErr = errors.New("match rule rejected")

	err := f.comp.Mount()
	require.Error(t, err)
	require.True(t, f.comp.Snapshot().BusConnected)
}

func TestActivateNeverBlocks(t *testing.T) {
	f := newFixture(t, nil)
	for i := 0; i < 5; i++ {
		f.comp.Activate()
	}
	require.Len(t, f.comp.activate, 1)
}

func TestReloadKeepsLatest(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.comp.Mount())
	f.comp.handleSignal(runningSignal(true))
	f.comp.handleSignal(fixSignal(2))
	f.j.reset()

	first := models.NewSettings()
	first.Menu.Label = "first"
	second := models.NewSettings()
	second.Menu.Label = "GPS"
	second.Icons.Location = "find-location"
	second.Blink.Interval = 500 * time.Millisecond

	f.comp.Reload(first)
	f.comp.Reload(second)
	require.Len(t, f.comp.reload, 1)

	f.comp.applySettings(<-f.comp.reload)
	require.Equal(t, []string{"label:GPS", "area:find-location", "menu:find-location"}, f.j.all())
	require.Equal(t, 500*time.Millisecond, f.comp.blink.Interval())
}

func TestReloadRejectsInvalid(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.comp.Mount())
	f.j.reset()

	bad := models.NewSettings()
	bad.Bus.Kind = "carrier-pigeon"
	f.comp.applySettings(bad)
	require.Empty(t, f.j.all())
}

func TestRunProcessesSignalsAndTicks(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.comp.Mount())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.comp.Run(ctx)
		close(done)
	}()

	f.conn.signals <- runningSignal(true)
	f.conn.signals <- fixSignal(1)
	require.Eventually(t, func() bool {
		return f.comp.Snapshot().Blinking
	}, time.Second, 5*time.Millisecond)

	f.tickers[0].c <- time.Now()
	require.Eventually(t, func() bool {
		return f.comp.Snapshot().BlinkPhase == status.SearchingB
	}, time.Second, 5*time.Millisecond)

	f.conn.signals <- fixSignal(3)
	require.Eventually(t, func() bool {
		return f.comp.Snapshot().VisualState == status.Found
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	entries := f.j.all()
	require.Equal(t, "bus:close", entries[len(entries)-1])
	require.False(t, f.comp.Snapshot().BusConnected)
}

func TestNewRequiresHostAndLoader(t *testing.T) {
	_, err := New(Options{Loader: NameLoader{}})
	require.Error(t, err)
	_, err = New(Options{Host: LogHost{}})
	require.Error(t, err)

	c, err := New(Options{Host: LogHost{}, Loader: NameLoader{}})
	require.NoError(t, err)
	require.Len(t, c.ID(), 36)
}
