// Package applet is the location status indicator: it mirrors the location
// daemon's state, received over D-Bus, into a status-area icon and a menu
// entry, and opens the location settings when the entry is activated.
package applet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"

	"github.com/location-sb/location-status/internal/applet/blink"
	"github.com/location-sb/location-status/internal/applet/bus"
	"github.com/location-sb/location-status/internal/applet/indicator"
	"github.com/location-sb/location-status/internal/applet/launcher"
	"github.com/location-sb/location-status/internal/applet/status"
	"github.com/location-sb/location-status/internal/models"
)

// Options configures a Component.
type Options struct {
	Settings *models.Settings
	Host     Host
	Loader   indicator.IconLoader

	// Dial opens the bus connection. Nil uses bus.Dial.
	Dial bus.Dialer
	// Launcher opens the settings dialog. Nil builds one from Settings.
	Launcher *launcher.Launcher
	// NewTicker creates blink tickers. Nil uses the wall clock.
	NewTicker blink.TickerFunc
	// InstanceID identifies this instance. Empty generates a UUID.
	InstanceID string
	// OnChange is called on the loop goroutine after every processed event.
	OnChange func(status.Snapshot)
}

// Component owns one indicator instance: its bus subscription, state
// machine, blink scheduler and presenter. Every input is processed on the
// goroutine running Run, one at a time.
type Component struct {
	id       string
	settings *models.Settings
	host     Host
	loader   indicator.IconLoader
	onChange func(status.Snapshot)

	presenter *indicator.Presenter
	machine   *status.Machine
	blink     *blink.Scheduler
	sub       *bus.Subscription
	launcher  *launcher.Launcher

	signals   <-chan *dbus.Signal
	activate  chan struct{}
	reload    chan *models.Settings
	mountedAt time.Time
	events    uint64

	snapshot    atomic.Pointer[status.Snapshot]
	unmountOnce sync.Once
}

// New creates an unmounted component.
func New(opts Options) (*Component, error) {
	if opts.Host == nil {
		return nil, errors.New("applet: host is required")
	}
	if opts.Loader == nil {
		return nil, errors.New("applet: icon loader is required")
	}

	settings := opts.Settings
	if settings == nil {
		settings = models.NewSettings()
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	id := opts.InstanceID
	if id == "" {
		id = uuid.NewString()
	}

	l := opts.Launcher
	if l == nil {
		l = launcher.New(settings.Launcher.Command, launcher.BeeepNotifier{AppName: "Location"}, settings.Launcher.NotifyOnFailure)
	}

	c := &Component{
		id:       id,
		settings: settings,
		host:     opts.Host,
		loader:   opts.Loader,
		onChange: opts.OnChange,
		blink:    blink.New(settings.Blink.Interval, opts.NewTicker),
		sub:      bus.NewSubscription(settings.Bus.Kind, opts.Dial),
		launcher: l,
		activate: make(chan struct{}, 1),
		reload:   make(chan *models.Settings, 1),
	}
	c.presenter = indicator.NewPresenter(opts.Loader, opts.Host, opts.Host, indicator.ThemeFromSettings(settings.Icons))
	c.machine = status.NewMachine(c.presenter, opts.Host, c.blink)
	c.setVerbose(settings.Log.Verbose)
	c.publish()
	return c, nil
}

// ID returns the instance id.
func (c *Component) ID() string {
	return c.id
}

// Mount renders the initial "not connected" state and subscribes to the
// daemon's signals. A bus failure is returned but is not fatal: the
// component stays mounted, ignores bus input and can still be activated.
func (c *Component) Mount() error {
	c.mountedAt = time.Now()
	c.presenter.SetLabel(c.settings.Menu.Label)
	c.machine.Init()
	defer c.publish()

	if err := c.sub.Connect(); err != nil {
		log.Printf("[applet] %v, continuing without daemon updates", err)
		return err
	}

	var errs []error
	if err := c.sub.Subscribe(bus.RunningTopic, bus.OnRunning(c.machine.Running)); err != nil {
		log.Printf("[applet] %v", err)
		errs = append(errs, err)
	}
	if err := c.sub.Subscribe(bus.FixStatusTopic, bus.OnFixStatus(c.machine.FixStatusChanged)); err != nil {
		log.Printf("[applet] %v", err)
		errs = append(errs, err)
	}
	c.signals = c.sub.Signals()

	log.Printf("[applet] Mounted instance %s on %s bus", c.id, c.settings.Bus.Kind)
	return errors.Join(errs...)
}

// Run processes bus signals, blink ticks, activations and settings reloads
// until ctx is done, then unmounts.
func (c *Component) Run(ctx context.Context) {
	defer c.Unmount()

	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-c.signals:
			if !ok {
				c.busLost()
				continue
			}
			c.handleSignal(sig)
		case <-c.blink.C():
			c.handleTick()
		case <-c.activate:
			c.handleActivate()
		case s := <-c.reload:
			c.applySettings(s)
		}
	}
}

// Unmount stops the blink timer, removes both bus filters and releases the
// bus connection, in that order. It runs at most once and must not be called
// while Run is still processing events; Run calls it on exit.
func (c *Component) Unmount() {
	c.unmountOnce.Do(func() {
		c.blink.Stop()
		c.sub.Teardown()
		c.signals = nil
		c.publish()
		log.Printf("[applet] Unmounted instance %s", c.id)
	})
}

// Activate requests the settings dialog. It never blocks; a click arriving
// while another is still queued is merged into it.
func (c *Component) Activate() {
	select {
	case c.activate <- struct{}{}:
	default:
	}
}

// Reload queues new settings for the loop. Only the most recent queued
// settings are applied.
func (c *Component) Reload(s *models.Settings) {
	for {
		select {
		case c.reload <- s:
			return
		default:
		}
		select {
		case <-c.reload:
		default:
		}
	}
}

// Snapshot returns the state published after the last processed event. It is
// safe to call from any goroutine.
func (c *Component) Snapshot() status.Snapshot {
	return *c.snapshot.Load()
}

func (c *Component) handleSignal(sig *dbus.Signal) {
	if c.sub.Dispatch(sig) {
		c.events++
		c.publish()
	}
}

func (c *Component) handleTick() {
	c.machine.Tick()
	c.events++
	c.publish()
}

func (c *Component) handleActivate() {
	if err := c.launcher.Launch(); err != nil {
		log.Printf("[applet] Activation failed: %v", err)
	}
}

func (c *Component) busLost() {
	log.Printf("[applet] Bus signal channel closed, no further daemon updates")
	c.signals = nil
	c.publish()
}

func (c *Component) applySettings(s *models.Settings) {
	if s == nil {
		return
	}
	if err := s.Validate(); err != nil {
		log.Printf("[applet] Ignoring invalid settings: %v", err)
		return
	}
	if s.Bus.Kind != c.settings.Bus.Kind {
		log.Printf("[applet] Bus kind change to %s applies after restart", s.Bus.Kind)
	}

	if p, ok := c.loader.(interface{ Purge() }); ok {
		p.Purge()
	}
	c.presenter.SetLabel(s.Menu.Label)
	c.presenter.SetTheme(indicator.ThemeFromSettings(s.Icons))
	c.blink.SetInterval(s.Blink.Interval)
	c.launcher.SetCommand(s.Launcher.Command, s.Launcher.NotifyOnFailure)
	c.setVerbose(s.Log.Verbose)

	c.settings = s
	log.Printf("[applet] Settings reloaded")
}

func (c *Component) setVerbose(v bool) {
	c.machine.SetVerbose(v)
	c.sub.SetVerbose(v)
}

func (c *Component) publish() {
	s := c.machine.Snapshot()
	s.BusConnected = c.signals != nil
	s.InstanceID = c.id
	s.MountedAt = c.mountedAt
	s.Events = c.events
	c.snapshot.Store(&s)

	if c.onChange != nil {
		c.onChange(s)
	}
}
