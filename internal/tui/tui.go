// Package tui implements the terminal monitor: a host that shows the
// indicator's two render sites and an event log in the terminal.
package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/location-sb/location-status/internal/applet"
	"github.com/location-sb/location-status/internal/applet/bus"
	"github.com/location-sb/location-status/internal/applet/indicator"
	"github.com/location-sb/location-status/internal/applet/status"
	"github.com/location-sb/location-status/internal/models"
)

// programRef is a shared reference to the tea.Program for goroutine sends.
// It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

// Run mounts an indicator component in the terminal and blocks until the
// user quits. dial may be nil to use the real bus.
func Run(settings *models.Settings, dial bus.Dialer) error {
	ref := &programRef{}
	host := &Host{send: ref.Send}

	comp, err := applet.New(applet.Options{
		Settings: settings,
		Host:     host,
		Loader:   applet.NameLoader{},
		Dial:     dial,
		OnChange: func(s status.Snapshot) { ref.Send(SnapshotMsg{Snapshot: s}) },
	})
	if err != nil {
		return err
	}

	model := NewModel(comp, indicator.ThemeFromSettings(settings.Icons), settings.Bus.Kind)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Store program reference for goroutine sends
	ref.Set(p)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		// Mount and Run share the loop goroutine
		if err := comp.Mount(); err != nil {
			ref.Send(ErrorMsg{Err: err})
		}
		comp.Run(ctx)
	}()

	_, err = p.Run()
	ref.Clear()
	cancel()
	<-done
	return err
}
