package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/location-sb/location-status/internal/applet/indicator"
	"github.com/location-sb/location-status/internal/applet/status"
	"github.com/location-sb/location-status/internal/models"
)

type countingActivator struct{ n int }

func (c *countingActivator) Activate() { c.n++ }

func newTestModel(a Activator) Model {
	m := NewModel(a, indicator.ThemeFromSettings(models.NewSettings().Icons), "session")
	m.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return m
}

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModelTracksRenderSites(t *testing.T) {
	m := update(t, newTestModel(&countingActivator{}),
		MenuLabelMsg{Label: "Location"},
		StatusAreaMsg{},
		MenuIconMsg{Name: "gps_not_connected"},
		VisibilityMsg{Visible: true},
		StatusAreaMsg{Name: "gps_searching", Shown: true},
	)

	if !m.areaShown || m.area != "gps_searching" {
		t.Errorf("area = %q shown=%t", m.area, m.areaShown)
	}
	if m.menu != "gps_not_connected" || m.label != "Location" || !m.visible {
		t.Errorf("menu = %q label=%q visible=%t", m.menu, m.label, m.visible)
	}
	if len(m.log) != 4 {
		t.Fatalf("log has %d lines, want 4: %v", len(m.log), m.log)
	}
	if m.log[0] != "03:04:05  status area: cleared" {
		t.Errorf("log[0] = %q", m.log[0])
	}

	view := m.View()
	for _, want := range []string{"Location status monitor", "session bus", "gps_searching", "◌", "waiting for state"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelSnapshotAndHidden(t *testing.T) {
	m := update(t, newTestModel(&countingActivator{}),
		VisibilityMsg{Visible: false},
		SnapshotMsg{Snapshot: status.Snapshot{DaemonRunning: true, FixMode: status.Fix3D, VisualState: status.Found, BusConnected: true, Events: 7}},
	)

	view := m.View()
	for _, want := range []string{"Menu (hidden)", "3d", "found", "events:"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelKeys(t *testing.T) {
	a := &countingActivator{}
	m := newTestModel(a)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if a.n != 1 || cmd != nil {
		t.Errorf("enter: activations=%d cmd=%v", a.n, cmd)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if len(m.log) != 0 {
		t.Errorf("log not cleared: %v", m.log)
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q returned %T, want tea.QuitMsg", cmd())
	}
}

func TestModelErrorAndLogBound(t *testing.T) {
	m := newTestModel(&countingActivator{})
	for i := 0; i < maxLogLines+10; i++ {
		m = update(t, m, MenuIconMsg{Name: "gps_location"})
	}
	if len(m.log) != maxLogLines {
		t.Errorf("log length = %d, want %d", len(m.log), maxLogLines)
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30}, ErrorMsg{Err: errors.New("bus unreachable")})
	if !strings.Contains(m.View(), "bus unreachable") {
		t.Error("error not shown")
	}
}

func TestGlyph(t *testing.T) {
	theme := indicator.ThemeFromSettings(models.NewSettings().Icons)
	tests := []struct {
		name string
		want string
	}{
		{"gps_location", "●"},
		{"gps_searching", "◌"},
		{"gps_not_connected", "○"},
		{"other", "?"},
	}
	for _, tt := range tests {
		if got := glyph(theme, tt.name); got != tt.want {
			t.Errorf("glyph(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestHostSendsMessages(t *testing.T) {
	var got []tea.Msg
	h := &Host{send: func(msg tea.Msg) { got = append(got, msg) }}

	h.SetStatusAreaIcon(nil)
	h.SetStatusAreaIcon(&indicator.Icon{Name: "gps_location"})
	h.SetMenuIcon(nil)
	h.SetMenuIcon(&indicator.Icon{Name: "gps_not_connected"})
	h.SetMenuLabel("Location")
	h.ShowComponent()
	h.HideComponent()

	want := []tea.Msg{
		StatusAreaMsg{},
		StatusAreaMsg{Name: "gps_location", Shown: true},
		MenuIconMsg{Name: "gps_not_connected"},
		MenuLabelMsg{Label: "Location"},
		VisibilityMsg{Visible: true},
		VisibilityMsg{Visible: false},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d messages, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("msg[%d] = %#v, want %#v", i, got[i], want[i])
		}
	}
}
