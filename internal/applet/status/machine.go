package status

import "log"

// Renderer receives icon decisions. Each call affects exactly one site.
type Renderer interface {
	// ShowStatusArea shows the small icon for state and phase.
	ShowStatusArea(state VisualState, phase BlinkPhase)
	// HideStatusArea removes the small icon.
	HideStatusArea()
	// ShowMenu shows the large menu icon for state.
	ShowMenu(state VisualState)
}

// Visibility shows or hides the whole component.
type Visibility interface {
	ShowComponent()
	HideComponent()
}

// Blinker is the recurring searching timer.
type Blinker interface {
	// Start arms the timer. It returns false if it was already running.
	Start() bool
	Stop()
	Active() bool
}

// Machine maps daemon notifications onto the indicator.
type Machine struct {
	renderer Renderer
	visible  Visibility
	blink    Blinker

	running bool
	mode    FixMode
	phase   BlinkPhase
	verbose bool
}

// NewMachine creates a machine in the mount state: daemon not running,
// fix not seen, phase A.
func NewMachine(r Renderer, v Visibility, b Blinker) *Machine {
	return &Machine{
		renderer: r,
		visible:  v,
		blink:    b,
		mode:     FixNotSeen,
		phase:    SearchingA,
	}
}

// SetVerbose toggles per-event debug logging.
func (m *Machine) SetVerbose(v bool) {
	m.verbose = v
}

// Init renders the mount state: no status-area icon, a "not connected"
// menu icon and a hidden component.
func (m *Machine) Init() {
	m.renderer.HideStatusArea()
	m.renderer.ShowMenu(NotConnected)
	m.visible.HideComponent()
}

// Running handles a daemon lifecycle notification. A repeated
// Running(false) is ignored. Running(true) is always applied since a
// daemon that crashed never announces its stop.
func (m *Machine) Running(running bool) {
	if !running && !m.running {
		m.debugf("duplicate Running(false) ignored")
		return
	}

	log.Printf("[status] Location daemon running=%t", running)
	m.running = running
	// A (re)started daemon reports its fix afresh.
	m.mode = FixNotSeen
	m.phase = SearchingA
	m.blink.Stop()

	if !running {
		m.renderer.HideStatusArea()
		m.renderer.ShowMenu(NotConnected)
		m.visible.HideComponent()
		return
	}

	m.renderer.ShowStatusArea(NotConnected, m.phase)
	m.renderer.ShowMenu(NotConnected)
	m.visible.ShowComponent()
}

// FixStatusChanged handles a fix quality notification.
func (m *Machine) FixStatusChanged(mode FixMode) {
	if mode == m.mode {
		m.debugf("duplicate FixStatusChanged(%s) ignored", mode)
		return
	}
	if !m.running {
		log.Printf("[status] Ignoring fix status %s while daemon is not running", mode)
		return
	}

	prev := Derive(m.running, m.mode)
	m.mode = mode

	switch {
	case mode == FixNone:
		m.phase = SearchingA
		m.renderer.ShowStatusArea(Searching, m.phase)
		if prev == Found {
			m.renderer.ShowMenu(Searching)
		}
		if m.blink.Start() {
			m.debugf("blink started")
		}
	case mode.HasFix():
		m.blink.Stop()
		if prev != Found {
			m.renderer.ShowStatusArea(Found, m.phase)
			m.renderer.ShowMenu(Found)
		}
	default:
		// FixNotSeen cannot come from the bus
		log.Printf("[status] Unexpected fix status %s", mode)
		return
	}

	log.Printf("[status] Fix status %s (%s)", mode, Derive(m.running, m.mode))
}

// Tick advances the searching animation. When the daemon stopped or a fix
// was acquired in the meantime the blinker is cancelled instead.
func (m *Machine) Tick() {
	if !m.running || m.mode != FixNone {
		m.debugf("blink guard failed (running=%t mode=%s), stopping", m.running, m.mode)
		m.blink.Stop()
		return
	}

	m.phase = !m.phase
	m.renderer.ShowStatusArea(Searching, m.phase)
}

// State returns the current visual state.
func (m *Machine) State() VisualState {
	return Derive(m.running, m.mode)
}

// Snapshot returns the machine's observable state.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		DaemonRunning: m.running,
		FixMode:       m.mode,
		VisualState:   m.State(),
		BlinkPhase:    m.phase,
		Blinking:      m.blink.Active(),
	}
}

func (m *Machine) debugf(format string, args ...interface{}) {
	if m.verbose {
		log.Printf("[status] "+format, args...)
	}
}
