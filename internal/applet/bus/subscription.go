package bus

import (
	"errors"
	"fmt"
	"log"

	"github.com/godbus/dbus/v5"

	"github.com/location-sb/location-status/internal/models"
)

// ErrNotConnected is returned by Subscribe before a successful Connect.
var ErrNotConnected = errors.New("bus not connected")

// signalBuffer is the depth of the delivery channel handed to godbus.
const signalBuffer = 32

// Conn is the part of *dbus.Conn the subscription uses.
type Conn interface {
	AddMatchSignal(options ...dbus.MatchOption) error
	RemoveMatchSignal(options ...dbus.MatchOption) error
	Signal(ch chan<- *dbus.Signal)
	RemoveSignal(ch chan<- *dbus.Signal)
	Close() error
}

// Dialer opens a private connection to the named bus.
type Dialer func(kind string) (Conn, error)

// Dial connects to the system or session bus.
func Dial(kind string) (Conn, error) {
	var (
		conn *dbus.Conn
		err  error
	)
	switch kind {
	case models.BusSystem, "":
		conn, err = dbus.ConnectSystemBus()
	case models.BusSession:
		conn, err = dbus.ConnectSessionBus()
	default:
		return nil, fmt.Errorf("unknown bus kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Subscription owns one bus connection, its match rules and the channel
// signals are delivered on.
type Subscription struct {
	kind    string
	dial    Dialer
	conn    Conn
	signals chan *dbus.Signal
	routes  map[string]Handler
	topics  []Topic
	verbose bool
}

// NewSubscription creates an unconnected subscription. A nil dial uses Dial.
func NewSubscription(kind string, dial Dialer) *Subscription {
	if dial == nil {
		dial = Dial
	}
	return &Subscription{
		kind:   kind,
		dial:   dial,
		routes: make(map[string]Handler),
	}
}

// SetVerbose toggles logging of every dispatched signal.
func (s *Subscription) SetVerbose(v bool) {
	s.verbose = v
}

// Connect obtains the bus handle and starts signal delivery.
func (s *Subscription) Connect() error {
	if s.conn != nil {
		return nil
	}

	conn, err := s.dial(s.kind)
	if err != nil {
		return fmt.Errorf("failed to connect to %s bus: %w", s.kind, err)
	}

	s.conn = conn
	s.signals = make(chan *dbus.Signal, signalBuffer)
	conn.Signal(s.signals)
	log.Printf("[bus] Connected to %s bus", s.kind)
	return nil
}

// Connected reports whether Connect succeeded and Teardown has not run.
func (s *Subscription) Connected() bool {
	return s.conn != nil
}

// Subscribe adds a match rule for topic and routes its signals to h.
func (s *Subscription) Subscribe(topic Topic, h Handler) error {
	if s.conn == nil {
		return ErrNotConnected
	}
	if err := s.conn.AddMatchSignal(topic.matchOptions()...); err != nil {
		return fmt.Errorf("failed to add match for %s: %w", topic, err)
	}

	if _, ok := s.routes[topic.SignalName()]; !ok {
		s.topics = append(s.topics, topic)
	}
	s.routes[topic.SignalName()] = h
	log.Printf("[bus] Subscribed to %s", topic)
	return nil
}

// Signals returns the delivery channel, or nil when not connected.
func (s *Subscription) Signals() <-chan *dbus.Signal {
	if s.conn == nil {
		return nil
	}
	return s.signals
}

// Dispatch routes sig to its handler. It returns false for signals no topic
// matches so other listeners on the shared bus keep seeing them.
func (s *Subscription) Dispatch(sig *dbus.Signal) bool {
	if sig == nil {
		return false
	}

	h, ok := s.routes[sig.Name]
	if !ok {
		return false
	}

	if s.verbose {
		log.Printf("[bus] %s from %s %s: %v", sig.Name, sig.Sender, sig.Path, sig.Body)
	}
	if err := h(sig.Body); err != nil {
		log.Printf("[bus] Dropping %s from %s: %v", sig.Name, sig.Sender, err)
	}
	return true
}

// Teardown removes every match rule, stops delivery and closes the
// connection. It is safe to call repeatedly and after a failed Connect.
func (s *Subscription) Teardown() {
	if s.conn == nil {
		return
	}

	for _, topic := range s.topics {
		if err := s.conn.RemoveMatchSignal(topic.matchOptions()...); err != nil {
			log.Printf("[bus] Failed to remove match for %s: %v", topic, err)
		}
	}
	s.conn.RemoveSignal(s.signals)
	if err := s.conn.Close(); err != nil {
		log.Printf("[bus] Failed to close connection: %v", err)
	}

	s.conn = nil
	s.signals = nil
	s.topics = nil
	s.routes = make(map[string]Handler)
	log.Printf("[bus] Disconnected from %s bus", s.kind)
}
