// Package blink provides the recurring timer that drives the searching
// animation of the status-area icon.
package blink

import (
	"log"
	"time"
)

// DefaultInterval is the blink period.
const DefaultInterval = time.Second

// Ticker is the subset of *time.Ticker the scheduler needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type stdTicker struct {
	t *time.Ticker
}

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

// NewStdTicker wraps time.NewTicker.
func NewStdTicker(d time.Duration) Ticker {
	return stdTicker{t: time.NewTicker(d)}
}

// Scheduler owns at most one ticker. It is not safe for concurrent use:
// the owning event loop calls Start, Stop and C from one goroutine and
// selects on C, so a stopped scheduler can never deliver a tick.
type Scheduler struct {
	interval  time.Duration
	newTicker TickerFunc
	ticker    Ticker
	starts    int
}

// New creates a stopped scheduler. A nil newTicker uses the wall clock.
func New(interval time.Duration, newTicker TickerFunc) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if newTicker == nil {
		newTicker = NewStdTicker
	}
	return &Scheduler{
		interval:  interval,
		newTicker: newTicker,
	}
}

// Start arms the ticker unless it is already running.
func (s *Scheduler) Start() bool {
	if s.ticker != nil {
		return false
	}
	s.ticker = s.newTicker(s.interval)
	s.starts++
	return true
}

// Stop cancels the ticker. Safe to call when stopped.
func (s *Scheduler) Stop() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	s.ticker = nil
}

// Active reports whether the ticker is armed.
func (s *Scheduler) Active() bool {
	return s.ticker != nil
}

// C returns the tick channel, or nil while stopped. Receiving from a nil
// channel blocks forever, which disables the select case.
func (s *Scheduler) C() <-chan time.Time {
	if s.ticker == nil {
		return nil
	}
	return s.ticker.C()
}

// SetInterval changes the period. A running ticker keeps its period until
// the next Start.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d <= 0 || d == s.interval {
		return
	}
	log.Printf("[blink] Interval changed %s -> %s", s.interval, d)
	s.interval = d
}

// Interval returns the configured period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Starts returns how many times the ticker was armed.
func (s *Scheduler) Starts() int {
	return s.starts
}
