// Package clock drives the fixed-rate simulation tick.
//
// A Clock never runs two callbacks at once: Manual calls them synchronously
// and Tea delivers them as messages on the bubbletea update goroutine.
package clock

import "time"

// Clock fires onTick at a fixed rate between Start and Stop.
type Clock interface {
	// Start begins ticking at rate ticks per second. Starting a running
	// clock replaces its callback and rate.
	Start(rate int, onTick func())
	// Stop halts the clock. No callback runs after Stop returns.
	Stop()
	Running() bool
}

// Interval converts a tick rate to the time between ticks.
func Interval(rate int) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Second / time.Duration(rate)
}

// Manual is a Clock advanced by hand. Tests and headless runs use it to step
// the simulation without real time passing.
type Manual struct {
	Rate   int
	Starts int
	Stops  int

	running bool
	onTick  func()
}

func (m *Manual) Start(rate int, onTick func()) {
	m.Rate = rate
	m.onTick = onTick
	m.running = true
	m.Starts++
}

func (m *Manual) Stop() {
	if !m.running {
		return
	}
	m.running = false
	m.Stops++
}

func (m *Manual) Running() bool {
	return m.running
}

// Advance fires up to n ticks and returns how many ran. It stops early when a
// callback stops the clock.
func (m *Manual) Advance(n int) int {
	ran := 0
	for ran < n && m.running {
		m.onTick()
		ran++
	}
	return ran
}
