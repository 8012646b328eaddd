package app

import (
	"sync"
	"time"
)

// TickEvent is one second of a question countdown. Remaining==0 and Expired
// mark the final tick. Consumers must compare Generation against the
// attempt's current generation and drop stale events.
type TickEvent struct {
	Generation int
	Remaining  int
	Expired    bool
}

// Countdown turns wall-clock time into discrete tick events on a channel,
// one per interval, scheduled as a chain of timer callbacks. It never
// touches attempt state itself; the run loop receiving the events does.
type Countdown struct {
	interval time.Duration
	events   chan TickEvent

	mu        sync.Mutex
	timer     *time.Timer
	chain     int
	gen       int
	remaining int
	stopped   bool
}

// NewCountdown creates an idle countdown ticking once per interval.
func NewCountdown(interval time.Duration) *Countdown {
	return &Countdown{
		interval: interval,
		events:   make(chan TickEvent, 8),
	}
}

// Events is the stream the run loop selects on.
func (c *Countdown) Events() <-chan TickEvent { return c.events }

// Start begins a fresh countdown of the given length for a question
// generation, cancelling whatever was pending. Stopping the timer is not
// enough on its own: a tick callback may already be running and blocked on
// the mutex, so each chain carries a token and a callback whose token has
// been superseded returns without emitting or rescheduling.
func (c *Countdown) Start(generation, seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.chain++
	chain := c.chain
	c.gen = generation
	c.remaining = seconds
	c.timer = time.AfterFunc(c.interval, func() { c.tick(chain) })
}

// Cancel stops the pending countdown without shutting the stream down. An
// in-flight callback sees the superseded chain token and dies.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chain++
	if c.timer != nil {
		c.timer.Stop()
	}
}

// Stop shuts the countdown down for good. Ticks already scheduled become
// no-ops.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	c.chain++
	if c.timer != nil {
		c.timer.Stop()
	}
}

func (c *Countdown) tick(chain int) {
	c.mu.Lock()
	if c.stopped || chain != c.chain {
		c.mu.Unlock()
		return
	}
	c.remaining--
	ev := TickEvent{Generation: c.gen, Remaining: c.remaining, Expired: c.remaining <= 0}
	if !ev.Expired {
		c.timer = time.AfterFunc(c.interval, func() { c.tick(chain) })
	}
	c.mu.Unlock()

	select {
	case c.events <- ev:
	default:
		// drop the oldest display tick rather than block the timer
		select {
		case <-c.events:
		default:
		}
		c.events <- ev
	}
}
