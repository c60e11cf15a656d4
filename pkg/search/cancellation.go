package search

import (
	"time"

	"go.uber.org/atomic"
)

// NodesCheckInterval is how often (in nodes searched) the search polls its
// Cancellation for a stop signal. Checking every node would be needlessly
// expensive; checking too rarely blows the time budget.
const NodesCheckInterval = 2048

// Cancellation is a shared, thread-safe stop signal plus deadline, usable
// across lazy-SMP helper threads. Once Stop is set, every subsequent
// ShouldStop call returns true forever until Reset is called for a new
// search.
type Cancellation struct {
	stop     atomic.Bool
	deadline atomic.Int64 // UnixNano; 0 == no deadline
}

// NewCancellation creates a Cancellation with no deadline and not stopped.
func NewCancellation() *Cancellation {
	return &Cancellation{}
}

// Reset clears the stop flag and sets a new deadline (zero for none).
func (c *Cancellation) Reset(deadline time.Time) {
	c.stop.Store(false)
	if deadline.IsZero() {
		c.deadline.Store(0)
	} else {
		c.deadline.Store(deadline.UnixNano())
	}
}

// Stop asynchronously requests cancellation.
func (c *Cancellation) Stop() {
	c.stop.Store(true)
}

// ShouldStop reports whether the search must halt now: either Stop was
// called, or the deadline has passed.
func (c *Cancellation) ShouldStop() bool {
	if c.stop.Load() {
		return true
	}
	if d := c.deadline.Load(); d != 0 && time.Now().UnixNano() >= d {
		c.stop.Store(true)
		return true
	}
	return false
}
