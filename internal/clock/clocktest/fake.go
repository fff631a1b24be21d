// Package clocktest provides a deterministic clock for tests.
package clocktest

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/espm/internal/clock"
)

// Fake is an advanceable clock, safe for concurrent use.
type Fake struct {
	mu      sync.Mutex
	current time.Time
}

// NewFake creates a Fake set to t.
func NewFake(t time.Time) *Fake {
	return &Fake{current: t}
}

func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Advance moves the clock forward by d.
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Set moves the clock to t.
func (c *Fake) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

var _ clock.Clock = (*Fake)(nil)
