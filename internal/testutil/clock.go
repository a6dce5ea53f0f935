package testutil

import (
	"sync"
	"time"
)

// FixedClock is a thread-safe wall clock for tests that only moves when
// told to.
//
// Its Now method matches the func() time.Time clocks accepted by the
// progress tracker, so tests can pin "today".
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock frozen at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

// NewFixedClockDate creates a clock frozen at noon UTC on the given
// YYYY-MM-DD date. It panics on a malformed date.
func NewFixedClockDate(date string) *FixedClock {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic("testutil: bad date " + date)
	}
	return NewFixedClock(d.Add(12 * time.Hour))
}

// Now returns the current frozen time.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// AdvanceDays moves the clock forward by n calendar days.
func (c *FixedClock) AdvanceDays(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, n)
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
