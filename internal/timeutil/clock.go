// Package timeutil abstracts the wall clock so render runs can be timed
// deterministically in tests.
package timeutil

import (
	"sync"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// Since returns the time elapsed since t.
func (RealClock) Since(t time.Time) time.Duration { return time.Since(t) }

// MockClock is a manually controlled clock for testing.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock creates a new MockClock set to the given time.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

// Now returns the mocked current time.
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Since returns the mocked time elapsed since t.
func (c *MockClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Set sets the mock clock to a specific time.
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the mock clock forward by d.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Stopwatch measures one span of work against a Clock.
type Stopwatch struct {
	clock   Clock
	started time.Time
}

// Start returns a Stopwatch started at clock.Now().
func Start(clock Clock) *Stopwatch {
	return &Stopwatch{clock: clock, started: clock.Now()}
}

// Started returns the start time.
func (s *Stopwatch) Started() time.Time { return s.started }

// Elapsed returns the time since Start, truncated to milliseconds.
func (s *Stopwatch) Elapsed() time.Duration {
	return s.clock.Since(s.started).Truncate(time.Millisecond)
}
