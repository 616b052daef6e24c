package eighth

import "time"

// Clock supplies the current time to the admission controller and the
// block graph.  Business logic never reads the wall clock directly;
// tests substitute a fixed clock.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

// Now returns the current time in UTC.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock is a Clock pinned to a single instant, for tests.
type FixedClock struct{ T time.Time }

// Now returns the pinned instant.
func (c FixedClock) Now() time.Time { return c.T }
