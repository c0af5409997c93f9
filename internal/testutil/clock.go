package testutil

import "time"

// FixedClock returns a now() func pinned to the given instant.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
