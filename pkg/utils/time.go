package utils

import "time"

// Clock returns the current time. Production code uses SystemClock.
type Clock func() time.Time

// SystemClock returns the current UTC time
func SystemClock() time.Time {
	return time.Now().UTC()
}
