// Package clock abstracts wall-clock access so deadline and delivery
// timestamps stay deterministic under test.
package clock

import "time"

// Clock yields the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// System returns a Clock backed by time.Now.
func System() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}
